package utils

import "math"

// earthRadiusKm 地球平均半径（公里）
const earthRadiusKm = 6371.0

// HaversineDistance 计算两个经纬度坐标之间的大圆距离（公里）
// 纯函数，无副作用；相同坐标返回0
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)

	// a 理论上落在[0,1]，浮点误差可能略微越界，夹紧保证Sqrt稳定
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
