package models

// User 表示骑行用户
// 用户资料（含家庭住址坐标）由外部的用户模块维护，
// 报警引擎只读取其中的家庭住址用于位置条件判断
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(50);not null" json:"name"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"type:varchar(20);not null" json:"phone"`
	Password string `gorm:"type:varchar(100);not null" json:"-"` // bcrypt哈希
	Gender   string `gorm:"type:varchar(10)" json:"gender"`

	// 家庭住址坐标，可为空表示用户未设置
	HomeLatitude  *float64 `json:"home_latitude,omitempty"`
	HomeLongitude *float64 `json:"home_longitude,omitempty"`
}

// HomeLocation 返回用户的家庭住址坐标，未设置时返回nil
func (u *User) HomeLocation() *Coordinate {
	if u.HomeLatitude == nil || u.HomeLongitude == nil {
		return nil
	}
	return &Coordinate{
		Latitude:  *u.HomeLatitude,
		Longitude: *u.HomeLongitude,
	}
}
