package models

// Vehicle 表示车辆信息
// 车辆的预订/租赁管理由外部模块负责，这里只保留
// SOS触发和证据存储关联车辆所需的最小字段
type Vehicle struct {
	BaseModel
	DriverName string `gorm:"type:varchar(50)" json:"driver_name"`
	CarModel   string `gorm:"type:varchar(50)" json:"car_model"`
	CarNumber  string `gorm:"type:varchar(20);uniqueIndex" json:"car_number"`
	CarType    string `gorm:"type:varchar(20)" json:"car_type"`
	Status     string `gorm:"type:varchar(20);default:'available'" json:"status"`
}
