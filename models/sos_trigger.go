package models

import "time"

// SOSTrigger 表示一次SOS求救触发事件
// 事件只增不改不删，供滑动窗口聚合统计使用
type SOSTrigger struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_sos_user_time;not null" json:"user_id"`
	VehicleID *uint     `json:"vehicle_id,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed"`
	Timestamp time.Time `gorm:"index:idx_sos_user_time" json:"timestamp"` // 事件发生时间
	IsPremium bool      `gorm:"default:false" json:"is_premium"`
	CreatedAt time.Time `json:"created_at"`
}
