package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// 条件枚举值
const (
	// 位置条件：远离家庭住址
	LocationConditionAway = "away"

	// 时间条件：在时间窗口内/外
	TimeConditionInside  = "inside"
	TimeConditionOutside = "outside"

	// 速度条件：高于/低于阈值
	SpeedConditionAbove = "above"
	SpeedConditionBelow = "below"
)

// EmergencyContact 紧急联系人
type EmergencyContact struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// ContactList 以JSON列形式持久化的联系人列表
type ContactList []EmergencyContact

// Value 实现 driver.Valuer，序列化为JSON存储
func (l ContactList) Value() (driver.Value, error) {
	if l == nil {
		l = ContactList{}
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner，从JSON列反序列化
func (l *ContactList) Scan(value interface{}) error {
	if value == nil {
		*l = ContactList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("无法将数据库值解析为联系人列表")
	}

	if len(data) == 0 {
		*l = ContactList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// EmergencyCondition 表示用户配置的紧急报警条件
// 每个用户至多存在一条生效配置（user_id唯一索引），
// 保存新配置时在事务内先删后插，整体替换旧配置
type EmergencyCondition struct {
	BaseModel
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	// 位置条件：当前位置距家庭住址超过阈值（公里）时触发
	DistanceThreshold float64 `gorm:"not null;default:0" json:"distance_threshold"`
	LocationCondition string  `gorm:"type:varchar(20)" json:"location_condition"`
	SpecificLocation  string  `gorm:"type:varchar(100)" json:"specific_location,omitempty"`

	// 时间条件：HH:MM（24小时制）
	TimeStart     string `gorm:"type:varchar(5)" json:"time_start"`
	TimeEnd       string `gorm:"type:varchar(5)" json:"time_end"`
	TimeCondition string `gorm:"type:varchar(20)" json:"time_condition"`

	// 速度条件
	SpeedThreshold float64 `gorm:"not null;default:0" json:"speed_threshold"`
	SpeedCondition string  `gorm:"type:varchar(20)" json:"speed_condition"`

	// 紧急联系人列表，按配置顺序通知
	EmergencyContacts ContactList `gorm:"type:json" json:"emergency_contacts"`
}
