package models

// SecureMedia 表示一条加密存储的音视频证据记录
// file_path 指向的文件只保存密文，明文从不落盘；
// 每次访问都重新校验密码和归属，不缓存任何"已解锁"状态
type SecureMedia struct {
	BaseModel
	UserID    uint   `gorm:"index;not null" json:"user_id"` // 记录归属者
	VehicleID *uint  `json:"vehicle_id,omitempty"`
	FilePath  string `gorm:"type:varchar(255);uniqueIndex;not null" json:"file_path"`

	// argon2id 口令校验串（PHC格式，盐随校验串一同存储）
	PasswordHash string `gorm:"type:varchar(128);not null" json:"-"`

	CameraType string `gorm:"type:varchar(20)" json:"camera_type"` // 如：front、rear、cab
	Location   string `gorm:"type:varchar(100)" json:"location,omitempty"`
}
