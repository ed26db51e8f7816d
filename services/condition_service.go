package services

import (
	"errors"
	"fmt"
	"time"

	"ridesafe-http-service/config"
	"ridesafe-http-service/models"

	"gorm.io/gorm"
)

// ErrConditionInvalid 报警条件配置校验失败
var ErrConditionInvalid = errors.New("报警条件配置无效")

// 默认的报警条件，与用户注册时一同初始化：
// 离家10公里、22:00-06:00窗口之外、车速高于120
const (
	defaultDistanceThreshold = 10
	defaultTimeStart         = "22:00"
	defaultTimeEnd           = "06:00"
	defaultSpeedThreshold    = 120
)

// InterfaceConditionService 定义紧急条件配置服务接口
type InterfaceConditionService interface {
	SaveConditions(cond *models.EmergencyCondition) error
	GetConditions(userID uint) (*models.EmergencyCondition, error)
	GetHomeLocation(userID uint) (*models.Coordinate, error)
	EnsureDefaultConditions(userID uint) error
}

// ConditionService 管理每个用户的紧急报警条件配置
type ConditionService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService // 可为nil，不启用缓存
}

// NewConditionService 创建紧急条件配置服务
func NewConditionService(db *gorm.DB, cfg *config.Config, redisService InterfaceRedisService) InterfaceConditionService {
	return &ConditionService{
		DB:     db,
		Config: cfg,
		Redis:  redisService,
	}
}

// validateConditions 对条件配置做语义校验，非法配置在进入评估器之前被拒绝
func validateConditions(cond *models.EmergencyCondition) error {
	if cond.UserID == 0 {
		return fmt.Errorf("%w: 缺少用户ID", ErrConditionInvalid)
	}
	if cond.DistanceThreshold < 0 {
		return fmt.Errorf("%w: 距离阈值不能为负", ErrConditionInvalid)
	}
	if cond.SpeedThreshold < 0 {
		return fmt.Errorf("%w: 速度阈值不能为负", ErrConditionInvalid)
	}

	if cond.LocationCondition != "" && cond.LocationCondition != models.LocationConditionAway {
		return fmt.Errorf("%w: 未知的位置条件 %q", ErrConditionInvalid, cond.LocationCondition)
	}

	if cond.TimeCondition != "" {
		if cond.TimeCondition != models.TimeConditionInside && cond.TimeCondition != models.TimeConditionOutside {
			return fmt.Errorf("%w: 未知的时间条件 %q", ErrConditionInvalid, cond.TimeCondition)
		}
		if _, err := time.Parse("15:04", cond.TimeStart); err != nil {
			return fmt.Errorf("%w: 起始时间格式应为HH:MM", ErrConditionInvalid)
		}
		if _, err := time.Parse("15:04", cond.TimeEnd); err != nil {
			return fmt.Errorf("%w: 结束时间格式应为HH:MM", ErrConditionInvalid)
		}
	}

	if cond.SpeedCondition != "" && cond.SpeedCondition != models.SpeedConditionAbove && cond.SpeedCondition != models.SpeedConditionBelow {
		return fmt.Errorf("%w: 未知的速度条件 %q", ErrConditionInvalid, cond.SpeedCondition)
	}

	for i, contact := range cond.EmergencyContacts {
		if contact.Name == "" || contact.Phone == "" {
			return fmt.Errorf("%w: 第%d个联系人缺少姓名或电话", ErrConditionInvalid, i+1)
		}
	}

	return nil
}

// SaveConditions 保存用户的报警条件配置
// 在单个事务内先删后插，整体替换旧配置，
// 并发读取者要么看到旧配置要么看到新配置，不会看到空档
func (s *ConditionService) SaveConditions(cond *models.EmergencyCondition) error {
	if err := validateConditions(cond); err != nil {
		return err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", cond.UserID).Delete(&models.EmergencyCondition{}).Error; err != nil {
			return err
		}
		return tx.Create(cond).Error
	})
	if err != nil {
		return err
	}

	// 配置变更后使缓存失效
	if s.Redis != nil {
		if err := s.Redis.InvalidateConditions(cond.UserID); err != nil {
			config.Warning("清除条件缓存失败: %v", err)
		}
	}

	return nil
}

// GetConditions 获取用户的报警条件配置
// 用户没有配置时返回 (nil, nil)，调用方视为"不报警"而非错误
func (s *ConditionService) GetConditions(userID uint) (*models.EmergencyCondition, error) {
	// 先查缓存
	if s.Redis != nil {
		var cached models.EmergencyCondition
		if err := s.Redis.GetCachedConditions(userID, &cached); err == nil {
			return &cached, nil
		}
	}

	var cond models.EmergencyCondition
	err := s.DB.Where("user_id = ?", userID).First(&cond).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := s.Redis.CacheConditions(userID, &cond); err != nil {
			config.Warning("写入条件缓存失败: %v", err)
		}
	}

	return &cond, nil
}

// GetHomeLocation 读取用户资料中的家庭住址坐标，未设置时返回 (nil, nil)
func (s *ConditionService) GetHomeLocation(userID uint) (*models.Coordinate, error) {
	var user models.User
	err := s.DB.Select("home_latitude", "home_longitude").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user.HomeLocation(), nil
}

// EnsureDefaultConditions 为新用户初始化默认报警条件
// 已有配置时不做任何修改
func (s *ConditionService) EnsureDefaultConditions(userID uint) error {
	var count int64
	if err := s.DB.Model(&models.EmergencyCondition{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cond := &models.EmergencyCondition{
		UserID:            userID,
		DistanceThreshold: defaultDistanceThreshold,
		LocationCondition: models.LocationConditionAway,
		TimeStart:         defaultTimeStart,
		TimeEnd:           defaultTimeEnd,
		TimeCondition:     models.TimeConditionOutside,
		SpeedThreshold:    defaultSpeedThreshold,
		SpeedCondition:    models.SpeedConditionAbove,
		EmergencyContacts: models.ContactList{},
	}

	return s.DB.Create(cond).Error
}
