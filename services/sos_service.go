package services

import (
	"context"
	"time"

	"ridesafe-http-service/config"
	"ridesafe-http-service/models"

	"gorm.io/gorm"
)

// 突发升级规则：5分钟滑动窗口内达到3次触发即强制通知，
// 与配置条件是否命中无关——短时间内反复按下SOS本身就是求救信号
const (
	burstWindow    = 5 * time.Minute
	burstThreshold = 3
)

// 付费SOS的固定服务费
const premiumSOSCharge = 2.00

// SOSResult 一次SOS提交的处理结果
type SOSResult struct {
	TriggerID    uint              `json:"trigger_id"`
	TriggerCount int64             `json:"trigger_count"`
	ShouldAlert  bool              `json:"should_alert"`
	Reasons      []AlertReason     `json:"reasons,omitempty"`
	Notified     bool              `json:"notified"`
	Outcomes     []DeliveryOutcome `json:"outcomes,omitempty"`
}

// PremiumSOSResult 付费SOS的处理结果
type PremiumSOSResult struct {
	TriggerID    uint            `json:"trigger_id"`
	ChargeAmount float64         `json:"charge_amount"`
	Outcome      DeliveryOutcome `json:"outcome"`
}

// InterfaceSOSService 定义SOS处理服务接口
type InterfaceSOSService interface {
	HandleSOS(ctx context.Context, userID uint, vehicleID *uint, location models.Coordinate, speed float64) (*SOSResult, error)
	HandlePremiumSOS(ctx context.Context, userID uint, vehicleID *uint, contact models.EmergencyContact) (*PremiumSOSResult, error)
	BurstCount(userID uint, windowEnd time.Time) (int64, error)
	ListTriggers(userID uint, query models.PaginationQuery) ([]models.SOSTrigger, models.PaginationResult, error)
}

// SOSService 记录SOS触发事件并编排条件评估、突发升级与通知分发
type SOSService struct {
	DB           *gorm.DB
	Config       *config.Config
	Conditions   InterfaceConditionService
	Alert        InterfaceAlertService
	Notification InterfaceNotificationService
}

// NewSOSService 创建SOS处理服务
func NewSOSService(
	db *gorm.DB,
	cfg *config.Config,
	conditionService InterfaceConditionService,
	alertService InterfaceAlertService,
	notificationService InterfaceNotificationService,
) InterfaceSOSService {
	return &SOSService{
		DB:           db,
		Config:       cfg,
		Conditions:   conditionService,
		Alert:        alertService,
		Notification: notificationService,
	}
}

// HandleSOS 处理一次SOS提交
// 触发事件的写入和窗口计数在同一事务内完成：同一用户的并发提交
// 不会得到遗漏刚写入事件或重复计数的结果；不同用户互不影响
func (s *SOSService) HandleSOS(ctx context.Context, userID uint, vehicleID *uint, location models.Coordinate, speed float64) (*SOSResult, error) {
	// 读取用户配置并评估条件；没有配置时按"不报警"处理
	cond, err := s.Conditions.GetConditions(userID)
	if err != nil {
		return nil, err
	}

	var home *models.Coordinate
	if cond != nil {
		home, err = s.Conditions.GetHomeLocation(userID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	evaluation := s.Alert.Evaluate(cond, home, location, speed, now)

	trigger := &models.SOSTrigger{
		UserID:    userID,
		VehicleID: vehicleID,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Speed:     speed,
		Timestamp: now,
	}

	count, err := s.recordAndCount(trigger)
	if err != nil {
		return nil, err
	}

	result := &SOSResult{
		TriggerID:    trigger.ID,
		TriggerCount: count,
		ShouldAlert:  evaluation.ShouldAlert,
		Reasons:      evaluation.Reasons,
	}

	// 条件命中或突发升级，任一成立即通知紧急联系人
	if evaluation.ShouldAlert || count >= burstThreshold {
		var contacts []models.EmergencyContact
		if cond != nil {
			contacts = cond.EmergencyContacts
		}

		if len(contacts) > 0 {
			result.Outcomes = s.Notification.Notify(ctx, contacts, &TriggerContext{
				TriggerID:  trigger.ID,
				UserID:     userID,
				Latitude:   location.Latitude,
				Longitude:  location.Longitude,
				Speed:      speed,
				Timestamp:  now,
				Reasons:    evaluation.Reasons,
				BurstCount: count,
			})
			result.Notified = true
		} else {
			config.Warning("用户 %d 触发报警但未配置紧急联系人", userID)
		}
	}

	return result, nil
}

// recordAndCount 在单个事务内写入触发事件并统计滑动窗口计数
func (s *SOSService) recordAndCount(trigger *models.SOSTrigger) (int64, error) {
	var count int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trigger).Error; err != nil {
			return err
		}

		windowStart := trigger.Timestamp.Add(-burstWindow)
		return tx.Model(&models.SOSTrigger{}).
			Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", trigger.UserID, windowStart, trigger.Timestamp).
			Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// BurstCount 统计用户在 [windowEnd-5min, windowEnd] 内的触发次数
func (s *SOSService) BurstCount(userID uint, windowEnd time.Time) (int64, error) {
	var count int64
	err := s.DB.Model(&models.SOSTrigger{}).
		Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", userID, windowEnd.Add(-burstWindow), windowEnd).
		Count(&count).Error
	return count, err
}

// ListTriggers 分页查询用户自己的SOS触发历史
func (s *SOSService) ListTriggers(userID uint, query models.PaginationQuery) ([]models.SOSTrigger, models.PaginationResult, error) {
	if query.PageNum < 1 {
		query.PageNum = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 10
	}

	var total int64
	if err := s.DB.Model(&models.SOSTrigger{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	order := "timestamp asc"
	if query.Desc {
		order = "timestamp desc"
	}

	var triggers []models.SOSTrigger
	err := s.DB.Where("user_id = ?", userID).
		Order(order).
		Offset((query.PageNum - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&triggers).Error
	if err != nil {
		return nil, models.PaginationResult{}, err
	}

	return triggers, models.NewPaginationResult(int(total), query.PageNum, query.PageSize), nil
}

// HandlePremiumSOS 处理付费SOS：记录一条付费触发事件并直接通知指定联系人
// 实际扣费对接支付网关，这里只返回固定服务费金额
func (s *SOSService) HandlePremiumSOS(ctx context.Context, userID uint, vehicleID *uint, contact models.EmergencyContact) (*PremiumSOSResult, error) {
	trigger := &models.SOSTrigger{
		UserID:    userID,
		VehicleID: vehicleID,
		Timestamp: time.Now(),
		IsPremium: true,
	}
	if err := s.DB.Create(trigger).Error; err != nil {
		return nil, err
	}

	outcomes := s.Notification.Notify(ctx, []models.EmergencyContact{contact}, &TriggerContext{
		TriggerID: trigger.ID,
		UserID:    userID,
		Timestamp: trigger.Timestamp,
	})

	result := &PremiumSOSResult{
		TriggerID:    trigger.ID,
		ChargeAmount: premiumSOSCharge,
	}
	if len(outcomes) > 0 {
		result.Outcome = outcomes[0]
	}

	return result, nil
}
