package services

import (
	"time"

	"ridesafe-http-service/models"
	"ridesafe-http-service/utils"
)

// AlertReason 表示触发报警的原因
type AlertReason string

const (
	ReasonLocation AlertReason = "location"
	ReasonTime     AlertReason = "time"
	ReasonSpeed    AlertReason = "speed"
)

// EvaluationResult 条件评估结果
type EvaluationResult struct {
	ShouldAlert bool          `json:"should_alert"`
	Reasons     []AlertReason `json:"reasons"`
}

// InterfaceAlertService 定义报警条件评估接口
type InterfaceAlertService interface {
	Evaluate(cond *models.EmergencyCondition, home *models.Coordinate, current models.Coordinate, speed float64, now time.Time) EvaluationResult
}

// AlertService 根据用户配置的紧急条件评估当前状态是否应当报警
// 纯计算服务，无副作用
type AlertService struct{}

// NewAlertService 创建报警条件评估服务
func NewAlertService() InterfaceAlertService {
	return &AlertService{}
}

// Evaluate 评估位置、时间、速度三项条件，任一命中即报警（逻辑或）
// 未配置的条件不参与评估；用户没有配置记录时返回不报警
func (s *AlertService) Evaluate(cond *models.EmergencyCondition, home *models.Coordinate, current models.Coordinate, speed float64, now time.Time) EvaluationResult {
	result := EvaluationResult{}
	if cond == nil {
		return result
	}

	// 位置条件：仅在用户设置了家庭住址时评估，
	// 没有家庭住址则静默跳过，不视为错误
	if cond.LocationCondition == models.LocationConditionAway && home != nil {
		distance := utils.HaversineDistance(home.Latitude, home.Longitude, current.Latitude, current.Longitude)
		if distance > cond.DistanceThreshold {
			result.Reasons = append(result.Reasons, ReasonLocation)
		}
	}

	// 时间条件
	if cond.TimeCondition != "" {
		if fired, ok := evaluateTimeCondition(cond, now); ok && fired {
			result.Reasons = append(result.Reasons, ReasonTime)
		}
	}

	// 速度条件
	if cond.SpeedCondition != "" {
		switch cond.SpeedCondition {
		case models.SpeedConditionAbove:
			if speed > cond.SpeedThreshold {
				result.Reasons = append(result.Reasons, ReasonSpeed)
			}
		case models.SpeedConditionBelow:
			if speed < cond.SpeedThreshold {
				result.Reasons = append(result.Reasons, ReasonSpeed)
			}
		}
	}

	result.ShouldAlert = len(result.Reasons) > 0
	return result
}

// evaluateTimeCondition 评估时间窗口条件
// 窗口支持跨午夜：start > end 时窗口为 [start,24:00)∪[00:00,end]
func evaluateTimeCondition(cond *models.EmergencyCondition, now time.Time) (fired bool, ok bool) {
	start, err := parseMinuteOfDay(cond.TimeStart)
	if err != nil {
		return false, false
	}
	end, err := parseMinuteOfDay(cond.TimeEnd)
	if err != nil {
		return false, false
	}

	current := now.Hour()*60 + now.Minute()

	var within bool
	if start <= end {
		within = current >= start && current <= end
	} else {
		within = current >= start || current <= end
	}

	switch cond.TimeCondition {
	case models.TimeConditionInside:
		return within, true
	case models.TimeConditionOutside:
		return !within, true
	default:
		return false, false
	}
}

// parseMinuteOfDay 解析HH:MM为当天第几分钟
func parseMinuteOfDay(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
