package services

import (
	"testing"
	"time"

	"ridesafe-http-service/models"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

// 基础配置：离家10公里、09:00-17:00之外、车速高于120
func testCondition() *models.EmergencyCondition {
	return &models.EmergencyCondition{
		UserID:            1,
		DistanceThreshold: 10,
		LocationCondition: models.LocationConditionAway,
		TimeStart:         "09:00",
		TimeEnd:           "17:00",
		TimeCondition:     models.TimeConditionOutside,
		SpeedThreshold:    120,
		SpeedCondition:    models.SpeedConditionAbove,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 28, hour, minute, 0, 0, time.UTC)
}

func TestEvaluateNilCondition(t *testing.T) {
	svc := NewAlertService()
	result := svc.Evaluate(nil, nil, models.Coordinate{Latitude: 1, Longitude: 1}, 200, at(3, 0))
	assert.False(t, result.ShouldAlert)
	assert.Empty(t, result.Reasons)
}

func TestEvaluateLocationCondition(t *testing.T) {
	svc := NewAlertService()
	home := &models.Coordinate{Latitude: 0, Longitude: 0}

	// 赤道上0.2度经度约22公里，超过10公里阈值
	far := models.Coordinate{Latitude: 0, Longitude: 0.2}
	result := svc.Evaluate(testCondition(), home, far, 0, at(12, 0))
	assert.True(t, result.ShouldAlert)
	assert.Contains(t, result.Reasons, ReasonLocation)

	// 0.05度约5.5公里，在阈值之内
	near := models.Coordinate{Latitude: 0, Longitude: 0.05}
	result = svc.Evaluate(testCondition(), home, near, 0, at(12, 0))
	assert.False(t, result.ShouldAlert)
}

func TestEvaluateLocationWithoutHome(t *testing.T) {
	svc := NewAlertService()

	// 未设置家庭住址时位置条件静默跳过
	far := models.Coordinate{Latitude: 50, Longitude: 50}
	result := svc.Evaluate(testCondition(), nil, far, 0, at(12, 0))
	assert.False(t, result.ShouldAlert)
}

func TestEvaluateTimeCondition(t *testing.T) {
	svc := NewAlertService()
	current := models.Coordinate{Latitude: 0, Longitude: 0}
	home := &models.Coordinate{Latitude: 0, Longitude: 0}

	// 20:00在09:00-17:00窗口之外，outside条件命中
	result := svc.Evaluate(testCondition(), home, current, 0, at(20, 0))
	assert.True(t, result.ShouldAlert)
	assert.Contains(t, result.Reasons, ReasonTime)

	// 12:00在窗口之内，outside条件不命中
	result = svc.Evaluate(testCondition(), home, current, 0, at(12, 0))
	assert.False(t, result.ShouldAlert)

	// inside条件与outside相反
	cond := testCondition()
	cond.TimeCondition = models.TimeConditionInside
	result = svc.Evaluate(cond, home, current, 0, at(12, 0))
	assert.True(t, result.ShouldAlert)
	assert.Contains(t, result.Reasons, ReasonTime)
}

func TestEvaluateTimeConditionMidnightWrap(t *testing.T) {
	svc := NewAlertService()
	current := models.Coordinate{Latitude: 0, Longitude: 0}

	// 22:00-06:00跨午夜窗口
	cond := testCondition()
	cond.TimeStart = "22:00"
	cond.TimeEnd = "06:00"
	cond.TimeCondition = models.TimeConditionInside

	// 23:30和03:00都在窗口内
	result := svc.Evaluate(cond, nil, current, 0, at(23, 30))
	assert.True(t, result.ShouldAlert)
	result = svc.Evaluate(cond, nil, current, 0, at(3, 0))
	assert.True(t, result.ShouldAlert)

	// 12:00在窗口外
	result = svc.Evaluate(cond, nil, current, 0, at(12, 0))
	assert.False(t, result.ShouldAlert)

	// outside条件下12:00应命中
	cond.TimeCondition = models.TimeConditionOutside
	result = svc.Evaluate(cond, nil, current, 0, at(12, 0))
	assert.True(t, result.ShouldAlert)
}

func TestEvaluateSpeedCondition(t *testing.T) {
	svc := NewAlertService()
	current := models.Coordinate{Latitude: 0, Longitude: 0}

	// 130超过120阈值
	result := svc.Evaluate(testCondition(), nil, current, 130, at(12, 0))
	assert.True(t, result.ShouldAlert)
	assert.Contains(t, result.Reasons, ReasonSpeed)

	// 100未超过阈值
	result = svc.Evaluate(testCondition(), nil, current, 100, at(12, 0))
	assert.False(t, result.ShouldAlert)

	// below条件
	cond := testCondition()
	cond.SpeedCondition = models.SpeedConditionBelow
	cond.SpeedThreshold = 10
	result = svc.Evaluate(cond, nil, current, 5, at(12, 0))
	assert.True(t, result.ShouldAlert)
	assert.Contains(t, result.Reasons, ReasonSpeed)
}

func TestEvaluateMultipleReasons(t *testing.T) {
	svc := NewAlertService()
	home := &models.Coordinate{Latitude: 0, Longitude: 0}

	// 位置、时间、速度同时命中
	far := models.Coordinate{Latitude: 0, Longitude: 0.5}
	result := svc.Evaluate(testCondition(), home, far, 150, at(20, 0))
	assert.True(t, result.ShouldAlert)
	assert.Len(t, result.Reasons, 3)
}

func TestEvaluateInvalidTimeFormatIgnored(t *testing.T) {
	svc := NewAlertService()

	// 时间格式非法时时间条件被跳过，不影响其他条件
	cond := testCondition()
	cond.TimeStart = "not-a-time"
	result := svc.Evaluate(cond, nil, models.Coordinate{}, 0, at(20, 0))
	assert.False(t, result.ShouldAlert)
}
