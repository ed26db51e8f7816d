package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ridesafe-http-service/config"
	"ridesafe-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport 记录投递调用，可按号码注入失败
type recordingTransport struct {
	mu       sync.Mutex
	sent     []string
	failFor  map[string]error
	lastText string
}

func (t *recordingTransport) Send(ctx context.Context, phone, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err, ok := t.failFor[phone]; ok {
		return err
	}
	t.sent = append(t.sent, phone)
	t.lastText = message
	return nil
}

func newNotificationService(t *testing.T, transport AlertTransport) InterfaceNotificationService {
	t.Helper()
	cfg := &config.Config{
		MQTTBrokerURL: "tcp://localhost:1883",
		NotifyTimeout: time.Second,
	}
	return NewNotificationService(cfg, transport)
}

func testContacts() []models.EmergencyContact {
	return []models.EmergencyContact{
		{Name: "Alice", Phone: "13800000001"},
		{Name: "Bob", Phone: "13800000002"},
		{Name: "Carol", Phone: "13800000003"},
	}
}

func TestNotifyDeliversToAllContacts(t *testing.T) {
	transport := &recordingTransport{}
	svc := newNotificationService(t, transport)

	outcomes := svc.Notify(context.Background(), testContacts(), &TriggerContext{
		TriggerID: 1,
		UserID:    7,
		Latitude:  31.23,
		Longitude: 121.47,
	})

	require.Len(t, outcomes, 3)
	for _, outcome := range outcomes {
		assert.True(t, outcome.Delivered)
		assert.Empty(t, outcome.Error)
	}
	assert.Equal(t, []string{"13800000001", "13800000002", "13800000003"}, transport.sent)
	assert.Contains(t, transport.lastText, "EMERGENCY ALERT: User 7")
}

func TestNotifyContinuesPastFailures(t *testing.T) {
	transport := &recordingTransport{
		failFor: map[string]error{"13800000002": errors.New("网关不可达")},
	}
	svc := newNotificationService(t, transport)

	outcomes := svc.Notify(context.Background(), testContacts(), &TriggerContext{TriggerID: 2, UserID: 7})

	// 中间联系人失败不影响其余联系人
	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Delivered)
	assert.False(t, outcomes[1].Delivered)
	assert.Contains(t, outcomes[1].Error, "网关不可达")
	assert.True(t, outcomes[2].Delivered)
	assert.Equal(t, []string{"13800000001", "13800000003"}, transport.sent)
}

func TestNotifyIdempotentPerTrigger(t *testing.T) {
	transport := &recordingTransport{}
	svc := newNotificationService(t, transport)

	trigger := &TriggerContext{TriggerID: 3, UserID: 7}
	first := svc.Notify(context.Background(), testContacts(), trigger)
	require.Len(t, first, 3)

	// 同一触发事件第二次分发被跳过
	second := svc.Notify(context.Background(), testContacts(), trigger)
	assert.Nil(t, second)
	assert.Len(t, transport.sent, 3)

	// 不同触发事件正常分发
	third := svc.Notify(context.Background(), testContacts(), &TriggerContext{TriggerID: 4, UserID: 7})
	require.Len(t, third, 3)
}

func TestNotifyCancelledContext(t *testing.T) {
	svc := newNotificationService(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 默认日志通道遵守上下文取消，投递失败但不panic
	outcomes := svc.Notify(ctx, testContacts()[:1], &TriggerContext{TriggerID: 5, UserID: 7})
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Delivered)
}
