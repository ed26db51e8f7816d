package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ridesafe-http-service/config"
	"ridesafe-http-service/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// TriggerContext 报警消息的上下文信息
type TriggerContext struct {
	TriggerID  uint          `json:"trigger_id"`
	UserID     uint          `json:"user_id"`
	Latitude   float64       `json:"latitude"`
	Longitude  float64       `json:"longitude"`
	Speed      float64       `json:"speed"`
	Timestamp  time.Time     `json:"timestamp"`
	Reasons    []AlertReason `json:"reasons,omitempty"`
	BurstCount int64         `json:"burst_count"`
}

// DeliveryOutcome 单个联系人的投递结果
type DeliveryOutcome struct {
	Contact   models.EmergencyContact `json:"contact"`
	Delivered bool                    `json:"delivered"`
	Error     string                  `json:"error,omitempty"`
}

// AlertTransport 报警消息的外部投递通道（短信、推送等）
// 具体投递实现属于外部协作方，这里只依赖其契约
type AlertTransport interface {
	Send(ctx context.Context, phone, message string) error
}

// InterfaceNotificationService 定义报警通知分发接口
type InterfaceNotificationService interface {
	Connect() error
	Disconnect()
	Notify(ctx context.Context, contacts []models.EmergencyContact, trigger *TriggerContext) []DeliveryOutcome
}

// NotificationService 向紧急联系人分发报警消息
// 逐个联系人尽力投递，单个失败不阻塞其余联系人；
// 同一触发事件只分发一次（按TriggerID去重）
type NotificationService struct {
	Config    *config.Config
	Transport AlertTransport
	Client    mqtt.Client

	// 已分发的触发事件ID，防止同一事件重复投递
	processedTriggers *sync.Map
}

// NewNotificationService 创建报警通知服务
// transport 为nil时使用日志短信通道（开发环境行为，与外部短信网关同契约）
func NewNotificationService(cfg *config.Config, transport AlertTransport) InterfaceNotificationService {
	if transport == nil {
		transport = &LogSMSTransport{}
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID("ridesafe-alert-" + uuid.New().String()[:8]).
		SetUsername(cfg.MQTTUsername).
		SetPassword(cfg.MQTTPassword).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	return &NotificationService{
		Config:            cfg,
		Transport:         transport,
		Client:            mqtt.NewClient(opts),
		processedTriggers: &sync.Map{},
	}
}

// Connect 连接MQTT服务器
func (s *NotificationService) Connect() error {
	token := s.Client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("连接MQTT服务器超时")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("连接MQTT服务器失败: %w", err)
	}
	return nil
}

// Disconnect 断开MQTT连接
func (s *NotificationService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}

// buildAlertMessage 组装报警消息文本
func buildAlertMessage(trigger *TriggerContext) string {
	return fmt.Sprintf("EMERGENCY ALERT: User %d has triggered an SOS alert at location %f, %f",
		trigger.UserID, trigger.Latitude, trigger.Longitude)
}

// Notify 向所有紧急联系人分发报警
// 每个联系人的投递带有超时上限，失败记录在返回结果中
func (s *NotificationService) Notify(ctx context.Context, contacts []models.EmergencyContact, trigger *TriggerContext) []DeliveryOutcome {
	// 同一触发事件只分发一次
	if _, loaded := s.processedTriggers.LoadOrStore(trigger.TriggerID, time.Now()); loaded {
		config.Warning("触发事件 %d 已分发过，跳过重复通知", trigger.TriggerID)
		return nil
	}

	message := buildAlertMessage(trigger)
	outcomes := make([]DeliveryOutcome, 0, len(contacts))

	timeout := s.Config.NotifyTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	for _, contact := range contacts {
		outcome := DeliveryOutcome{Contact: contact}

		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		if err := s.Transport.Send(sendCtx, contact.Phone, message); err != nil {
			outcome.Error = err.Error()
			config.Error("向联系人 %s(%s) 投递报警失败: %v", contact.Name, contact.Phone, err)
		} else {
			outcome.Delivered = true
		}
		cancel()

		outcomes = append(outcomes, outcome)
	}

	// 同时向报警主题广播一条推送消息，订阅方（App端）据此展示实时告警
	s.publishAlert(trigger)

	return outcomes
}

// publishAlert 通过MQTT广播报警推送，失败只记日志不影响短信投递
func (s *NotificationService) publishAlert(trigger *TriggerContext) {
	if s.Client == nil || !s.Client.IsConnected() {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":      "sos_alert",
		"timestamp": time.Now().UnixMilli(),
		"payload":   trigger,
	})
	if err != nil {
		config.Error("序列化报警推送失败: %v", err)
		return
	}

	token := s.Client.Publish(s.Config.MQTTAlertTopic, 1, false, payload)
	if !token.WaitTimeout(3 * time.Second) {
		config.Warning("报警推送发布超时: trigger_id=%d", trigger.TriggerID)
		return
	}
	if err := token.Error(); err != nil {
		config.Warning("报警推送发布失败: %v", err)
	}
}

// LogSMSTransport 把短信内容写入日志的投递通道
// 生产环境应替换为真实短信网关实现
type LogSMSTransport struct{}

// Send 实现 AlertTransport
func (t *LogSMSTransport) Send(ctx context.Context, phone, message string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	config.Info("Sending SMS to %s: %s", phone, message)
	return nil
}
