package services

import (
	"context"
	"sync"
	"testing"

	"ridesafe-http-service/config"
	"ridesafe-http-service/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 创建内存数据库并迁移全部模型
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.EmergencyCondition{},
		&models.SOSTrigger{},
		&models.SecureMedia{},
	)
	require.NoError(t, err)

	return db
}

// newTestConfig 创建测试配置，存储目录指向临时目录
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SecureStorageDir: t.TempDir(),
	}
}

// fakeNotificationService 记录每次通知调用，不做任何外部投递
type fakeNotificationService struct {
	mu    sync.Mutex
	calls []fakeNotifyCall
}

type fakeNotifyCall struct {
	contacts []models.EmergencyContact
	trigger  TriggerContext
}

func (f *fakeNotificationService) Connect() error { return nil }
func (f *fakeNotificationService) Disconnect()    {}

func (f *fakeNotificationService) Notify(ctx context.Context, contacts []models.EmergencyContact, trigger *TriggerContext) []DeliveryOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeNotifyCall{contacts: contacts, trigger: *trigger})

	outcomes := make([]DeliveryOutcome, 0, len(contacts))
	for _, c := range contacts {
		outcomes = append(outcomes, DeliveryOutcome{Contact: c, Delivered: true})
	}
	return outcomes
}

func (f *fakeNotificationService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fixedKeyService 返回固定主密钥
type fixedKeyService struct {
	key []byte
}

func (s *fixedKeyService) Key() []byte { return s.key }
