package container

import (
	"log"
	"sync"

	"ridesafe-http-service/config"
	"ridesafe-http-service/services"

	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// 业务服务
	userService         services.InterfaceUserService
	conditionService    services.InterfaceConditionService
	alertService        services.InterfaceAlertService
	sosService          services.InterfaceSOSService
	notificationService services.InterfaceNotificationService
	vaultKeyService     services.InterfaceVaultKeyService
	vaultService        services.InterfaceVaultService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisService services.InterfaceRedisService) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.redisService = redisService
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)

	// 初始化保险库主密钥，密钥不可用时媒体保险库无法工作
	keyService, err := services.NewVaultKeyService(c.config)
	if err != nil {
		log.Fatalf("初始化保险库主密钥失败: %v", err)
	}
	c.vaultKeyService = keyService

	// 初始化通知服务并连接MQTT推送通道
	c.notificationService = services.NewNotificationService(c.config, nil)
	if err := c.notificationService.Connect(); err != nil {
		log.Printf("MQTT推送通道连接失败: %v，报警仍通过短信通道投递", err)
	}

	// 初始化业务服务
	c.conditionService = services.NewConditionService(c.db, c.config, c.redisService)
	c.alertService = services.NewAlertService()
	c.sosService = services.NewSOSService(c.db, c.config, c.conditionService, c.alertService, c.notificationService)
	c.vaultService = services.NewVaultService(c.db, c.config, c.vaultKeyService)
	c.userService = services.NewUserService(c.db, c.config, c.conditionService)
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// GetJWTService 获取JWT服务
func (c *ServiceContainer) GetJWTService() services.InterfaceJWTService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jwtService
}

// GetRedisService 获取缓存服务
func (c *ServiceContainer) GetRedisService() services.InterfaceRedisService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redisService
}

// GetUserService 获取用户服务
func (c *ServiceContainer) GetUserService() services.InterfaceUserService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userService
}

// GetConditionService 获取报警条件配置服务
func (c *ServiceContainer) GetConditionService() services.InterfaceConditionService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conditionService
}

// GetAlertService 获取报警条件评估服务
func (c *ServiceContainer) GetAlertService() services.InterfaceAlertService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.alertService
}

// GetSOSService 获取SOS处理服务
func (c *ServiceContainer) GetSOSService() services.InterfaceSOSService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sosService
}

// GetNotificationService 获取报警通知服务
func (c *ServiceContainer) GetNotificationService() services.InterfaceNotificationService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notificationService
}

// GetVaultService 获取媒体保险库服务
func (c *ServiceContainer) GetVaultService() services.InterfaceVaultService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vaultService
}
