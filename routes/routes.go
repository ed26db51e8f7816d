package routes

import (
	"ridesafe-http-service/config"
	"ridesafe-http-service/controllers"
	_ "ridesafe-http-service/docs"
	"ridesafe-http-service/middleware"
	"ridesafe-http-service/services"
	"ridesafe-http-service/services/container"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config, redisService services.InterfaceRedisService) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, redisService)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	healthController := controllers.NewHealthCheckController()
	api.GET("/ping", healthController.Ping)

	// 认证路由
	api.POST("/auth/register", controllers.HandleAuthFunc(container, "register"))
	api.POST("/auth/login", controllers.HandleAuthFunc(container, "login"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateUser())

	// SOS路由，提交接口额外加限流
	auth.Group("/sos").POST("", middleware.RateLimitSOS(), controllers.HandleSOSFunc(container, "submitSOS"))
	auth.Group("/sos").POST("/premium", controllers.HandleSOSFunc(container, "premiumSOS"))
	auth.Group("/sos").GET("/history", controllers.HandleSOSFunc(container, "listTriggers"))

	// 报警条件配置路由
	auth.Group("/emergency").POST("/conditions", controllers.HandleConditionFunc(container, "saveConditions"))
	auth.Group("/emergency").GET("/conditions", controllers.HandleConditionFunc(container, "getConditions"))

	// 加密媒体保险库路由
	auth.Group("/vault").POST("/media", controllers.HandleVaultFunc(container, "storeMedia"))
	auth.Group("/vault").POST("/media/access", controllers.HandleVaultFunc(container, "accessMedia"))
}
