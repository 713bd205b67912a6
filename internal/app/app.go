package app

import (
	"fmt"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/handler"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// App 应用结构体
// 负责管理整个应用的初始化和运行
type App struct {
	cfg     *config.Config
	router  *gin.Engine
	monitor *monitoring.State
}

// NewApp 创建应用实例
// cfg: 应用配置
// 返回: App 实例
func NewApp(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
	}
}

// Init 初始化应用
// 包括数据库连接、监控状态和路由配置
// 返回: 错误信息
func (a *App) Init() error {
	// 初始化数据库
	if err := database.Init(&a.cfg.Database); err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}

	// 监控状态由组装根创建后注入，不走包级全局变量
	a.monitor = monitoring.NewState(monitoring.Options{
		RecentRequests:    a.cfg.Monitor.RecentRequests,
		RecentErrors:      a.cfg.Monitor.RecentErrors,
		PerUserActivities: a.cfg.Monitor.PerUserActivities,
		RawUnmatchedPath:  a.cfg.Monitor.UnmatchedPath == "raw",
		LogRequests:       a.cfg.Monitor.LogRequests,
		Version:           a.cfg.Server.Version,
	})

	// 初始化路由
	a.initRouter()

	return nil
}

// initRouter 初始化路由
// 配置所有 API 路由和中间件
func (a *App) initRouter() {
	a.router = gin.Default()

	// 监控中间件最先注册，覆盖包括未匹配路由在内的全部请求
	a.router.Use(a.monitor.Middleware(middleware.IdentityResolver(a.cfg.Auth.JWTSecret)))

	// 配置 CORS
	if a.cfg.CORS.Enabled {
		corsConfig := cors.Config{
			AllowOrigins:     a.cfg.CORS.AllowOrigins,
			AllowMethods:     a.cfg.CORS.AllowMethods,
			AllowHeaders:     a.cfg.CORS.AllowHeaders,
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
		}
		a.router.Use(cors.New(corsConfig))
	}

	// 创建处理器实例
	authHandler := handler.NewAuthHandler(a.cfg, database.DB)
	transactionHandler := handler.NewTransactionHandler(database.DB)
	monitoringHandler := handler.NewMonitoringHandler(a.cfg, a.monitor)

	// API 路由组
	api := a.router.Group("/api/v1")
	if a.cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimitMiddleware(a.cfg.RateLimit.Rate, a.cfg.RateLimit.Burst))
	}
	{
		// 认证相关接口
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register) // 注册
			auth.POST("/login", authHandler.Login)       // 登录
			auth.GET("/me", middleware.JWTAuthMiddleware(a.cfg.Auth.JWTSecret), authHandler.Me) // 当前用户
		}

		// 交易相关接口（需登录）
		transactions := api.Group("/transactions")
		transactions.Use(middleware.JWTAuthMiddleware(a.cfg.Auth.JWTSecret))
		{
			transactions.GET("", transactionHandler.List)           // 查询交易
			transactions.POST("", transactionHandler.Create)        // 创建交易
			transactions.GET("/summary", transactionHandler.Summary) // 财务汇总
			transactions.PUT("/:id", transactionHandler.Update)     // 更新交易
			transactions.DELETE("/:id", transactionHandler.Delete)  // 删除交易
		}

		// 监控相关接口
		mon := api.Group("/monitoring")
		{
			mon.GET("/analytics", monitoringHandler.Analytics)        // 完整分析快照
			mon.GET("/live", monitoringHandler.Live)                  // 实时状态
			mon.GET("/dashboard", monitoringHandler.Dashboard)        // 接口目录
			mon.GET("/user-activity", monitoringHandler.UserActivity) // 用户活动汇总
			// 重置必须加认证保护
			mon.POST("/reset", middleware.JWTAuthMiddleware(a.cfg.Auth.JWTSecret), monitoringHandler.Reset)
		}
	}

	// 健康检查接口
	a.router.GET("/health", monitoringHandler.Health)
}

// GetRouter 返回路由引擎
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Monitor 返回监控状态实例
func (a *App) Monitor() *monitoring.State {
	return a.monitor
}
