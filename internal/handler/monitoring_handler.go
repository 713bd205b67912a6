package handler

import (
	"net/http"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/monitoring"
	"finance-tracker/internal/sysstats"

	"github.com/gin-gonic/gin"
)

// MonitoringHandler 监控处理器
// 对外暴露分析快照、实时状态和重置操作，状态本身由监控核心维护
type MonitoringHandler struct {
	cfg   *config.Config
	state *monitoring.State
}

// NewMonitoringHandler 创建监控处理器
func NewMonitoringHandler(cfg *config.Config, state *monitoring.State) *MonitoringHandler {
	return &MonitoringHandler{cfg: cfg, state: state}
}

// performanceInfo 进程资源占用段
type performanceInfo struct {
	MemoryUsage sysstats.MemoryUsage `json:"memoryUsage"`
	CPUUsage    sysstats.CPUUsage    `json:"cpuUsage"`
}

// analyticsResponse /analytics 响应：监控快照 + 进程资源占用
type analyticsResponse struct {
	monitoring.AnalyticsSnapshot
	Performance performanceInfo `json:"performance"`
}

// liveResponse /live 响应：实时快照 + 内存占用
type liveResponse struct {
	monitoring.LiveSnapshot
	MemoryUsage sysstats.MemoryUsage `json:"memoryUsage"`
}

// Analytics 完整分析快照
// GET /api/v1/monitoring/analytics
func (h *MonitoringHandler) Analytics(c *gin.Context) {
	c.JSON(http.StatusOK, analyticsResponse{
		AnalyticsSnapshot: h.state.Analytics(time.Now()),
		Performance: performanceInfo{
			MemoryUsage: sysstats.GetMemoryUsage(),
			CPUUsage:    sysstats.GetCPUUsage(),
		},
	})
}

// Live 实时精简状态，供前端轮询
// GET /api/v1/monitoring/live
func (h *MonitoringHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, liveResponse{
		LiveSnapshot: h.state.Live(time.Now()),
		MemoryUsage:  sysstats.GetMemoryUsage(),
	})
}

// Dashboard 监控接口目录（静态说明，不含实时数据）
// GET /api/v1/monitoring/dashboard
func (h *MonitoringHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Finance Tracker - 监控面板",
		"endpoints": gin.H{
			"analytics":    "/api/v1/monitoring/analytics",
			"liveStats":    "/api/v1/monitoring/live",
			"userActivity": "/api/v1/monitoring/user-activity",
			"systemHealth": "/health",
		},
		"instructions": gin.H{
			"analytics":    "完整的服务端分析与用户活动快照",
			"liveStats":    "随每次请求更新的实时统计",
			"userActivity": "按用户汇总的最近活动",
			"systemHealth": "服务与数据库健康状态",
		},
	})
}

// UserActivity 按用户汇总的最近活动
// GET /api/v1/monitoring/user-activity
func (h *MonitoringHandler) UserActivity(c *gin.Context) {
	summaries := h.state.UserSummaries()
	c.JSON(http.StatusOK, gin.H{
		"totalActiveUsers": len(summaries),
		"users":            summaries,
	})
}

// Reset 重置全部统计状态，开启新的统计窗口
// POST /api/v1/monitoring/reset
// 路由层必须加认证保护，仅限管理与测试使用
func (h *MonitoringHandler) Reset(c *gin.Context) {
	h.state.Reset()
	c.JSON(http.StatusOK, gin.H{
		"message": "统计状态已重置",
	})
}

// Health 健康检查
// GET /health
func (h *MonitoringHandler) Health(c *gin.Context) {
	dbStatus := "disconnected"
	if database.Ping() {
		dbStatus = "connected"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now(),
		"service":   "finance-tracker-backend",
		"version":   h.cfg.Server.Version,
		"database":  dbStatus,
		"uptime":    int64(time.Since(h.state.Epoch()).Seconds()),
		"requests": gin.H{
			"total":       h.state.TotalRequests(),
			"activeUsers": h.state.ActiveUsers(),
		},
	})
}
