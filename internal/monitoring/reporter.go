package monitoring

import (
	"math"
	"time"
)

// ServerInfo /analytics 的 server 段
type ServerInfo struct {
	Status        string    `json:"status"`
	UptimeSeconds int64     `json:"uptimeSeconds"`
	StartTime     time.Time `json:"startTime"`
	Version       string    `json:"version"`
}

// RequestStats /analytics 的 requests 段
type RequestStats struct {
	Total            int64   `json:"total"`
	ErrorRate        float64 `json:"errorRate"`
	AveragePerMinute float64 `json:"averagePerMinute"`
}

// UserStats /analytics 的 users 段
type UserStats struct {
	ActiveUsersCount int            `json:"activeUsersCount"`
	ActiveUserIDs    []string       `json:"activeUserIds"`
	RecentActivities []UserActivity `json:"recentActivities"`
}

// AnalyticsSnapshot 完整分析快照
// 进程资源占用（performance 段）由调用方从运行时采集后补充，
// 监控核心自身不触碰运行时环境
type AnalyticsSnapshot struct {
	Server         ServerInfo    `json:"server"`
	Requests       RequestStats  `json:"requests"`
	Users          UserStats     `json:"users"`
	TopEndpoints   []KeyCount    `json:"topEndpoints"`
	TopIPs         []KeyCount    `json:"topIPs"`
	RecentRequests []RecordView  `json:"recentRequests"`
	RecentErrors   []ErrorRecord `json:"recentErrors"`
}

// LiveSnapshot /live 的精简实时快照
type LiveSnapshot struct {
	Timestamp      time.Time     `json:"timestamp"`
	TotalRequests  int64         `json:"totalRequests"`
	ActiveUsers    int           `json:"activeUsers"`
	RecentRequests []RecordView  `json:"recentRequests"`
	RecentErrors   []ErrorRecord `json:"recentErrors"`
}

// Analytics 从当前状态导出完整快照，只读不修改
// 并发写入下接受最终一致：快照可能落在两次写之间，但结构始终完整；
// 零请求时各字段为零值而非缺失
func (s *State) Analytics(now time.Time) AnalyticsSnapshot {
	a := s.current()
	uptime := now.Sub(a.epoch)
	total := a.totalRequests.Load()

	return AnalyticsSnapshot{
		Server: ServerInfo{
			Status:        "running",
			UptimeSeconds: int64(uptime.Seconds()),
			StartTime:     a.epoch,
			Version:       s.opts.Version,
		},
		Requests: RequestStats{
			Total:            total,
			ErrorRate:        errorRate(a.totalErrors.Load(), total),
			AveragePerMinute: perMinute(total, uptime),
		},
		Users: UserStats{
			ActiveUsersCount: a.activeUsers.Size(),
			ActiveUserIDs:    a.activeUsers.SampleIDs(10),
			RecentActivities: a.activity.RecentAll(5, 20),
		},
		TopEndpoints:   a.endpoints.TopN(10),
		TopIPs:         a.ips.TopN(10),
		RecentRequests: viewsOf(a.requests.Snapshot(20)),
		RecentErrors:   a.errors.Snapshot(10),
	}
}

// Live 实时精简快照，供轮询刷新
func (s *State) Live(now time.Time) LiveSnapshot {
	a := s.current()
	return LiveSnapshot{
		Timestamp:      now,
		TotalRequests:  a.totalRequests.Load(),
		ActiveUsers:    a.activeUsers.Size(),
		RecentRequests: viewsOf(a.requests.Snapshot(5)),
		RecentErrors:   a.errors.Snapshot(3),
	}
}

// UserSummaries 所有用户的活动汇总（/user-activity）
func (s *State) UserSummaries() []UserSummary {
	return s.current().activity.SummaryAll(10, 10)
}

// errorRate 错误率 = 累计错误数 / 累计请求数
// 用累计计数而非有界错误日志长度：日志淘汰不影响比率；零请求时为 0
func errorRate(errors, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(errors) / float64(total)
}

// perMinute 每分钟请求数，窗口时长为 0 时定义为 0
func perMinute(total int64, uptime time.Duration) float64 {
	minutes := uptime.Minutes()
	if minutes <= 0 {
		return 0
	}
	return math.Round(float64(total)/minutes*100) / 100
}

func viewsOf(records []*RequestRecord) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, r.View())
	}
	return views
}
