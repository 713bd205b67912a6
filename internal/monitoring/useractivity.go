package monitoring

import (
	"sort"
	"sync"
	"time"
)

const defaultPerUserCapacity = 20

// UserActivity 单条用户活动
type UserActivity struct {
	UserID    string    `json:"userId"`
	Method    string    `json:"method"`
	Endpoint  string    `json:"endpoint"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

// userLog 单个用户的有界活动日志
// total 是累计推入条数，日志本身淘汰后该计数不回退
type userLog struct {
	entries *RollingLog[UserActivity]
	total   int64
}

// UserActivityLog 按用户分桶的有界活动日志
// 每个用户最多保留 perUser 条最近活动，用户桶在首次活动时惰性创建
type UserActivityLog struct {
	mu      sync.RWMutex
	users   map[string]*userLog
	order   []string
	perUser int
}

// NewUserActivityLog 创建活动日志，perUser 为 0 时使用默认每用户 20 条
func NewUserActivityLog(perUser int) *UserActivityLog {
	if perUser <= 0 {
		perUser = defaultPerUserCapacity
	}
	return &UserActivityLog{
		users:   make(map[string]*userLog),
		perUser: perUser,
	}
}

// Record 记录一条用户活动，匿名用户忽略
func (u *UserActivityLog) Record(userID string, act UserActivity) {
	if userID == "" || userID == AnonymousUser {
		return
	}
	u.mu.Lock()
	ul, ok := u.users[userID]
	if !ok {
		ul = &userLog{entries: NewRollingLog[UserActivity](u.perUser)}
		u.users[userID] = ul
		u.order = append(u.order, userID)
	}
	ul.total++
	u.mu.Unlock()

	ul.entries.Push(act)
}

// ActivitiesFor 返回某用户最近 n 条活动，n <= 0 表示全部
func (u *UserActivityLog) ActivitiesFor(userID string, n int) []UserActivity {
	u.mu.RLock()
	ul, ok := u.users[userID]
	u.mu.RUnlock()
	if !ok {
		return nil
	}
	return ul.entries.Snapshot(n)
}

// TotalFor 某用户的累计活动条数（含已淘汰的）
func (u *UserActivityLog) TotalFor(userID string) int64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if ul, ok := u.users[userID]; ok {
		return ul.total
	}
	return 0
}

// UserCount 有活动记录的用户数
func (u *UserActivityLog) UserCount() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.users)
}

// UserSummary 单个用户的活动汇总
type UserSummary struct {
	UserID          string         `json:"userId"`
	TotalActivities int64          `json:"totalActivities"`
	LastActivity    *time.Time     `json:"lastActivity"`
	RecentEndpoints []string       `json:"recentEndpoints"`
	Activities      []UserActivity `json:"activities"`
}

// SummaryAll 返回所有用户的活动汇总
// 每个用户带最近 nActivities 条活动和其中去重后的最多 nEndpoints 个 endpoint
func (u *UserActivityLog) SummaryAll(nActivities, nEndpoints int) []UserSummary {
	u.mu.RLock()
	userIDs := make([]string, len(u.order))
	copy(userIDs, u.order)
	u.mu.RUnlock()

	result := make([]UserSummary, 0, len(userIDs))
	for _, id := range userIDs {
		u.mu.RLock()
		ul, ok := u.users[id]
		var total int64
		if ok {
			total = ul.total
		}
		u.mu.RUnlock()
		if !ok {
			continue
		}

		acts := ul.entries.Snapshot(nActivities)
		summary := UserSummary{
			UserID:          id,
			TotalActivities: total,
			Activities:      acts,
			RecentEndpoints: distinctEndpoints(acts, nEndpoints),
		}
		if len(acts) > 0 {
			ts := acts[0].Timestamp
			summary.LastActivity = &ts
		}
		result = append(result, summary)
	}
	return result
}

// RecentAll 返回全局最近活动
// 每个用户最多取 perUser 条，再按时间倒序合并，最多 limit 条
func (u *UserActivityLog) RecentAll(perUser, limit int) []UserActivity {
	u.mu.RLock()
	logs := make([]*userLog, 0, len(u.users))
	for _, ul := range u.users {
		logs = append(logs, ul)
	}
	u.mu.RUnlock()

	merged := make([]UserActivity, 0, len(logs)*perUser)
	for _, ul := range logs {
		merged = append(merged, ul.entries.Snapshot(perUser)...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// distinctEndpoints 按出现顺序去重，最多 n 个
func distinctEndpoints(acts []UserActivity, n int) []string {
	seen := make(map[string]struct{}, len(acts))
	result := make([]string, 0, len(acts))
	for _, a := range acts {
		if _, ok := seen[a.Endpoint]; ok {
			continue
		}
		seen[a.Endpoint] = struct{}{}
		result = append(result, a.Endpoint)
		if n > 0 && len(result) >= n {
			break
		}
	}
	return result
}
