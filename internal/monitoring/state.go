package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// Options 监控子系统配置
type Options struct {
	RecentRequests    int    // 全局最近请求容量，默认 100
	RecentErrors      int    // 最近错误容量，默认 50
	PerUserActivities int    // 每用户活动容量，默认 20
	RawUnmatchedPath  bool   // true 时未匹配路由用原始 URL 计数（基数不受控，仅排查用）
	LogRequests       bool   // 是否为每次请求输出日志行
	Version           string // 上报的服务版本号
}

const (
	defaultRecentRequests = 100
	defaultRecentErrors   = 50
)

func (o Options) withDefaults() Options {
	if o.RecentRequests <= 0 {
		o.RecentRequests = defaultRecentRequests
	}
	if o.RecentErrors <= 0 {
		o.RecentErrors = defaultRecentErrors
	}
	if o.PerUserActivities <= 0 {
		o.PerUserActivities = defaultPerUserCapacity
	}
	if o.Version == "" {
		o.Version = "1.0.0"
	}
	return o
}

// accum 一个统计窗口内的全部可变状态
// 重置时整体替换，不做字段级清空，避免读到新旧混合的状态
type accum struct {
	epoch         time.Time
	totalRequests atomic.Int64
	totalErrors   atomic.Int64

	endpoints *CounterMap
	ips       *CounterMap
	agents    *CounterMap

	activeUsers *ActiveUserSet
	requests    *RollingLog[*RequestRecord]
	errors      *RollingLog[ErrorRecord]
	activity    *UserActivityLog
}

func newAccum(opts Options) *accum {
	return &accum{
		epoch:       time.Now(),
		endpoints:   NewCounterMap(),
		ips:         NewCounterMap(),
		agents:      NewCounterMap(),
		activeUsers: NewActiveUserSet(),
		requests:    NewRollingLog[*RequestRecord](opts.RecentRequests),
		errors:      NewRollingLog[ErrorRecord](opts.RecentErrors),
		activity:    NewUserActivityLog(opts.PerUserActivities),
	}
}

// State 监控子系统根状态
// 由组装根显式创建并注入请求管道，不使用包级全局变量，
// 便于测试中创建多个互不干扰的实例
type State struct {
	opts Options

	mu  sync.RWMutex
	cur *accum
}

// NewState 创建监控状态，统计窗口从当前时刻开始
func NewState(opts Options) *State {
	opts = opts.withDefaults()
	return &State{
		opts: opts,
		cur:  newAccum(opts),
	}
}

// current 取当前统计窗口
func (s *State) current() *accum {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Reset 原子地丢弃全部统计状态，开启新的统计窗口
// 整体替换引用：重置瞬间仍在途的请求会落在旧窗口上，
// 不会污染新窗口，也不会被读到
func (s *State) Reset() {
	fresh := newAccum(s.opts)
	s.mu.Lock()
	s.cur = fresh
	s.mu.Unlock()
}

// Epoch 当前统计窗口的起始时间
func (s *State) Epoch() time.Time {
	return s.current().epoch
}

// TotalRequests 当前窗口累计请求数
func (s *State) TotalRequests() int64 {
	return s.current().totalRequests.Load()
}

// TotalErrors 当前窗口累计错误数（含已被错误日志淘汰的）
func (s *State) TotalErrors() int64 {
	return s.current().totalErrors.Load()
}

// ActiveUsers 当前窗口内出现过的不同用户数
func (s *State) ActiveUsers() int {
	return s.current().activeUsers.Size()
}
