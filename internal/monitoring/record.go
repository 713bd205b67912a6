package monitoring

import (
	"sync/atomic"
	"time"
)

// RequestRecord 单次请求记录
// 开始阶段的字段创建后不可变；完成信息通过原子指针挂接，
// 读取方要么看到 nil（尚未完成），要么看到完整的 Completion
type RequestRecord struct {
	ID        string
	Method    string
	Path      string
	IP        string
	UserAgent string
	UserID    string
	StartedAt time.Time

	completion atomic.Pointer[Completion]
	owner      *accum
}

// Completion 响应完成信息
type Completion struct {
	StatusCode   int
	DurationMs   float64
	ResponseSize int64
}

// Done 响应是否已完成
func (r *RequestRecord) Done() bool {
	return r.completion.Load() != nil
}

// Result 返回完成信息，未完成时为 nil
func (r *RequestRecord) Result() *Completion {
	return r.completion.Load()
}

// RecordView 请求记录的序列化视图
// 未完成的请求 statusCode / durationMs 缺省，不视为错误
type RecordView struct {
	ID           string    `json:"id"`
	Method       string    `json:"method"`
	Path         string    `json:"path"`
	IP           string    `json:"ip"`
	UserAgent    string    `json:"userAgent,omitempty"`
	UserID       string    `json:"userId"`
	Timestamp    time.Time `json:"timestamp"`
	StatusCode   *int      `json:"statusCode,omitempty"`
	DurationMs   *float64  `json:"durationMs,omitempty"`
	ResponseSize *int64    `json:"responseSize,omitempty"`
}

// View 生成当前时点的视图快照
func (r *RequestRecord) View() RecordView {
	v := RecordView{
		ID:        r.ID,
		Method:    r.Method,
		Path:      r.Path,
		IP:        r.IP,
		UserAgent: r.UserAgent,
		UserID:    r.UserID,
		Timestamp: r.StartedAt,
	}
	if c := r.completion.Load(); c != nil {
		status := c.StatusCode
		duration := c.DurationMs
		size := c.ResponseSize
		v.StatusCode = &status
		v.DurationMs = &duration
		v.ResponseSize = &size
	}
	return v
}

// ErrorRecord 状态码 >= 400 时保留的请求记录
type ErrorRecord struct {
	RecordView
	ErrorDetail string `json:"error"`
}
