package monitoring

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestMeta 请求开始时由传输层提供的元数据
type RequestMeta struct {
	Method    string
	Path      string // 路由模板，如 /api/v1/transactions/:id
	IP        string
	UserAgent string
	UserID    string // 认证层解析出的用户标识，空表示匿名
}

// sanitize 填补缺失字段，元数据残缺不应阻断记录
func (m RequestMeta) sanitize() RequestMeta {
	if m.Method == "" {
		m.Method = "UNKNOWN"
	}
	if m.Path == "" {
		m.Path = "(unknown)"
	}
	if m.IP == "" {
		m.IP = "unknown"
	}
	if m.UserID == "" {
		m.UserID = AnonymousUser
	}
	return m
}

// OnStart 请求开始钩子
// 创建请求记录并更新计数器、活跃用户集合、最近请求日志和用户活动日志，
// 返回的记录交由调用方在响应完成时传给 OnComplete
func (s *State) OnStart(meta RequestMeta) *RequestRecord {
	meta = meta.sanitize()
	a := s.current()

	rec := &RequestRecord{
		ID:        uuid.NewString(),
		Method:    meta.Method,
		Path:      meta.Path,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		UserID:    meta.UserID,
		StartedAt: time.Now(),
		owner:     a,
	}

	a.totalRequests.Add(1)
	a.endpoints.Incr(meta.Method + " " + meta.Path)
	a.ips.Incr(meta.IP)
	if meta.UserAgent != "" {
		a.agents.Incr(meta.UserAgent)
	}
	a.activeUsers.Record(meta.UserID)
	a.requests.Push(rec)
	if meta.UserID != AnonymousUser {
		a.activity.Record(meta.UserID, UserActivity{
			UserID:    meta.UserID,
			Method:    meta.Method,
			Endpoint:  meta.Path,
			IP:        meta.IP,
			Timestamp: rec.StartedAt,
		})
	}

	if s.opts.LogRequests {
		log.Printf("[monitor] %s %s - IP: %s - 用户: %s", meta.Method, meta.Path, meta.IP, meta.UserID)
	}
	return rec
}

// OnComplete 响应完成钩子
// 为记录挂接状态码与耗时，状态码 >= 400 时追加到错误日志
// 重复调用只覆盖完成信息，不重复计入错误；从不调用则记录保持未完成状态
func (s *State) OnComplete(rec *RequestRecord, statusCode int, durationMs float64, responseSize int64, errorDetail string) {
	if rec == nil {
		return
	}
	c := &Completion{
		StatusCode:   statusCode,
		DurationMs:   durationMs,
		ResponseSize: responseSize,
	}
	if !rec.completion.CompareAndSwap(nil, c) {
		// 重复完成：覆盖即可，错误计数不再累加
		rec.completion.Store(c)
		return
	}

	if statusCode >= 400 {
		if errorDetail == "" {
			errorDetail = http.StatusText(statusCode)
			if errorDetail == "" {
				errorDetail = "Unknown error"
			}
		}
		// 错误记到该请求所属的窗口上，重置后的新窗口不受在途请求影响
		rec.owner.totalErrors.Add(1)
		rec.owner.errors.Push(ErrorRecord{
			RecordView:  rec.View(),
			ErrorDetail: errorDetail,
		})
	}

	if s.opts.LogRequests {
		log.Printf("[monitor] %s 完成 - 状态: %d - 耗时: %.2fms", rec.ID, statusCode, durationMs)
	}
}

// Middleware 请求监控中间件
// identity 由认证层提供，按请求解析当前用户标识，返回空表示匿名；
// 必须注册在所有业务路由之前，才能覆盖全部请求
func (s *State) Middleware(identity func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 优先用路由模板做 endpoint key，避免路径参数撑爆基数
		path := c.FullPath()
		if path == "" {
			if s.opts.RawUnmatchedPath {
				path = c.Request.URL.Path
			} else {
				path = "(unmatched)"
			}
		}

		userID := ""
		if identity != nil {
			userID = identity(c)
		}

		rec := s.OnStart(RequestMeta{
			Method:    c.Request.Method,
			Path:      path,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			UserID:    userID,
		})

		c.Next()

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		size := int64(c.Writer.Size())
		if size < 0 {
			size = 0
		}
		detail := ""
		if last := c.Errors.Last(); last != nil {
			detail = last.Error()
		}
		s.OnComplete(rec, c.Writer.Status(), durationMs, size, detail)
	}
}
