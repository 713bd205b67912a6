package monitoring

import "sync"

// AnonymousUser 未登录请求的用户标识
const AnonymousUser = "anonymous"

// ActiveUserSet 自上次重置以来出现过的用户集合
// 只增不减：没有会话跟踪，用户断开后仍算活跃，直到下次重置
type ActiveUserSet struct {
	mu    sync.RWMutex
	ids   map[string]struct{}
	order []string
}

// NewActiveUserSet 创建用户集合
func NewActiveUserSet() *ActiveUserSet {
	return &ActiveUserSet{
		ids: make(map[string]struct{}),
	}
}

// Record 记录一个用户，匿名用户与空值忽略，重复记录幂等
func (s *ActiveUserSet) Record(userID string) {
	if userID == "" || userID == AnonymousUser {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[userID]; ok {
		return
	}
	s.ids[userID] = struct{}{}
	s.order = append(s.order, userID)
}

// Size 不同用户数
func (s *ActiveUserSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// SampleIDs 按首次出现顺序返回最多 n 个用户标识
func (s *ActiveUserSet) SampleIDs(n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.order) {
		n = len(s.order)
	}
	result := make([]string, n)
	copy(result, s.order[:n])
	return result
}
