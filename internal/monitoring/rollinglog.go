package monitoring

import "sync"

const defaultLogCapacity = 100

// RollingLog 固定容量的最近优先日志
// 最新的条目在最前面，超过容量时淘汰最旧的一条，写入永不拒绝
type RollingLog[T any] struct {
	mu       sync.RWMutex
	items    []T
	capacity int
}

// NewRollingLog 创建日志，capacity 为 0 时使用默认 100
func NewRollingLog[T any](capacity int) *RollingLog[T] {
	if capacity <= 0 {
		capacity = defaultLogCapacity
	}
	return &RollingLog[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Push 在最前面插入一条，满时丢弃最旧的一条
func (l *RollingLog[T]) Push(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) < l.capacity {
		var zero T
		l.items = append(l.items, zero)
	}
	copy(l.items[1:], l.items)
	l.items[0] = item
}

// Len 当前条目数
func (l *RollingLog[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Snapshot 返回最近 n 条的快照（最新在前），n <= 0 表示全部
func (l *RollingLog[T]) Snapshot(n int) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.items) {
		n = len(l.items)
	}
	result := make([]T, n)
	copy(result, l.items[:n])
	return result
}
