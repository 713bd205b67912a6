package monitoring

import (
	"encoding/json"
	"sort"
	"sync"
)

// CounterMap 维度计数器（endpoint / IP / User-Agent）
// 记录每个 key 的出现次数，保留 key 首次出现的顺序用于稳定排序
type CounterMap struct {
	mu     sync.RWMutex
	counts map[string]int64
	order  []string
}

// NewCounterMap 创建计数器
func NewCounterMap() *CounterMap {
	return &CounterMap{
		counts: make(map[string]int64),
	}
}

// Incr key 计数加一，首次出现时自动创建
func (c *CounterMap) Incr(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Count 返回 key 的当前计数
func (c *CounterMap) Count(key string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[key]
}

// Len 不同 key 的数量
func (c *CounterMap) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.counts)
}

// KeyCount key 与计数对，序列化为 [key, count] 形式
type KeyCount struct {
	Key   string
	Count int64
}

// MarshalJSON 序列化为两元素数组，与前端消费的格式保持一致
func (kc KeyCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{kc.Key, kc.Count})
}

// UnmarshalJSON 从 [key, count] 数组反序列化
func (kc *KeyCount) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &kc.Key); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &kc.Count)
}

// TopN 返回计数最高的 n 个 key
// 计数相同时按首次出现顺序排列，保证输出稳定
func (c *CounterMap) TopN(n int) []KeyCount {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pairs := make([]KeyCount, 0, len(c.order))
	for _, key := range c.order {
		pairs = append(pairs, KeyCount{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Count > pairs[j].Count
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
