package monitoring

import (
	"encoding/json"
	"sync"
	"testing"
)

func TestCounterMapConcurrentIncr(t *testing.T) {
	c := NewCounterMap()

	const goroutines = 50
	const perGoroutine = 200
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				c.Incr("X")
			}
		}()
	}
	wg.Wait()

	// 任意交织下计数都不能丢
	if got := c.Count("X"); got != goroutines*perGoroutine {
		t.Errorf("Count(X) = %d, 期望 %d", got, goroutines*perGoroutine)
	}
}

func TestCounterMapTopN(t *testing.T) {
	c := NewCounterMap()
	for i := 0; i < 3; i++ {
		c.Incr("GET /a")
	}
	for i := 0; i < 5; i++ {
		c.Incr("GET /b")
	}
	c.Incr("GET /c")

	top := c.TopN(2)
	if len(top) != 2 {
		t.Fatalf("TopN(2) 长度 = %d, 期望 2", len(top))
	}
	if top[0].Key != "GET /b" || top[0].Count != 5 {
		t.Errorf("top[0] = %+v, 期望 GET /b:5", top[0])
	}
	if top[1].Key != "GET /a" || top[1].Count != 3 {
		t.Errorf("top[1] = %+v, 期望 GET /a:3", top[1])
	}
}

func TestCounterMapTopNStableTies(t *testing.T) {
	c := NewCounterMap()
	// 计数相同时按首次出现顺序排列
	c.Incr("first")
	c.Incr("second")
	c.Incr("third")

	top := c.TopN(3)
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if top[i].Key != w {
			t.Errorf("top[%d] = %s, 期望 %s", i, top[i].Key, w)
		}
	}
}

func TestKeyCountJSON(t *testing.T) {
	data, err := json.Marshal(KeyCount{Key: "GET /transactions", Count: 7})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["GET /transactions",7]` {
		t.Errorf("序列化结果 = %s", data)
	}

	var kc KeyCount
	if err := json.Unmarshal(data, &kc); err != nil {
		t.Fatal(err)
	}
	if kc.Key != "GET /transactions" || kc.Count != 7 {
		t.Errorf("反序列化结果 = %+v", kc)
	}
}
