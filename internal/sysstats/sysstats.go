package sysstats

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"
)

// MemoryUsage 进程内存占用
type MemoryUsage struct {
	AllocMB     float64 `json:"allocMB"`     // 堆上已分配内存（MB）
	SysMB       float64 `json:"sysMB"`       // 向操作系统申请的内存（MB）
	RSSMB       float64 `json:"rssMB"`       // 常驻内存（MB）
	HeapObjects uint64  `json:"heapObjects"` // 堆对象数
	NumGC       uint32  `json:"numGC"`       // GC 次数
}

// CPUUsage 进程 CPU 占用
type CPUUsage struct {
	Percent       float64 `json:"percent"`       // CPU 使用率
	UserSeconds   float64 `json:"userSeconds"`   // 用户态累计耗时（秒）
	SystemSeconds float64 `json:"systemSeconds"` // 内核态累计耗时（秒）
}

// GetMemoryUsage 获取当前进程内存占用
// 运行时信息采不到的字段保持零值，不返回错误
func GetMemoryUsage() MemoryUsage {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m := MemoryUsage{
		AllocMB:     float64(ms.Alloc) / (1024 * 1024),
		SysMB:       float64(ms.Sys) / (1024 * 1024),
		HeapObjects: ms.HeapObjects,
		NumGC:       ms.NumGC,
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return m
	}
	if mi, err := p.MemoryInfo(); err == nil && mi != nil {
		m.RSSMB = float64(mi.RSS) / (1024 * 1024)
	}
	return m
}

// GetCPUUsage 获取当前进程 CPU 占用
func GetCPUUsage() CPUUsage {
	var c CPUUsage
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return c
	}
	if percent, err := p.CPUPercent(); err == nil {
		c.Percent = percent
	}
	if times, err := p.Times(); err == nil && times != nil {
		c.UserSeconds = times.User
		c.SystemSeconds = times.System
	}
	return c
}
