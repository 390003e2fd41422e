package crawlers

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// 可用内存压力等级阈值(MB)
const (
	pressureWarningMB   = 500
	pressureCriticalMB  = 300
	pressureEmergencyMB = 200
)

// ResourceMonitor 系统资源监控器
// 职责: 周期性采样系统内存、CPU和本进程堆内存,供进度日志使用
type ResourceMonitor struct {
	last ResourceSnapshot
	mu   sync.RWMutex

	// 采样函数,测试中可替换
	sample func() ResourceSnapshot

	cancelFunc context.CancelFunc
	isRunning  bool
}

// ResourceSnapshot 一次资源采样
type ResourceSnapshot struct {
	TotalMemory     uint64    // 系统总内存(字节)
	AvailableMemory uint64    // 系统可用内存(字节)
	UsedPercent     float64   // 系统内存使用率(%)
	ProcessAlloc    uint64    // 本进程堆内存(字节)
	CPUPercent      float64   // 系统CPU使用率(%)
	SampledAt       time.Time // 采样时间
}

// MemoryPressure 根据可用内存返回压力等级
func (s ResourceSnapshot) MemoryPressure() string {
	if s.TotalMemory == 0 {
		return "unknown"
	}
	availableMB := s.AvailableMemory / (1024 * 1024)
	switch {
	case availableMB < pressureEmergencyMB:
		return "emergency"
	case availableMB < pressureCriticalMB:
		return "critical"
	case availableMB < pressureWarningMB:
		return "warning"
	default:
		return "normal"
	}
}

// NewResourceMonitor 创建资源监控器并立即采样一次
func NewResourceMonitor() *ResourceMonitor {
	rm := &ResourceMonitor{sample: sampleResources}
	rm.refresh()

	if total := rm.Snapshot().TotalMemory; total > 0 {
		log.Debug().Msgf("系统总内存: %.2f GB", float64(total)/(1024*1024*1024))
	}
	return rm
}

// StartMonitoring 启动后台采样(幂等)
func (rm *ResourceMonitor) StartMonitoring(interval time.Duration) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.isRunning || interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	rm.cancelFunc = cancel
	rm.isRunning = true

	go rm.monitoringLoop(ctx, interval)
}

func (rm *ResourceMonitor) monitoringLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rm.refresh()
		}
	}
}

// StopMonitoring 停止后台采样
func (rm *ResourceMonitor) StopMonitoring() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.isRunning && rm.cancelFunc != nil {
		rm.cancelFunc()
		rm.isRunning = false
		rm.cancelFunc = nil
	}
}

// Snapshot 最近一次采样结果
func (rm *ResourceMonitor) Snapshot() ResourceSnapshot {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.last
}

func (rm *ResourceMonitor) refresh() {
	snapshot := rm.sample()

	rm.mu.Lock()
	rm.last = snapshot
	rm.mu.Unlock()

	if pressure := snapshot.MemoryPressure(); pressure == "critical" || pressure == "emergency" {
		log.Warn().Msgf("系统可用内存不足(当前%dMB)", snapshot.AvailableMemory/(1024*1024))
	}
}

// sampleResources 使用gopsutil采样系统内存和CPU
func sampleResources() ResourceSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := ResourceSnapshot{
		ProcessAlloc: memStats.Alloc,
		SampledAt:    time.Now(),
	}

	if vmStat, err := mem.VirtualMemory(); err != nil {
		log.Warn().Err(err).Msg("获取系统内存失败")
	} else {
		snapshot.TotalMemory = vmStat.Total
		snapshot.AvailableMemory = vmStat.Available
		snapshot.UsedPercent = vmStat.UsedPercent
	}

	// 100毫秒采样间隔,避免阻塞过久
	if percentages, err := cpu.Percent(100*time.Millisecond, false); err != nil {
		log.Warn().Err(err).Msg("获取CPU使用率失败")
	} else if len(percentages) > 0 {
		snapshot.CPUPercent = percentages[0]
	}

	return snapshot
}
