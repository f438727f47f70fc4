package observability

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// MonitoringStats is the snapshot served by the health endpoint.
type MonitoringStats struct {
	Sessions     int64   `json:"sessions"`
	Users        int     `json:"users"`
	Channels     int     `json:"channels"`
	PersistQueue int     `json:"persist_queue"`
	PersistCap   int     `json:"persist_capacity"`
	RSSBytes     uint64  `json:"rss_bytes"`
	CPUPercent   float64 `json:"cpu_percent"`
	AllocMemMb   uint64  `json:"alloc_mem_mb"`
	NumGC        uint32  `json:"num_gc"`
	Goroutines   int     `json:"goroutines"`
	Uptime       string  `json:"uptime"`
}

// MonitoringManager keeps the latest process figures sampled by the stats
// worker, and live counters updated by the runtime.
type MonitoringManager struct {
	mu          sync.RWMutex
	startedAt   time.Time
	latestStats MonitoringStats

	sessions int64
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{startedAt: time.Now()}
}

func (mm *MonitoringManager) IncrSessions() {
	atomic.AddInt64(&mm.sessions, 1)
}

func (mm *MonitoringManager) DecrSessions() {
	atomic.AddInt64(&mm.sessions, -1)
}

// UpdateProcess records the figures read from the operating system.
func (mm *MonitoringManager) UpdateProcess(rss uint64, cpuPercent float64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latestStats.RSSBytes = rss
	mm.latestStats.CPUPercent = cpuPercent
	mm.latestStats.AllocMemMb = m.Alloc / 1024 / 1024
	mm.latestStats.NumGC = m.NumGC
}

func (mm *MonitoringManager) UpdateQueue(size, capacity int) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latestStats.PersistQueue = size
	mm.latestStats.PersistCap = capacity
}

func (mm *MonitoringManager) UpdateCache(users, channels int) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latestStats.Users = users
	mm.latestStats.Channels = channels
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	stats := mm.latestStats
	mm.mu.RUnlock()

	stats.Sessions = atomic.LoadInt64(&mm.sessions)
	stats.Goroutines = runtime.NumGoroutine()
	stats.Uptime = time.Since(mm.startedAt).Truncate(time.Second).String()
	return stats
}
