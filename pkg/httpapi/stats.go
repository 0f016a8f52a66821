package httpapi

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pbnjay/memory"
	"github.com/prometheus/procfs"
)

// Stats is a snapshot of process health served on /debug/stats.
type Stats struct {
	Uptime      string  `json:"uptime"`
	Goroutines  int     `json:"goroutines"`
	Rooms       int     `json:"rooms"`
	HeapAlloc   uint64  `json:"heapAlloc"`
	SystemTotal uint64  `json:"systemTotal"`
	SystemFree  uint64  `json:"systemFree"`
	RSS         int     `json:"rss,omitempty"`
	CPUSeconds  float64 `json:"cpuSeconds,omitempty"`
}

func (s *Server) collectStats(c *gin.Context) (*Stats, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	st := &Stats{
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		Goroutines:  runtime.NumGoroutine(),
		HeapAlloc:   ms.HeapAlloc,
		SystemTotal: memory.TotalMemory(),
		SystemFree:  memory.FreeMemory(),
	}

	rooms, err := s.svc.ListRooms(c.Request.Context())
	if err != nil {
		return nil, err
	}
	st.Rooms = len(rooms)

	// procfs only exists on Linux; elsewhere the process fields stay empty.
	if proc, err := procfs.Self(); err == nil {
		if stat, err := proc.Stat(); err == nil {
			st.RSS = stat.ResidentMemory()
			st.CPUSeconds = stat.CPUTime()
		}
	}
	return st, nil
}

func (s *Server) stats(c *gin.Context) {
	st, err := s.collectStats(c)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, st)
}
