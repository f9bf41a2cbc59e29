package monitoring

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/edvass/notevault/internal/websocket"
)

// Stats is a point-in-time sample of host and application state.
type Stats struct {
	CPUPercent     float64   `json:"cpuPercent"`
	MemUsedPercent float64   `json:"memUsedPercent"`
	MemUsedMB      uint64    `json:"memUsedMb"`
	Users          int       `json:"users"`
	Notes          int       `json:"notes"`
	CollectedAt    time.Time `json:"collectedAt"`
}

// StatUpdater periodically samples host load and row counts, keeps the
// latest sample for the system endpoint, and pushes it to connected
// websocket clients.
type StatUpdater struct {
	db     *sql.DB
	hub    *websocket.Hub
	ticker *time.Ticker
	done   chan bool

	mu     sync.RWMutex
	latest Stats
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(db *sql.DB, hub *websocket.Hub) *StatUpdater {
	return &StatUpdater{
		db:   db,
		hub:  hub,
		done: make(chan bool),
	}
}

// Run starts the periodic updates.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater")
	su.ticker = time.NewTicker(30 * time.Second)
	defer su.ticker.Stop()

	// Run once immediately on start
	su.update()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater")
			return
		case <-su.ticker.C:
			su.update()
		}
	}
}

// Stop halts the periodic updates.
func (su *StatUpdater) Stop() {
	su.done <- true
}

// Latest returns the most recent sample.
func (su *StatUpdater) Latest() Stats {
	su.mu.RLock()
	defer su.mu.RUnlock()
	return su.latest
}

func (su *StatUpdater) update() {
	stats := Stats{CollectedAt: time.Now()}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("StatUpdater: failed to sample CPU")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemUsedPercent = vm.UsedPercent
		stats.MemUsedMB = vm.Used / 1024 / 1024
	} else {
		log.Warn().Err(err).Msg("StatUpdater: failed to sample memory")
	}

	if err := su.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&stats.Users); err != nil {
		log.Warn().Err(err).Msg("StatUpdater: failed to count users")
	}
	if err := su.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&stats.Notes); err != nil {
		log.Warn().Err(err).Msg("StatUpdater: failed to count notes")
	}

	su.mu.Lock()
	su.latest = stats
	su.mu.Unlock()

	if su.hub != nil {
		if data, err := json.Marshal(websocket.Message{Action: "system.stats", Payload: stats}); err == nil {
			select {
			case su.hub.Broadcast <- data:
			default:
				// Hub busy or not running; skip this sample.
			}
		}
	}
}
