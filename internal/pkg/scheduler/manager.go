package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/marsolucoes/lumia/internal/pkg/cache"
)

const defaultRunInterval = 24 * time.Hour
const runLockTTL = 20 * time.Hour

// Manager runs the daily trial jobs in the background. A redis date-keyed
// lock keeps the jobs single-shot per day when several instances run.
type Manager struct {
	jobs *TrialJobs

	ticker  *time.Ticker
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global scheduler manager (singleton).
func GetManager(jobs *TrialJobs) *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{
			jobs:   jobs,
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// Start launches the daily trial worker.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so the manager can be
	// restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Scheduler] Starting trial background jobs")

	m.ticker = time.NewTicker(defaultRunInterval)
	m.wg.Add(1)
	go m.trialWorker()
}

// Stop halts the background worker and waits for it to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
	if m.ticker != nil {
		m.ticker.Stop()
	}
	m.wg.Wait()
	log.Info("[Scheduler] Trial background jobs stopped")
}

func (m *Manager) trialWorker() {
	defer m.wg.Done()

	// Run once at startup to self-heal after downtime.
	m.runGuarded()

	for {
		select {
		case <-m.stopCh:
			return
		case <-m.ticker.C:
			m.runGuarded()
		}
	}
}

// runGuarded takes the per-day lock before running so restarts or extra
// instances never double-send trial mails.
func (m *Manager) runGuarded() {
	lockKey := "scheduler:trials:" + time.Now().Format("2006-01-02")
	acquired, err := cache.SetIfAbsent(lockKey, 1, runLockTTL)
	if err != nil {
		log.Errorf("[Scheduler] Could not acquire trial run lock: %v", err)
		return
	}
	if !acquired {
		log.Debugf("[Scheduler] Trial jobs already ran today, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	if err := m.jobs.RunTrialExpirationOnce(ctx, now); err != nil {
		log.Errorf("[Scheduler] Trial expiration run failed: %v", err)
	}
	if err := m.jobs.RunTrialReminderOnce(ctx, now); err != nil {
		log.Errorf("[Scheduler] Trial reminder run failed: %v", err)
	}
}
