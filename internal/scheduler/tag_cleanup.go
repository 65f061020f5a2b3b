// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lucasmoraes/devocional/internal/config"
	"github.com/lucasmoraes/devocional/internal/tasks"
)

// TagCleanupScheduler periodically enqueues the orphan tag cleanup task.
// It is opt-in: lazily created tags stay around by default so they remain
// available in filter UIs even when nothing links to them.
type TagCleanupScheduler struct {
	taskClient *tasks.Client
	config     config.TagCleanup

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewTagCleanupScheduler creates a new scheduler instance.
func NewTagCleanupScheduler(taskClient *tasks.Client, cfg config.TagCleanup) *TagCleanupScheduler {
	return &TagCleanupScheduler{
		taskClient: taskClient,
		config:     cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if tag cleanup is enabled.
func (s *TagCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Tag cleanup scheduler: disabled")
		return nil
	}
	if s.taskClient == nil {
		log.Printf("Tag cleanup scheduler: task queue not available, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Tag cleanup scheduler: started with schedule '%s'", s.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *TagCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Tag cleanup scheduler: stopped")
}

// RunNow triggers an immediate cleanup.
func (s *TagCleanupScheduler) RunNow() {
	go s.runCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *TagCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur.
func (s *TagCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runCleanup enqueues the cleanup task on the queue.
func (s *TagCleanupScheduler) runCleanup() {
	ids, err := s.taskClient.Add(tasks.CleanupOrphanTagsTask{}).Save()
	if err != nil {
		log.Printf("Tag cleanup: failed to enqueue task: %v", err)
		return
	}
	log.Printf("Tag cleanup: enqueued task %s", ids[0])
}
