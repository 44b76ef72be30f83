package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"notaria-digital/internal/adapters/persistence/repositories"
	"notaria-digital/internal/core/domain"
)

// pendingAge is how old a PENDING request must be before it appears in
// the daily digest.
const pendingAge = 24 * time.Hour

// ReminderService logs a daily digest of requests that are waiting on a
// human: PENDING requests older than a day and APPROVED requests whose
// payment never arrived. It is report-only and never mutates request
// state — an approved-but-unpaid request stays APPROVED indefinitely.
type ReminderService struct {
	requestRepo repositories.RequestRepository
	cron        *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(requestRepo repositories.RequestRepository) *ReminderService {
	return &ReminderService{
		requestRepo: requestRepo,
		cron:        cron.New(),
	}
}

// Start schedules the daily digest at 08:30
func (s *ReminderService) Start() {
	s.cron.AddFunc("30 8 * * *", s.RunDigest)
	s.cron.Start()
	log.Println("🚀 ReminderService started (daily digest at 08:30)")
}

// Stop stops the scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
	log.Println("🛑 ReminderService stopped")
}

// RunDigest logs the current backlog
func (s *ReminderService) RunDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-pendingAge)

	pending, err := s.requestRepo.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		log.Printf("❌ Reminder digest query error: %v", err)
		return
	}
	var stale int
	for _, req := range pending {
		if req.CreatedAt.Before(cutoff) {
			stale++
		}
	}

	unpaid, err := s.requestRepo.ListByStatus(ctx, domain.StatusApproved)
	if err != nil {
		log.Printf("❌ Reminder digest query error: %v", err)
		return
	}

	log.Printf("📋 Daily digest: %d pending >24h, %d approved awaiting payment", stale, len(unpaid))
	for _, req := range unpaid {
		log.Printf("📋   awaiting payment: %s (%s) since %s", req.ID, req.Title, req.UpdatedAt.Format("2006-01-02"))
	}
}
