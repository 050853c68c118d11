// Package audit periodically reconciles every group's ledger. It reports
// mismatches and never repairs them.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/reconcile"
)

const defaultConcurrency = 4

// GroupLister lists the groups to audit.
type GroupLister interface {
	ListGroupIDs(ctx context.Context) ([]string, error)
}

// Reconciler checks one group.
type Reconciler interface {
	Reconcile(ctx context.Context, groupID string) (*reconcile.Report, error)
}

// Summary is the result of one audit pass.
type Summary struct {
	StartedAt     time.Time           `json:"started_at"`
	Duration      time.Duration       `json:"duration"`
	GroupsChecked int                 `json:"groups_checked"`
	Mismatched    []string            `json:"mismatched"`
	Failed        map[string]string   `json:"failed,omitempty"`
	Reports       []*reconcile.Report `json:"reports"`
}

// Scheduler runs audit passes on a cron schedule.
type Scheduler struct {
	cron        *cron.Cron
	groups      GroupLister
	reconciler  Reconciler
	concurrency int
	logger      *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler that checks at most concurrency groups at once.
func NewScheduler(groups GroupLister, reconciler Reconciler, concurrency int, logger *slog.Logger) *Scheduler {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:        cron.New(),
		groups:      groups,
		reconciler:  reconciler,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Start schedules audit passes with a standard five-field cron spec and
// starts the cron runner.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Warn("scheduled audit failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid audit schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("audit scheduler started", "schedule", schedule, "concurrency", s.concurrency)
	return nil
}

// Stop stops the cron runner and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("audit scheduler stopped")
}

// RunOnce reconciles every group. A pass that overlaps a previous one is
// skipped. Per-group failures are collected in the summary rather than
// aborting the pass.
func (s *Scheduler) RunOnce(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("audit pass already running, skipping")
		return nil, nil
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	summary := &Summary{StartedAt: time.Now().UTC()}

	groupIDs, err := s.groups.ListGroupIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, groupID := range groupIDs {
		groupID := groupID
		g.Go(func() error {
			report, err := s.reconciler.Reconcile(gctx, groupID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if summary.Failed == nil {
					summary.Failed = make(map[string]string)
				}
				summary.Failed[groupID] = err.Error()
				s.logger.Warn("audit of group failed", "group_id", groupID, "error", err)
				return nil // don't fail the whole pass
			}
			summary.Reports = append(summary.Reports, report)
			if report.Status == reconcile.StatusMismatch {
				summary.Mismatched = append(summary.Mismatched, groupID)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("audit groups: %w", err)
	}

	sort.Strings(summary.Mismatched)
	sort.Slice(summary.Reports, func(i, j int) bool {
		return summary.Reports[i].GroupID < summary.Reports[j].GroupID
	})
	summary.GroupsChecked = len(summary.Reports)
	summary.Duration = time.Since(summary.StartedAt)

	level := slog.LevelInfo
	if len(summary.Mismatched) > 0 || len(summary.Failed) > 0 {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "audit pass complete",
		"groups", summary.GroupsChecked,
		"mismatched", len(summary.Mismatched),
		"failed", len(summary.Failed),
		"duration", summary.Duration,
	)
	return summary, nil
}
