package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/medication-reminder-api/databases"
	"github.com/linesmerrill/medication-reminder-api/locks"
	"github.com/linesmerrill/medication-reminder-api/schedule"
)

const (
	// DefaultSpec runs the daily job shortly after midnight
	DefaultSpec = "5 0 * * *"

	jobLockKey = "job:daily-schedule"
	jobLockTTL = 10 * time.Minute
	jobTimeout = 5 * time.Minute
)

// Scheduler pre-generates every user's pending logs once a day, so reminders exist
// before anyone opens the dashboard
type Scheduler struct {
	cron       *cron.Cron
	MDB        databases.MedicationDatabase
	Expander   *schedule.Expander
	Locker     locks.Locker
	instanceID string
}

// NewScheduler creates a new scheduler instance running in the expander's time zone
func NewScheduler(mdb databases.MedicationDatabase, expander *schedule.Expander, locker locks.Locker) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}
	if locker == nil {
		locker = locks.NewLocal()
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(expander.Location)),
		MDB:        mdb,
		Expander:   expander,
		Locker:     locker,
		instanceID: instanceID,
	}
}

// Start registers the daily job on spec and starts the cron loop
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}
	if _, err := s.cron.AddFunc(spec, s.generateSchedules); err != nil {
		return fmt.Errorf("failed to register daily schedule job %q: %w", spec, err)
	}

	s.cron.Start()
	zap.S().Infow("schedule pre-generation started", "spec", spec, "instance", s.instanceID)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("schedule pre-generation stopped")
}

func (s *Scheduler) generateSchedules() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		zap.S().Errorw("daily schedule job failed", "instance", s.instanceID, "error", err)
	}
}

// RunOnce generates today's logs for every user with an active medication and returns
// how many logs were created. It does nothing when another instance holds the job lock.
// A failure for one user is logged and the remaining users are still processed.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	lock, err := s.Locker.TryAcquire(ctx, jobLockKey, jobLockTTL)
	if errors.Is(err, locks.ErrNotAcquired) {
		zap.S().Debug("daily schedule job already running on another instance, skipping")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to acquire lock for daily schedule job: %w", err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			zap.S().Warnw("failed to release daily schedule lock", "error", err)
		}
	}()

	userIDs, err := s.MDB.ActiveUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	day := s.Expander.Today()
	zap.S().Infow("running daily schedule job", "instance", s.instanceID, "day", day.String(), "users", len(userIDs))

	created, failed := 0, 0
	for _, userID := range userIDs {
		res, err := s.Expander.Generate(ctx, userID, day)
		created += res.Count()
		if err != nil {
			failed++
			zap.S().Errorw("failed to generate schedule", "userId", userID.Hex(), "error", err)
			continue
		}
	}

	zap.S().Infow("daily schedule job finished", "day", day.String(), "created", created, "failedUsers", failed)
	return created, nil
}
