// Package schedule materializes a user's daily medication logs from each medication's
// weekly recurrence.
package schedule

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/medication-reminder-api/databases"
	"github.com/linesmerrill/medication-reminder-api/locks"
	"github.com/linesmerrill/medication-reminder-api/models"
)

// DefaultLockTTL bounds how long one generation may hold a user's day
const DefaultLockTTL = 30 * time.Second

// Result lists the logs a generation created
type Result struct {
	Created []models.MedicationLog
}

// Count is the number of logs created
func (r *Result) Count() int {
	return len(r.Created)
}

// Expander creates the pending logs due on a day for every active medication of a user.
// Generation for the same (user, day) is serialized through Locker, and each log is written
// create-if-absent, so repeated or concurrent runs never produce two logs for the same
// medication and scheduled time.
type Expander struct {
	Medications databases.MedicationDatabase
	Logs        databases.MedicationLogDatabase
	Locker      locks.Locker
	Location    *time.Location
	LockTTL     time.Duration
	Now         func() time.Time
}

// NewExpander wires an Expander. A nil locker falls back to an in-process one.
func NewExpander(mdb databases.MedicationDatabase, ldb databases.MedicationLogDatabase, locker locks.Locker, loc *time.Location, lockTTL time.Duration) *Expander {
	if locker == nil {
		locker = locks.NewLocal()
	}
	if loc == nil {
		loc = time.Local
	}
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &Expander{
		Medications: mdb,
		Logs:        ldb,
		Locker:      locker,
		Location:    loc,
		LockTTL:     lockTTL,
		Now:         time.Now,
	}
}

// Today is the current calendar day in the expander's time zone
func (e *Expander) Today() Day {
	return DayOf(e.Now(), e.Location)
}

// GenerateToday runs Generate for the current day
func (e *Expander) GenerateToday(ctx context.Context, userID primitive.ObjectID) (*Result, error) {
	return e.Generate(ctx, userID, e.Today())
}

// Generate creates the missing pending logs of userID for day. On error the returned
// Result still lists the logs created before the failure; they are not rolled back.
func (e *Expander) Generate(ctx context.Context, userID primitive.ObjectID, day Day) (*Result, error) {
	result := &Result{Created: []models.MedicationLog{}}
	if userID.IsZero() {
		return result, models.ErrUnauthenticated
	}

	key := fmt.Sprintf("schedule:%s:%s", userID.Hex(), day)
	lock, err := locks.Acquire(ctx, e.Locker, key, e.LockTTL, locks.DefaultRetryInterval)
	if err != nil {
		return result, fmt.Errorf("acquire %s: %w", key, err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			zap.S().Warnw("failed to release schedule lock", "key", key, "error", err)
		}
	}()

	medications, err := e.Medications.FindByUser(ctx, userID, false)
	if err != nil {
		return result, err
	}

	for _, medication := range medications {
		if !medication.IsActive || !medication.ScheduledOn(day.Weekday) {
			continue
		}
		if err := e.expand(ctx, userID, medication, day, result); err != nil {
			zap.S().Errorw("schedule generation stopped",
				"userId", userID.Hex(),
				"medicationId", medication.ID.Hex(),
				"day", day.String(),
				"created", result.Count(),
				"error", err)
			return result, err
		}
	}

	zap.S().Debugw("schedule generated", "userId", userID.Hex(), "day", day.String(), "created", result.Count())
	return result, nil
}

func (e *Expander) expand(ctx context.Context, userID primitive.ObjectID, medication models.Medication, day Day, result *Result) error {
	existing, err := e.Logs.FindForMedication(ctx, userID, medication.ID, day.Start, day.End)
	if err != nil {
		return err
	}

	// slots already taken, as minutes after midnight
	taken := make(map[int]bool, len(existing)+len(medication.Times))
	for _, log := range existing {
		scheduled := log.ScheduledTime.In(day.Start.Location())
		taken[scheduled.Hour()*60+scheduled.Minute()] = true
	}

	for _, t := range medication.Times {
		hour, minute, err := ParseTimeOfDay(t)
		if err != nil {
			return models.NewStorageError("parse medication times", err)
		}
		slot := hour*60 + minute
		if taken[slot] {
			continue
		}
		taken[slot] = true

		log := &models.MedicationLog{
			UserID:        userID,
			MedicationID:  medication.ID,
			ScheduledTime: day.At(hour, minute),
			Status:        models.StatusPending,
		}
		created, err := e.Logs.CreateIfAbsent(ctx, log)
		if err != nil {
			return err
		}
		if created {
			result.Created = append(result.Created, *log)
		}
	}
	return nil
}
