package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/medication-reminder-api/databases"
	"github.com/linesmerrill/medication-reminder-api/databases/mocks"
	"github.com/linesmerrill/medication-reminder-api/locks"
	"github.com/linesmerrill/medication-reminder-api/models"
)

// memoryLogs stores logs the way mongo hands them back: in UTC, unique per
// (user, medication, scheduledTime).
type memoryLogs struct {
	databases.MedicationLogDatabase

	mu      sync.Mutex
	logs    []models.MedicationLog
	failAt  int // CreateIfAbsent call that fails, 0 never
	creates int
}

func (m *memoryLogs) FindForMedication(_ context.Context, userID, medicationID primitive.ObjectID, from, to time.Time) ([]models.MedicationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := []models.MedicationLog{}
	for _, l := range m.logs {
		if l.UserID != userID || l.MedicationID != medicationID {
			continue
		}
		if l.ScheduledTime.Before(from) || l.ScheduledTime.After(to) {
			continue
		}
		found = append(found, l)
	}
	return found, nil
}

func (m *memoryLogs) CreateIfAbsent(_ context.Context, log *models.MedicationLog) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creates++
	if m.failAt != 0 && m.creates == m.failAt {
		return false, models.NewStorageError("create log", errors.New("connection reset"))
	}
	for _, l := range m.logs {
		if l.UserID == log.UserID && l.MedicationID == log.MedicationID && l.ScheduledTime.Equal(log.ScheduledTime) {
			return false, nil
		}
	}
	log.ID = primitive.NewObjectID()
	stored := *log
	stored.ScheduledTime = log.ScheduledTime.UTC()
	m.logs = append(m.logs, stored)
	return true, nil
}

func (m *memoryLogs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

var (
	testLoc = time.FixedZone("UTC-5", -5*60*60)
	// Tuesday, January 2nd 2024 at 09:30 local
	tuesday = time.Date(2024, 1, 2, 9, 30, 0, 0, testLoc)
)

func everyDay() []int {
	return []int{0, 1, 2, 3, 4, 5, 6}
}

func newMedication(userID primitive.ObjectID, times []string, days []int) models.Medication {
	return models.Medication{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Name:       "Lisinopril",
		Dosage:     "10mg",
		Times:      times,
		DaysOfWeek: days,
		IsActive:   true,
	}
}

func newTestExpander(t *testing.T, userID primitive.ObjectID, medications []models.Medication) (*Expander, *memoryLogs) {
	mdb := mocks.NewMedicationDatabase(t)
	mdb.On("FindByUser", mock.Anything, userID, false).Return(medications, nil)

	logs := &memoryLogs{}
	e := NewExpander(mdb, logs, locks.NewLocal(), testLoc, time.Second)
	e.Now = func() time.Time { return tuesday }
	return e, logs
}

func TestExpander_GenerateToday_CreatesPendingLogs(t *testing.T) {
	userID := primitive.NewObjectID()
	med := newMedication(userID, []string{"08:00", "20:00"}, everyDay())
	e, logs := newTestExpander(t, userID, []models.Medication{med})

	res, err := e.GenerateToday(context.Background(), userID)
	require.NoError(t, err)

	require.Equal(t, 2, res.Count())
	assert.Equal(t, 2, logs.count())
	assert.Equal(t, time.Date(2024, 1, 2, 8, 0, 0, 0, testLoc), res.Created[0].ScheduledTime)
	assert.Equal(t, time.Date(2024, 1, 2, 20, 0, 0, 0, testLoc), res.Created[1].ScheduledTime)
	for _, l := range res.Created {
		assert.Equal(t, models.StatusPending, l.Status)
		assert.Nil(t, l.TakenAt)
		assert.Equal(t, userID, l.UserID)
		assert.Equal(t, med.ID, l.MedicationID)
		assert.False(t, l.ID.IsZero())
	}
}

func TestExpander_GenerateToday_IsIdempotent(t *testing.T) {
	userID := primitive.NewObjectID()
	e, logs := newTestExpander(t, userID, []models.Medication{
		newMedication(userID, []string{"08:00", "20:00"}, everyDay()),
		newMedication(userID, []string{"12:30"}, []int{2}),
	})

	first, err := e.GenerateToday(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Count())

	second, err := e.GenerateToday(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Count())
	assert.NotNil(t, second.Created)
	assert.Equal(t, 3, logs.count())
}

func TestExpander_GenerateToday_SkipsOtherWeekdays(t *testing.T) {
	userID := primitive.NewObjectID()
	e, logs := newTestExpander(t, userID, []models.Medication{
		newMedication(userID, []string{"08:00"}, []int{1, 3, 5}),
	})

	res, err := e.GenerateToday(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count())
	assert.Equal(t, 0, logs.count())
}

func TestExpander_GenerateToday_DeduplicatesTimes(t *testing.T) {
	userID := primitive.NewObjectID()
	e, logs := newTestExpander(t, userID, []models.Medication{
		newMedication(userID, []string{"08:00", "08:00", "8:00"}, everyDay()),
	})

	res, err := e.GenerateToday(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count())
	assert.Equal(t, 1, logs.count())
}

func TestExpander_GenerateToday_SkipsInactive(t *testing.T) {
	userID := primitive.NewObjectID()
	inactive := newMedication(userID, []string{"08:00"}, everyDay())
	inactive.IsActive = false
	e, logs := newTestExpander(t, userID, []models.Medication{inactive})

	res, err := e.GenerateToday(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count())
	assert.Equal(t, 0, logs.count())
}

func TestExpander_GenerateToday_MatchesExistingSlotsInLocalTime(t *testing.T) {
	userID := primitive.NewObjectID()
	med := newMedication(userID, []string{"08:00", "20:00"}, everyDay())
	e, logs := newTestExpander(t, userID, []models.Medication{med})

	// a log the user already marked taken, stored in UTC (13:00Z is 08:00 local)
	takenAt := time.Date(2024, 1, 2, 13, 5, 0, 0, time.UTC)
	logs.logs = append(logs.logs, models.MedicationLog{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		MedicationID:  med.ID,
		ScheduledTime: time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC),
		TakenAt:       &takenAt,
		Status:        models.StatusTaken,
	})

	res, err := e.GenerateToday(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count())
	assert.Equal(t, 20, res.Created[0].ScheduledTime.Hour())
	assert.Equal(t, models.StatusTaken, logs.logs[0].Status)
	assert.Equal(t, 2, logs.count())
}

func TestExpander_GenerateToday_ConcurrentCallsCreateOnce(t *testing.T) {
	userID := primitive.NewObjectID()
	e, logs := newTestExpander(t, userID, []models.Medication{
		newMedication(userID, []string{"08:00", "20:00"}, everyDay()),
	})

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.GenerateToday(context.Background(), userID)
			assert.NoError(t, err)
			mu.Lock()
			total += res.Count()
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, total)
	assert.Equal(t, 2, logs.count())
}

func TestExpander_GenerateToday_KeepsPartialProgress(t *testing.T) {
	userID := primitive.NewObjectID()
	e, logs := newTestExpander(t, userID, []models.Medication{
		newMedication(userID, []string{"08:00", "14:00", "20:00"}, everyDay()),
	})
	logs.failAt = 2

	res, err := e.GenerateToday(context.Background(), userID)
	var storageErr *models.StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, 1, res.Count())
	assert.Equal(t, 1, logs.count())

	// a retry picks up where the failure left off
	res, err = e.GenerateToday(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count())
	assert.Equal(t, 3, logs.count())
}

func TestExpander_GenerateToday_MalformedStoredTime(t *testing.T) {
	userID := primitive.NewObjectID()
	e, logs := newTestExpander(t, userID, []models.Medication{
		newMedication(userID, []string{"25:99"}, everyDay()),
	})

	_, err := e.GenerateToday(context.Background(), userID)
	var storageErr *models.StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, 0, logs.count())
}

func TestExpander_Generate_RequiresUser(t *testing.T) {
	e := NewExpander(mocks.NewMedicationDatabase(t), &memoryLogs{}, nil, testLoc, 0)

	res, err := e.GenerateToday(context.Background(), primitive.NilObjectID)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.Equal(t, 0, res.Count())
}

func TestExpander_Generate_StorageFailure(t *testing.T) {
	userID := primitive.NewObjectID()
	mdb := mocks.NewMedicationDatabase(t)
	mdb.On("FindByUser", mock.Anything, userID, false).
		Return(nil, models.NewStorageError("find medications", errors.New("server selection timeout")))

	e := NewExpander(mdb, &memoryLogs{}, locks.NewLocal(), testLoc, time.Second)
	_, err := e.Generate(context.Background(), userID, DayOf(tuesday, testLoc))

	var storageErr *models.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "find medications", storageErr.Op)
}

func TestExpander_Generate_LockTimeout(t *testing.T) {
	userID := primitive.NewObjectID()
	locker := locks.NewLocal()
	day := DayOf(tuesday, testLoc)

	held, err := locker.TryAcquire(context.Background(), "schedule:"+userID.Hex()+":"+day.String(), time.Minute)
	require.NoError(t, err)
	defer held.Release(context.Background())

	e := NewExpander(mocks.NewMedicationDatabase(t), &memoryLogs{}, locker, testLoc, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = e.Generate(ctx, userID, day)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
