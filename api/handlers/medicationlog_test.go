package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/medication-reminder-api/databases"
	"github.com/linesmerrill/medication-reminder-api/databases/mocks"
	"github.com/linesmerrill/medication-reminder-api/locks"
	"github.com/linesmerrill/medication-reminder-api/models"
	"github.com/linesmerrill/medication-reminder-api/schedule"
)

// Tuesday 2024-01-02, 12:30 UTC
var testNow = time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC)

func newLogHandler(t *testing.T) (MedicationLog, *mocks.MedicationLogDatabase, *mocks.MedicationDatabase) {
	ldb := mocks.NewMedicationLogDatabase(t)
	mdb := mocks.NewMedicationDatabase(t)
	expander := schedule.NewExpander(mdb, ldb, locks.NewLocal(), time.UTC, time.Second)
	expander.Now = func() time.Time { return testNow }
	return MedicationLog{DB: ldb, MDB: mdb, Expander: expander}, ldb, mdb
}

func logView(userID primitive.ObjectID, scheduled time.Time, status models.LogStatus) models.MedicationLogView {
	return models.MedicationLogView{
		MedicationLog: models.MedicationLog{
			ID:            primitive.NewObjectID(),
			UserID:        userID,
			MedicationID:  primitive.NewObjectID(),
			ScheduledTime: scheduled,
			Status:        status,
		},
		Medication: &models.MedicationSummary{Name: "Lisinopril", Dosage: "10mg"},
	}
}

func TestLogsHandler(t *testing.T) {
	h, ldb, _ := newLogHandler(t)
	userID := primitive.NewObjectID()
	ldb.On("FindByUser", mock.Anything, userID, databases.NewPage(0, 1)).Return([]models.MedicationLogView{
		logView(userID, testNow, models.StatusTaken),
		logView(userID, testNow.Add(-24*time.Hour), models.StatusMissed),
	}, nil)

	rr := httptest.NewRecorder()
	h.LogsHandler(rr, newRequest("GET", "/api/v1/logs", "", userID, ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeResponse(t, rr)
	assert.Equal(t, float64(2), body["count"])
	first := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Lisinopril", first["medication"].(map[string]interface{})["name"])
}

func TestLogsHandlerPaging(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("limit and page", func(t *testing.T) {
		h, ldb, _ := newLogHandler(t)
		ldb.On("FindByUser", mock.Anything, userID, databases.Page{Limit: 20, Page: 3}).Return([]models.MedicationLogView{}, nil)

		rr := httptest.NewRecorder()
		h.LogsHandler(rr, newRequest("GET", "/api/v1/logs?limit=20&page=3", "", userID, ""))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	for _, query := range []string{"limit=abc", "limit=-1", "limit=10&page=0"} {
		t.Run(query, func(t *testing.T) {
			h, _, _ := newLogHandler(t)
			rr := httptest.NewRecorder()
			h.LogsHandler(rr, newRequest("GET", "/api/v1/logs?"+query, "", userID, ""))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestCreateLogHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	medicationID := primitive.NewObjectID()

	t.Run("taken without takenAt is stamped now", func(t *testing.T) {
		h, ldb, mdb := newLogHandler(t)
		mdb.On("FindByID", mock.Anything, userID, medicationID).Return(&models.Medication{ID: medicationID, UserID: userID}, nil)

		var created *models.MedicationLog
		ldb.On("Create", mock.Anything, mock.AnythingOfType("*models.MedicationLog")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.MedicationLog)
				created.ID = primitive.NewObjectID()
			}).
			Return(nil)
		ldb.On("FindByID", mock.Anything, userID, mock.AnythingOfType("primitive.ObjectID")).
			Return(func(_ context.Context, _, _ primitive.ObjectID) *models.MedicationLogView {
				return &models.MedicationLogView{MedicationLog: *created}
			}, nil)

		body := `{"medicationId":"` + medicationID.Hex() + `","scheduledTime":"2024-01-02T08:00:00Z","status":"taken"}`
		rr := httptest.NewRecorder()
		h.CreateLogHandler(rr, newRequest("POST", "/api/v1/logs", body, userID, ""))

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		require.NotNil(t, created)
		assert.Equal(t, userID, created.UserID)
		assert.Equal(t, models.StatusTaken, created.Status)
		require.NotNil(t, created.TakenAt)
		assert.True(t, created.TakenAt.Equal(testNow))
		assert.Equal(t, "Log created successfully", decodeResponse(t, rr)["message"])
	})

	t.Run("defaults to pending", func(t *testing.T) {
		h, ldb, mdb := newLogHandler(t)
		mdb.On("FindByID", mock.Anything, userID, medicationID).Return(&models.Medication{ID: medicationID, UserID: userID}, nil)

		view := logView(userID, testNow, models.StatusPending)
		ldb.On("Create", mock.Anything, mock.MatchedBy(func(l *models.MedicationLog) bool {
			return l.Status == models.StatusPending && l.TakenAt == nil
		})).Return(nil)
		ldb.On("FindByID", mock.Anything, userID, mock.Anything).Return(&view, nil)

		body := `{"medicationId":"` + medicationID.Hex() + `","scheduledTime":"2024-01-02T08:00:00Z"}`
		rr := httptest.NewRecorder()
		h.CreateLogHandler(rr, newRequest("POST", "/api/v1/logs", body, userID, ""))

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("medication of another user", func(t *testing.T) {
		h, _, mdb := newLogHandler(t)
		mdb.On("FindByID", mock.Anything, userID, medicationID).Return(nil, models.ErrNotFound)

		body := `{"medicationId":"` + medicationID.Hex() + `","scheduledTime":"2024-01-02T08:00:00Z"}`
		rr := httptest.NewRecorder()
		h.CreateLogHandler(rr, newRequest("POST", "/api/v1/logs", body, userID, ""))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "medication not found", decodeResponse(t, rr)["error"])
	})

	t.Run("duplicate scheduled time", func(t *testing.T) {
		h, ldb, mdb := newLogHandler(t)
		mdb.On("FindByID", mock.Anything, userID, medicationID).Return(&models.Medication{ID: medicationID, UserID: userID}, nil)
		ldb.On("Create", mock.Anything, mock.Anything).Return(models.ErrConflict)

		body := `{"medicationId":"` + medicationID.Hex() + `","scheduledTime":"2024-01-02T08:00:00Z"}`
		rr := httptest.NewRecorder()
		h.CreateLogHandler(rr, newRequest("POST", "/api/v1/logs", body, userID, ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "a log for this medication and time already exists", decodeResponse(t, rr)["error"])
	})

	t.Run("invalid requests", func(t *testing.T) {
		bodies := map[string]string{
			"missing medication":     `{"scheduledTime":"2024-01-02T08:00:00Z"}`,
			"missing scheduled time": `{"medicationId":"` + medicationID.Hex() + `"}`,
			"unknown status":         `{"medicationId":"` + medicationID.Hex() + `","scheduledTime":"2024-01-02T08:00:00Z","status":"forgotten"}`,
			"malformed medication":   `{"medicationId":"abc","scheduledTime":"2024-01-02T08:00:00Z"}`,
		}
		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				h, _, _ := newLogHandler(t)
				rr := httptest.NewRecorder()
				h.CreateLogHandler(rr, newRequest("POST", "/api/v1/logs", body, userID, ""))
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			})
		}
	})
}

func TestGenerateScheduleHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	medication := models.Medication{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Name:       "Metformin",
		Dosage:     "500mg",
		Times:      []string{"08:00", "20:00"},
		DaysOfWeek: []int{2},
		IsActive:   true,
	}

	t.Run("creates pending logs for today", func(t *testing.T) {
		h, ldb, mdb := newLogHandler(t)
		mdb.On("FindByUser", mock.Anything, userID, false).Return([]models.Medication{medication}, nil)
		ldb.On("FindForMedication", mock.Anything, userID, medication.ID, mock.Anything, mock.Anything).Return([]models.MedicationLog{}, nil)
		ldb.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*models.MedicationLog")).Return(true, nil).Twice()

		rr := httptest.NewRecorder()
		h.GenerateScheduleHandler(rr, newRequest("POST", "/api/v1/logs/scheduled", "", userID, ""))

		assert.Equal(t, http.StatusCreated, rr.Code)
		body := decodeResponse(t, rr)
		assert.Equal(t, "Generated 2 scheduled logs", body["message"])
		assert.Equal(t, float64(2), body["count"])
		first := body["data"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "pending", first["status"])
		assert.Equal(t, "2024-01-02T08:00:00Z", first["scheduledTime"])
	})

	t.Run("second call creates nothing", func(t *testing.T) {
		h, ldb, mdb := newLogHandler(t)
		mdb.On("FindByUser", mock.Anything, userID, false).Return([]models.Medication{medication}, nil)
		ldb.On("FindForMedication", mock.Anything, userID, medication.ID, mock.Anything, mock.Anything).Return([]models.MedicationLog{
			{MedicationID: medication.ID, ScheduledTime: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
			{MedicationID: medication.ID, ScheduledTime: time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC)},
		}, nil)

		rr := httptest.NewRecorder()
		h.GenerateScheduleHandler(rr, newRequest("POST", "/api/v1/logs/scheduled", "", userID, ""))

		assert.Equal(t, http.StatusCreated, rr.Code)
		body := decodeResponse(t, rr)
		assert.Equal(t, "Generated 0 scheduled logs", body["message"])
		assert.Equal(t, float64(0), body["count"])
	})

	t.Run("storage failure", func(t *testing.T) {
		h, _, mdb := newLogHandler(t)
		mdb.On("FindByUser", mock.Anything, userID, false).
			Return(nil, models.NewStorageError("find medications", errors.New("connection reset")))

		rr := httptest.NewRecorder()
		h.GenerateScheduleHandler(rr, newRequest("POST", "/api/v1/logs/scheduled", "", userID, ""))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestTodayLogsHandler(t *testing.T) {
	h, ldb, _ := newLogHandler(t)
	userID := primitive.NewObjectID()

	morning := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC)
	dayStart := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	ldb.On("FindInWindow", mock.Anything, userID, dayStart, mock.AnythingOfType("time.Time")).Return([]models.MedicationLogView{
		logView(userID, morning, models.StatusPending),
		logView(userID, morning, models.StatusTaken),
		logView(userID, evening, models.StatusPending),
	}, nil)

	rr := httptest.NewRecorder()
	h.TodayLogsHandler(rr, newRequest("GET", "/api/v1/logs/today", "", userID, ""))

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeResponse(t, rr)
	assert.Equal(t, float64(3), body["count"])

	logs := body["data"].([]interface{})
	overdue := func(i int) interface{} { return logs[i].(map[string]interface{})["overdue"] }
	assert.Equal(t, true, overdue(0))
	assert.Nil(t, overdue(1))
	assert.Nil(t, overdue(2))
}

func TestLogByIDHandler(t *testing.T) {
	h, ldb, _ := newLogHandler(t)
	userID, other := primitive.NewObjectID(), primitive.NewObjectID()
	view := logView(userID, testNow, models.StatusPending)

	ldb.On("FindByID", mock.Anything, userID, view.ID).Return(&view, nil)
	ldb.On("FindByID", mock.Anything, other, view.ID).Return(nil, models.ErrNotFound)

	rr := httptest.NewRecorder()
	h.LogByIDHandler(rr, newRequest("GET", "/", "", userID, view.ID.Hex()))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.LogByIDHandler(rr, newRequest("GET", "/", "", other, view.ID.Hex()))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "log not found", decodeResponse(t, rr)["error"])
}

func TestUpdateLogHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	id := primitive.NewObjectID()
	takenAt := time.Date(2024, 1, 2, 8, 5, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		expectedSet    bson.M
		updateErr      error
		expectedStatus int
	}{
		{
			name:           "taken with explicit takenAt",
			body:           `{"status":"taken","takenAt":"2024-01-02T08:05:00Z"}`,
			expectedSet:    bson.M{"status": models.StatusTaken, "takenAt": takenAt},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "taken stamps now",
			body:           `{"status":"taken"}`,
			expectedSet:    bson.M{"status": models.StatusTaken, "takenAt": testNow},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "notes only",
			body:           `{"notes":"with food"}`,
			expectedSet:    bson.M{"notes": "with food"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "skipped leaves takenAt alone",
			body:           `{"status":"skipped"}`,
			expectedSet:    bson.M{"status": models.StatusSkipped},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "log of another user",
			body:           `{"status":"missed"}`,
			expectedSet:    bson.M{"status": models.StatusMissed},
			updateErr:      models.ErrNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown status",
			body:           `{"status":"forgotten"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty update",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ldb, _ := newLogHandler(t)
			if tt.expectedSet != nil {
				if tt.updateErr != nil {
					ldb.On("Update", mock.Anything, userID, id, tt.expectedSet).Return(nil, tt.updateErr)
				} else {
					view := logView(userID, testNow, models.StatusTaken)
					ldb.On("Update", mock.Anything, userID, id, tt.expectedSet).Return(&view, nil)
				}
			}

			rr := httptest.NewRecorder()
			h.UpdateLogHandler(rr, newRequest("PUT", "/", tt.body, userID, id.Hex()))

			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "Log updated successfully", decodeResponse(t, rr)["message"])
			}
		})
	}
}

func TestDeleteLogHandler(t *testing.T) {
	h, ldb, _ := newLogHandler(t)
	userID := primitive.NewObjectID()
	id, missing := primitive.NewObjectID(), primitive.NewObjectID()

	ldb.On("Delete", mock.Anything, userID, id).Return(nil)
	ldb.On("Delete", mock.Anything, userID, missing).Return(models.ErrNotFound)

	rr := httptest.NewRecorder()
	h.DeleteLogHandler(rr, newRequest("DELETE", "/", "", userID, id.Hex()))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Log deleted successfully", decodeResponse(t, rr)["message"])

	rr = httptest.NewRecorder()
	h.DeleteLogHandler(rr, newRequest("DELETE", "/", "", userID, missing.Hex()))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
