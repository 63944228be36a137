package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linesmerrill/medication-reminder-api/api"
	"github.com/linesmerrill/medication-reminder-api/databases"
	"github.com/linesmerrill/medication-reminder-api/models"
	"github.com/linesmerrill/medication-reminder-api/schedule"
	"github.com/linesmerrill/medication-reminder-api/validation"
)

// MedicationLog represents the medication log handler
type MedicationLog struct {
	DB       databases.MedicationLogDatabase
	MDB      databases.MedicationDatabase
	Expander *schedule.Expander
}

func (h MedicationLog) now() time.Time {
	if h.Expander != nil && h.Expander.Now != nil {
		return h.Expander.Now()
	}
	return time.Now()
}

// LogsHandler lists the caller's logs, most recently scheduled first. Every log is returned
// unless ?limit= is set, in which case ?page= selects the 1-based page.
func (h MedicationLog) LogsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}
	page, err := getPage(r)
	if err != nil {
		writeError(w, "invalid paging", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	logs, err := h.DB.FindByUser(ctx, userID, page)
	if err != nil {
		writeError(w, "failed to get logs", err)
		return
	}
	writeList(w, http.StatusOK, "", logs, len(logs))
}

// CreateLogHandler records a dose by hand. A taken dose without takenAt is stamped now.
func (h MedicationLog) CreateLogHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}

	var req models.CreateLogRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "failed to decode log", err)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, "invalid log", err)
		return
	}
	medicationID, err := parseID("medicationId", req.MedicationID)
	if err != nil {
		writeError(w, "invalid log", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// the medication must belong to the caller as well
	if _, err := h.MDB.FindByID(ctx, userID, medicationID); err != nil {
		writeError(w, "medication not found", err)
		return
	}

	log := &models.MedicationLog{
		UserID:        userID,
		MedicationID:  medicationID,
		ScheduledTime: *req.ScheduledTime,
		TakenAt:       req.TakenAt,
		Status:        req.Status,
		Notes:         req.Notes,
	}
	if log.Status == "" {
		log.Status = models.StatusPending
	}
	if log.Status == models.StatusTaken && log.TakenAt == nil {
		now := h.now()
		log.TakenAt = &now
	}

	if err := h.DB.Create(ctx, log); err != nil {
		if errors.Is(err, models.ErrConflict) {
			err = fmt.Errorf("a log for this medication and time %w", models.ErrConflict)
		}
		writeError(w, "failed to create log", err)
		return
	}

	populated, err := h.DB.FindByID(ctx, userID, log.ID)
	if err != nil {
		writeError(w, "log not found", err)
		return
	}
	writeData(w, http.StatusCreated, "Log created successfully", populated)
}

// GenerateScheduleHandler creates today's pending logs for every active medication
// scheduled on today's weekday. Calling it again the same day creates nothing new.
func (h MedicationLog) GenerateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}

	res, err := h.Expander.GenerateToday(r.Context(), userID)
	if err != nil {
		writeError(w, "failed to generate schedule", err)
		return
	}

	zap.S().Infow("schedule generated", "userId", userID.Hex(), "created", res.Count())
	writeList(w, http.StatusCreated, fmt.Sprintf("Generated %d scheduled logs", res.Count()), res.Created, res.Count())
}

// TodayLogsHandler lists the caller's logs scheduled today, earliest first. Pending logs
// whose time has passed are flagged overdue.
func (h MedicationLog) TodayLogsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	day := h.Expander.Today()
	logs, err := h.DB.FindInWindow(ctx, userID, day.Start, day.End)
	if err != nil {
		writeError(w, "failed to get today's logs", err)
		return
	}

	now := h.now()
	for i := range logs {
		logs[i].Overdue = logs[i].Status == models.StatusPending && logs[i].ScheduledTime.Before(now)
	}
	writeList(w, http.StatusOK, "", logs, len(logs))
}

// LogByIDHandler returns one of the caller's logs
func (h MedicationLog) LogByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid log id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	log, err := h.DB.FindByID(ctx, userID, id)
	if err != nil {
		writeError(w, "log not found", err)
		return
	}
	writeData(w, http.StatusOK, "", log)
}

// UpdateLogHandler changes the status, takenAt or notes of one of the caller's logs.
// Marking a log taken without takenAt stamps it now.
func (h MedicationLog) UpdateLogHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid log id", err)
		return
	}

	var req models.UpdateLogRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "failed to decode log", err)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, "invalid log", err)
		return
	}

	set := bson.M{}
	if req.Status != nil {
		set["status"] = *req.Status
		if *req.Status == models.StatusTaken && req.TakenAt == nil {
			set["takenAt"] = h.now()
		}
	}
	if req.TakenAt != nil {
		set["takenAt"] = *req.TakenAt
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if len(set) == 0 {
		writeError(w, "invalid log", models.ValidationError("nothing to update"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	log, err := h.DB.Update(ctx, userID, id, set)
	if err != nil {
		writeError(w, "log not found", err)
		return
	}
	writeData(w, http.StatusOK, "Log updated successfully", log)
}

// DeleteLogHandler removes one of the caller's logs
func (h MedicationLog) DeleteLogHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid log id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := h.DB.Delete(ctx, userID, id); err != nil {
		writeError(w, "log not found", err)
		return
	}
	writeData(w, http.StatusOK, "Log deleted successfully", nil)
}
