package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/medication-reminder-api/api"
	"github.com/linesmerrill/medication-reminder-api/databases"
	"github.com/linesmerrill/medication-reminder-api/models"
	"github.com/linesmerrill/medication-reminder-api/validation"
)

// Medication represents the medication handler
type Medication struct {
	DB databases.MedicationDatabase
}

// MedicationsHandler lists the caller's medications, newest first. Inactive ones are
// included with ?includeInactive=true.
func (h Medication) MedicationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("includeInactive"))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	medications, err := h.DB.FindByUser(ctx, userID, includeInactive)
	if err != nil {
		writeError(w, "failed to get medications", err)
		return
	}
	writeList(w, http.StatusOK, "", medications, len(medications))
}

// CreateMedicationHandler adds a medication to the caller's registry
func (h Medication) CreateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}

	var req models.MedicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "failed to decode medication", err)
		return
	}

	medication := models.Medication{
		UserID:    userID,
		IsActive:  true,
		StartDate: time.Now().UTC(),
	}
	req.ApplyTo(&medication)
	if err := validation.Medication(&medication); err != nil {
		writeError(w, "invalid medication", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := h.DB.Create(ctx, &medication); err != nil {
		writeError(w, "failed to create medication", err)
		return
	}

	zap.S().Debugw("medication created", "userId", userID.Hex(), "medicationId", medication.ID.Hex())
	writeData(w, http.StatusCreated, "Medication created successfully", medication)
}

// MedicationByIDHandler returns one of the caller's medications
func (h Medication) MedicationByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid medication id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	medication, err := h.DB.FindByID(ctx, userID, id)
	if err != nil {
		writeError(w, "medication not found", err)
		return
	}
	writeData(w, http.StatusOK, "", medication)
}

// UpdateMedicationHandler applies the supplied fields to one of the caller's medications
// and revalidates the result
func (h Medication) UpdateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid medication id", err)
		return
	}

	var req models.MedicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "failed to decode medication", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	medication, err := h.DB.FindByID(ctx, userID, id)
	if err != nil {
		writeError(w, "medication not found", err)
		return
	}
	req.ApplyTo(medication)
	if err := validation.Medication(medication); err != nil {
		writeError(w, "invalid medication", err)
		return
	}

	updated, err := h.DB.Update(ctx, medication)
	if err != nil {
		writeError(w, "medication not found", err)
		return
	}
	writeData(w, http.StatusOK, "Medication updated successfully", updated)
}

// DeleteMedicationHandler deactivates one of the caller's medications. Its logs are kept.
func (h Medication) DeleteMedicationHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, "unauthorized", err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid medication id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	medication, err := h.DB.Deactivate(ctx, userID, id)
	if err != nil {
		writeError(w, "medication not found", err)
		return
	}
	writeData(w, http.StatusOK, "Medication deleted successfully", medication)
}
