package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogStatus is the adherence state of a medication log
type LogStatus string

// Log statuses. Transitions between them are unguarded.
const (
	StatusPending LogStatus = "pending"
	StatusTaken   LogStatus = "taken"
	StatusMissed  LogStatus = "missed"
	StatusSkipped LogStatus = "skipped"
)

// MedicationLog holds the structure for the medicationlogs collection in mongo
type MedicationLog struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	MedicationID  primitive.ObjectID `json:"medicationId" bson:"medicationId"`
	ScheduledTime time.Time          `json:"scheduledTime" bson:"scheduledTime"`
	TakenAt       *time.Time         `json:"takenAt,omitempty" bson:"takenAt,omitempty"`
	Status        LogStatus          `json:"status" bson:"status" validate:"oneof=pending taken missed skipped"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// MedicationLogView is a log with its medication's name and dosage inlined
type MedicationLogView struct {
	MedicationLog `bson:",inline"`
	Medication    *MedicationSummary `json:"medication,omitempty" bson:"medication,omitempty"`
	// Overdue is computed at read time for pending logs whose scheduled time has passed
	Overdue bool `json:"overdue,omitempty" bson:"-"`
}

// CreateLogRequest is the body accepted by the manual log create route
type CreateLogRequest struct {
	MedicationID  string     `json:"medicationId" validate:"required"`
	ScheduledTime *time.Time `json:"scheduledTime" validate:"required"`
	TakenAt       *time.Time `json:"takenAt"`
	Status        LogStatus  `json:"status" validate:"omitempty,oneof=pending taken missed skipped"`
	Notes         string     `json:"notes"`
}

// UpdateLogRequest is the body accepted by the log update route. Nil fields are left untouched.
type UpdateLogRequest struct {
	TakenAt *time.Time `json:"takenAt"`
	Status  *LogStatus `json:"status" validate:"omitempty,oneof=pending taken missed skipped"`
	Notes   *string    `json:"notes"`
}
