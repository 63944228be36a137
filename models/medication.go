package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Frequency labels accepted on a medication
const (
	FrequencyOnceDaily       = "once daily"
	FrequencyTwiceDaily      = "twice daily"
	FrequencyThreeTimesDaily = "three times daily"
	FrequencyAsNeeded        = "as needed"
	FrequencyCustom          = "custom"
)

// Medication holds the structure for the medications collection in mongo
type Medication struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Dosage       string             `json:"dosage" bson:"dosage" validate:"required"`
	Frequency    string             `json:"frequency,omitempty" bson:"frequency,omitempty" validate:"omitempty,oneof='once daily' 'twice daily' 'three times daily' 'as needed' 'custom'"`
	Times        []string           `json:"times" bson:"times" validate:"min=1,dive,timeofday"`
	DaysOfWeek   []int              `json:"daysOfWeek" bson:"daysOfWeek" validate:"min=1,dive,min=0,max=6"`
	Instructions string             `json:"instructions,omitempty" bson:"instructions,omitempty"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
	StartDate    time.Time          `json:"startDate" bson:"startDate"`
	EndDate      *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ScheduledOn reports whether the medication recurs on the given weekday index (0=Sunday)
func (m Medication) ScheduledOn(weekday int) bool {
	for _, d := range m.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}

// MedicationRequest is the body accepted when creating or updating a medication.
// Nil fields are left untouched by ApplyTo.
type MedicationRequest struct {
	Name         *string    `json:"name"`
	Dosage       *string    `json:"dosage"`
	Frequency    *string    `json:"frequency"`
	Times        []string   `json:"times"`
	DaysOfWeek   []int      `json:"daysOfWeek"`
	Instructions *string    `json:"instructions"`
	IsActive     *bool      `json:"isActive"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

// ApplyTo copies every supplied field onto m, trimming free text the way it is stored
func (r MedicationRequest) ApplyTo(m *Medication) {
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
	}
	if r.Dosage != nil {
		m.Dosage = strings.TrimSpace(*r.Dosage)
	}
	if r.Frequency != nil {
		m.Frequency = *r.Frequency
	}
	if r.Times != nil {
		times := make([]string, len(r.Times))
		for i, t := range r.Times {
			times[i] = strings.TrimSpace(t)
		}
		m.Times = times
	}
	if r.DaysOfWeek != nil {
		m.DaysOfWeek = r.DaysOfWeek
	}
	if r.Instructions != nil {
		m.Instructions = strings.TrimSpace(*r.Instructions)
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	if r.StartDate != nil {
		m.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		m.EndDate = r.EndDate
	}
}

// MedicationSummary is the subset of a medication inlined into log responses
type MedicationSummary struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Dosage    string             `json:"dosage" bson:"dosage"`
	Frequency string             `json:"frequency,omitempty" bson:"frequency,omitempty"`
}
