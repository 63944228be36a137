package databases

// go generate: mockery --name MedicationDatabase

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/medication-reminder-api/models"
)

const medicationName = "medications"

// MedicationDatabase defines the interface for medication database operations.
// Every method is scoped to the owning user.
type MedicationDatabase interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID, includeInactive bool) ([]models.Medication, error)
	FindByID(ctx context.Context, userID, id primitive.ObjectID) (*models.Medication, error)
	Create(ctx context.Context, medication *models.Medication) error
	Update(ctx context.Context, medication *models.Medication) (*models.Medication, error)
	Deactivate(ctx context.Context, userID, id primitive.ObjectID) (*models.Medication, error)
	ActiveUserIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

type medicationDatabase struct {
	db DatabaseHelper
}

// NewMedicationDatabase creates a new medication database instance
func NewMedicationDatabase(db DatabaseHelper) MedicationDatabase {
	return &medicationDatabase{db: db}
}

// FindByUser lists a user's medications, newest first
func (m *medicationDatabase) FindByUser(ctx context.Context, userID primitive.ObjectID, includeInactive bool) ([]models.Medication, error) {
	filter := bson.M{"userId": userID}
	if !includeInactive {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.db.Collection(medicationName).Find(ctx, filter, opts)
	if err != nil {
		return nil, translate("find medications", err)
	}
	defer cursor.Close(ctx)

	medications := []models.Medication{}
	if err := cursor.All(ctx, &medications); err != nil {
		return nil, translate("decode medications", err)
	}
	return medications, nil
}

// FindByID retrieves a single medication owned by userID
func (m *medicationDatabase) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*models.Medication, error) {
	medication := &models.Medication{}
	err := m.db.Collection(medicationName).FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&medication)
	if err != nil {
		return nil, translate("find medication", err)
	}
	return medication, nil
}

// Create inserts a new medication, assigning its id and timestamps
func (m *medicationDatabase) Create(ctx context.Context, medication *models.Medication) error {
	now := time.Now().UTC()
	if medication.ID.IsZero() {
		medication.ID = primitive.NewObjectID()
	}
	if medication.StartDate.IsZero() {
		medication.StartDate = now
	}
	medication.CreatedAt = now
	medication.UpdatedAt = now

	_, err := m.db.Collection(medicationName).InsertOne(ctx, medication)
	return translate("create medication", err)
}

// Update overwrites the editable fields of an existing medication and returns the stored result
func (m *medicationDatabase) Update(ctx context.Context, medication *models.Medication) (*models.Medication, error) {
	filter := bson.M{"_id": medication.ID, "userId": medication.UserID}
	set := bson.M{
		"name":         medication.Name,
		"dosage":       medication.Dosage,
		"frequency":    medication.Frequency,
		"times":        medication.Times,
		"daysOfWeek":   medication.DaysOfWeek,
		"instructions": medication.Instructions,
		"isActive":     medication.IsActive,
		"startDate":    medication.StartDate,
		"endDate":      medication.EndDate,
		"updatedAt":    time.Now().UTC(),
	}
	return m.findOneAndSet(ctx, "update medication", filter, set)
}

// Deactivate soft deletes a medication by clearing its active flag
func (m *medicationDatabase) Deactivate(ctx context.Context, userID, id primitive.ObjectID) (*models.Medication, error) {
	filter := bson.M{"_id": id, "userId": userID}
	set := bson.M{"isActive": false, "updatedAt": time.Now().UTC()}
	return m.findOneAndSet(ctx, "deactivate medication", filter, set)
}

func (m *medicationDatabase) findOneAndSet(ctx context.Context, op string, filter, set bson.M) (*models.Medication, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	updated := &models.Medication{}
	err := m.db.Collection(medicationName).FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, translate(op, err)
	}
	return updated, nil
}

// ActiveUserIDs returns every user that owns at least one active medication
func (m *medicationDatabase) ActiveUserIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	values, err := m.db.Collection(medicationName).Distinct(ctx, "userId", bson.M{"isActive": true})
	if err != nil {
		return nil, translate("distinct medication owners", err)
	}

	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		id, ok := v.(primitive.ObjectID)
		if !ok {
			return nil, models.NewStorageError("distinct medication owners", fmt.Errorf("unexpected userId type %T", v))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
