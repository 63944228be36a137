package databases

// go generate: mockery --name MedicationLogDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/medication-reminder-api/models"
)

const medicationLogName = "medicationlogs"

// MedicationLogDatabase defines the interface for medication log database operations.
// Every method is scoped to the owning user.
type MedicationLogDatabase interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID, page Page) ([]models.MedicationLogView, error)
	FindInWindow(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]models.MedicationLogView, error)
	FindForMedication(ctx context.Context, userID, medicationID primitive.ObjectID, from, to time.Time) ([]models.MedicationLog, error)
	FindByID(ctx context.Context, userID, id primitive.ObjectID) (*models.MedicationLogView, error)
	Create(ctx context.Context, log *models.MedicationLog) error
	CreateIfAbsent(ctx context.Context, log *models.MedicationLog) (bool, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, set bson.M) (*models.MedicationLogView, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

type medicationLogDatabase struct {
	db DatabaseHelper
}

// NewMedicationLogDatabase creates a new medication log database instance
func NewMedicationLogDatabase(db DatabaseHelper) MedicationLogDatabase {
	return &medicationLogDatabase{db: db}
}

// populatePipeline matches logs, sorts and pages them, and inlines the owning medication's summary
func populatePipeline(match bson.M, sortDirection int, page Page) []bson.M {
	pipeline := []bson.M{
		{"$match": match},
		{"$sort": bson.D{{Key: "scheduledTime", Value: sortDirection}, {Key: "_id", Value: sortDirection}}},
	}
	pipeline = append(pipeline, page.stages()...)
	return append(pipeline,
		bson.M{"$lookup": bson.M{
			"from":         medicationName,
			"localField":   "medicationId",
			"foreignField": "_id",
			"as":           "medication",
		}},
		bson.M{"$unwind": bson.M{"path": "$medication", "preserveNullAndEmptyArrays": true}},
	)
}

func (l *medicationLogDatabase) aggregate(ctx context.Context, op string, pipeline []bson.M) ([]models.MedicationLogView, error) {
	cursor, err := l.db.Collection(medicationLogName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(op, err)
	}
	defer cursor.Close(ctx)

	logs := []models.MedicationLogView{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, translate(op, err)
	}
	return logs, nil
}

// FindByUser returns the logs of a user, most recently scheduled first
func (l *medicationLogDatabase) FindByUser(ctx context.Context, userID primitive.ObjectID, page Page) ([]models.MedicationLogView, error) {
	return l.aggregate(ctx, "find logs", populatePipeline(bson.M{"userId": userID}, -1, page))
}

// FindInWindow returns a user's logs scheduled within [from, to], earliest first
func (l *medicationLogDatabase) FindInWindow(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]models.MedicationLogView, error) {
	match := bson.M{
		"userId":        userID,
		"scheduledTime": bson.M{"$gte": from, "$lte": to},
	}
	return l.aggregate(ctx, "find logs in window", populatePipeline(match, 1, Page{}))
}

// FindForMedication returns the raw logs of one medication scheduled within [from, to]
func (l *medicationLogDatabase) FindForMedication(ctx context.Context, userID, medicationID primitive.ObjectID, from, to time.Time) ([]models.MedicationLog, error) {
	filter := bson.M{
		"userId":        userID,
		"medicationId":  medicationID,
		"scheduledTime": bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := l.db.Collection(medicationLogName).Find(ctx, filter)
	if err != nil {
		return nil, translate("find medication logs", err)
	}
	defer cursor.Close(ctx)

	logs := []models.MedicationLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, translate("decode medication logs", err)
	}
	return logs, nil
}

// FindByID returns one populated log owned by userID
func (l *medicationLogDatabase) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*models.MedicationLogView, error) {
	logs, err := l.aggregate(ctx, "find log", populatePipeline(bson.M{"_id": id, "userId": userID}, 1, Page{}))
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, models.ErrNotFound
	}
	return &logs[0], nil
}

func stamp(log *models.MedicationLog) {
	now := time.Now().UTC()
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	if log.Status == "" {
		log.Status = models.StatusPending
	}
	log.CreatedAt = now
	log.UpdatedAt = now
}

// Create inserts a log. A log already stored for the same medication and scheduled time
// yields models.ErrConflict.
func (l *medicationLogDatabase) Create(ctx context.Context, log *models.MedicationLog) error {
	stamp(log)
	_, err := l.db.Collection(medicationLogName).InsertOne(ctx, log)
	return translate("create log", err)
}

// CreateIfAbsent inserts log unless one already exists for the same
// (userId, medicationId, scheduledTime). It reports whether the log was written.
func (l *medicationLogDatabase) CreateIfAbsent(ctx context.Context, log *models.MedicationLog) (bool, error) {
	stamp(log)
	filter := bson.M{
		"userId":        log.UserID,
		"medicationId":  log.MedicationID,
		"scheduledTime": log.ScheduledTime,
	}
	opts := options.Update().SetUpsert(true)

	res, err := l.db.Collection(medicationLogName).UpdateOne(ctx, filter, bson.M{"$setOnInsert": log}, opts)
	if err != nil {
		// two upserts racing on the unique index: the loser sees a duplicate key
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, translate("create log", err)
	}
	return res.UpsertedCount == 1, nil
}

// Update applies set to a log owned by userID and returns the populated result
func (l *medicationLogDatabase) Update(ctx context.Context, userID, id primitive.ObjectID, set bson.M) (*models.MedicationLogView, error) {
	set["updatedAt"] = time.Now().UTC()

	res, err := l.db.Collection(medicationLogName).UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": set})
	if err != nil {
		return nil, translate("update log", err)
	}
	if res.MatchedCount == 0 {
		return nil, models.ErrNotFound
	}
	return l.FindByID(ctx, userID, id)
}

// Delete removes a log owned by userID
func (l *medicationLogDatabase) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	deleted := &models.MedicationLog{}
	err := l.db.Collection(medicationLogName).FindOneAndDelete(ctx, bson.M{"_id": id, "userId": userID}).Decode(&deleted)
	return translate("delete log", err)
}
