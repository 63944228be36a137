package databases

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collectionIndexes lists the indexes every collection needs before the api serves traffic.
// The unique log index is what keeps two concurrent schedule generations from writing the
// same dose twice.
var collectionIndexes = map[string][]mongo.IndexModel{
	userName: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
	},
	medicationName: {
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("user_active_created")},
	},
	medicationLogName: {
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "medicationId", Value: 1},
				{Key: "scheduledTime", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("user_medication_scheduled_unique"),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "scheduledTime", Value: -1}}, Options: options.Index().SetName("user_scheduled")},
	},
}

// EnsureIndexes creates the indexes for every collection. It is called once during startup
// and is safe to repeat because index creation is idempotent in mongo.
func EnsureIndexes(ctx context.Context, db DatabaseHelper) error {
	for _, name := range []string{userName, medicationName, medicationLogName} {
		created, err := db.Collection(name).CreateIndexes(ctx, collectionIndexes[name])
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
		zap.S().Debugw("ensured indexes", "collection", name, "indexes", created)
	}
	return nil
}
