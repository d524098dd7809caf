// server/internal/database/mongo.go
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a MongoDB client and verifies the connection with a ping.
func Connect(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique and lookup indexes the engines rely on.
// Expiry is intentionally NOT a TTL index: the sweep owns expiry.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "userID", Value: 1}}, Options: unique},
		},
		"customers": {
			{Keys: bson.D{{Key: "customerID", Value: 1}}, Options: unique},
		},
		"variations": {
			{Keys: bson.D{{Key: "variationKey", Value: 1}, {Key: "version", Value: 1}}, Options: unique},
		},
		"workorders": {
			{Keys: bson.D{{Key: "workOrderID", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"stagelogs": {
			{Keys: bson.D{{Key: "workOrderID", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		"invoices": {
			{Keys: bson.D{{Key: "invoiceID", Value: 1}}, Options: unique},
			// At most one non-void invoice per work order; the write-time
			// guard behind the engine's created-once check.
			{
				Keys: bson.D{{Key: "workOrderID", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"void": false}),
			},
		},
		"quotations": {
			{Keys: bson.D{{Key: "quotationID", Value: 1}}, Options: unique},
		},
		"notifications": {
			{Keys: bson.D{{Key: "userID", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
		},
		"conversations": {
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes for %s: %w", coll, err)
		}
	}
	return nil
}

// NextSequence atomically increments and returns the named counter. Used
// for the human-readable work order and invoice numbers.
func NextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", name, err)
	}
	return doc.Seq, nil
}
