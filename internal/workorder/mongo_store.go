// server/internal/workorder/mongo_store.go
package workorder

import (
	"context"
	"time"

	"garage-ops-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore persists work orders, stage logs and QA verifications. One
// collection per entity; the version filter on writes implements the
// optimistic-concurrency requirement.
type MongoStore struct {
	DB *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{DB: db}
}

func (s *MongoStore) GetWorkOrder(ctx context.Context, workOrderID string) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	err := s.DB.Collection("workorders").FindOne(ctx, bson.M{"workOrderID": workOrderID}).Decode(&wo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

func (s *MongoStore) UpdateWorkOrderCAS(ctx context.Context, wo *models.WorkOrder) error {
	readVersion := wo.Version
	wo.Version = readVersion + 1
	wo.UpdatedAt = time.Now()

	res, err := s.DB.Collection("workorders").ReplaceOne(
		ctx,
		bson.M{"workOrderID": wo.WorkOrderID, "version": readVersion},
		wo,
	)
	if err != nil {
		wo.Version = readVersion
		return err
	}
	if res.MatchedCount == 0 {
		wo.Version = readVersion
		return ErrConflict
	}
	return nil
}

func (s *MongoStore) AppendLog(ctx context.Context, entry *models.StageLog) error {
	_, err := s.DB.Collection("stagelogs").InsertOne(ctx, entry)
	return err
}

func (s *MongoStore) InsertQA(ctx context.Context, qa *models.QAVerification) error {
	_, err := s.DB.Collection("qaverifications").InsertOne(ctx, qa)
	return err
}

func (s *MongoStore) GetPendingQA(ctx context.Context, workOrderID string) (*models.QAVerification, error) {
	var qa models.QAVerification
	err := s.DB.Collection("qaverifications").FindOne(ctx, bson.M{
		"workOrderID": workOrderID,
		"decision":    models.QAPending,
	}).Decode(&qa)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrQANotPending
		}
		return nil, err
	}
	return &qa, nil
}

func (s *MongoStore) UpdateQADecision(ctx context.Context, qa *models.QAVerification) error {
	// The pending filter makes an approved verification immutable.
	res, err := s.DB.Collection("qaverifications").UpdateOne(
		ctx,
		bson.M{"qaID": qa.QAID, "decision": models.QAPending},
		bson.M{"$set": bson.M{
			"reviewerID": qa.ReviewerID,
			"decision":   qa.Decision,
			"photos":     qa.Photos,
			"comments":   qa.Comments,
			"decidedAt":  qa.DecidedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrQANotPending
	}
	return nil
}

// ListLogs returns the audit trail for a work order in append order.
func (s *MongoStore) ListLogs(ctx context.Context, workOrderID string) ([]models.StageLog, error) {
	cursor, err := s.DB.Collection("stagelogs").Find(ctx, bson.M{"workOrderID": workOrderID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.StageLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.StageLog{}
	}
	return logs, nil
}

// RateForTechnician resolves the snapshot rate from the users collection.
func (s *MongoStore) RateForTechnician(ctx context.Context, technicianID string) (int64, error) {
	var user models.User
	err := s.DB.Collection("users").FindOne(ctx, bson.M{"userID": technicianID, "status": "active"}).Decode(&user)
	if err != nil {
		return 0, ErrTechnicianUnknown
	}
	return user.HourlyRateCents, nil
}
