// server/internal/invoice/mongo_store.go
package invoice

import (
	"context"
	"time"

	"garage-ops-api-server/internal/database"
	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/workorder"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore backs the invoice engine with the invoices, workorders and
// counters collections.
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
			return nil, workorder.ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

func (s *MongoStore) HasActiveInvoice(ctx context.Context, workOrderID string) (bool, error) {
	count, err := s.DB.Collection("invoices").CountDocuments(ctx, bson.M{
		"workOrderID": workOrderID,
		"void":        false,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoStore) InsertInvoice(ctx context.Context, inv *models.Invoice) error {
	_, err := s.DB.Collection("invoices").InsertOne(ctx, inv)
	// The partial unique index on workOrderID catches the race two
	// concurrent Generate calls open between check and insert.
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyInvoiced
	}
	return err
}

func (s *MongoStore) GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Collection("invoices").FindOne(ctx, bson.M{"invoiceID": invoiceID}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (s *MongoStore) UpdateInvoiceCAS(ctx context.Context, inv *models.Invoice) error {
	readVersion := inv.Version
	inv.Version = readVersion + 1
	inv.UpdatedAt = time.Now()

	res, err := s.DB.Collection("invoices").ReplaceOne(
		ctx,
		bson.M{"invoiceID": inv.InvoiceID, "version": readVersion},
		inv,
	)
	if err != nil {
		inv.Version = readVersion
		return err
	}
	if res.MatchedCount == 0 {
		inv.Version = readVersion
		return ErrConflict
	}
	return nil
}

func (s *MongoStore) NextInvoiceNumber(ctx context.Context) (int64, error) {
	return database.NextSequence(ctx, s.DB, "invoices")
}
