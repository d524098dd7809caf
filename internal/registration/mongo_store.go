// server/internal/registration/mongo_store.go
package registration

import (
	"context"

	"garage-ops-api-server/internal/database"
	"garage-ops-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoStore struct {
	DB *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{DB: db}
}

func (s *MongoStore) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	var customer models.Customer
	err := s.DB.Collection("customers").FindOne(ctx, bson.M{"customerID": customerID, "disabled": false}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (s *MongoStore) InsertCustomer(ctx context.Context, customer *models.Customer) error {
	_, err := s.DB.Collection("customers").InsertOne(ctx, customer)
	return err
}

func (s *MongoStore) CurrentVariation(ctx context.Context, variationKey string) (*models.Variation, error) {
	var variation models.Variation
	err := s.DB.Collection("variations").FindOne(ctx, bson.M{"variationKey": variationKey, "current": true}).Decode(&variation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVariationNotFound
		}
		return nil, err
	}
	return &variation, nil
}

func (s *MongoStore) VariationAt(ctx context.Context, variationKey string, version int) (*models.Variation, error) {
	var variation models.Variation
	err := s.DB.Collection("variations").FindOne(ctx, bson.M{"variationKey": variationKey, "version": version}).Decode(&variation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVariationNotFound
		}
		return nil, err
	}
	return &variation, nil
}

func (s *MongoStore) InsertQuotation(ctx context.Context, q *models.Quotation) error {
	_, err := s.DB.Collection("quotations").InsertOne(ctx, q)
	return err
}

func (s *MongoStore) GetQuotation(ctx context.Context, quotationID string) (*models.Quotation, error) {
	var quotation models.Quotation
	err := s.DB.Collection("quotations").FindOne(ctx, bson.M{"quotationID": quotationID}).Decode(&quotation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrQuotationNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

func (s *MongoStore) UpdateQuotation(ctx context.Context, q *models.Quotation) error {
	// The pending filter makes the decision a one-shot claim: a concurrent
	// approve or decline that already landed leaves nothing to match.
	res, err := s.DB.Collection("quotations").ReplaceOne(
		ctx,
		bson.M{"quotationID": q.QuotationID, "status": models.QuotationPending},
		q,
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrQuotationDecided
	}
	return nil
}

func (s *MongoStore) InsertWorkOrder(ctx context.Context, wo *models.WorkOrder) error {
	_, err := s.DB.Collection("workorders").InsertOne(ctx, wo)
	return err
}

func (s *MongoStore) NextWorkOrderNumber(ctx context.Context) (int64, error) {
	return database.NextSequence(ctx, s.DB, "workorders")
}
