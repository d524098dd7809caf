// server/internal/database/seeder.go
package database

import (
	"context"
	"time"

	"garage-ops-api-server/internal/auth"
	"garage-ops-api-server/internal/models"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedAdmin creates the bootstrap admin account if none exists.
func SeedAdmin(db *mongo.Database) error {
	userCollection := db.Collection("users")
	adminEmail := "admin@garage.local"

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": adminEmail})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("Admin already exists. Seeding skipped.")
		return nil
	}

	log.Info("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	admin := models.User{
		UserID:    "admin-00000000",
		Email:     adminEmail,
		Name:      "Administrator",
		Password:  hashedPassword,
		Role:      "admin",
		BranchID:  "main",
		Status:    "active",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := userCollection.InsertOne(context.Background(), admin); err != nil {
		return err
	}

	log.Info("Admin seeded successfully.")
	return nil
}

// SeedVariations inserts a starter service catalog when the collection is
// empty, so a fresh install can run the intake wizard immediately.
func SeedVariations(db *mongo.Database) error {
	coll := db.Collection("variations")

	count, err := coll.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	starters := []interface{}{
		models.Variation{
			VariationKey: "oil-change",
			Version:      1,
			Name:         "Oil Change",
			PriceCents:   5000,
			Parts: []models.PartTemplate{
				{Name: "Engine oil and filter", PriceCents: 5000, Stages: []models.StageTemplate{
					{Name: "Drain and replace", Order: 0},
				}},
			},
			Current:   true,
			CreatedAt: time.Now(),
		},
		models.Variation{
			VariationKey: "brake-service",
			Version:      1,
			Name:         "Brake Service",
			PriceCents:   22000,
			Parts: []models.PartTemplate{
				{Name: "Front brake pads", PriceCents: 12000, Stages: []models.StageTemplate{
					{Name: "Remove wheels", Order: 0},
					{Name: "Replace pads", Order: 1},
					{Name: "Road test", Order: 2},
				}},
				{Name: "Brake fluid", PriceCents: 10000, Stages: []models.StageTemplate{
					{Name: "Flush and bleed", Order: 0},
				}},
			},
			Current:   true,
			CreatedAt: time.Now(),
		},
	}

	if _, err := coll.InsertMany(context.Background(), starters); err != nil {
		return err
	}
	log.Infof("Seeded %d starter variations.", len(starters))
	return nil
}
