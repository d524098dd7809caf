// server/internal/models/customer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle is embedded in its owning Customer. VehicleKey is unique per
// customer and referenced from work orders (lookup only, no ownership).
type Vehicle struct {
	VehicleKey string    `bson:"vehicleKey" json:"vehicleKey"` // e.g. "veh-a1b2c3d4"
	Make       string    `bson:"make" json:"make"`
	Model      string    `bson:"model" json:"model"`
	Year       int       `bson:"year" json:"year"`
	VIN        string    `bson:"vin" json:"vin"`
	Plate      string    `bson:"plate" json:"plate"`
	AddedAt    time.Time `bson:"addedAt" json:"addedAt"`
}

// Customer owns an ordered sequence of embedded vehicles (order = registration
// order). Customers are soft-disabled, never hard-deleted.
type Customer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID string             `bson:"customerID" json:"customerID"` // e.g. "cus-a1b2c3d4"
	Name       string             `bson:"name" json:"name"`
	Phone      string             `bson:"phone" json:"phone"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Address    Address            `bson:"address,omitempty" json:"address,omitempty"`
	BranchID   string             `bson:"branchID" json:"branchID"`
	Vehicles   []Vehicle          `bson:"vehicles" json:"vehicles"`
	Disabled   bool               `bson:"disabled" json:"disabled"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
