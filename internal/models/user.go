// server/internal/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a staff account. Role decides the granted permission set,
// HourlyRateCents is the labor rate snapshotted onto stages at assignment.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userID" json:"userID"` // e.g. "tech-a1b2c3d4"
	Email           string             `bson:"email" json:"email"`
	Name            string             `bson:"name" json:"name"`
	Password        string             `bson:"password" json:"-"`
	Role            string             `bson:"role" json:"role"` // admin, supervisor, technician, accountant, receptionist
	BranchID        string             `bson:"branchID" json:"branchID"`
	HourlyRateCents int64              `bson:"hourlyRateCents" json:"hourlyRateCents"`
	Status          string             `bson:"status" json:"status"` // active, disabled
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
