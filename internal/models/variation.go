// server/internal/models/variation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StageTemplate is a named unit of labor inside a part template. Order is
// the position within the part; stages start in that order.
type StageTemplate struct {
	Name  string `bson:"name" json:"name"`
	Order int    `bson:"order" json:"order"`
}

// PartTemplate describes one part a variation affects, with its price and
// the labor stages it requires.
type PartTemplate struct {
	Name       string          `bson:"name" json:"name"`
	PriceCents int64           `bson:"priceCents" json:"priceCents"`
	Stages     []StageTemplate `bson:"stages" json:"stages"`
}

// Variation is a catalog-defined service type. A (variationKey, version)
// pair is immutable once a work order references it: edits insert a new
// version so historical quotations and invoices keep their pricing.
type Variation struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VariationKey string             `bson:"variationKey" json:"variationKey"` // e.g. "oil-change"
	Version      int                `bson:"version" json:"version"`
	Name         string             `bson:"name" json:"name"`
	PriceCents   int64              `bson:"priceCents" json:"priceCents"` // sum check over parts is the caller's concern
	Parts        []PartTemplate     `bson:"parts" json:"parts"`
	Current      bool               `bson:"current" json:"current"` // exactly one current document per key
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
