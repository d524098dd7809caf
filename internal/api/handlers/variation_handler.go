// server/internal/api/handlers/variation_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"garage-ops-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type VariationHandler struct {
	DB *mongo.Database
}

type StageTemplateRequest struct {
	Name string `json:"name" binding:"required"`
}

type PartTemplateRequest struct {
	Name       string                 `json:"name" binding:"required"`
	PriceCents int64                  `json:"priceCents" binding:"required,min=0"`
	Stages     []StageTemplateRequest `json:"stages" binding:"required,min=1"`
}

type CreateVariationRequest struct {
	VariationKey string                `json:"variationKey" binding:"required"`
	Name         string                `json:"name" binding:"required"`
	PriceCents   int64                 `json:"priceCents" binding:"required,min=0"`
	Parts        []PartTemplateRequest `json:"parts" binding:"required,min=1"`
}

func buildParts(reqs []PartTemplateRequest) []models.PartTemplate {
	parts := make([]models.PartTemplate, 0, len(reqs))
	for _, p := range reqs {
		tmpl := models.PartTemplate{Name: p.Name, PriceCents: p.PriceCents}
		for i, s := range p.Stages {
			tmpl.Stages = append(tmpl.Stages, models.StageTemplate{Name: s.Name, Order: i})
		}
		parts = append(parts, tmpl)
	}
	return parts
}

// CreateVariation inserts version 1 of a new catalog entry.
func (h *VariationHandler) CreateVariation(c *gin.Context) {
	var req CreateVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	collection := h.DB.Collection("variations")
	count, err := collection.CountDocuments(context.Background(), bson.M{"variationKey": req.VariationKey})
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Database error checking for variation")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, KindConflict, "Variation with this key already exists")
		return
	}

	variation := models.Variation{
		VariationKey: req.VariationKey,
		Version:      1,
		Name:         req.Name,
		PriceCents:   req.PriceCents,
		Parts:        buildParts(req.Parts),
		Current:      true,
		CreatedAt:    time.Now(),
	}
	if _, err := collection.InsertOne(context.Background(), variation); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to create variation")
		return
	}
	c.JSON(http.StatusCreated, variation)
}

type ReviseVariationRequest struct {
	Name       string                `json:"name" binding:"required"`
	PriceCents int64                 `json:"priceCents" binding:"required,min=0"`
	Parts      []PartTemplateRequest `json:"parts" binding:"required,min=1"`
}

// ReviseVariation inserts a new version rather than editing in place, so
// work orders referencing an old version keep their historical pricing.
func (h *VariationHandler) ReviseVariation(c *gin.Context) {
	key := c.Param("key")

	var req ReviseVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	collection := h.DB.Collection("variations")
	var current models.Variation
	err := collection.FindOne(context.Background(), bson.M{"variationKey": key, "current": true}).Decode(&current)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, KindNotFound, "Variation not found")
		} else {
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to retrieve variation")
		}
		return
	}

	next := models.Variation{
		VariationKey: key,
		Version:      current.Version + 1,
		Name:         req.Name,
		PriceCents:   req.PriceCents,
		Parts:        buildParts(req.Parts),
		Current:      true,
		CreatedAt:    time.Now(),
	}
	if _, err := collection.InsertOne(context.Background(), next); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to create variation version")
		return
	}
	// Retire the previous version only after the new one is in place.
	_, err = collection.UpdateOne(
		context.Background(),
		bson.M{"variationKey": key, "version": current.Version},
		bson.M{"$set": bson.M{"current": false}},
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to retire previous version")
		return
	}
	c.JSON(http.StatusCreated, next)
}

func (h *VariationHandler) ListVariations(c *gin.Context) {
	filter := bson.M{"current": true}
	if c.Query("allVersions") == "true" {
		delete(filter, "current")
	}

	cursor, err := h.DB.Collection("variations").Find(context.Background(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query variations")
		return
	}
	defer cursor.Close(context.Background())

	var variations []models.Variation
	if err := cursor.All(context.Background(), &variations); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode variations")
		return
	}
	if variations == nil {
		variations = []models.Variation{}
	}
	c.JSON(http.StatusOK, variations)
}

func (h *VariationHandler) GetVariation(c *gin.Context) {
	key := c.Param("key")

	var variation models.Variation
	err := h.DB.Collection("variations").FindOne(context.Background(), bson.M{"variationKey": key, "current": true}).Decode(&variation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, KindNotFound, "Variation not found")
		} else {
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to retrieve variation")
		}
		return
	}
	c.JSON(http.StatusOK, variation)
}
