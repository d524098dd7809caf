// server/internal/api/handlers/notification_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"garage-ops-api-server/internal/api/middleware"
	"garage-ops-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationHandler struct {
	DB *mongo.Database
}

// ListNotifications returns the caller's unexpired notifications, newest
// first. Branch notifications for the caller's branch are included.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	branchID := c.GetString(middleware.CtxBranchID)

	filter := bson.M{
		"$or": []bson.M{
			{"userID": userID},
			{"branchID": branchID},
		},
		"expiresAt": bson.M{"$gt": time.Now()},
	}
	if c.Query("unread") == "true" {
		filter["read"] = false
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := h.DB.Collection("notifications").Find(context.Background(), filter, opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query notifications")
		return
	}
	defer cursor.Close(context.Background())

	var notifications []models.Notification
	if err := cursor.All(context.Background(), &notifications); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode notifications")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	branchID := c.GetString(middleware.CtxBranchID)

	res, err := h.DB.Collection("notifications").UpdateOne(
		context.Background(),
		bson.M{
			"notificationID": c.Param("id"),
			"$or":            []bson.M{{"userID": userID}, {"branchID": branchID}},
		},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to mark notification read")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, KindNotFound, "Notification not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// MarkAllRead flags every one of the caller's notifications as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	res, err := h.DB.Collection("notifications").UpdateMany(
		context.Background(),
		bson.M{"userID": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to mark notifications read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": res.ModifiedCount})
}
