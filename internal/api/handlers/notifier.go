// server/internal/api/handlers/notifier.go
package handlers

import (
	"context"
	"time"

	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/socket"
	"garage-ops-api-server/internal/workorder"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Notifier persists a notification and pushes it over the websocket hub.
// Delivery is best effort: a failed insert is logged, never surfaced to the
// request that triggered it.
type Notifier struct {
	DB  *mongo.Database
	Hub *socket.Hub
	TTL time.Duration
}

func NewNotifier(db *mongo.Database, hub *socket.Hub, ttl time.Duration) *Notifier {
	return &Notifier{DB: db, Hub: hub, TTL: ttl}
}

func (n *Notifier) insert(notification *models.Notification) {
	notification.NotificationID = workorder.NewID("ntf")
	notification.CreatedAt = time.Now()
	notification.ExpiresAt = notification.CreatedAt.Add(n.TTL)
	if _, err := n.DB.Collection("notifications").InsertOne(context.Background(), notification); err != nil {
		log.WithError(err).WithField("type", notification.Type).Error("failed to persist notification")
	}
}

// NotifyUser records a notification for one user and pushes it to their room.
func (n *Notifier) NotifyUser(userID, eventType string, payload map[string]any) {
	notification := &models.Notification{UserID: userID, Type: eventType, Payload: payload}
	n.insert(notification)
	n.Hub.SendToUser(userID, socket.Event{Type: eventType, Payload: notification})
}

// NotifyBranch records a notification for a branch and fans it out to every
// connection in the branch room.
func (n *Notifier) NotifyBranch(branchID, eventType string, payload map[string]any) {
	notification := &models.Notification{BranchID: branchID, Type: eventType, Payload: payload}
	n.insert(notification)
	n.Hub.SendToBranch(branchID, socket.Event{Type: eventType, Payload: notification})
}
