// server/internal/models/messaging.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is an ephemeral message thread. ExpiresAt is evaluated by
// the periodic sweep; expiry is never user-triggered.
type Conversation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID string             `bson:"conversationID" json:"conversationID"` // e.g. "conv-a1b2c3d4"
	ParticipantIDs []string           `bson:"participantIDs" json:"participantIDs"`
	BranchID       string             `bson:"branchID" json:"branchID"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	ExpiresAt      time.Time          `bson:"expiresAt" json:"expiresAt"`
}

// Message belongs to a conversation; voice notes carry a media pointer.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MessageID      string             `bson:"messageID" json:"messageID"` // e.g. "msg-a1b2c3d4"
	ConversationID string             `bson:"conversationID" json:"conversationID"`
	SenderID       string             `bson:"senderID" json:"senderID"`
	Body           string             `bson:"body,omitempty" json:"body,omitempty"`
	VoiceNote      *MediaPointer      `bson:"voiceNote,omitempty" json:"voiceNote,omitempty"`
	SentAt         time.Time          `bson:"sentAt" json:"sentAt"`
}

// Notification is an ephemeral per-user event record, pushed over the
// websocket hub and persisted until the sweep expires it.
type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NotificationID string             `bson:"notificationID" json:"notificationID"` // e.g. "ntf-a1b2c3d4"
	UserID         string             `bson:"userID,omitempty" json:"userID,omitempty"`
	BranchID       string             `bson:"branchID,omitempty" json:"branchID,omitempty"`
	Type           string             `bson:"type" json:"type"` // workorder.status, invoice.payment, qa.decision, ...
	Payload        map[string]any     `bson:"payload,omitempty" json:"payload,omitempty"`
	Read           bool               `bson:"read" json:"read"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	ExpiresAt      time.Time          `bson:"expiresAt" json:"expiresAt"`
}
