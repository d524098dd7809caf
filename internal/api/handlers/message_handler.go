// server/internal/api/handlers/message_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"garage-ops-api-server/internal/api/middleware"
	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/socket"
	"garage-ops-api-server/internal/workorder"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageHandler implements the ephemeral in-house chat. Conversations and
// their messages carry an expiry honored by the periodic sweep, not by any
// read path.
type MessageHandler struct {
	DB              *mongo.Database
	Hub             *socket.Hub
	ConversationTTL time.Duration
}

type CreateConversationRequest struct {
	ParticipantIDs []string `json:"participantIDs" binding:"required,min=1"`
	BranchID       string   `json:"branchID" binding:"required"`
}

func (h *MessageHandler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	sender := c.GetString(middleware.CtxUserID)
	participants := req.ParticipantIDs
	found := false
	for _, id := range participants {
		if id == sender {
			found = true
			break
		}
	}
	if !found {
		participants = append(participants, sender)
	}

	now := time.Now()
	conversation := models.Conversation{
		ConversationID: workorder.NewID("conv"),
		ParticipantIDs: participants,
		BranchID:       req.BranchID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(h.ConversationTTL),
	}
	if _, err := h.DB.Collection("conversations").InsertOne(context.Background(), conversation); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to create conversation")
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

// ListConversations returns the caller's conversations. Expired threads the
// sweep has not yet collected are filtered out here.
func (h *MessageHandler) ListConversations(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	cursor, err := h.DB.Collection("conversations").Find(context.Background(), bson.M{
		"participantIDs": userID,
		"expiresAt":      bson.M{"$gt": time.Now()},
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query conversations")
		return
	}
	defer cursor.Close(context.Background())

	var conversations []models.Conversation
	if err := cursor.All(context.Background(), &conversations); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode conversations")
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	c.JSON(http.StatusOK, conversations)
}

// loadConversation checks the caller is a live participant.
func (h *MessageHandler) loadConversation(c *gin.Context) (*models.Conversation, bool) {
	userID := c.GetString(middleware.CtxUserID)

	var conversation models.Conversation
	err := h.DB.Collection("conversations").FindOne(context.Background(), bson.M{
		"conversationID": c.Param("id"),
		"participantIDs": userID,
		"expiresAt":      bson.M{"$gt": time.Now()},
	}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, KindNotFound, "Conversation not found")
		} else {
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to retrieve conversation")
		}
		return nil, false
	}
	return &conversation, true
}

func (h *MessageHandler) ListMessages(c *gin.Context) {
	conversation, ok := h.loadConversation(c)
	if !ok {
		return
	}

	opts := options.Find().SetSort(bson.M{"sentAt": 1})
	cursor, err := h.DB.Collection("messages").Find(context.Background(), bson.M{"conversationID": conversation.ConversationID}, opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query messages")
		return
	}
	defer cursor.Close(context.Background())

	var messages []models.Message
	if err := cursor.All(context.Background(), &messages); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode messages")
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

type SendMessageRequest struct {
	Body      string               `json:"body"`
	VoiceNote *models.MediaPointer `json:"voiceNote"`
}

// SendMessage persists the message and fans it out to every participant's
// user room.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	conversation, ok := h.loadConversation(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}
	if req.Body == "" && req.VoiceNote == nil {
		respondError(c, http.StatusBadRequest, KindValidation, "Message requires a body or a voice note")
		return
	}

	message := models.Message{
		MessageID:      workorder.NewID("msg"),
		ConversationID: conversation.ConversationID,
		SenderID:       c.GetString(middleware.CtxUserID),
		Body:           req.Body,
		VoiceNote:      req.VoiceNote,
		SentAt:         time.Now(),
	}
	if _, err := h.DB.Collection("messages").InsertOne(context.Background(), message); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to send message")
		return
	}

	for _, participant := range conversation.ParticipantIDs {
		if participant == message.SenderID {
			continue
		}
		h.Hub.SendToUser(participant, socket.Event{Type: "message.new", Payload: message})
	}
	c.JSON(http.StatusCreated, message)
}
