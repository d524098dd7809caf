// server/internal/cleanup/sweeper.go

// Package cleanup expires ephemeral entities (notifications, conversations
// and their messages) on a fixed interval. Expiry is a computed predicate
// over expiresAt, not a database TTL feature, and deletes are idempotent so
// the sweep is safe to run concurrently with live request handling.
package cleanup

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Sweeper struct {
	DB       *mongo.Database
	Interval time.Duration
}

func NewSweeper(db *mongo.Database, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{DB: db, Interval: interval}
}

// SweepOnce deletes everything whose expiry has passed. Messages of an
// expired conversation go with it.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	now := time.Now()

	res, err := s.DB.Collection("notifications").DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": now}})
	if err != nil {
		return err
	}
	deletedNotifications := res.DeletedCount

	// Collect expired conversation ids first so their messages can be
	// removed too.
	cursor, err := s.DB.Collection("conversations").Find(ctx, bson.M{"expiresAt": bson.M{"$lte": now}})
	if err != nil {
		return err
	}
	var expired []struct {
		ConversationID string `bson:"conversationID"`
	}
	if err := cursor.All(ctx, &expired); err != nil {
		return err
	}

	var deletedConversations int64
	if len(expired) > 0 {
		ids := make([]string, len(expired))
		for i, c := range expired {
			ids[i] = c.ConversationID
		}
		if _, err := s.DB.Collection("messages").DeleteMany(ctx, bson.M{"conversationID": bson.M{"$in": ids}}); err != nil {
			return err
		}
		res, err = s.DB.Collection("conversations").DeleteMany(ctx, bson.M{"conversationID": bson.M{"$in": ids}})
		if err != nil {
			return err
		}
		deletedConversations = res.DeletedCount
	}

	if deletedNotifications > 0 || deletedConversations > 0 {
		log.WithFields(log.Fields{
			"notifications": deletedNotifications,
			"conversations": deletedConversations,
		}).Info("Expiry sweep completed")
	}
	return nil
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	log.WithField("interval", s.Interval).Info("Expiry sweeper started")
	for {
		select {
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				log.WithError(err).Error("Expiry sweep failed")
			}
		case <-ctx.Done():
			log.Info("Expiry sweeper stopped")
			return
		}
	}
}
