package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between a trainer and one of their students.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	Body       string             `bson:"body" json:"body"`
	SentAt     time.Time          `bson:"sentAt" json:"sentAt"`
	ReadAt     *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
}
