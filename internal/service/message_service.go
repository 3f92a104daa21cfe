package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/events"
	"fitcoach/platform/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxMessageLength         = 4000
	defaultConversationLimit = 50
	maxConversationLimit     = 200
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrMessageNotFound   = errors.New("message not found")
)

type MessageService interface {
	Send(ctx context.Context, senderID, receiverID primitive.ObjectID, body string) (*domain.Message, error)
	Conversation(ctx context.Context, userID, otherID primitive.ObjectID, limit int) ([]domain.Message, error)
	MarkRead(ctx context.Context, userID, messageID primitive.ObjectID) error
	Unread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	publisher   events.Publisher
	now         func() time.Time
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, publisher events.Publisher) MessageService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// linked reports whether a and b are a trainer and one of their students.
func linked(a, b *domain.User) bool {
	switch {
	case a.IsTrainer() && b.IsStudent():
		return b.HasTrainer(a.ID)
	case a.IsStudent() && b.IsTrainer():
		return a.HasTrainer(b.ID)
	}
	return false
}

func (s *messageService) pair(ctx context.Context, userID, otherID primitive.ObjectID) error {
	if userID == otherID {
		return ErrAccessDenied
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return storeErr(err, ErrUserNotFound)
	}
	other, err := s.userRepo.GetByID(ctx, otherID)
	if err != nil {
		return storeErr(err, ErrRecipientNotFound)
	}
	if !linked(user, other) {
		return ErrAccessDenied
	}
	return nil
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID primitive.ObjectID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("message body is required")
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return nil, invalid("message body exceeds %d characters", maxMessageLength)
	}
	if err := s.pair(ctx, senderID, receiverID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		SentAt:     s.now().UTC(),
	}
	id, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	msg.ID = id

	e := events.New(events.TypeMessageSent, receiverID, map[string]any{"messageId": id, "senderId": senderID})
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.WithError(err).WithField("type", e.Type).Warn("event publish failed")
	}
	return msg, nil
}

// Conversation returns the newest messages between the two users, newest first.
func (s *messageService) Conversation(ctx context.Context, userID, otherID primitive.ObjectID, limit int) ([]domain.Message, error) {
	if err := s.pair(ctx, userID, otherID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultConversationLimit
	}
	if limit > maxConversationLimit {
		limit = maxConversationLimit
	}
	msgs, err := s.messageRepo.Conversation(ctx, userID, otherID, int64(limit))
	return msgs, storeErr(err, nil)
}

// MarkRead sets readAt on a message addressed to userID. Marking twice keeps the first time.
func (s *messageService) MarkRead(ctx context.Context, userID, messageID primitive.ObjectID) error {
	return storeErr(s.messageRepo.MarkRead(ctx, messageID, userID, s.now().UTC()), ErrMessageNotFound)
}

func (s *messageService) Unread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := s.messageRepo.CountUnread(ctx, userID)
	return n, storeErr(err, nil)
}
