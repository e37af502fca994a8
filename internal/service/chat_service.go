package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/notify"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrChatNotFound      = errors.New("chat not found")
	ErrChatAccessDenied  = errors.New("access denied to this chat")
	ErrEmptyMessage      = errors.New("message text cannot be empty")
	ErrMessageTooLong    = errors.New("message text is too long")
	ErrChatWithSelf      = errors.New("cannot send a message to yourself")
	ErrRecipientNotFound = errors.New("recipient not found")
)

const maxMessageRunes = 2000

// ThreadMessage is a message with the rendering hints of a chat thread.
type ThreadMessage struct {
	domain.Message
	TimestampLabel     string `json:"timestampLabel"`
	ShowTimestamp      bool   `json:"showTimestamp"`
	ShowProfilePicture bool   `json:"showProfilePicture"`
}

type ChatService interface {
	SendMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, text string) (*domain.Message, error)
	// ListChats returns the user's chats, most recently active first.
	ListChats(ctx context.Context, userID primitive.ObjectID) ([]domain.Chat, error)
	// GetThread returns the chat's messages oldest first, annotated for display to userID.
	GetThread(ctx context.Context, chatID string, userID primitive.ObjectID) ([]ThreadMessage, error)
	MarkSeen(ctx context.Context, chatID string, userID primitive.ObjectID) (int64, error)
}

type chatService struct {
	chatRepo  repository.ChatRepository
	userRepo  repository.UserRepository
	publisher notify.Publisher
	loc       *time.Location
	log       *zap.Logger
	now       func() time.Time
}

func NewChatService(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	publisher notify.Publisher,
	loc *time.Location,
	log *zap.Logger,
) ChatService {
	if loc == nil {
		loc = time.UTC
	}
	return &chatService{
		chatRepo:  chatRepo,
		userRepo:  userRepo,
		publisher: publisher,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, text string) (*domain.Message, error) {
	const op = "service.SendMessage"

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > maxMessageRunes {
		return nil, ErrMessageTooLong
	}
	if senderID == receiverID {
		return nil, ErrChatWithSelf
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	chatID := domain.ChatIDFor(senderID, receiverID)
	msg := &domain.Message{
		ChatID:     chatID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Timestamp:  now,
	}
	// The chat must exist before any message references it.
	chat := &domain.Chat{
		ID:             chatID,
		ParticipantIDs: []primitive.ObjectID{senderID, receiverID},
		LastMessage:    text,
		LastMessageAt:  now,
	}
	if err := s.chatRepo.Touch(ctx, chat); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.chatRepo.AddMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	msg.ID = id

	event := notify.MessageEvent{
		ChatID:     chatID,
		MessageID:  id.Hex(),
		SenderID:   senderID.Hex(),
		ReceiverID: receiverID.Hex(),
		Timestamp:  now,
	}
	if err := s.publisher.Publish(ctx, notify.MessageSent, event); err != nil {
		s.log.Warn("failed to publish message event", zap.String("chat_id", chatID), zap.Error(err))
	}
	return msg, nil
}

func (s *chatService) ListChats(ctx context.Context, userID primitive.ObjectID) ([]domain.Chat, error) {
	chats, err := s.chatRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ListChats: %w", err)
	}
	return chats, nil
}

func (s *chatService) authorize(ctx context.Context, chatID string, userID primitive.ObjectID) error {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChatNotFound
		}
		return fmt.Errorf("service.authorizeChat: %w", err)
	}
	if !chat.HasParticipant(userID) {
		return ErrChatAccessDenied
	}
	return nil
}

func (s *chatService) GetThread(ctx context.Context, chatID string, userID primitive.ObjectID) ([]ThreadMessage, error) {
	if err := s.authorize(ctx, chatID, userID); err != nil {
		return nil, err
	}
	messages, err := s.chatRepo.Messages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("service.GetThread: %w", err)
	}
	return annotateThread(messages, userID, s.loc), nil
}

// annotateThread computes the display hints for messages sorted oldest first.
// Avatars are decided over the newest-first view, so a run of messages from
// the same sender shows the picture on its most recent message.
func annotateThread(messages []domain.Message, userID primitive.ObjectID, loc *time.Location) []ThreadMessage {
	n := len(messages)
	newestFirst := make([]domain.Message, n)
	for i, m := range messages {
		newestFirst[n-1-i] = m
	}

	thread := make([]ThreadMessage, n)
	for i, m := range messages {
		var previous *time.Time
		if i > 0 {
			previous = &messages[i-1].Timestamp
		}
		thread[i] = ThreadMessage{
			Message:            m,
			TimestampLabel:     domain.FormatTimestamp(m.Timestamp, previous, loc),
			ShowTimestamp:      domain.ShouldShowTimestamp(m.Timestamp, previous),
			ShowProfilePicture: domain.ShouldShowProfilePicture(n-1-i, newestFirst, userID),
		}
	}
	return thread
}

func (s *chatService) MarkSeen(ctx context.Context, chatID string, userID primitive.ObjectID) (int64, error) {
	if err := s.authorize(ctx, chatID, userID); err != nil {
		return 0, err
	}
	n, err := s.chatRepo.MarkSeen(ctx, chatID, userID)
	if err != nil {
		return 0, fmt.Errorf("service.MarkSeen: %w", err)
	}
	return n, nil
}
