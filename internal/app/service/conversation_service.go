package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrConversationNotFound     = errors.New("conversation not found")
	ErrConversationAccessDenied = errors.New("conversation access denied")
	ErrSelfConversation         = errors.New("cannot start a conversation about your own item")
	ErrEmptyMessage             = errors.New("message content is empty")
	ErrMessageNotFound          = errors.New("message not found")
)

type ConversationService interface {
	StartConversation(itemID, initiatorID uint) (*model.Conversation, bool, error)
	GetUserConversations(userID uint) ([]model.ConversationWithUnread, error)
	GetConversation(conversationID, userID uint) (*model.Conversation, error)
	ViewConversation(conversationID, userID uint) (*model.Conversation, []model.Message, error)
	GetMessages(conversationID, userID uint) ([]model.Message, error)
	SendMessage(conversationID, senderID uint, content string) (*model.Message, error)
	MarkMessageRead(messageID, userID uint) error
	DeleteConversation(conversationID, userID uint) error
}

type conversationService struct {
	db       *gorm.DB
	convRepo repository.ConversationRepository
	itemRepo repository.ItemRepository
}

func NewConversationService(
	db *gorm.DB,
	convRepo repository.ConversationRepository,
	itemRepo repository.ItemRepository,
) ConversationService {
	return &conversationService{
		db:       db,
		convRepo: convRepo,
		itemRepo: itemRepo,
	}
}

// StartConversation returns the conversation between the item's owner
// and the initiator, creating it on first contact. The boolean reports
// whether a new conversation was created.
func (s *conversationService) StartConversation(itemID, initiatorID uint) (*model.Conversation, bool, error) {
	logger.Info("Starting conversation", map[string]interface{}{
		"item_id":      itemID,
		"initiator_id": initiatorID,
	})

	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrItemNotFound
		}
		logger.Error("Failed to fetch item for conversation", err, map[string]interface{}{
			"item_id": itemID,
		})
		return nil, false, err
	}

	if !item.IsActive {
		return nil, false, ErrItemNotFound
	}

	if item.OwnerID == initiatorID {
		logger.Warn("User tried to message their own listing", map[string]interface{}{
			"item_id": itemID,
			"user_id": initiatorID,
		})
		return nil, false, ErrSelfConversation
	}

	existing, err := s.convRepo.FindByItemAndParticipant(itemID, initiatorID)
	if err != nil {
		logger.Error("Failed to look up existing conversation", err, map[string]interface{}{
			"item_id":      itemID,
			"initiator_id": initiatorID,
		})
		return nil, false, err
	}
	if existing != nil {
		conv, err := s.convRepo.FindByIDWithDetails(existing.ID)
		if err != nil {
			return nil, false, err
		}
		return conv, false, nil
	}

	// The owner always sits in the first seat, the initiator in the second
	conv := &model.Conversation{
		ItemID:  itemID,
		User1ID: item.OwnerID,
		User2ID: initiatorID,
	}
	if err := s.convRepo.CreateConversation(conv); err != nil {
		logger.Error("Failed to create conversation", err, map[string]interface{}{
			"item_id":      itemID,
			"initiator_id": initiatorID,
		})
		return nil, false, err
	}

	logger.Info("Conversation created", map[string]interface{}{
		"conversation_id": conv.ID,
		"item_id":         itemID,
	})

	created, err := s.convRepo.FindByIDWithDetails(conv.ID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// GetUserConversations lists the user's conversations with a per-
// conversation count of messages they have not read yet.
func (s *conversationService) GetUserConversations(userID uint) ([]model.ConversationWithUnread, error) {
	logger.Debug("Fetching user conversations", map[string]interface{}{
		"user_id": userID,
	})

	convs, err := s.convRepo.FindByParticipant(userID)
	if err != nil {
		logger.Error("Failed to fetch user conversations", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	result := make([]model.ConversationWithUnread, 0, len(convs))
	for _, conv := range convs {
		unread, err := s.convRepo.CountUnread(conv.ID, userID)
		if err != nil {
			logger.Error("Failed to count unread messages", err, map[string]interface{}{
				"conversation_id": conv.ID,
				"user_id":         userID,
			})
			return nil, err
		}
		result = append(result, model.ConversationWithUnread{
			Conversation: conv,
			UnreadCount:  unread,
		})
	}

	logger.Info("User conversations fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(result),
	})
	return result, nil
}

// GetConversation fetches a conversation the user takes part in
func (s *conversationService) GetConversation(conversationID, userID uint) (*model.Conversation, error) {
	conv, err := s.convRepo.FindByIDWithDetails(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		logger.Error("Failed to fetch conversation", err, map[string]interface{}{
			"conversation_id": conversationID,
		})
		return nil, err
	}

	if !conv.HasParticipant(userID) {
		logger.Warn("Conversation access denied", map[string]interface{}{
			"conversation_id": conversationID,
			"user_id":         userID,
		})
		return nil, ErrConversationAccessDenied
	}

	return conv, nil
}

// ViewConversation opens a conversation: every message the other
// participant sent is marked read, then the full thread is returned.
func (s *conversationService) ViewConversation(conversationID, userID uint) (*model.Conversation, []model.Message, error) {
	conv, err := s.GetConversation(conversationID, userID)
	if err != nil {
		return nil, nil, err
	}

	marked, err := s.convRepo.MarkConversationRead(conversationID, userID)
	if err != nil {
		logger.Error("Failed to mark conversation as read", err, map[string]interface{}{
			"conversation_id": conversationID,
			"user_id":         userID,
		})
		return nil, nil, err
	}

	if marked > 0 {
		logger.Debug("Messages marked as read", map[string]interface{}{
			"conversation_id": conversationID,
			"user_id":         userID,
			"count":           marked,
		})
	}

	messages, err := s.convRepo.FindMessages(conversationID)
	if err != nil {
		return nil, nil, err
	}
	return conv, messages, nil
}

// GetMessages returns the thread without touching read state. Polling
// clients call this repeatedly; read receipts only move when the user
// actually opens the conversation.
func (s *conversationService) GetMessages(conversationID, userID uint) ([]model.Message, error) {
	if _, err := s.GetConversation(conversationID, userID); err != nil {
		return nil, err
	}
	return s.convRepo.FindMessages(conversationID)
}

func (s *conversationService) SendMessage(conversationID, senderID uint, content string) (*model.Message, error) {
	conv, err := s.GetConversation(conversationID, senderID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	message := &model.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		IsRead:         false,
	}
	if err := tx.Create(message).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create message", err, map[string]interface{}{
			"conversation_id": conversationID,
			"sender_id":       senderID,
		})
		return nil, err
	}

	// Bump activity so the conversation sorts to the top of the inbox
	if err := tx.Model(&model.Conversation{}).
		Where("id = ?", conv.ID).
		Update("updated_at", time.Now()).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	logger.Info("Message sent", map[string]interface{}{
		"message_id":      message.ID,
		"conversation_id": conversationID,
		"sender_id":       senderID,
	})

	return s.convRepo.FindMessageByID(message.ID)
}

// MarkMessageRead marks a single message as read on behalf of the
// user. Marking your own outgoing message is a silent no-op.
func (s *conversationService) MarkMessageRead(messageID, userID uint) error {
	message, err := s.convRepo.FindMessageByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		logger.Error("Failed to fetch message", err, map[string]interface{}{
			"message_id": messageID,
		})
		return err
	}

	if _, err := s.GetConversation(message.ConversationID, userID); err != nil {
		return err
	}

	if message.SenderID == userID {
		return nil
	}

	return s.convRepo.MarkMessageRead(messageID)
}

func (s *conversationService) DeleteConversation(conversationID, userID uint) error {
	if _, err := s.GetConversation(conversationID, userID); err != nil {
		return err
	}

	if err := s.convRepo.DeleteConversation(conversationID); err != nil {
		logger.Error("Failed to delete conversation", err, map[string]interface{}{
			"conversation_id": conversationID,
		})
		return err
	}

	logger.Info("Conversation deleted", map[string]interface{}{
		"conversation_id": conversationID,
		"user_id":         userID,
	})
	return nil
}
