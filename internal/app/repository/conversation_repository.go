package repository

import (
	"time"

	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	// Conversation operations
	CreateConversation(conv *model.Conversation) error
	FindByID(id uint) (*model.Conversation, error)
	FindByIDWithDetails(id uint) (*model.Conversation, error)
	FindByItemAndParticipant(itemID, userID uint) (*model.Conversation, error)
	FindByParticipant(userID uint) ([]model.Conversation, error)
	TouchUpdatedAt(conversationID uint, timestamp time.Time) error
	DeleteConversation(id uint) error

	// Message operations
	CreateMessage(message *model.Message) error
	FindMessageByID(id uint) (*model.Message, error)
	FindMessages(conversationID uint) ([]model.Message, error)
	MarkConversationRead(conversationID, readerID uint) (int64, error)
	MarkMessageRead(messageID uint) error
	CountUnread(conversationID, userID uint) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// CreateConversation inserts a new conversation
func (r *conversationRepository) CreateConversation(conv *model.Conversation) error {
	return r.db.Create(conv).Error
}

// FindByID looks up a conversation by ID
func (r *conversationRepository) FindByID(id uint) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.db.First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByIDWithDetails looks up a conversation with participants and item preloaded
func (r *conversationRepository) FindByIDWithDetails(id uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Preload("User1").Preload("User2").
		Preload("Item").Preload("Item.Owner").
		First(&conv, id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByItemAndParticipant finds an existing conversation for the item
// that the given user takes part in, in either seat. Returns (nil, nil)
// when no such conversation exists.
func (r *conversationRepository) FindByItemAndParticipant(itemID, userID uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Where("item_id = ?", itemID).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("id ASC").
		First(&conv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// FindByParticipant lists the user's conversations, most recently
// active first.
func (r *conversationRepository) FindByParticipant(userID uint) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := r.db.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Preload("User1").Preload("User2").
		Preload("Item").
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// TouchUpdatedAt bumps the conversation activity timestamp
func (r *conversationRepository) TouchUpdatedAt(conversationID uint, timestamp time.Time) error {
	return r.db.Model(&model.Conversation{}).Where("id = ?", conversationID).
		Update("updated_at", timestamp).Error
}

// DeleteConversation removes a conversation and all of its messages in
// one transaction.
func (r *conversationRepository) DeleteConversation(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Conversation{}, id).Error
	})
}

// CreateMessage inserts a new message
func (r *conversationRepository) CreateMessage(message *model.Message) error {
	return r.db.Create(message).Error
}

// FindMessageByID looks up a message by ID
func (r *conversationRepository) FindMessageByID(id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.Preload("Sender").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// FindMessages returns the conversation's messages oldest first
func (r *conversationRepository) FindMessages(conversationID uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Preload("Sender").
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkConversationRead flags every message the reader has not sent as
// read. Returns the number of messages updated.
func (r *conversationRepository) MarkConversationRead(conversationID, readerID uint) (int64, error) {
	result := r.db.Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkMessageRead flags a single message as read
func (r *conversationRepository) MarkMessageRead(messageID uint) error {
	return r.db.Model(&model.Message{}).Where("id = ?", messageID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}

// CountUnread counts messages in the conversation that the given user
// has not read yet (messages sent by the other participant).
func (r *conversationRepository) CountUnread(conversationID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
