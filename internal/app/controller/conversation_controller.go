package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/service"
	apperrors "github.com/ikkim/swapdonaterent-backend/internal/errors"
	"github.com/ikkim/swapdonaterent-backend/internal/middleware"
)

type ConversationController struct {
	convService service.ConversationService
}

func NewConversationController(convService service.ConversationService) *ConversationController {
	return &ConversationController{convService: convService}
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// messagePayload is the shape polling clients consume
type messagePayload struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	CreatedAt string `json:"created_at"`
	IsOwn     bool   `json:"is_own"`
	IsRead    bool   `json:"is_read"`
}

func messageResponse(message model.Message, viewerID uint) messagePayload {
	sender := message.Sender.Nickname
	if sender == "" {
		sender = message.Sender.Name
	}
	return messagePayload{
		ID:        message.ID,
		Content:   message.Content,
		Sender:    sender,
		CreatedAt: message.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		IsOwn:     message.SenderID == viewerID,
		IsRead:    message.IsRead,
	}
}

func messagesResponse(messages []model.Message, viewerID uint) []messagePayload {
	payload := make([]messagePayload, 0, len(messages))
	for _, message := range messages {
		payload = append(payload, messageResponse(message, viewerID))
	}
	return payload
}

func conversationResponse(conv *model.Conversation, viewerID uint) gin.H {
	response := gin.H{
		"id":         conv.ID,
		"item_id":    conv.ItemID,
		"item":       conv.Item,
		"created_at": conv.CreatedAt,
		"updated_at": conv.UpdatedAt,
	}
	if other := conv.OtherParticipant(viewerID); other != nil {
		response["other_participant"] = gin.H{
			"id":            other.ID,
			"name":          other.Name,
			"nickname":      other.Nickname,
			"profile_image": other.ProfileImage,
		}
	}
	return response
}

// StartConversation opens (or returns) the caller's conversation about an item
// POST /api/v1/items/:id/conversations
func (ctrl *ConversationController) StartConversation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid item ID")
		return
	}

	conv, isNew, err := ctrl.convService.StartConversation(uint(itemID), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.ItemNotFound, "Listing not found")
		case errors.Is(err, service.ErrSelfConversation):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.SelfConversationForbidden, "You cannot message your own listing")
		default:
			log.Error("Failed to start conversation", err, map[string]interface{}{
				"item_id": itemID,
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "start conversation")
		}
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}

	log.Info("Conversation opened", map[string]interface{}{
		"conversation_id": conv.ID,
		"item_id":         itemID,
		"user_id":         userID,
		"is_new":          isNew,
	})

	c.JSON(status, gin.H{
		"conversation": conversationResponse(conv, userID),
		"is_new":       isNew,
	})
}

// ListConversations returns the caller's inbox with unread counts
// GET /api/v1/conversations
func (ctrl *ConversationController) ListConversations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	convs, err := ctrl.convService.GetUserConversations(userID)
	if err != nil {
		log.Error("Failed to list conversations", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list conversations")
		return
	}

	payload := make([]gin.H, 0, len(convs))
	for i := range convs {
		entry := conversationResponse(&convs[i].Conversation, userID)
		entry["unread_count"] = convs[i].UnreadCount
		payload = append(payload, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": payload,
		"count":         len(payload),
	})
}

// GetConversation opens a conversation: incoming messages are marked
// read and the full thread is returned
// GET /api/v1/conversations/:id
func (ctrl *ConversationController) GetConversation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid conversation ID")
		return
	}

	conv, messages, err := ctrl.convService.ViewConversation(uint(id), userID)
	if err != nil {
		ctrl.respondConversationError(c, err, uint(id), userID)
		return
	}

	log.Debug("Conversation viewed", map[string]interface{}{
		"conversation_id": id,
		"user_id":         userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"conversation": conversationResponse(conv, userID),
		"messages":     messagesResponse(messages, userID),
	})
}

// GetMessages returns the thread for polling without marking anything read
// GET /api/v1/conversations/:id/messages
func (ctrl *ConversationController) GetMessages(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid conversation ID")
		return
	}

	messages, err := ctrl.convService.GetMessages(uint(id), userID)
	if err != nil {
		ctrl.respondConversationError(c, err, uint(id), userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messagesResponse(messages, userID),
	})
}

// SendMessage appends a message to a conversation
// POST /api/v1/conversations/:id/messages
func (ctrl *ConversationController) SendMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid conversation ID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.MessageEmpty, "Message content is required")
		return
	}

	message, err := ctrl.convService.SendMessage(uint(id), userID, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			apperrors.BadRequest(c, apperrors.MessageEmpty, "Message content is required")
			return
		}
		ctrl.respondConversationError(c, err, uint(id), userID)
		return
	}

	log.Info("Message sent", map[string]interface{}{
		"conversation_id": id,
		"message_id":      message.ID,
		"sender_id":       userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": messageResponse(*message, userID),
	})
}

// MarkMessageRead marks a single incoming message as read
// PUT /api/v1/messages/:id/read
func (ctrl *ConversationController) MarkMessageRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid message ID")
		return
	}

	if err := ctrl.convService.MarkMessageRead(uint(id), userID); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			apperrors.NotFound(c, apperrors.MessageNotFound, "Message not found")
			return
		}
		ctrl.respondConversationError(c, err, 0, userID)
		return
	}

	log.Debug("Message marked as read", map[string]interface{}{
		"message_id": id,
		"user_id":    userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Message marked as read",
	})
}

// DeleteConversation removes a conversation and its messages
// DELETE /api/v1/conversations/:id
func (ctrl *ConversationController) DeleteConversation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid conversation ID")
		return
	}

	if err := ctrl.convService.DeleteConversation(uint(id), userID); err != nil {
		ctrl.respondConversationError(c, err, uint(id), userID)
		return
	}

	log.Info("Conversation deleted", map[string]interface{}{
		"conversation_id": id,
		"user_id":         userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Conversation deleted",
	})
}

func (ctrl *ConversationController) respondConversationError(c *gin.Context, err error, conversationID, userID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		apperrors.NotFound(c, apperrors.ConversationNotFound, "Conversation not found")
	case errors.Is(err, service.ErrConversationAccessDenied):
		apperrors.Forbidden(c, "You are not part of this conversation")
	default:
		log.Error("Conversation operation failed", err, map[string]interface{}{
			"conversation_id": conversationID,
			"user_id":         userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "conversation")
	}
}
