package api

import (
	"net/http"
	"strconv"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageHandler serves trainer/student direct messages.
type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type SendMessageRequest struct {
	ReceiverID primitive.ObjectID `json:"receiverId" binding:"required"`
	Body       string             `json:"body" binding:"required"`
}

type UnreadResponse struct {
	Unread int64 `json:"unread"`
}

// SendMessage godoc
// @Summary Send a message to your trainer or one of your students
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body SendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Failure 403 {object} gin.H "Users are not linked"
// @Router /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.messageService.Send(c.Request.Context(), userID, req.ReceiverID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetConversation godoc
// @Summary Messages exchanged with another user, newest first
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Other user ID"
// @Param limit query int false "Maximum number of messages"
// @Success 200 {array} domain.Message
// @Router /messages/{userId} [get]
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	msgs, err := h.messageService.Conversation(c.Request.Context(), userID, otherID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}

// MarkRead godoc
// @Summary Mark a received message as read
// @Tags Messages
// @Security BearerAuth
// @Param messageId path string true "Message ID"
// @Success 204 "Marked"
// @Router /messages/{messageId}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	messageID, ok := pathID(c, "messageId")
	if !ok {
		return
	}
	if err := h.messageService.MarkRead(c.Request.Context(), userID, messageID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUnread godoc
// @Summary Number of unread messages
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UnreadResponse
// @Router /messages/unread [get]
func (h *MessageHandler) GetUnread(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.messageService.Unread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UnreadResponse{Unread: n})
}
