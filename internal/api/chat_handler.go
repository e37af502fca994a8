package api

import (
	"net/http"

	"github.com/Barry4747/ZnanyByk-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService service.ChatService
	log         *zap.Logger
}

func NewChatHandler(chatService service.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, log: log}
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

// ListChats godoc
// @Summary List the caller's chats, most recent first
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Chat
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /chats [get]
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	chats, err := h.chatService.ListChats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

// GetThread godoc
// @Summary Get the messages of a chat
// @Description Messages oldest first, annotated with timestamp labels and avatar hints.
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param chatId path string true "Chat ID"
// @Success 200 {array} service.ThreadMessage
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /chats/{chatId}/messages [get]
func (h *ChatHandler) GetThread(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	thread, err := h.chatService.GetThread(c.Request.Context(), c.Param("chatId"), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// SendMessage godoc
// @Summary Send a message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body SendMessageRequest true "Receiver and text"
// @Success 201 {object} domain.Message
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	senderID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid receiverId format")
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), senderID, receiverID, req.Text)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkSeen godoc
// @Summary Mark messages addressed to the caller as seen
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param chatId path string true "Chat ID"
// @Success 200 {object} gin.H "updated count"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /chats/{chatId}/seen [post]
func (h *ChatHandler) MarkSeen(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	n, err := h.chatService.MarkSeen(c.Request.Context(), c.Param("chatId"), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
