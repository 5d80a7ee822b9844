package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corvid-chat/corvid/internal/service"
)

// MessageHandler serves channel chat history.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates a new MessageHandler instance.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type contentRequest struct {
	Content string `json:"content"`
}

// List handles GET /channels/:id/messages?limit=&before=.
func (h *MessageHandler) List(c *gin.Context) {
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		handleError(c, err)
		return
	}

	page, err := h.messages.ListMessages(c.Request.Context(), c.Param("id"), limit, c.Query("before"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Send handles POST /channels/:id/messages. Bot commands answer with the
// bot's reply as data.
func (h *MessageHandler) Send(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.messages.SendMessage(c.Request.Context(), c.Param("id"), req.Content, identity.UID, identity.DisplayName())
	if err != nil {
		handleError(c, err)
		return
	}

	if result.Reply != nil {
		c.JSON(http.StatusCreated, gin.H{
			"message": "Bot command processed",
			"data":    result.Reply,
			"command": result.Message,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    result.Message,
	})
}

// Edit handles PATCH /messages/:id.
func (h *MessageHandler) Edit(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.messages.EditMessage(c.Request.Context(), id, req.Content, identity.UID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Message updated successfully",
		"data":    msg,
	})
}

// Delete handles DELETE /messages/:id.
func (h *MessageHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.messages.DeleteMessage(c.Request.Context(), id, identity.UID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
}
