package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/loggpt/components-room/internal/common"
	"github.com/loggpt/components-room/internal/httpapi/middleware"
)

type chatSendReq struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

// chatOwner returns the conversation owner: the authenticated user's id, or
// nil for anonymous kiosk sessions.
func chatOwner(c *gin.Context) *uint64 {
	if user, ok := middleware.CurrentUser(c); ok {
		return &user.ID
	}
	return nil
}

func (h *Handler) SendChatMessage(c *gin.Context) {
	var req chatSendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "message required")
		return
	}

	res, err := h.Chat.Send(c.Request.Context(), chatOwner(c), req.ConversationID, req.Message)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, res)
}

func (h *Handler) ListConversations(c *gin.Context) {
	convs, err := h.Chat.ListConversations(c.Request.Context(), chatOwner(c))
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"conversations": convs, "total": len(convs)})
}

func (h *Handler) GetConversation(c *gin.Context) {
	id := c.Param("conversation_id")
	conv, err := h.Chat.GetConversation(c.Request.Context(), id, chatOwner(c))
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, conv)
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	id := c.Param("conversation_id")
	if err := h.Chat.DeleteConversation(c.Request.Context(), id, chatOwner(c)); err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"message": "conversation deleted"})
}

func (h *Handler) ChatHistory(c *gin.Context) {
	summaries, err := h.Chat.HistorySummaries(c.Request.Context(), chatOwner(c))
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"conversations": summaries})
}

func (h *Handler) ClearChatHistory(c *gin.Context) {
	if err := h.Chat.ClearHistory(c.Request.Context(), chatOwner(c)); err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"message": "chat history cleared"})
}
