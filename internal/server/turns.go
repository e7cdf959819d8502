package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yashubustudio/slotguide/slots"
)

type turnRequest struct {
	ConversationID string            `json:"conversation_id" binding:"required"`
	Intent         string            `json:"intent" binding:"required"`
	Text           string            `json:"text"`
	Entities       []slots.RawEntity `json:"entities"`
}

type turnResponse struct {
	RequestID string `json:"request_id"`
	slots.TurnResult
}

// turn handles a turn for clients that keep no dialogue state: the pending
// flag is read from and written back to the store.
func (s *Server) turn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	id := strings.TrimSpace(req.ConversationID)

	pending, err := s.store.Pending(ctx, id)
	if err != nil {
		s.log.Error("read pending state", "conversation_id", id, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "state store unavailable"})
		return
	}
	out := s.svc.HandleTurn(ctx, slots.Turn{
		ConversationID: id,
		Intent:         req.Intent,
		Text:           req.Text,
		Entities:       req.Entities,
		Pending:        pending,
	})
	// A pending request is rewritten on every search so its TTL restarts.
	if !out.Failed && (out.Transition.Changed() || out.Transition.To == slots.StatePending) {
		if err := s.store.SetPending(ctx, id, out.Transition.To); err != nil {
			s.log.Error("write pending state", "conversation_id", id, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "state store unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, turnResponse{RequestID: c.GetString(requestIDKey), TurnResult: out})
}

func (s *Server) forget(c *gin.Context) {
	if err := s.store.Forget(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
