package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yashubustudio/slotguide/slots"
)

// actionRequest is the body Rasa posts to a custom-action server.
type actionRequest struct {
	NextAction string       `json:"next_action"`
	SenderID   string       `json:"sender_id"`
	Tracker    trackerState `json:"tracker"`
}

type trackerState struct {
	SenderID      string         `json:"sender_id"`
	Slots         map[string]any `json:"slots"`
	LatestMessage latestMessage  `json:"latest_message"`
}

type latestMessage struct {
	Text   string `json:"text"`
	Intent struct {
		Name string `json:"name"`
	} `json:"intent"`
	Entities []trackerEntity `json:"entities"`
}

// trackerEntity carries a value of any JSON type; extractors may emit numbers.
type trackerEntity struct {
	Entity string `json:"entity"`
	Value  any    `json:"value"`
	Role   string `json:"role,omitempty"`
	Group  string `json:"group,omitempty"`
}

type actionResponse struct {
	Events    []map[string]any `json:"events"`
	Responses []map[string]any `json:"responses"`
}

func (r actionRequest) conversationID() string {
	if r.SenderID != "" {
		return r.SenderID
	}
	return r.Tracker.SenderID
}

func (r actionRequest) turn(pendingSlot string) slots.Turn {
	msg := r.Tracker.LatestMessage
	entities := make([]slots.RawEntity, 0, len(msg.Entities))
	for _, e := range msg.Entities {
		entities = append(entities, slots.RawEntity{
			Entity: e.Entity,
			Value:  entityValue(e.Value),
			Role:   e.Role,
			Group:  e.Group,
		})
	}
	intent := strings.TrimSpace(msg.Intent.Name)
	if intent == "" {
		intent = slots.DefaultSearchIntent
	}
	return slots.Turn{
		ConversationID: r.conversationID(),
		Intent:         intent,
		Text:           msg.Text,
		Entities:       entities,
		Pending:        slots.StateFromSlot(r.Tracker.Slots[pendingSlot]),
	}
}

func entityValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// webhook serves the Rasa action-server protocol.
func (s *Server) webhook(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action request: " + err.Error()})
		return
	}
	action := strings.TrimSpace(req.NextAction)
	if !s.servesAction(action) {
		s.log.Warn("unknown action requested", "action", action, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusNotFound, gin.H{
			"error":       fmt.Sprintf("no registered action found for name '%s'", action),
			"action_name": action,
		})
		return
	}

	turn := req.turn(s.svc.PendingSlot())
	out := s.svc.HandleTurn(c.Request.Context(), turn)
	s.log.Debug("action handled",
		"request_id", c.GetString(requestIDKey),
		"action", action,
		"conversation_id", turn.ConversationID,
		"intent", turn.Intent,
		"category", string(out.Category))

	c.JSON(http.StatusOK, toActionResponse(out))
}

func (s *Server) servesAction(action string) bool {
	for _, a := range s.svc.Intents().Actions() {
		if a == action {
			return true
		}
	}
	return false
}

// toActionResponse encodes a turn result as Rasa events and responses. The
// rewind comes first so the slot updates survive the reverted utterance.
func toActionResponse(out slots.TurnResult) actionResponse {
	resp := actionResponse{
		Events:    make([]map[string]any, 0, len(out.Events)+1),
		Responses: make([]map[string]any, 0, len(out.Messages)),
	}
	if out.Revert {
		resp.Events = append(resp.Events, map[string]any{"event": "rewind"})
	}
	for _, e := range out.Events {
		resp.Events = append(resp.Events, map[string]any{
			"event": "slot",
			"name":  e.Slot,
			"value": e.Value,
		})
	}
	for _, m := range out.Messages {
		resp.Responses = append(resp.Responses, map[string]any{"text": m})
	}
	return resp
}
