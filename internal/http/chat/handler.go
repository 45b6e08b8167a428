package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/unlockgrowth/intake/internal/chat"
)

type Handler struct {
	assistant *chat.Assistant
}

func NewHandler(assistant *chat.Assistant) *Handler {
	return &Handler{assistant: assistant}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/greeting", h.greeting)
	r.Post("/", h.reply)
}

type replyRequest struct {
	Message string `json:"message"`
}

type replyResponse struct {
	Topic       string   `json:"topic,omitempty"`
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
}

func (h *Handler) greeting(w http.ResponseWriter, _ *http.Request) {
	writeReply(w, h.assistant.Greeting())
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	writeReply(w, h.assistant.Reply(req.Message))
}

func writeReply(w http.ResponseWriter, reply chat.Reply) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(replyResponse{
		Topic:       reply.Topic,
		Content:     reply.Content,
		Suggestions: reply.Suggestions,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
