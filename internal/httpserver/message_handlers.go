package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"messenger/internal/domain"
	"messenger/internal/service"
)

type sendMessageRequest struct {
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

type sendMessageResponse struct {
	*domain.Message
	// IndexLag lists user IDs whose conversation index row is stale
	// because a fan-out write failed. The message itself is durable.
	IndexLag []int64 `json:"index_lag,omitempty"`
}

func handleSendMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		out, err := msgSvc.SendMessage(r.Context(), service.SendMessageInput{
			SenderID:   req.SenderID,
			ReceiverID: req.ReceiverID,
			Content:    req.Content,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		resp := sendMessageResponse{Message: out.Message}
		for _, lag := range out.IndexLag {
			resp.IndexLag = append(resp.IndexLag, lag.UserID)
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func handleListMessages(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convID, err := uuid.Parse(chi.URLParam(r, "conversationID"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid conversation id"})
			return
		}

		q := r.URL.Query()
		limit, err := parseLimit(q.Get("limit"))
		if err != nil {
			writeError(w, err)
			return
		}
		// The legacy "page" query parameter is accepted for compatibility
		// and ignored: offset skipping over a keyset-ordered partition
		// would scan and discard rows. Cursors are the only mechanism.

		var page *domain.MessagePage
		if beforeStr := q.Get("before"); beforeStr != "" {
			before, err := time.Parse(time.RFC3339, beforeStr)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "before must be an RFC 3339 timestamp"})
				return
			}
			page, err = msgSvc.ListMessagesBefore(r.Context(), convID, before, limit)
			if err != nil {
				writeError(w, err)
				return
			}
		} else {
			page, err = msgSvc.ListMessages(r.Context(), convID, limit, q.Get("cursor"))
			if err != nil {
				writeError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(s)
	if err != nil || limit < 0 {
		return 0, domain.Validationf("limit must be a non-negative integer")
	}
	return limit, nil
}
