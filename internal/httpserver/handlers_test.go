package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/httpserver"
	"messenger/internal/service"
	"messenger/internal/store/sqlite"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() { db.Close() })

	msgRepo := sqlite.NewMessageRepo(db)
	convRepo := sqlite.NewConversationRepo(db)
	msgSvc := service.NewMessageService(msgRepo, convRepo, zap.NewNop(), 0, 0, 0)
	convSvc := service.NewConversationService(convRepo, msgRepo, 0, 0)

	cfg := &config.Config{CORSOrigins: []string{"*"}}
	return httpserver.NewRouter(cfg, msgSvc, convSvc)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSendAndReadFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/messages", map[string]any{
		"sender_id": 1, "receiver_id": 2, "content": "hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sent domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	assert.NotEqual(t, uuid.Nil, sent.ID)
	assert.NotEqual(t, uuid.Nil, sent.ConversationID)

	t.Run("ListMessages", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet,
			fmt.Sprintf("/api/conversations/%s/messages?limit=10", sent.ConversationID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page domain.MessagePage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.Len(t, page.Data, 1)
		assert.Equal(t, "hello", page.Data[0].Content)
	})

	t.Run("ListConversations", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/users/2/conversations", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page domain.ConversationPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.Len(t, page.Data, 1)
		assert.Equal(t, int64(1), page.Data[0].OtherUserID)
		assert.Equal(t, "hello", page.Data[0].LastMessagePreview)
	})

	t.Run("GetConversation", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/conversations/"+sent.ConversationID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary domain.ConversationSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, "hello", summary.LastMessageContent)
	})
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)

	t.Run("SelfMessageIs400", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/messages", map[string]any{
			"sender_id": 3, "receiver_id": 3, "content": "me",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownConversationIs404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/conversations/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadConversationIDIs400", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/conversations/not-a-uuid/messages", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("BadCursorIs400", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet,
			"/api/conversations/"+uuid.NewString()+"/messages?cursor=%3F%3F", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("EmptyHistoryIs200", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet,
			"/api/conversations/"+uuid.NewString()+"/messages", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Health", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
