package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalcare-connect-server/internal/chat"
	"dentalcare-connect-server/internal/models"
)

func newMessagePollRouter(t *testing.T) (*gin.Engine, *chat.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	chatSvc := chat.NewService(chat.NewMemoryStore())
	h := NewMessageHandler(nil, chatSvc, nil, "doc1")

	router := gin.New()
	router.GET("/messages/new", fakeAuth("pat1", models.RolePatient), h.GetNewMessages)
	return router, chatSvc
}

func TestGetNewMessagesEndpoint(t *testing.T) {
	decode := func(t *testing.T, data interface{}) []models.Message {
		t.Helper()
		var messages []models.Message
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &messages))
		return messages
	}

	t.Run("returns everything when polling from zero", func(t *testing.T) {
		router, chatSvc := newMessagePollRouter(t)

		_, err := chatSvc.Send(context.Background(), "doc1", "pat1", "hello", "")
		require.NoError(t, err)

		w, resp := doJSON(t, router, http.MethodGet, "/messages/new", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		messages := decode(t, resp.Data)
		require.Len(t, messages, 1)
		assert.Equal(t, "hello", messages[0].Text)
		assert.NotZero(t, messages[0].Seq)
	})

	t.Run("returns only messages past the since cursor", func(t *testing.T) {
		router, chatSvc := newMessagePollRouter(t)

		seen, err := chatSvc.Send(context.Background(), "doc1", "pat1", "old", "")
		require.NoError(t, err)
		_, err = chatSvc.Send(context.Background(), "doc1", "pat1", "new", "")
		require.NoError(t, err)

		w, resp := doJSON(t, router, http.MethodGet,
			"/messages/new?since="+strconv.FormatUint(seen.Seq, 10), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		messages := decode(t, resp.Data)
		require.Len(t, messages, 1)
		assert.Equal(t, "new", messages[0].Text)
	})

	t.Run("no new messages yields an empty list, not null", func(t *testing.T) {
		router, _ := newMessagePollRouter(t)

		w, resp := doJSON(t, router, http.MethodGet, "/messages/new", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, resp.Data)
		assert.Empty(t, decode(t, resp.Data))
	})

	t.Run("malformed cursor is a bad request", func(t *testing.T) {
		router, _ := newMessagePollRouter(t)

		w, _ := doJSON(t, router, http.MethodGet, "/messages/new?since=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
