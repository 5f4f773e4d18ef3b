package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"bookbodh-be/internal/constant"
	"bookbodh-be/internal/dto"
	"bookbodh-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SendBookStatus(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run()

	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	other := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 4)}
	hub.register <- client
	hub.register <- other

	require.Eventually(t, func() bool { return hub.ConnectionCount(userID) == 1 }, time.Second, 10*time.Millisecond)

	bookID := uuid.New()
	hub.SendBookStatus(userID, dto.BookStatusMessage{BookId: bookID, UserId: userID, Status: constant.BookStatusProcessed, ChunksCount: 3})

	select {
	case raw := <-client.Send:
		var got struct {
			Type string                `json:"type"`
			Data dto.BookStatusMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, constant.WsMessageBookStatus, got.Type)
		assert.Equal(t, bookID, got.Data.BookId)
		assert.Equal(t, 3, got.Data.ChunksCount)
	case <-time.After(time.Second):
		t.Fatal("status message not delivered")
	}

	assert.Empty(t, other.Send, "other users must not receive the message")

	hub.unregister <- client
	require.Eventually(t, func() bool { return hub.ConnectionCount(userID) == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run()

	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte)}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.ConnectionCount(userID) == 1 }, time.Second, 10*time.Millisecond)

	hub.SendBookStatus(userID, dto.BookStatusMessage{Status: constant.BookStatusFailed})

	assert.Eventually(t, func() bool { return hub.ConnectionCount(userID) == 0 }, time.Second, 10*time.Millisecond)
}
