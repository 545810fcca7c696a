package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewSocketPushesReplacements(t *testing.T) {
	srv, frame, _ := newTestServer(t, &memStore{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/preview/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	// Keep replacing until the subscription is live and a payload lands.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				frame.Set("<p>replaced</p>")
			}
		}
	}()

	msgType, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, msgType)
	assert.Equal(t, "<p>replaced</p>", string(data))
}

func TestPreviewSocketCleansUpOnClientClose(t *testing.T) {
	srv, frame, _ := newTestServer(t, &memStore{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/preview/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)

	// Wait until the handler's subscription is registered.
	require.Eventually(t, func() bool {
		return frame.Subscribers() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A clean client close must complete the close handshake and release
	// the handler's subscription without waiting for the next replacement.
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	assert.Eventually(t, func() bool {
		return frame.Subscribers() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
