package wsfeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/internal/core/ports"
	"github.com/nanoflow/nanowallet/internal/infrastructure/wsfeed"
	"github.com/stretchr/testify/require"
)

var (
	testPolicy = wsfeed.ReconnectPolicy{
		MinDelay:    10 * time.Millisecond,
		MaxDelay:    50 * time.Millisecond,
		MaxAttempts: 3,
	}
	confirmation = `{"topic":"confirmation","message":{"block":{"subtype":"send","link_as_account":"nano_a"},"hash":"H1","amount":"10"}}`
)

type testFeedServer struct {
	*httptest.Server
	conns         chan *websocket.Conn
	subscriptions chan domain.SubscribeMessage
}

func newTestFeedServer(t *testing.T) *testFeedServer {
	srv := &testFeedServer{
		conns:         make(chan *websocket.Conn, 10),
		subscriptions: make(chan domain.SubscribeMessage, 10),
	}
	upgrader := websocket.Upgrader{}
	srv.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			srv.conns <- conn
			for {
				var msg domain.SubscribeMessage
				if err := conn.ReadJSON(&msg); err != nil {
					return
				}
				srv.subscriptions <- msg
			}
		},
	))
	t.Cleanup(srv.Close)
	return srv
}

func (s *testFeedServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *testFeedServer) nextConn(t *testing.T) *websocket.Conn {
	select {
	case conn := <-s.conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not connect")
		return nil
	}
}

func (s *testFeedServer) nextSubscription(t *testing.T) domain.SubscribeMessage {
	select {
	case msg := <-s.subscriptions:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no subscription received")
		return domain.SubscribeMessage{}
	}
}

func newTestService(t *testing.T, url string) *wsfeed.Service {
	svc, err := wsfeed.NewService(url, testPolicy)
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		svc.Close()
	})
	return svc
}

func TestSubscriptionSentOnOpen(t *testing.T) {
	srv := newTestFeedServer(t)
	svc := newTestService(t, srv.wsURL())

	require.NoError(t, svc.Subscribe("nano_a", "nano_b"))
	require.Equal(t, ports.FeedDisconnected, svc.State())

	require.NoError(t, svc.Start(context.Background()))
	conn := srv.nextConn(t)

	msg := srv.nextSubscription(t)
	require.Equal(t, "subscribe", msg.Action)
	require.Equal(t, "confirmation", msg.Topic)
	require.True(t, msg.Ack)
	require.Equal(t, []string{"nano_a", "nano_b"}, msg.Options.Accounts)
	require.Eventually(t, func() bool {
		return svc.State() == ports.FeedOpen
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(confirmation)))
	select {
	case raw := <-svc.Messages():
		require.JSONEq(t, confirmation, string(raw))
	case <-time.After(2 * time.Second):
		t.Fatal("message not forwarded")
	}
}

func TestSubscribeWhileOpenResendsWholeSet(t *testing.T) {
	srv := newTestFeedServer(t)
	svc := newTestService(t, srv.wsURL())

	require.NoError(t, svc.Start(context.Background()))
	srv.nextConn(t)

	msg := srv.nextSubscription(t)
	require.Empty(t, msg.Options.Accounts)
	require.NotNil(t, msg.Options.Accounts)

	require.NoError(t, svc.Subscribe("nano_a"))
	msg = srv.nextSubscription(t)
	require.Equal(t, []string{"nano_a"}, msg.Options.Accounts)

	require.NoError(t, svc.Subscribe("nano_b", "nano_a"))
	msg = srv.nextSubscription(t)
	require.Equal(t, []string{"nano_a", "nano_b"}, msg.Options.Accounts)
	require.Equal(t, []string{"nano_a", "nano_b"}, svc.Accounts())
}

func TestReconnectResubscribes(t *testing.T) {
	srv := newTestFeedServer(t)
	svc := newTestService(t, srv.wsURL())

	require.NoError(t, svc.Subscribe("nano_a"))
	require.NoError(t, svc.Start(context.Background()))

	conn := srv.nextConn(t)
	srv.nextSubscription(t)

	// Drop the connection from the server side.
	conn.Close()

	srv.nextConn(t)
	msg := srv.nextSubscription(t)
	require.Equal(t, []string{"nano_a"}, msg.Options.Accounts)
	require.Eventually(t, func() bool {
		return svc.State() == ports.FeedOpen
	}, time.Second, 5*time.Millisecond)
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	svc := newTestService(t, url)
	require.NoError(t, svc.Start(context.Background()))

	select {
	case _, ok := <-svc.Messages():
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not give up")
	}
	require.Equal(t, ports.FeedDisconnected, svc.State())
	require.NoError(t, svc.Subscribe("nano_a"), "subscription is kept for later")
}

func TestClose(t *testing.T) {
	srv := newTestFeedServer(t)
	svc := newTestService(t, srv.wsURL())

	require.NoError(t, svc.Subscribe("nano_a", "nano_b"))
	require.NoError(t, svc.Start(context.Background()))
	srv.nextConn(t)
	srv.nextSubscription(t)
	require.Equal(t, []string{"nano_a", "nano_b"}, svc.Accounts())

	require.NoError(t, svc.Close())
	_, ok := <-svc.Messages()
	require.False(t, ok)
	require.Equal(t, ports.FeedDisconnected, svc.State())
	require.Empty(t, svc.Accounts())

	require.ErrorIs(t, svc.Subscribe("nano_a"), wsfeed.ErrFeedClosed)
	require.ErrorIs(t, svc.Start(context.Background()), wsfeed.ErrFeedClosed)
	require.NoError(t, svc.Close())
}

func TestStopsWithContext(t *testing.T) {
	srv := newTestFeedServer(t)
	svc := newTestService(t, srv.wsURL())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, svc.Start(ctx))
	srv.nextConn(t)
	require.ErrorIs(t, svc.Start(ctx), wsfeed.ErrAlreadyStarted)

	cancel()
	select {
	case _, ok := <-svc.Messages():
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not stop")
	}
}

func TestMissingURL(t *testing.T) {
	_, err := wsfeed.NewService("", wsfeed.ReconnectPolicy{})
	require.ErrorIs(t, err, wsfeed.ErrMissingURL)
}
