package wsfeed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/internal/core/ports"
	"github.com/nanoflow/nanowallet/pkg/stats"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultMinReconnectDelay    = time.Second
	DefaultMaxReconnectDelay    = 10 * time.Second
	DefaultMaxReconnectAttempts = 10

	handshakeTimeout = 10 * time.Second
)

var (
	// ErrFeedClosed is returned by any call made after Close.
	ErrFeedClosed = errors.New("feed closed")
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("feed already started")
	// ErrMissingURL is returned by NewService when no url is given.
	ErrMissingURL = errors.New("missing feed url")
)

// ReconnectPolicy bounds the delays between reconnection attempts. Zero
// fields take the default values.
type ReconnectPolicy struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	MaxAttempts uint64
}

func (p ReconnectPolicy) withDefaults() ReconnectPolicy {
	if p.MinDelay <= 0 {
		p.MinDelay = DefaultMinReconnectDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxReconnectDelay
	}
	if p.MaxDelay < p.MinDelay {
		p.MaxDelay = p.MinDelay
	}
	if p.MaxAttempts == 0 {
		p.MaxAttempts = DefaultMaxReconnectAttempts
	}
	return p
}

// Service is a ports.Feed over a websocket connection. Whenever the
// connection opens, the whole set of watched accounts is sent with a single
// subscribe command. A dropped connection is reopened with exponential
// delays; once the attempts are exhausted the service stays disconnected.
type Service struct {
	url    string
	policy ReconnectPolicy
	dialer *websocket.Dialer

	// lock guards conn, state, accounts and started. Every write to conn is
	// made while holding it.
	lock     sync.Mutex
	conn     *websocket.Conn
	state    ports.FeedState
	accounts []string
	watched  map[string]struct{}
	started  bool

	cancel    context.CancelFunc
	msgChan   chan []byte
	quitChan  chan struct{}
	doneChan  chan struct{}
	closeOnce sync.Once
}

func NewService(url string, policy ReconnectPolicy) (*Service, error) {
	if url == "" {
		return nil, ErrMissingURL
	}

	return &Service{
		url:    url,
		policy: policy.withDefaults(),
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: handshakeTimeout,
		},
		state:    ports.FeedDisconnected,
		watched:  make(map[string]struct{}),
		msgChan:  make(chan []byte),
		quitChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}, nil
}

var _ ports.Feed = (*Service)(nil)

func (s *Service) Start(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isClosed() {
		return ErrFeedClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.run(runCtx)
	go func() {
		select {
		case <-ctx.Done():
			//nolint
			s.Close()
		case <-s.doneChan:
		}
	}()
	return nil
}

func (s *Service) Subscribe(accounts ...string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isClosed() {
		return ErrFeedClosed
	}

	for _, account := range accounts {
		if _, ok := s.watched[account]; ok {
			continue
		}
		s.watched[account] = struct{}{}
		s.accounts = append(s.accounts, account)
	}

	if s.state != ports.FeedOpen {
		log.WithField("accounts", len(s.accounts)).
			Debug("feed not open, subscription deferred to next connection")
		return nil
	}
	return s.sendSubscription(s.conn)
}

func (s *Service) Messages() <-chan []byte {
	return s.msgChan
}

func (s *Service) State() ports.FeedState {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

// Accounts returns the watched accounts in subscription order.
func (s *Service) Accounts() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string{}, s.accounts...)
}

// Close stops the connection loop and waits for it to exit. The watched
// accounts are forgotten and the message channel is closed once it returns.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.lock.Lock()
		close(s.quitChan)
		started := s.started
		if s.cancel != nil {
			s.cancel()
		}
		if s.conn != nil {
			err = s.conn.Close()
			s.conn = nil
		}
		s.state = ports.FeedDisconnected
		s.accounts = nil
		s.watched = make(map[string]struct{})
		s.lock.Unlock()

		if started {
			<-s.doneChan
			return
		}
		close(s.msgChan)
		close(s.doneChan)
	})
	return err
}

func (s *Service) run(ctx context.Context) {
	defer close(s.doneChan)
	defer close(s.msgChan)

	reconnect := s.newBackOff(ctx)
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := reconnect.NextBackOff()
			if delay == backoff.Stop {
				log.WithField("url", s.url).Error(
					"feed reconnection attempts exhausted, staying disconnected",
				)
				return
			}

			log.WithField("delay", delay).Debug("scheduling feed reconnection")
			select {
			case <-time.After(delay):
			case <-s.quitChan:
				return
			}
		}

		sessionID := uuid.New().String()
		conn, err := s.connect(ctx, sessionID)
		if err != nil {
			if s.isClosed() {
				return
			}
			log.WithError(err).WithFields(log.Fields{
				"url":     s.url,
				"session": sessionID,
			}).Warn("failed to open feed connection")
			continue
		}
		reconnect.Reset()

		err = s.listen(conn, sessionID)
		if s.isClosed() {
			return
		}
		log.WithError(err).WithField("session", sessionID).
			Warn("feed connection dropped unexpectedly")
	}
}

func (s *Service) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.policy.MinDelay
	exp.MaxInterval = s.policy.MaxDelay
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, s.policy.MaxAttempts), ctx)
}

// connect dials the feed and, once the connection is open, sends the whole
// subscription set.
func (s *Service) connect(ctx context.Context, sessionID string) (*websocket.Conn, error) {
	s.setState(ports.FeedConnecting)
	stats.FeedReconnections.Inc()

	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		s.setState(ports.FeedDisconnected)
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isClosed() {
		conn.Close()
		return nil, ErrFeedClosed
	}

	s.conn = conn
	s.state = ports.FeedOpen
	if err := s.sendSubscription(conn); err != nil {
		s.conn = nil
		s.state = ports.FeedDisconnected
		conn.Close()
		return nil, err
	}

	log.WithFields(log.Fields{
		"url":      s.url,
		"session":  sessionID,
		"accounts": len(s.accounts),
	}).Info("feed connection open")
	return conn, nil
}

// listen forwards every message read from conn until the connection drops
// or the service is closed.
func (s *Service) listen(conn *websocket.Conn, sessionID string) error {
	defer func() {
		s.lock.Lock()
		if s.conn == conn {
			s.conn = nil
			s.state = ports.FeedDisconnected
		}
		s.lock.Unlock()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		stats.FeedMessages.Inc()

		log.WithField("session", sessionID).Trace("feed message received")

		select {
		case s.msgChan <- message:
		case <-s.quitChan:
			return ErrFeedClosed
		}
	}
}

// sendSubscription must be called with the lock held.
func (s *Service) sendSubscription(conn *websocket.Conn) error {
	if conn == nil {
		return nil
	}

	msg := domain.NewSubscribeMessage(s.accounts)
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("cannot subscribe to accounts: %w", err)
	}
	return nil
}

func (s *Service) setState(state ports.FeedState) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.isClosed() {
		return
	}
	s.state = state
}

func (s *Service) isClosed() bool {
	select {
	case <-s.quitChan:
		return true
	default:
		return false
	}
}
