package ports

import "context"

// FeedState is the state of the live feed connection.
type FeedState int

const (
	FeedDisconnected FeedState = iota
	FeedConnecting
	FeedOpen
)

func (s FeedState) String() string {
	switch s {
	case FeedConnecting:
		return "connecting"
	case FeedOpen:
		return "open"
	default:
		return "disconnected"
	}
}

// Feed is a reconnecting push connection to the ledger. The set of watched
// accounts only grows and is resent entirely every time the connection opens.
type Feed interface {
	// Start runs the connection loop in background until ctx is done or Close
	// is called.
	Start(ctx context.Context) error
	// Subscribe adds accounts to the watched set and, if the connection is
	// open, resends the whole set.
	Subscribe(accounts ...string) error
	// Messages returns the channel of raw inbound messages. It is closed when
	// the feed stops.
	Messages() <-chan []byte
	State() FeedState
	Close() error
}
