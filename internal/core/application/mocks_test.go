package application_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// **** Ledger ****

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) AccountInfo(
	ctx context.Context, account string,
) (domain.AccountInfo, error) {
	args := m.Called(ctx, account)

	var res domain.AccountInfo
	if a := args.Get(0); a != nil {
		res = a.(domain.AccountInfo)
	}
	return res, args.Error(1)
}

func (m *mockLedger) WorkGenerate(ctx context.Context, hash string) (string, error) {
	args := m.Called(ctx, hash)
	return args.String(0), args.Error(1)
}

func (m *mockLedger) Receivable(
	ctx context.Context, account string,
) ([]domain.PendingTransaction, error) {
	args := m.Called(ctx, account)

	var res []domain.PendingTransaction
	if a := args.Get(0); a != nil {
		res = a.([]domain.PendingTransaction)
	}
	return res, args.Error(1)
}

func (m *mockLedger) Process(
	ctx context.Context, block domain.SignedBlock, subtype domain.BlockSubtype,
) (domain.ProcessResult, error) {
	args := m.Called(ctx, block, subtype)

	var res domain.ProcessResult
	switch a := args.Get(0).(type) {
	case domain.ProcessResult:
		res = a
	case func(context.Context, domain.SignedBlock, domain.BlockSubtype) domain.ProcessResult:
		res = a(ctx, block, subtype)
	}
	return res, args.Error(1)
}

// **** Key deriver ****

type mockDeriver struct {
	mock.Mock
}

func (m *mockDeriver) DeriveAccounts(
	seed string, start, end uint32,
) ([]domain.Account, error) {
	args := m.Called(seed, start, end)

	var res []domain.Account
	switch a := args.Get(0).(type) {
	case []domain.Account:
		res = a
	case func(string, uint32, uint32) []domain.Account:
		res = a(seed, start, end)
	}
	return res, args.Error(1)
}

// **** Block signer ****

type mockSigner struct {
	mock.Mock
}

func (m *mockSigner) SignSend(
	block domain.SendBlock, privateKey string,
) (domain.SignedBlock, error) {
	args := m.Called(block, privateKey)

	var res domain.SignedBlock
	if a := args.Get(0); a != nil {
		res = a.(domain.SignedBlock)
	}
	return res, args.Error(1)
}

func (m *mockSigner) SignReceive(
	block domain.ReceiveBlock, privateKey string,
) (domain.SignedBlock, error) {
	args := m.Called(block, privateKey)

	var res domain.SignedBlock
	switch a := args.Get(0).(type) {
	case domain.SignedBlock:
		res = a
	case func(domain.ReceiveBlock, string) domain.SignedBlock:
		res = a(block, privateKey)
	}
	return res, args.Error(1)
}

// **** Feed ****

type mockFeed struct {
	mock.Mock
	messages chan []byte
}

func newMockFeed() *mockFeed {
	feed := &mockFeed{messages: make(chan []byte)}
	feed.On("Start", mock.Anything).Return(nil)
	feed.On("Subscribe", mock.Anything).Return(nil)
	feed.On("Close").Return(nil)
	return feed
}

func (m *mockFeed) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockFeed) Subscribe(accounts ...string) error {
	args := m.Called(accounts)
	return args.Error(0)
}

func (m *mockFeed) Messages() <-chan []byte {
	return m.messages
}

func (m *mockFeed) State() ports.FeedState {
	return ports.FeedOpen
}

func (m *mockFeed) Close() error {
	args := m.Called()
	return args.Error(0)
}

// **** Fixtures ****

const addressAlphabet = "13456789abcdefghijkmnopqrstuwxyz"

// testAddress returns a well formed address for the given index.
func testAddress(prefix string, index uint32) string {
	return fmt.Sprintf(
		"%s%s%c%c", prefix, strings.Repeat("1", 58),
		addressAlphabet[index/32%32], addressAlphabet[index%32],
	)
}

func testAccounts(start, end uint32) []domain.Account {
	accounts := make([]domain.Account, 0, end-start)
	for i := start; i < end; i++ {
		accounts = append(accounts, domain.Account{
			Address:    testAddress(domain.DefaultAddressPrefix, i),
			PublicKey:  fmt.Sprintf("PUB%d", i),
			PrivateKey: fmt.Sprintf("PRIV%d", i),
		})
	}
	return accounts
}
