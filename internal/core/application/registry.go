package application

import (
	"sync"

	"github.com/nanoflow/nanowallet/internal/core/domain"
	orderedmap "github.com/wk8/go-ordered-map"
)

// accountRegistry maps addresses to derived accounts in derivation order.
// It also hands out the derivation index ranges so that they are contiguous
// and never reused.
type accountRegistry struct {
	lock      sync.RWMutex
	accounts  *orderedmap.OrderedMap
	nextIndex uint32
}

func newAccountRegistry() *accountRegistry {
	return &accountRegistry{accounts: orderedmap.New()}
}

// reserve returns the range [start, start+count) and moves the next index
// past it.
func (r *accountRegistry) reserve(count uint32) (uint32, uint32) {
	r.lock.Lock()
	defer r.lock.Unlock()

	start := r.nextIndex
	r.nextIndex += count
	return start, r.nextIndex
}

func (r *accountRegistry) add(accounts ...domain.Account) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, account := range accounts {
		r.accounts.Set(account.Address, account)
	}
}

func (r *accountRegistry) get(address string) (domain.Account, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	v, ok := r.accounts.Get(address)
	if !ok {
		return domain.Account{}, false
	}
	return v.(domain.Account), true
}

func (r *accountRegistry) addresses() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	addresses := make([]string, 0, r.accounts.Len())
	for pair := r.accounts.Oldest(); pair != nil; pair = pair.Next() {
		addresses = append(addresses, pair.Key.(string))
	}
	return addresses
}

func (r *accountRegistry) len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.accounts.Len()
}

func (r *accountRegistry) clear() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.accounts = orderedmap.New()
}
