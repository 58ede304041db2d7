package memledger

import (
	"sync"

	"github.com/orangestand/marketplace/markettypes"
)

// TicketAsset is the mintable, burnable bidding currency. Tickets are
// deliberately non-transferable by ordinary holders: only the asset's
// owner (the coordinator, once it takes over issuance) may move, mint
// or burn them, which keeps the currency from trading hands outside the
// bid/escrow path.
type TicketAsset struct {
	lock *sync.Mutex

	symbol     string
	owner      string
	balances   map[string]uint64
	allowances map[string]map[string]uint64
}

func NewTicketAsset(symbol, owner string) *TicketAsset {
	return &TicketAsset{
		lock:       &sync.Mutex{},
		symbol:     symbol,
		owner:      owner,
		balances:   map[string]uint64{},
		allowances: map[string]map[string]uint64{},
	}
}

func (t *TicketAsset) Symbol() string {
	return t.symbol
}

func (t *TicketAsset) Owner() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.owner
}

func (t *TicketAsset) BalanceOf(account string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.balances[account]
}

func (t *TicketAsset) Transfer(caller, to string, amount uint64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if caller != t.owner {
		return markettypes.ErrNotAuthorized
	}
	return t.move(caller, to, amount)
}

func (t *TicketAsset) TransferFrom(caller, from, to string, amount uint64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if caller != from {
		if t.allowances[from][caller] < amount {
			return markettypes.ErrInsufficientAllowance
		}
		t.allowances[from][caller] -= amount
	}
	return t.move(from, to, amount)
}

func (t *TicketAsset) Approve(caller, spender string, amount uint64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.allowances[caller] == nil {
		t.allowances[caller] = map[string]uint64{}
	}
	t.allowances[caller][spender] = amount
	return nil
}

func (t *TicketAsset) Allowance(owner, spender string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.allowances[owner][spender]
}

func (t *TicketAsset) Mint(caller, to string, amount uint64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if caller != t.owner {
		return markettypes.ErrNotAuthorized
	}
	t.balances[to] += amount
	return nil
}

func (t *TicketAsset) Burn(caller, from string, amount uint64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if caller != t.owner {
		return markettypes.ErrNotAuthorized
	}
	if t.balances[from] < amount {
		return markettypes.ErrInsufficientFunds
	}
	t.balances[from] -= amount
	return nil
}

func (t *TicketAsset) TransferOwnership(caller, newOwner string) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if caller != t.owner {
		return markettypes.ErrNotAuthorized
	}
	t.owner = newOwner
	return nil
}

func (t *TicketAsset) move(from, to string, amount uint64) error {
	if t.balances[from] < amount {
		return markettypes.ErrInsufficientFunds
	}
	t.balances[from] -= amount
	t.balances[to] += amount
	return nil
}
