package memledger

import (
	"sync"

	"github.com/orangestand/marketplace/markettypes"
)

type instanceKey struct {
	asset    string
	instance uint64
}

// Ledger is an in-memory asset ledger implementing both the fungible
// and unique halves of the engine's external ledger contract. It exists
// for tests, the simulation suite and in-process wiring; production
// deployments substitute a real custody backend.
type Ledger struct {
	lock *sync.Mutex

	symbols    map[string]string
	balances   map[string]map[string]uint64
	allowances map[string]map[string]map[string]uint64

	instanceOwners    map[instanceKey]string
	instanceApprovals map[instanceKey]string
}

func NewLedger() *Ledger {
	return &Ledger{
		lock:              &sync.Mutex{},
		symbols:           map[string]string{},
		balances:          map[string]map[string]uint64{},
		allowances:        map[string]map[string]map[string]uint64{},
		instanceOwners:    map[instanceKey]string{},
		instanceApprovals: map[instanceKey]string{},
	}
}

// RegisterAsset declares an asset id and the symbol it trades under.
func (l *Ledger) RegisterAsset(asset, symbol string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.symbols[asset] = symbol
}

// Credit seeds account with amount of asset, creating supply out of
// thin air. Test setup helper.
func (l *Ledger) Credit(asset, account string, amount uint64) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.credit(asset, account, amount)
}

// AssignInstance seeds ownership of a unique asset instance.
func (l *Ledger) AssignInstance(asset string, instance uint64, owner string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.instanceOwners[instanceKey{asset, instance}] = owner
}

func (l *Ledger) SymbolOf(asset string) string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.symbols[asset]
}

func (l *Ledger) BalanceOf(asset, account string) uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.balances[asset][account]
}

func (l *Ledger) Transfer(caller, asset, to string, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.move(asset, caller, to, amount)
}

func (l *Ledger) TransferFrom(caller, asset, from, to string, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if caller != from {
		allowed := l.allowances[asset][from][caller]
		if allowed < amount {
			return markettypes.ErrInsufficientAllowance
		}
		l.allowances[asset][from][caller] = allowed - amount
	}
	return l.move(asset, from, to, amount)
}

func (l *Ledger) Approve(caller, asset, spender string, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.allowances[asset] == nil {
		l.allowances[asset] = map[string]map[string]uint64{}
	}
	if l.allowances[asset][caller] == nil {
		l.allowances[asset][caller] = map[string]uint64{}
	}
	l.allowances[asset][caller][spender] = amount
	return nil
}

func (l *Ledger) Allowance(asset, owner, spender string) uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.allowances[asset][owner][spender]
}

func (l *Ledger) OwnerOf(asset string, instance uint64) string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.instanceOwners[instanceKey{asset, instance}]
}

func (l *Ledger) TransferInstanceFrom(caller, asset, from, to string, instance uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	key := instanceKey{asset, instance}
	owner := l.instanceOwners[key]
	if owner != from {
		return markettypes.ErrInsufficientFunds
	}
	if caller != from && l.instanceApprovals[key] != caller {
		return markettypes.ErrInsufficientAllowance
	}

	l.instanceOwners[key] = to
	delete(l.instanceApprovals, key)
	return nil
}

func (l *Ledger) ApproveInstance(caller, asset, spender string, instance uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	key := instanceKey{asset, instance}
	if l.instanceOwners[key] != caller {
		return markettypes.ErrNotAuthorized
	}
	l.instanceApprovals[key] = spender
	return nil
}

func (l *Ledger) credit(asset, account string, amount uint64) {
	if l.balances[asset] == nil {
		l.balances[asset] = map[string]uint64{}
	}
	l.balances[asset][account] += amount
}

func (l *Ledger) move(asset, from, to string, amount uint64) error {
	if l.balances[asset][from] < amount {
		return markettypes.ErrInsufficientFunds
	}
	l.balances[asset][from] -= amount
	l.credit(asset, to, amount)
	return nil
}
