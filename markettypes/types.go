package markettypes

import (
	"errors"
	"time"
)

var ErrNotAuthorized = errors.New("caller is not authorized")
var ErrAlreadyFinished = errors.New("auction is already finished")
var ErrInsufficientFunds = errors.New("insufficient ticket balance")
var ErrInsufficientAllowance = errors.New("insufficient ticket allowance")
var ErrUnknownAuction = errors.New("unknown auction id")
var ErrUnknownAsset = errors.New("unknown asset")

// FungibleLedger is the slice of the external asset ledger the engine
// needs for divisible assets. Custody logic lives behind it; the engine
// only moves balances and reads symbols.
type FungibleLedger interface {
	BalanceOf(asset, account string) uint64
	Transfer(caller, asset, to string, amount uint64) error
	TransferFrom(caller, asset, from, to string, amount uint64) error
	Approve(caller, asset, spender string, amount uint64) error
	Allowance(asset, owner, spender string) uint64
	SymbolOf(asset string) string
}

// UniqueLedger covers one-of-a-kind asset instances.
type UniqueLedger interface {
	OwnerOf(asset string, instance uint64) string
	TransferInstanceFrom(caller, asset, from, to string, instance uint64) error
	ApproveInstance(caller, asset, spender string, instance uint64) error
	SymbolOf(asset string) string
}

// AssetLedger is what the coordinator is wired with.
type AssetLedger interface {
	FungibleLedger
	UniqueLedger
}

// TicketAsset is the mintable/burnable bidding currency. Mint and Burn
// are restricted to the asset's current owner; ownership moves to the
// coordinator when it takes over issuance.
type TicketAsset interface {
	BalanceOf(account string) uint64
	Transfer(caller, to string, amount uint64) error
	TransferFrom(caller, from, to string, amount uint64) error
	Approve(caller, spender string, amount uint64) error
	Allowance(owner, spender string) uint64
	Mint(caller, to string, amount uint64) error
	Burn(caller, from string, amount uint64) error
	TransferOwnership(caller, newOwner string) error
}

// Occurrence is one category's popularity record.
type Occurrence struct {
	Symbol                 string    `json:"symbol"`
	PastUsageMovingAverage float64   `json:"past_usage_moving_average"`
	LastUpdateTime         time.Time `json:"last_update_time"`
}
