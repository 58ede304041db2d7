package markettypes

import "errors"

var ErrEntryOutOfRange = errors.New("item entry index out of range")

type FungibleEntry struct {
	Asset    string `json:"asset"`
	Quantity uint64 `json:"quantity"`
}

type UniqueEntry struct {
	Asset    string `json:"asset"`
	Instance uint64 `json:"instance"`
}

// Item is an append-only basket of asset references. Entries cannot be
// removed or reordered once added.
type Item struct {
	fungibles []FungibleEntry
	uniques   []UniqueEntry
}

func NewItem() *Item {
	return &Item{}
}

func (i *Item) AddFungible(asset string, quantity uint64) {
	i.fungibles = append(i.fungibles, FungibleEntry{Asset: asset, Quantity: quantity})
}

func (i *Item) AddUnique(asset string, instance uint64) {
	i.uniques = append(i.uniques, UniqueEntry{Asset: asset, Instance: instance})
}

// FungibleAt is 1-indexed, matching the external indexing convention.
func (i *Item) FungibleAt(n int) (FungibleEntry, error) {
	if n < 1 || n > len(i.fungibles) {
		return FungibleEntry{}, ErrEntryOutOfRange
	}
	return i.fungibles[n-1], nil
}

// UniqueAt is 1-indexed, matching the external indexing convention.
func (i *Item) UniqueAt(n int) (UniqueEntry, error) {
	if n < 1 || n > len(i.uniques) {
		return UniqueEntry{}, ErrEntryOutOfRange
	}
	return i.uniques[n-1], nil
}

func (i *Item) FungibleCount() int {
	return len(i.fungibles)
}

func (i *Item) UniqueCount() int {
	return len(i.uniques)
}

// PrimaryAsset is the asset that determines the item's category: the
// first fungible entry's asset, or the first unique entry's asset when
// there are no fungible entries. Empty items have no primary asset.
func (i *Item) PrimaryAsset() (string, bool) {
	if len(i.fungibles) > 0 {
		return i.fungibles[0].Asset, true
	}
	if len(i.uniques) > 0 {
		return i.uniques[0].Asset, true
	}
	return "", false
}

func (i *Item) FungibleEntries() []FungibleEntry {
	out := make([]FungibleEntry, len(i.fungibles))
	copy(out, i.fungibles)
	return out
}

func (i *Item) UniqueEntries() []UniqueEntry {
	out := make([]UniqueEntry, len(i.uniques))
	copy(out, i.uniques)
	return out
}
