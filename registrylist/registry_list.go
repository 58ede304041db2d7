package registrylist

import "errors"

// PageSize is the fixed window of the descending enumeration.
const PageSize = 10

var ErrZeroValue = errors.New("zero is reserved as the boundary sentinel")
var ErrDuplicateValue = errors.New("value is already present")

type node struct {
	value uint64
	next  *node
	prev  *node
}

// List is a sorted set of unique positive integers on a doubly linked
// list. Zero is not storable; it stands in for the missing neighbor at
// either boundary.
type List struct {
	head *node
	tail *node
	size int
}

func New() *List {
	return &List{}
}

// Insert places value in ascending position. Inserting beyond the tail
// or before the head is O(1); anything else walks from the tail, since
// callers overwhelmingly append fresh (largest) ids.
func (l *List) Insert(value uint64) error {
	if value == 0 {
		return ErrZeroValue
	}

	n := &node{value: value}

	if l.tail == nil {
		l.head = n
		l.tail = n
		l.size++
		return nil
	}

	if value > l.tail.value {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
		l.size++
		return nil
	}

	if value < l.head.value {
		n.next = l.head
		l.head.prev = n
		l.head = n
		l.size++
		return nil
	}

	at := l.tail
	for at != nil && at.value > value {
		at = at.prev
	}
	if at != nil && at.value == value {
		return ErrDuplicateValue
	}

	// at is the largest node below value; insert after it
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
	l.size++
	return nil
}

// Remove unlinks value and relinks its neighbors. Removing an absent
// value is a no-op and reports false.
func (l *List) Remove(value uint64) bool {
	n := l.find(value)
	if n == nil {
		return false
	}

	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.size--
	return true
}

func (l *List) Exists(value uint64) bool {
	return l.find(value) != nil
}

// Neighbors reports whether value is present and the values adjacent to
// it, with 0 marking the list boundary. Absent values yield (false, 0, 0).
func (l *List) Neighbors(value uint64) (bool, uint64, uint64) {
	n := l.find(value)
	if n == nil {
		return false, 0, 0
	}

	var next, prev uint64
	if n.next != nil {
		next = n.next.value
	}
	if n.prev != nil {
		prev = n.prev.value
	}
	return true, next, prev
}

func (l *List) Size() int {
	return l.size
}

// Values walks the list in ascending order.
func (l *List) Values() []uint64 {
	out := make([]uint64, 0, l.size)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}

// Page enumerates descending from the tail in fixed windows: page 0
// holds the PageSize largest values in descending order. Pages past the
// end are empty. This lets callers surface the most recent (largest-id)
// entries first without materializing the whole list.
func (l *List) Page(pageIndex int) []uint64 {
	if pageIndex < 0 {
		return nil
	}

	at := l.tail
	for skip := pageIndex * PageSize; skip > 0 && at != nil; skip-- {
		at = at.prev
	}

	out := make([]uint64, 0, PageSize)
	for ; at != nil && len(out) < PageSize; at = at.prev {
		out = append(out, at.value)
	}
	return out
}

func (l *List) find(value uint64) *node {
	if value == 0 {
		return nil
	}
	for n := l.tail; n != nil && n.value >= value; n = n.prev {
		if n.value == value {
			return n
		}
	}
	return nil
}
