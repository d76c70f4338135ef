// Package idgen issues account identifiers.
package idgen

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// Tag prefixes every account id.
const Tag = "u_"

// Generator returns a new identifier on each call. Callers that need global
// uniqueness still check the result against the ids they already hold.
type Generator interface {
	NewID() string
}

// XID issues time-sortable ids, so ids trend upward with registration time.
type XID struct{}

func (XID) NewID() string {
	return Tag + xid.New().String()
}

// UUID issues random version 4 ids.
type UUID struct{}

func (UUID) NewID() string {
	return Tag + uuid.NewString()
}

// Sequence issues Tag+prefix+1, Tag+prefix+2, ... It is deterministic and
// meant for tests.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return Tag + s.prefix + strconv.Itoa(s.n)
}

// New returns the generator registered under kind ("xid" or "uuid").
func New(kind string) (Generator, error) {
	switch kind {
	case "", "xid":
		return XID{}, nil
	case "uuid":
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unknown id generator %q", kind)
	}
}
