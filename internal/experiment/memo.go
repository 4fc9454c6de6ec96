package experiment

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memo wraps Simulate with a cache keyed by the full request value.
// Interactive callers that resimulate on every parameter change get
// back previously computed responses for free; the engine itself stays
// cache-free.
type Memo struct {
	cache *gocache.Cache
}

func NewMemo(ttl time.Duration) *Memo {
	return &Memo{cache: gocache.New(ttl, 2*ttl)}
}

// Simulate returns the cached response for an identical earlier request
// or computes and stores a fresh one. Responses are immutable once
// produced, so sharing them between callers is safe.
func (m *Memo) Simulate(ctx context.Context, req Request) (*Response, error) {
	key := req.Key()
	if v, ok := m.cache.Get(key); ok {
		return v.(*Response), nil
	}

	resp, err := Simulate(ctx, req)
	if err != nil {
		return nil, err
	}

	m.cache.Set(key, resp, gocache.DefaultExpiration)
	return resp, nil
}

// Len reports how many responses are currently cached.
func (m *Memo) Len() int {
	return m.cache.ItemCount()
}
