package flow

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/berryray-tech/Berry-Ray-main/pkg/memcache"
)

const DefaultIdleTTL = 30 * time.Minute

var ErrDraftNotFound = errors.New("registration draft not found or expired")

// Registry keeps in-progress flows between HTTP requests, keyed by a draft id.
// A draft that is not touched for the idle TTL is dropped.
type Registry struct {
	drafts    *memcache.TTLStore[*Flow]
	ttl       time.Duration
	submitter Submitter
}

func NewRegistry(submitter Submitter, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{
		drafts:    memcache.NewTTLStore[*Flow](),
		ttl:       ttl,
		submitter: submitter,
	}
}

func (r *Registry) Create() (string, *Flow) {
	r.drafts.Sweep()

	id := uuid.NewString()
	f := New(r.submitter)
	r.drafts.Set(id, f, r.ttl)
	return id, f
}

func (r *Registry) Get(id string) (*Flow, error) {
	f, ok := r.drafts.Peek(id)
	if !ok || !r.drafts.Touch(id, r.ttl) {
		return nil, ErrDraftNotFound
	}
	return f, nil
}

// Delete forgets a draft. Deleting an unknown draft is not an error.
func (r *Registry) Delete(id string) {
	r.drafts.Delete(id)
}

func (r *Registry) Len() int {
	return r.drafts.Len()
}

func (r *Registry) withClock(now func() time.Time) *Registry {
	r.drafts.WithClock(now)
	return r
}
