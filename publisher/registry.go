package publisher

import (
	"sync"

	"github.com/Ishwaqsyed03/Brand-manager/model"
)

// Registry maps platform names to their Publisher implementation. Populated
// at startup; adding a platform means registering a new implementation here,
// never editing a central dispatch switch.
type Registry struct {
	m          sync.RWMutex
	publishers map[model.PlatformName]Publisher
}

func NewRegistry() *Registry {
	return &Registry{publishers: make(map[model.PlatformName]Publisher)}
}

// NewDefaultRegistry wires every supported platform against a shared http
// client.
func NewDefaultRegistry(client *HttpClient) *Registry {
	r := NewRegistry()
	r.Register(model.PlatformTwitter, NewTwitterPublisher(client))
	r.Register(model.PlatformLinkedIn, NewLinkedInPublisher(client))
	r.Register(model.PlatformInstagram, NewInstagramPublisher(client))
	r.Register(model.PlatformFacebook, NewFacebookPublisher(client))
	return r
}

func (r *Registry) Register(name model.PlatformName, p Publisher) {
	r.m.Lock()
	defer r.m.Unlock()
	r.publishers[name] = p
}

func (r *Registry) Lookup(name model.PlatformName) (Publisher, bool) {
	r.m.RLock()
	defer r.m.RUnlock()
	p, ok := r.publishers[name]
	return p, ok
}

// Platforms lists every registered platform name.
func (r *Registry) Platforms() []model.PlatformName {
	r.m.RLock()
	defer r.m.RUnlock()
	names := []model.PlatformName{}
	for name := range r.publishers {
		names = append(names, name)
	}
	return names
}
