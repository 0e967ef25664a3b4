// Package registry deduplicates request pipeline plugins by identity key
// and installs them on a router in registration order.
package registry

import (
	"sync"

	"github.com/nimburion/correlation/pkg/server/router"
)

// Key identifies a plugin instance. Two plugins with equal keys are the same
// plugin as far as the pipeline is concerned.
type Key struct {
	Name string
	Seed string
}

// String renders the key as name or name/seed.
func (k Key) String() string {
	if k.Seed == "" {
		return k.Name
	}
	return k.Name + "/" + k.Seed
}

// Plugin is a middleware with an identity.
type Plugin interface {
	Key() Key
	Handler() router.MiddlewareFunc
}

// Registry holds plugins in registration order, at most one per Key.
type Registry struct {
	mu      sync.Mutex
	plugins []Plugin
	seen    map[Key]struct{}
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{seen: make(map[Key]struct{})}
}

// Register adds p unless a plugin with the same key is already present.
// It reports whether p was added.
func (r *Registry) Register(p Plugin) bool {
	if p == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seen == nil {
		r.seen = make(map[Key]struct{})
	}
	k := p.Key()
	if _, dup := r.seen[k]; dup {
		return false
	}
	r.seen[k] = struct{}{}
	r.plugins = append(r.plugins, p)
	return true
}

// Keys lists the registered keys in order.
func (r *Registry) Keys() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]Key, len(r.plugins))
	for i, p := range r.plugins {
		keys[i] = p.Key()
	}
	return keys
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plugins)
}

// Middleware returns the plugin handlers in registration order.
func (r *Registry) Middleware() []router.MiddlewareFunc {
	r.mu.Lock()
	defer r.mu.Unlock()

	mws := make([]router.MiddlewareFunc, len(r.plugins))
	for i, p := range r.plugins {
		mws[i] = p.Handler()
	}
	return mws
}

// Apply installs every plugin on rt. The first registered plugin runs first.
func (r *Registry) Apply(rt router.Router) {
	rt.Use(r.Middleware()...)
}

type funcPlugin struct {
	key Key
	mw  router.MiddlewareFunc
}

func (f funcPlugin) Key() Key                       { return f.key }
func (f funcPlugin) Handler() router.MiddlewareFunc { return f.mw }

// Func wraps a plain middleware as a Plugin with the given identity.
func Func(name, seed string, mw router.MiddlewareFunc) Plugin {
	return funcPlugin{key: Key{Name: name, Seed: seed}, mw: mw}
}
