package service

import (
	"context"
	"sync"
	"time"

	"github.com/windoze95/ingredai-api/internal/logger"
	"go.uber.org/zap"
)

// Registry hands out one Controller per workspace, creating it on first use.
// Idle controllers are evicted once they pass the idle timeout or when the
// registry is full; held or busy controllers are never evicted.
type Registry struct {
	deps        Deps
	capacity    int
	idleTimeout time.Duration

	mu          sync.Mutex
	controllers map[string]*registryEntry
	onCreate    func(*Controller)
}

type registryEntry struct {
	ctl      *Controller
	lastUsed time.Time
	holds    int
}

func (e *registryEntry) evictable() bool {
	return e.holds == 0 && !e.ctl.Busy()
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCapacity bounds the number of live controllers. Zero means unbounded.
func WithCapacity(n int) RegistryOption {
	return func(r *Registry) { r.capacity = n }
}

// WithIdleTimeout evicts controllers unused for d. Zero disables it.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) { r.idleTimeout = d }
}

// NewRegistry is the constructor function for initializing a new Registry.
func NewRegistry(deps Deps, opts ...RegistryOption) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	r := &Registry{deps: deps, controllers: make(map[string]*registryEntry)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnCreate registers fn to run once for every new controller, before it is
// handed out.
func (r *Registry) OnCreate(fn func(*Controller)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCreate = fn
}

// Get returns the controller for workspace.
func (r *Registry) Get(ctx context.Context, workspace string) *Controller {
	c, _ := r.get(ctx, workspace, false)
	return c
}

// Hold returns the controller for workspace and keeps it from being evicted
// until release is called. release may be called more than once.
func (r *Registry) Hold(ctx context.Context, workspace string) (*Controller, func()) {
	c, e := r.get(ctx, workspace, true)
	var once sync.Once
	return c, func() {
		once.Do(func() {
			r.mu.Lock()
			e.holds--
			e.lastUsed = r.deps.Now()
			r.mu.Unlock()
		})
	}
}

func (r *Registry) get(ctx context.Context, workspace string, hold bool) (*Controller, *registryEntry) {
	r.mu.Lock()
	if e, ok := r.controllers[workspace]; ok {
		r.touchLocked(e, hold)
		r.mu.Unlock()
		return e.ctl, e
	}
	r.mu.Unlock()

	// Loading reads the store, which may be remote.
	c := NewController(context.WithoutCancel(ctx), workspace, r.deps)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.controllers[workspace]; ok {
		r.touchLocked(e, hold)
		return e.ctl, e
	}
	r.evictLocked()
	if r.onCreate != nil {
		r.onCreate(c)
	}
	e := &registryEntry{ctl: c}
	r.touchLocked(e, hold)
	r.controllers[workspace] = e
	return c, e
}

func (r *Registry) touchLocked(e *registryEntry, hold bool) {
	e.lastUsed = r.deps.Now()
	if hold {
		e.holds++
	}
}

// evictLocked drops idle controllers and, when the registry is full, the
// least recently used evictable one.
func (r *Registry) evictLocked() {
	now := r.deps.Now()
	oldest := ""
	var oldestAt time.Time
	for ws, e := range r.controllers {
		if !e.evictable() {
			continue
		}
		if r.idleTimeout > 0 && now.Sub(e.lastUsed) >= r.idleTimeout {
			delete(r.controllers, ws)
			logger.Get().Debug("evicted idle workspace", zap.String(logger.WorkspaceKey, ws))
			continue
		}
		if oldest == "" || e.lastUsed.Before(oldestAt) {
			oldest, oldestAt = ws, e.lastUsed
		}
	}
	if r.capacity > 0 && len(r.controllers) >= r.capacity && oldest != "" {
		delete(r.controllers, oldest)
		logger.Get().Info("evicted least recently used workspace", zap.String(logger.WorkspaceKey, oldest))
	}
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
