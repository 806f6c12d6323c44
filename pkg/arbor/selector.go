package arbor

import (
	"sort"
	"sync"
)

// GlobalKey is the key of the shared default context. Callers with no
// identity of their own land here.
const GlobalKey = "Default"

// KeyStrategy maps a caller identity to a context key, deciding how many
// logging universes a process has.
type KeyStrategy func(fqmn string) string

// ModuleKey keys contexts by caller identity, so each module gets its
// own context. Empty identities share the global context.
func ModuleKey(fqmn string) string {
	if fqmn == "" {
		return GlobalKey
	}
	return fqmn
}

// GlobalKeyStrategy routes every caller to the single shared context.
func GlobalKeyStrategy(string) string {
	return GlobalKey
}

// ContextSelector hands out logger contexts. Implementations guarantee
// at most one context per key, however concurrently they are asked.
type ContextSelector interface {
	// Context returns the context for key, creating it on first use.
	Context(key string) *LoggerContext
	// ContextFor returns the context for a caller identity, applying the
	// selector's key strategy.
	ContextFor(fqmn string) *LoggerContext
	// Contexts returns every live context, ordered by key.
	Contexts() []*LoggerContext
	// Remove unregisters and returns the context for key, nil when there
	// is none. The context is not stopped.
	Remove(key string) *LoggerContext
}

// SelectorRegistry is the standard ContextSelector: a mutex-guarded map
// from key to context.
type SelectorRegistry struct {
	mu       sync.Mutex
	strategy KeyStrategy
	contexts map[string]*LoggerContext
}

// NewSelectorRegistry creates a registry using strategy to key contexts.
// A nil strategy means ModuleKey.
func NewSelectorRegistry(strategy KeyStrategy) *SelectorRegistry {
	if strategy == nil {
		strategy = ModuleKey
	}
	return &SelectorRegistry{
		strategy: strategy,
		contexts: make(map[string]*LoggerContext),
	}
}

// Context returns the context registered under key, creating it on
// first use.
func (r *SelectorRegistry) Context(key string) *LoggerContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctx, ok := r.contexts[key]; ok {
		return ctx
	}
	ctx := NewLoggerContext(key)
	r.contexts[key] = ctx
	return ctx
}

// ContextFor returns the context for a caller identity.
func (r *SelectorRegistry) ContextFor(fqmn string) *LoggerContext {
	return r.Context(r.strategy(fqmn))
}

// Contexts returns every live context, ordered by key so iteration is
// deterministic.
func (r *SelectorRegistry) Contexts() []*LoggerContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.contexts))
	for key := range r.contexts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]*LoggerContext, 0, len(keys))
	for _, key := range keys {
		out = append(out, r.contexts[key])
	}
	return out
}

// Remove unregisters and returns the context for key. The caller is
// responsible for stopping it.
func (r *SelectorRegistry) Remove(key string) *LoggerContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := r.contexts[key]
	delete(r.contexts, key)
	return ctx
}

var _ ContextSelector = (*SelectorRegistry)(nil)
