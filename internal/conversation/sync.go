package conversation

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/matheuskafuri/newsanchor/internal/metrics"
	"github.com/matheuskafuri/newsanchor/internal/settings"
)

// PromptBuilder turns settings into a system prompt.
type PromptBuilder interface {
	Synthesize(cfg settings.Snapshot) string
}

// Synchronizer rewrites the system prompt of live conversations after the
// settings change.
type Synchronizer struct {
	settings *settings.Store
	prompts  PromptBuilder
}

func NewSynchronizer(store *settings.Store, prompts PromptBuilder) *Synchronizer {
	return &Synchronizer{settings: store, prompts: prompts}
}

// Prompt synthesizes the prompt for the current settings.
func (s *Synchronizer) Prompt() string {
	return s.prompts.Synthesize(s.settings.Snapshot())
}

// Sync recomputes the prompt and installs it as message 0 of conv. Contexts
// that are empty or do not start with a system message are left untouched.
func (s *Synchronizer) Sync(conv *Context) bool {
	if conv == nil {
		return false
	}
	ok := conv.ReplaceSystem(s.Prompt())
	metrics.RecordSync(ok)
	if ok {
		slog.Info("conversation prompt updated", "conversation", conv.ID())
	}
	return ok
}

// Registry holds every live conversation by ID.
type Registry struct {
	mu    sync.RWMutex
	convs map[string]*Context
}

func NewRegistry() *Registry {
	return &Registry{convs: make(map[string]*Context)}
}

// Open creates a conversation seeded with systemPrompt and registers it.
func (r *Registry) Open(systemPrompt string) *Context {
	c := NewContext(Message{Role: RoleSystem, Content: systemPrompt})
	r.Add(c)
	return c
}

func (r *Registry) Add(c *Context) {
	r.mu.Lock()
	r.convs[c.ID()] = c
	n := len(r.convs)
	r.mu.Unlock()
	metrics.ActiveConversations.Set(float64(n))
}

func (r *Registry) Get(id string) (*Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.convs[id]
	return c, ok
}

// Close unregisters id. It reports whether id was registered.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	_, ok := r.convs[id]
	delete(r.convs, id)
	n := len(r.convs)
	r.mu.Unlock()
	metrics.ActiveConversations.Set(float64(n))
	return ok
}

// IDs lists registered conversations in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.convs))
	for id := range r.convs {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (r *Registry) snapshot() []*Context {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Context, 0, len(r.convs))
	for _, c := range r.convs {
		out = append(out, c)
	}
	return out
}

// SyncAll applies Sync to every registered conversation and returns how many
// prompts were rewritten. The prompt is synthesized once for the batch.
func (s *Synchronizer) SyncAll(r *Registry) int {
	convs := r.snapshot()
	if len(convs) == 0 {
		return 0
	}
	prompt := s.Prompt()
	n := 0
	for _, c := range convs {
		ok := c.ReplaceSystem(prompt)
		metrics.RecordSync(ok)
		if ok {
			n++
		}
	}
	slog.Info("live prompt sync", "conversations", len(convs), "rewritten", n)
	return n
}
