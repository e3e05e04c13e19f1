// Package conversation tracks the message lists of live conversations and
// keeps their system prompt in step with the runtime settings.
package conversation

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Context is the message list of one conversation. It is shared between the
// voice pipeline, which reads and appends, and the synchronizer, which only
// rewrites the leading system message.
type Context struct {
	id string

	mu       sync.RWMutex
	messages []Message
}

func NewContext(messages ...Message) *Context {
	c := &Context{id: uuid.NewString()}
	c.messages = append(c.messages, messages...)
	return c
}

func (c *Context) ID() string { return c.id }

// Messages returns a copy of the current message list.
func (c *Context) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Context) Append(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}

// ReplaceSystem overwrites the content of message 0 when it is a system
// message. It reports whether anything was written.
func (c *Context) ReplaceSystem(content string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 || c.messages[0].Role != RoleSystem {
		return false
	}
	c.messages[0].Content = content
	return true
}

// Runner drives one conversation over an established connection. It returns
// when the connection ends.
type Runner interface {
	Run(ctx context.Context, conv *Context) error
}
