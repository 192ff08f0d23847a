package notify

import (
	"sync"
	"time"
)

// Level classifies a notification for rendering.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a transient, user-visible message.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Center collects notifications until the next page render drains them.
// Oldest entries are dropped once the buffer is full so a burst of
// failures can never grow without bound.
type Center struct {
	mu      sync.Mutex
	items   []Notification
	maxSize int
}

const defaultMaxSize = 50

func NewCenter() *Center {
	return &Center{maxSize: defaultMaxSize}
}

func (c *Center) push(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, Notification{
		Level:   level,
		Message: message,
		At:      time.Now(),
	})
	if len(c.items) > c.maxSize {
		c.items = c.items[len(c.items)-c.maxSize:]
	}
}

func (c *Center) Info(message string)    { c.push(LevelInfo, message) }
func (c *Center) Success(message string) { c.push(LevelSuccess, message) }
func (c *Center) Warning(message string) { c.push(LevelWarning, message) }
func (c *Center) Error(message string)   { c.push(LevelError, message) }

// Drain returns the pending notifications and clears the buffer.
func (c *Center) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.items
	c.items = nil
	return out
}

// Pending returns a copy of the buffer without clearing it.
func (c *Center) Pending() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}
