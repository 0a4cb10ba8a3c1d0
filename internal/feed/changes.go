package feed

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/feedkit/feedkit/internal/notify"
)

// Observable is a registry the feed re-renders on.
type Observable interface {
	Subscribe(fn func()) notify.Subscription
}

// Changes coalesces registry notifications into messages for the program.
// Notifications that arrive while one is pending collapse into it.
type Changes struct {
	ch   chan struct{}
	done chan struct{}
	once sync.Once
	subs []notify.Subscription
}

// WatchChanges subscribes to every registry given.
func WatchChanges(registries ...Observable) *Changes {
	c := &Changes{ch: make(chan struct{}, 1), done: make(chan struct{})}
	for _, reg := range registries {
		if reg == nil {
			continue
		}
		c.subs = append(c.subs, reg.Subscribe(c.notify))
	}
	return c
}

func (c *Changes) notify() {
	select {
	case c.ch <- struct{}{}:
	default:
	}
}

// Close unsubscribes from every registry and releases a pending wait.
func (c *Changes) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		for _, sub := range c.subs {
			sub.Unsubscribe()
		}
		c.subs = nil
		close(c.done)
	})
}

func (c *Changes) wait() tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-c.ch:
			return RegistryChangedMsg{}
		case <-c.done:
			return nil
		}
	}
}
