package jmap

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/klappstuhl/stalmail/internal/logging"
)

// DefaultPollInterval is how often the server is asked for its current
// mailbox state when no interval is given.
const DefaultPollInterval = 30 * time.Second

// ChangeEvent signals that server-side state moved since the last poll.
// ID is unique per event; Changed names the data types whose state
// token changed.
type ChangeEvent struct {
	ID      string
	Changed map[string]bool
}

// OnUpdate registers fn to receive change events from the polling loop.
// The returned function removes the registration and may be called more
// than once.
func (c *Client) OnUpdate(fn func(ChangeEvent)) func() {
	id := uuid.NewString()

	c.listenerMu.Lock()
	c.listeners[id] = fn
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		delete(c.listeners, id)
		c.listenerMu.Unlock()
	}
}

// StartPolling begins watching the account for changes. The server's
// current email state token is fetched every interval and compared with
// the previous one; each observed transition produces exactly one event,
// delivered to onChange (if non-nil) and to every OnUpdate listener.
//
// A failed poll is logged and skipped; the loop keeps its last known
// token and recovers on the next tick. Any previous polling loop is
// stopped first. Polling also stops when ctx is canceled or the client
// logs out.
func (c *Client) StartPolling(ctx context.Context, onChange func(ChangeEvent), interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	c.StopPolling()

	stop := make(chan struct{})
	c.pollMu.Lock()
	c.pollStop = stop
	c.pollMu.Unlock()

	// One goroutine owns the loop, so ticks never overlap even when a
	// poll takes longer than the interval.
	go func() {
		log := logging.FromContext(ctx)

		lastState := ""
		poll := func() {
			state, err := c.fetchEmailState(ctx)
			if err != nil {
				log.Debug("poll failed", "error", err)
				return
			}
			if lastState != "" && state != lastState {
				event := ChangeEvent{
					ID:      uuid.NewString(),
					Changed: map[string]bool{"Email": true, "Mailbox": true},
				}
				c.dispatch(onChange, event)
			}
			lastState = state
		}

		poll()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.Session() == nil {
					return
				}
				poll()
			}
		}
	}()
}

// StopPolling halts the polling loop. Safe to call repeatedly and when
// no loop is running.
func (c *Client) StopPolling() {
	c.pollMu.Lock()
	defer c.pollMu.Unlock()
	if c.pollStop != nil {
		close(c.pollStop)
		c.pollStop = nil
	}
}

// fetchEmailState asks for the email state token with the cheapest
// possible request: an Email/get for no ids.
func (c *Client) fetchEmailState(ctx context.Context) (string, error) {
	session, _, err := c.currentSession()
	if err != nil {
		return "", err
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Email/get", map[string]any{
			"accountId":  session.AccountID,
			"ids":        []string{},
			"properties": []string{"id"},
		}, "state"},
	})
	if err != nil {
		return "", err
	}

	result, err := expectResult[emailGetResult](responses, "Email/get")
	if err != nil {
		return "", err
	}
	return result.State, nil
}

// dispatch delivers an event to the direct callback and a snapshot of
// the registered listeners. The snapshot keeps the lock out of listener
// code so a listener may unsubscribe itself.
func (c *Client) dispatch(onChange func(ChangeEvent), event ChangeEvent) {
	c.listenerMu.Lock()
	fns := make([]func(ChangeEvent), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenerMu.Unlock()

	if onChange != nil {
		onChange(event)
	}
	for _, fn := range fns {
		fn(event)
	}
}
