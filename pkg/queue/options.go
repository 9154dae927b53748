package queue

import (
	"fmt"
	"strings"
	"time"
)

// Order selects which end of the queue Receive removes from.
type Order int

const (
	// FIFO removes the oldest value first.
	FIFO Order = iota
	// LIFO removes the most recently sent value first.
	LIFO
)

// DefaultSendLatency is the simulated producer cost paid by every Send.
const DefaultSendLatency = 100 * time.Millisecond

// String returns the lower-case name of the order
func (o Order) String() string {
	switch o {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseOrder parses "fifo" or "lifo", case-insensitively
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo", "":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	default:
		return FIFO, fmt.Errorf("queue: unknown order %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (o Order) MarshalText() ([]byte, error) {
	if o != FIFO && o != LIFO {
		return nil, fmt.Errorf("queue: invalid order %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Order) UnmarshalText(text []byte) error {
	parsed, err := ParseOrder(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Options configures a Queue.
type Options struct {
	Order       Order
	SendLatency time.Duration
	// Sleep pays the send latency. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Order:       FIFO,
		SendLatency: DefaultSendLatency,
		Sleep:       time.Sleep,
	}
}

// WithOrder sets the removal order
func WithOrder(order Order) Option {
	return func(o *Options) {
		o.Order = order
	}
}

// WithSendLatency sets the delay paid before every Send acquires the lock.
// Zero disables it.
func WithSendLatency(d time.Duration) Option {
	return func(o *Options) {
		if d < 0 {
			d = 0
		}
		o.SendLatency = d
	}
}

// WithSleep replaces the function used to pay the send latency
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *Options) {
		if sleep != nil {
			o.Sleep = sleep
		}
	}
}
