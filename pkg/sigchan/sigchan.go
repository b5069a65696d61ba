// Package sigchan provides a non-blocking notification channel: Emit never
// blocks, repeated emits coalesce while a signal is pending.
package sigchan

// Chan carries event notifications without data.
type Chan struct {
	c chan struct{}
}

// New creates a signal channel with the given buffer size.
func New(bufferSize int) *Chan {
	return &Chan{c: make(chan struct{}, bufferSize)}
}

// Emit sends a signal; if the buffer is full the signal coalesces.
func (c *Chan) Emit() {
	select {
	case c.c <- struct{}{}:
	default:
	}
}

// C returns the receive side for use in select.
func (c *Chan) C() <-chan struct{} {
	return c.c
}
