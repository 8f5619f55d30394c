package sigchan

// Chan is a non-blocking notification channel: it signals that something
// happened without carrying data.
type Chan struct {
	c chan struct{}
}

// New creates a signal channel with the given buffer.
func New(bufferSize int) *Chan {
	return &Chan{
		c: make(chan struct{}, bufferSize),
	}
}

// Emit sends a signal; dropped if the buffer is full.
func (c *Chan) Emit() {
	select {
	case c.c <- struct{}{}:
	default:
	}
}

// C exposes the channel for select.
func (c *Chan) C() <-chan struct{} {
	return c.c
}
