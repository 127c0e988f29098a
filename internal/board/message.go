package board

// MessageKind selects the styling of the message area.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is the transient outcome notice.
type Message struct {
	Kind MessageKind
	Text string
}

// showMessage reveals msg and schedules the area to hide after the delay. A
// pending hide from an earlier message is stopped, so the area always stays
// visible for the full delay after the most recent outcome.
func (c *Controller) showMessage(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hideTimer != nil {
		c.hideTimer.Stop()
	}
	c.messageSeq++
	seq := c.messageSeq

	c.view.ShowMessage(msg)
	c.hideTimer = c.schedule(c.hideDelay, func() { c.hideMessage(seq) })
}

func (c *Controller) hideMessage(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer message replaced this one after its timer had already fired.
	if seq != c.messageSeq {
		return
	}
	c.hideTimer = nil
	c.view.HideMessage()
}
