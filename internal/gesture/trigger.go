package gesture

// Trigger turns a held gesture into a one-shot event. It fires on the first
// frame the gesture is seen and stays disarmed until a different gesture
// arrives. The zero value is not usable; use NewTrigger.
type Trigger struct {
	gesture Gesture
	armed   bool
}

// NewTrigger returns an armed trigger for g.
func NewTrigger(g Gesture) *Trigger {
	return &Trigger{gesture: g, armed: true}
}

// Fire reports whether this frame's gesture should act.
func (t *Trigger) Fire(g Gesture) bool {
	if g != t.gesture {
		t.armed = true
		return false
	}
	if !t.armed {
		return false
	}
	t.armed = false
	return true
}

// Armed reports whether the next matching gesture will fire.
func (t *Trigger) Armed() bool {
	return t.armed
}

// Reset re-arms the trigger.
func (t *Trigger) Reset() {
	t.armed = true
}
