package feed

// TriggerState is the state of the visibility trigger
type TriggerState int

const (
	// Idle before anything is rendered
	Idle TriggerState = iota
	// Armed while observing the last rendered profile
	Armed
	// Pending between an advance and the completion of its fetch
	Pending
)

func (s TriggerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Pending:
		return "pending"
	}
	return "unknown"
}

// Visibility is emitted by a viewport when a rendered profile
// enters or leaves the screen
type Visibility struct {
	ProfileID string
	Visible   bool
}

// Viewport observes rendered profiles. When the observed profile changes,
// the viewport is expected to report its current visibility.
type Viewport interface {
	Events() <-chan Visibility
}

// Trigger asks for the next page when the last rendered profile
// becomes visible
type Trigger struct {
	state    TriggerState
	observed string
	visible  bool
}

// State returns the current trigger state
func (t *Trigger) State() TriggerState { return t.state }

// Observed is the id of the profile being watched
func (t *Trigger) Observed() string { return t.observed }

// Observe watches lastID. A different id re-arms the trigger, unless an
// advance is pending.
func (t *Trigger) Observe(lastID string) {
	if lastID == t.observed {
		return
	}

	t.observed = lastID
	t.visible = false
	if t.state == Pending {
		return
	}
	t.arm()
}

// Settle ends a pending advance once loading is over and re-arms on lastID
func (t *Trigger) Settle(lastID string) {
	t.observed = lastID
	t.visible = false
	t.arm()
}

func (t *Trigger) arm() {
	if t.observed == "" {
		t.state = Idle
		return
	}
	t.state = Armed
}

// Visible handles a viewport event. It returns true, at most once per
// visibility transition, when the pager should advance.
func (t *Trigger) Visible(ev Visibility, hasMore, loading bool) bool {
	if ev.ProfileID == "" || ev.ProfileID != t.observed {
		return false
	}

	if !ev.Visible {
		t.visible = false
		return false
	}

	if t.visible {
		return false
	}
	t.visible = true

	if t.state != Armed || loading || !hasMore {
		return false
	}

	t.state = Pending
	return true
}
