package annotation

// Toggle is the projected state of one mode button.
type Toggle struct {
	Active  bool
	Enabled bool
}

// Affordances projects the mode controller onto the three toggle controls.
type Affordances struct {
	LabelA Toggle
	LabelB Toggle
	Delete Toggle
}

// ModeController keeps at most one of the label/delete modes active and
// tracks which drawing mode is locked in while a polygon is under construction.
// The zero value is idle and unlocked.
type ModeController struct {
	current Mode
	locked  Mode // drawing mode owning the in-progress ring, ModeIdle if none
}

// Current returns the active mode.
func (c *ModeController) Current() Mode { return c.current }

// Locked reports the drawing mode holding the lock, if any.
func (c *ModeController) Locked() (Mode, bool) { return c.locked, c.locked != ModeIdle }

// Activate switches to m, deactivating every other mode.
// While a polygon is open only its own drawing mode may be activated.
func (c *ModeController) Activate(m Mode) error {
	if m == c.current {
		return nil
	}
	if c.locked != ModeIdle && m != c.locked {
		if m == ModeDelete {
			return ErrFinishPolygon
		}
		return ErrLabelLocked
	}
	c.current = m
	return nil
}

// Deactivate turns m off, returning to idle. Deactivating a mode that is not
// active is a no-op; the locked drawing mode cannot be deactivated.
func (c *ModeController) Deactivate(m Mode) error {
	if m != c.current || m == ModeIdle {
		return nil
	}
	if m == c.locked {
		return ErrLabelLocked
	}
	c.current = ModeIdle
	return nil
}

// Lock pins the current drawing mode until Unlock. It is a no-op outside drawing modes.
func (c *ModeController) Lock() {
	if c.current.Drawing() {
		c.locked = c.current
	}
}

// Unlock lifts the label lock.
func (c *ModeController) Unlock() { c.locked = ModeIdle }

// Reset unlocks and returns to idle.
func (c *ModeController) Reset() {
	c.locked = ModeIdle
	c.current = ModeIdle
}

// Affordances returns the toggle projection: the non-owning label is disabled while locked.
func (c *ModeController) Affordances() Affordances {
	return Affordances{
		LabelA: Toggle{Active: c.current == ModeDrawingA, Enabled: c.locked == ModeIdle || c.locked == ModeDrawingA},
		LabelB: Toggle{Active: c.current == ModeDrawingB, Enabled: c.locked == ModeIdle || c.locked == ModeDrawingB},
		Delete: Toggle{Active: c.current == ModeDelete, Enabled: true},
	}
}
