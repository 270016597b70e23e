package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeController_MutualExclusion(t *testing.T) {
	var c ModeController
	require.NoError(t, c.Activate(ModeDrawingA))
	assert.Equal(t, ModeDrawingA, c.Current())
	require.NoError(t, c.Activate(ModeDelete))
	assert.Equal(t, ModeDelete, c.Current())

	aff := c.Affordances()
	assert.False(t, aff.LabelA.Active)
	assert.False(t, aff.LabelB.Active)
	assert.True(t, aff.Delete.Active)
}

func TestModeController_LockBlocksOtherModes(t *testing.T) {
	var c ModeController
	require.NoError(t, c.Activate(ModeDrawingB))
	c.Lock()

	require.ErrorIs(t, c.Activate(ModeDrawingA), ErrLabelLocked)
	require.ErrorIs(t, c.Activate(ModeDelete), ErrFinishPolygon)
	require.ErrorIs(t, c.Deactivate(ModeDrawingB), ErrLabelLocked)
	assert.Equal(t, ModeDrawingB, c.Current())

	aff := c.Affordances()
	assert.False(t, aff.LabelA.Enabled)
	assert.True(t, aff.LabelB.Enabled)
	assert.True(t, aff.LabelB.Active)

	c.Unlock()
	require.NoError(t, c.Deactivate(ModeDrawingB))
	assert.Equal(t, ModeIdle, c.Current())
	assert.True(t, c.Affordances().LabelA.Enabled)
}

func TestModeController_LockIgnoredOutsideDrawing(t *testing.T) {
	var c ModeController
	require.NoError(t, c.Activate(ModeDelete))
	c.Lock()
	_, locked := c.Locked()
	assert.False(t, locked)
}

func TestModeController_DeactivateInactiveIsNoop(t *testing.T) {
	var c ModeController
	require.NoError(t, c.Activate(ModeDrawingA))
	require.NoError(t, c.Deactivate(ModeDelete))
	assert.Equal(t, ModeDrawingA, c.Current())
}

func TestModeController_Reset(t *testing.T) {
	var c ModeController
	require.NoError(t, c.Activate(ModeDrawingA))
	c.Lock()
	c.Reset()
	assert.Equal(t, ModeIdle, c.Current())
	_, locked := c.Locked()
	assert.False(t, locked)
}
