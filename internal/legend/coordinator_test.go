package legend_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uwincm/gaia-hazlab-catalog/internal/legend"
)

// screenLog records attach/detach calls and tracks what is on screen.
type screenLog struct {
	ops      []string
	onScreen map[int]bool
}

func newScreenLog() *screenLog {
	return &screenLog{onScreen: map[int]bool{}}
}

func (s *screenLog) Attach(l legend.Legend) {
	s.ops = append(s.ops, fmt.Sprintf("attach:%d", l.ID))
	s.onScreen[l.ID] = true
}

func (s *screenLog) Detach(l legend.Legend) {
	s.ops = append(s.ops, fmt.Sprintf("detach:%d", l.ID))
	delete(s.onScreen, l.ID)
}

func (s *screenLog) count() int { return len(s.onScreen) }

func newCoordinator(t *testing.T) (*legend.Coordinator[string], *screenLog, [3]int) {
	t.Helper()
	scr := newScreenLog()
	c := legend.NewCoordinator[string](scr)
	ids := [3]int{
		c.Register(legend.Legend{Kind: legend.KindGradient, Title: "Hazard Index"}, "hazard"),
		c.Register(legend.Legend{Kind: legend.KindCategorical, Title: "Flood Zones"}, "flood"),
		c.Register(legend.Legend{Kind: legend.KindImage, Title: "Burn Severity"}, "burn"),
	}
	return c, scr, ids
}

func TestRegisterAssignsMonotonicIDs(t *testing.T) {
	c, _, ids := newCoordinator(t)
	require.Equal(t, [3]int{1, 2, 3}, ids)
	require.Equal(t, 3, c.Len())

	_, ok := c.Visible()
	require.False(t, ok, "all legends start hidden")
}

func TestAtMostOneVisibleAfterEveryEvent(t *testing.T) {
	c, scr, _ := newCoordinator(t)

	events := []struct {
		add   bool
		layer string
	}{
		{true, "hazard"},
		{true, "flood"},
		{true, "burn"},
		{false, "hazard"}, // already hidden, no-op
		{true, "hazard"},
		{true, "hazard"}, // double add
		{false, "hazard"},
		{true, "flood"},
		{false, "flood"},
	}

	for i, ev := range events {
		if ev.add {
			c.LayerAdded(ev.layer)
		} else {
			c.LayerRemoved(ev.layer)
		}
		require.LessOrEqual(t, scr.count(), 1, "event %d: more than one legend on screen", i)

		l, ok := c.Visible()
		if ok {
			require.True(t, scr.onScreen[l.ID], "event %d: visible flag disagrees with screen", i)
		} else {
			require.Zero(t, scr.count(), "event %d: screen has legends but none flagged", i)
		}
	}

	_, ok := c.Visible()
	require.False(t, ok, "sequence ends with everything removed")
}

func TestSwitchingLayersDetachesBeforeAttach(t *testing.T) {
	c, scr, ids := newCoordinator(t)

	c.LayerAdded("hazard")
	require.Equal(t, []string{fmt.Sprintf("attach:%d", ids[0])}, scr.ops)

	scr.ops = nil
	c.LayerAdded("flood")
	require.Equal(t, []string{
		fmt.Sprintf("detach:%d", ids[0]),
		fmt.Sprintf("attach:%d", ids[1]),
	}, scr.ops, "old legend must clear before the new one shows")

	l, ok := c.Visible()
	require.True(t, ok)
	require.Equal(t, ids[1], l.ID)
}

func TestRemoveVisibleClearsIt(t *testing.T) {
	c, scr, ids := newCoordinator(t)

	c.LayerAdded("burn")
	scr.ops = nil

	c.LayerRemoved("burn")
	require.Equal(t, []string{fmt.Sprintf("detach:%d", ids[2])}, scr.ops)
	_, ok := c.Visible()
	require.False(t, ok)
}

func TestRemoveHiddenIsNoOp(t *testing.T) {
	c, scr, ids := newCoordinator(t)

	c.LayerAdded("hazard")
	scr.ops = nil

	c.LayerRemoved("flood")
	require.Empty(t, scr.ops, "removing a hidden legend's layer must not touch the screen")

	l, ok := c.Visible()
	require.True(t, ok)
	require.Equal(t, ids[0], l.ID)
}

func TestDoubleAddIsIdempotent(t *testing.T) {
	c, scr, ids := newCoordinator(t)

	c.LayerAdded("flood")
	c.LayerAdded("flood")

	require.Equal(t, 1, scr.count())
	l, ok := c.Visible()
	require.True(t, ok)
	require.Equal(t, ids[1], l.ID)

	// Redundant but harmless: the second add re-runs the sweep.
	require.Equal(t, []string{
		fmt.Sprintf("attach:%d", ids[1]),
		fmt.Sprintf("detach:%d", ids[1]),
		fmt.Sprintf("attach:%d", ids[1]),
	}, scr.ops)
}

func TestUnknownLayerIsNoOp(t *testing.T) {
	c, scr, _ := newCoordinator(t)

	c.LayerAdded("smoke")
	c.LayerRemoved("smoke")
	require.Empty(t, scr.ops)
	require.Zero(t, scr.count())
}

func TestEmptyCoordinatorIgnoresEvents(t *testing.T) {
	scr := newScreenLog()
	c := legend.NewCoordinator[string](scr)

	c.LayerAdded("hazard")
	c.LayerRemoved("hazard")
	require.Empty(t, scr.ops)
}

// reentrantScreen toggles another layer from inside Detach, like a UI
// whose clear handler immediately activates a different overlay.
type reentrantScreen struct {
	*screenLog
	coord *legend.Coordinator[string]
	layer string
	fired bool
}

func (s *reentrantScreen) Detach(l legend.Legend) {
	s.screenLog.Detach(l)
	if !s.fired {
		s.fired = true
		s.coord.LayerAdded(s.layer)
	}
}

func TestReentrantDetachKeepsOneLegendVisible(t *testing.T) {
	scr := &reentrantScreen{screenLog: newScreenLog(), layer: "burn"}
	c := legend.NewCoordinator[string](scr)
	scr.coord = c

	c.Register(legend.Legend{Kind: legend.KindGradient, Title: "Hazard Index"}, "hazard")
	c.Register(legend.Legend{Kind: legend.KindCategorical, Title: "Flood Zones"}, "flood")
	burnID := c.Register(legend.Legend{Kind: legend.KindImage, Title: "Burn Severity"}, "burn")

	c.LayerAdded("hazard")
	c.LayerAdded("flood")

	require.Equal(t, 1, scr.count(), "reentrant add left extra legends on screen")
	l, ok := c.Visible()
	require.True(t, ok)
	require.Equal(t, burnID, l.ID, "the queued add must win as the most recent event")
	require.True(t, scr.onScreen[l.ID], "visible flag disagrees with screen")
}

func TestReentrantRemoveDuringSweepIsDeferred(t *testing.T) {
	scr := &reentrantScreen{screenLog: newScreenLog(), layer: "flood"}
	c := legend.NewCoordinator[string](scr)
	scr.coord = c

	c.Register(legend.Legend{Kind: legend.KindGradient, Title: "Hazard Index"}, "hazard")
	floodID := c.Register(legend.Legend{Kind: legend.KindCategorical, Title: "Flood Zones"}, "flood")

	c.LayerAdded("hazard")
	c.LayerRemoved("hazard")

	require.Equal(t, 1, scr.count())
	l, ok := c.Visible()
	require.True(t, ok)
	require.Equal(t, floodID, l.ID)
}

// panicScreen blows up on every call, standing in for a broken transport.
type panicScreen struct{}

func (panicScreen) Attach(legend.Legend) { panic("attach failed") }
func (panicScreen) Detach(legend.Legend) { panic("detach failed") }

func TestBrokenScreenDoesNotPanicHandlers(t *testing.T) {
	c := legend.NewCoordinator[string](panicScreen{})
	c.Register(legend.Legend{Kind: legend.KindGradient, Title: "Hazard Index"}, "hazard")

	require.NotPanics(t, func() { c.LayerAdded("hazard") })
	require.NotPanics(t, func() { c.LayerRemoved("hazard") })
}
