package system

import (
	"testing"
	"time"
	"wave-director/internal/clock"
	"wave-director/internal/component"
	"wave-director/internal/defs"
	"wave-director/internal/event"
	"wave-director/internal/observability"
	"wave-director/internal/utils"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivate_ScenarioAThenB(t *testing.T) {
	catalog := abCatalog(t)
	clk := clock.NewMockTimeProvider(testStart)
	s, rec := newTestScheduler(catalog, clk, &scriptedRand{})

	state := component.NewEventsState()
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "A", 5), scheduled(catalog, "B", 5)}

	activated, state := s.ActivateScheduledEvents(5, state)
	assert.Equal(t, []defs.GlobalEventType{"A"}, configTypes(activated))
	assert.Equal(t, []defs.GlobalEventType{"A"}, activeTypes(state))
	require.Len(t, state.ScheduledEvents, 1)
	assert.Equal(t, defs.GlobalEventType("B"), state.ScheduledEvents[0].Type)
	assert.Equal(t, 6, state.ScheduledEvents[0].ScheduledWave)
	assert.Equal(t, 5, state.LastEventActivations["A"])
	assert.Equal(t, 5, state.LastEventWave)
	assert.Len(t, rec.ofType(event.GlobalEventRescheduled), 1)

	clk.Advance(2500 * time.Millisecond)

	activated, state = s.ActivateScheduledEvents(6, state)
	assert.Equal(t, []defs.GlobalEventType{"B"}, configTypes(activated))
	assert.Equal(t, []defs.GlobalEventType{"B"}, activeTypes(state))
	assert.Empty(t, state.ScheduledEvents)
	assert.Equal(t, 6, state.LastEventActivations["B"])
	assert.Equal(t, 6, state.LastEventWave)
	assert.Len(t, rec.ofType(event.GlobalEventExpired), 1)
}

func TestActivate_BlockedWhileAStillRunning(t *testing.T) {
	catalog := abCatalog(t)
	clk := clock.NewMockTimeProvider(testStart)
	s, _ := newTestScheduler(catalog, clk, &scriptedRand{})

	state := component.NewEventsState()
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "A", 5), scheduled(catalog, "B", 5)}
	_, state = s.ActivateScheduledEvents(5, state)

	clk.Advance(1 * time.Second)
	activated, state := s.ActivateScheduledEvents(6, state)
	assert.Empty(t, activated)
	require.Len(t, state.ScheduledEvents, 1)
	assert.Equal(t, 7, state.ScheduledEvents[0].ScheduledWave)
}

func TestActivate_NoCandidatesReturnsStateUnchanged(t *testing.T) {
	catalog := abCatalog(t)
	s, rec := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := component.NewEventsState()
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "A", 9)}

	activated, next := s.ActivateScheduledEvents(5, state)
	assert.Nil(t, activated)
	assert.Equal(t, state, next)
	assert.Empty(t, rec.events)
}

func TestActivate_DoesNotMutateInput(t *testing.T) {
	catalog := abCatalog(t)
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := component.NewEventsState()
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "A", 5), scheduled(catalog, "B", 5)}
	before := state.Clone()

	_, _ = s.ActivateScheduledEvents(5, state)
	assert.Equal(t, before, state)
}

func TestActivate_PriorityTieUsesCatalogOrder(t *testing.T) {
	catalog, err := defs.NewEventCatalog([]defs.GlobalEventConfig{
		{Type: "first", Priority: 50, DurationMs: 1000, MinWaveInterval: 1, MaxWaveInterval: 2},
		{Type: "second", Priority: 50, DurationMs: 1000, MinWaveInterval: 1, MaxWaveInterval: 2},
	})
	require.NoError(t, err)
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := component.NewEventsState()
	// Порядок в очереди обратный каталогу.
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "second", 3), scheduled(catalog, "first", 3)}

	activated, state := s.ActivateScheduledEvents(3, state)
	assert.Equal(t, []defs.GlobalEventType{"first"}, configTypes(activated))
	require.Len(t, state.ScheduledEvents, 1)
	assert.Equal(t, defs.GlobalEventType("second"), state.ScheduledEvents[0].Type)
	assert.Equal(t, 4, state.ScheduledEvents[0].ScheduledWave)
}

func TestActivate_CoexistingEventsBothActivate(t *testing.T) {
	catalog, err := defs.NewEventCatalog([]defs.GlobalEventConfig{
		{Type: "x", Priority: 90, DurationMs: 1000, MinWaveInterval: 1, MaxWaveInterval: 2, CanCoexist: []defs.GlobalEventType{"y"}},
		{Type: "y", Priority: 10, DurationMs: 1000, MinWaveInterval: 1, MaxWaveInterval: 2, CanCoexist: []defs.GlobalEventType{"x"}},
	})
	require.NoError(t, err)
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := component.NewEventsState()
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "y", 2), scheduled(catalog, "x", 2)}

	activated, state := s.ActivateScheduledEvents(2, state)
	assert.Equal(t, []defs.GlobalEventType{"x", "y"}, configTypes(activated))
	assert.ElementsMatch(t, []defs.GlobalEventType{"x", "y"}, activeTypes(state))
	assert.Empty(t, state.ScheduledEvents)
}

// asymmetricCatalog: low lists high as coexisting, high does not list low.
func asymmetricCatalog(t *testing.T) *defs.EventCatalog {
	t.Helper()
	c, err := defs.NewEventCatalog([]defs.GlobalEventConfig{
		{Type: "high", Priority: 90, DurationMs: 10000, MinWaveInterval: 1, MaxWaveInterval: 2},
		{Type: "low", Priority: 50, DurationMs: 10000, MinWaveInterval: 1, MaxWaveInterval: 2, CanCoexist: []defs.GlobalEventType{"high"}},
		{Type: "peer", Priority: 90, DurationMs: 10000, MinWaveInterval: 1, MaxWaveInterval: 2, CanCoexist: []defs.GlobalEventType{"high"}},
		{Type: "top", Priority: 120, DurationMs: 10000, MinWaveInterval: 1, MaxWaveInterval: 2, CanCoexist: []defs.GlobalEventType{"high"}},
	})
	require.NoError(t, err)
	return c
}

func TestActivate_EvictsStrictlyLowerPriority(t *testing.T) {
	catalog := asymmetricCatalog(t)
	nowMs := testStart.UnixMilli()
	s, rec := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := component.NewEventsState()
	state.ActiveEvents = []component.ActiveEvent{activeAt(catalog, "low", 1, nowMs)}
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "high", 2)}

	activated, state := s.ActivateScheduledEvents(2, state)
	assert.Equal(t, []defs.GlobalEventType{"high"}, configTypes(activated))
	assert.Equal(t, []defs.GlobalEventType{"high"}, activeTypes(state))

	evicted := rec.ofType(event.GlobalEventEvicted)
	require.Len(t, evicted, 1)
	payload := evicted[0].Data.(event.GlobalEventPayload)
	assert.Equal(t, defs.GlobalEventType("low"), payload.Config.Type)
	assert.Equal(t, defs.GlobalEventType("high"), payload.By)
}

func TestActivate_KeepsEqualPriorityConflict(t *testing.T) {
	catalog := asymmetricCatalog(t)
	nowMs := testStart.UnixMilli()
	s, rec := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := component.NewEventsState()
	state.ActiveEvents = []component.ActiveEvent{activeAt(catalog, "peer", 1, nowMs)}
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "high", 2)}

	activated, state := s.ActivateScheduledEvents(2, state)
	assert.Equal(t, []defs.GlobalEventType{"high"}, configTypes(activated))
	assert.ElementsMatch(t, []defs.GlobalEventType{"peer", "high"}, activeTypes(state))
	assert.Empty(t, rec.ofType(event.GlobalEventEvicted))
}

func TestActivate_KeepsHigherPriorityConflict(t *testing.T) {
	catalog := asymmetricCatalog(t)
	nowMs := testStart.UnixMilli()
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := component.NewEventsState()
	state.ActiveEvents = []component.ActiveEvent{activeAt(catalog, "top", 1, nowMs)}
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "high", 2)}

	_, state = s.ActivateScheduledEvents(2, state)
	assert.ElementsMatch(t, []defs.GlobalEventType{"top", "high"}, activeTypes(state))
}

func TestActivate_SameTypeNeverTwice(t *testing.T) {
	catalog, err := defs.NewEventCatalog([]defs.GlobalEventConfig{
		{Type: "self", Priority: 10, DurationMs: 5000, MinWaveInterval: 1, MaxWaveInterval: 2, CanCoexist: []defs.GlobalEventType{"self"}},
	})
	require.NoError(t, err)
	nowMs := testStart.UnixMilli()
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := component.NewEventsState()
	state.ActiveEvents = []component.ActiveEvent{activeAt(catalog, "self", 1, nowMs)}
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "self", 2)}

	activated, state := s.ActivateScheduledEvents(2, state)
	assert.Empty(t, activated)
	assert.Len(t, state.ActiveEvents, 1)
	assert.Equal(t, 3, state.ScheduledEvents[0].ScheduledWave)
}

func TestActivate_MissingCatalogEntryPanics(t *testing.T) {
	catalog := abCatalog(t)
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := component.NewEventsState()
	state.ScheduledEvents = []component.ScheduledEvent{{Type: "ghost", ScheduledWave: 1}}
	assert.Panics(t, func() { s.ActivateScheduledEvents(1, state) })
}

func TestSchedule_OverdueForcesNextWave(t *testing.T) {
	catalog, err := defs.NewEventCatalog([]defs.GlobalEventConfig{
		{Type: "late", Priority: 10, DurationMs: 1000, MinWaveInterval: 4, MaxWaveInterval: 7},
	})
	require.NoError(t, err)
	s, rec := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{ints: []int{3}})

	state := component.NewEventsState()
	state.LastEventActivations["late"] = 0

	state = s.ScheduleNextEvents(11, state)
	require.Len(t, state.ScheduledEvents, 1)
	assert.Equal(t, 12, state.ScheduledEvents[0].ScheduledWave)
	assert.Len(t, rec.ofType(event.GlobalEventOverdue), 1)
}

func TestSchedule_NotOverdueAtTen(t *testing.T) {
	catalog, err := defs.NewEventCatalog([]defs.GlobalEventConfig{
		{Type: "late", Priority: 10, DurationMs: 1000, MinWaveInterval: 4, MaxWaveInterval: 7},
	})
	require.NoError(t, err)
	s, rec := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{ints: []int{0}})

	state := component.NewEventsState()
	state.LastEventActivations["late"] = 0

	state = s.ScheduleNextEvents(10, state)
	require.Len(t, state.ScheduledEvents, 1)
	// minWait = max(1, 4-10) = 1, maxWait = max(1, 7-10) = 1
	assert.Equal(t, 11, state.ScheduledEvents[0].ScheduledWave)
	assert.Empty(t, rec.ofType(event.GlobalEventOverdue))
}

func TestSchedule_RandomWaitWithinInterval(t *testing.T) {
	catalog := abCatalog(t)
	// A: wavesSince=4, wait in [1, 3]; Intn(3)=2 -> wait 3.
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{ints: []int{2}})

	state := s.ScheduleNextEvents(4, component.NewEventsState())
	require.Len(t, state.ScheduledEvents, 1)
	assert.Equal(t, defs.GlobalEventType("A"), state.ScheduledEvents[0].Type)
	assert.Equal(t, 7, state.ScheduledEvents[0].ScheduledWave)
}

func TestSchedule_SkipsTypesNotYetDue(t *testing.T) {
	catalog := abCatalog(t)
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	state := s.ScheduleNextEvents(3, component.NewEventsState())
	assert.Empty(t, state.ScheduledEvents)

	state = component.NewEventsState()
	state.LastEventActivations["A"] = 10
	state.LastEventActivations["B"] = 10
	state = s.ScheduleNextEvents(12, state)
	assert.Empty(t, state.ScheduledEvents)
}

func TestSchedule_AfterActivationUsesWavesSince(t *testing.T) {
	catalog := abCatalog(t)
	// A last at wave 5, now 9: wavesSince=4, wait in [1, 3]; Intn=0 -> 10.
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{ints: []int{0}})

	state := component.NewEventsState()
	state.LastEventActivations["A"] = 5
	state.LastEventActivations["B"] = 8

	state = s.ScheduleNextEvents(9, state)
	require.Len(t, state.ScheduledEvents, 1)
	assert.Equal(t, 10, state.ScheduledEvents[0].ScheduledWave)
}

func TestSchedule_NoSecondPendingEntry(t *testing.T) {
	catalog := abCatalog(t)
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), utils.NewPRNGService(1))

	state := s.ScheduleNextEvents(6, component.NewEventsState())
	require.Len(t, state.ScheduledEvents, 2)
	first := state.Clone()

	state = s.ScheduleNextEvents(7, state)
	assert.Equal(t, first.ScheduledEvents, state.ScheduledEvents)
}

func TestSchedule_SortsByWave(t *testing.T) {
	catalog := abCatalog(t)
	// A: wait in [1,2], Intn=1 -> 7; B: wait in [1,3], Intn=0 -> 6.
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{ints: []int{1, 0}})

	state := s.ScheduleNextEvents(5, component.NewEventsState())
	require.Len(t, state.ScheduledEvents, 2)
	assert.Equal(t, defs.GlobalEventType("B"), state.ScheduledEvents[0].Type)
	assert.Equal(t, 6, state.ScheduledEvents[0].ScheduledWave)
	assert.Equal(t, defs.GlobalEventType("A"), state.ScheduledEvents[1].Type)
	assert.Equal(t, 7, state.ScheduledEvents[1].ScheduledWave)
}

func TestSchedule_ExpiresFinishedEvents(t *testing.T) {
	catalog := abCatalog(t)
	clk := clock.NewMockTimeProvider(testStart)
	s, rec := newTestScheduler(catalog, clk, &scriptedRand{})

	state := component.NewEventsState()
	state.ActiveEvents = []component.ActiveEvent{
		activeAt(catalog, "A", 1, testStart.UnixMilli()),
		activeAt(catalog, "B", 1, testStart.UnixMilli()),
	}
	state.LastEventActivations["A"] = 1
	state.LastEventActivations["B"] = 1

	clk.Advance(2 * time.Second)
	state = s.ScheduleNextEvents(2, state)
	assert.Equal(t, []defs.GlobalEventType{"B"}, activeTypes(state))
	assert.Len(t, rec.ofType(event.GlobalEventExpired), 1)
}

func TestActiveEventMultipliers(t *testing.T) {
	catalog := defs.DefaultEventCatalog
	clk := clock.NewMockTimeProvider(testStart)
	s, _ := newTestScheduler(catalog, clk, &scriptedRand{})

	empty := s.GetActiveEventMultipliers(component.NewEventsState())
	assert.Equal(t, component.NeutralMultipliers(), empty)

	nowMs := testStart.UnixMilli()
	state := component.NewEventsState()
	state.ActiveEvents = []component.ActiveEvent{
		activeAt(catalog, defs.EventDataFlood, 1, nowMs),
		activeAt(catalog, defs.EventLagSpike, 1, nowMs),
		activeAt(catalog, defs.EventFirewallDown, 1, nowMs),
	}

	m := s.GetActiveEventMultipliers(state)
	assert.InDelta(t, 1.5, m.EnemyCountMultiplier, 1e-9)
	assert.InDelta(t, 1.0, m.EnemyHealthMultiplier, 1e-9)
	assert.InDelta(t, 0.7*1.4, m.EnemySpeedMultiplier, 1e-9)

	// lag_spike истекает через 10s, firewall_down через 12s
	clk.Advance(11 * time.Second)
	m = s.GetActiveEventMultipliers(state)
	assert.InDelta(t, 1.4, m.EnemySpeedMultiplier, 1e-9)
	assert.Len(t, state.ActiveEvents, 3, "multipliers must not mutate state")
}

func TestIsEventActive(t *testing.T) {
	catalog := abCatalog(t)
	clk := clock.NewMockTimeProvider(testStart)
	s, _ := newTestScheduler(catalog, clk, &scriptedRand{})

	state := component.NewEventsState()
	state.ActiveEvents = []component.ActiveEvent{activeAt(catalog, "A", 1, testStart.UnixMilli())}

	assert.True(t, s.IsEventActive("A", state))
	assert.False(t, s.IsEventActive("B", state))
	clk.Advance(2 * time.Second)
	assert.False(t, s.IsEventActive("A", state))
}

func TestApplyEventEffects(t *testing.T) {
	s, _ := newTestScheduler(defs.DefaultEventCatalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})

	tests := []struct {
		eventType defs.GlobalEventType
		kind      defs.EffectKind
		desc      string
	}{
		{defs.EventDiskFormat, defs.EffectClearAllTowers, "clear all towers"},
		{defs.EventMemoryLeak, defs.EffectDegradeTowers, "reduce tower efficiency by 20%"},
		{defs.EventFirewallDown, defs.EffectDisableWalls, "walls stop blocking the path"},
		{defs.EventDataFlood, defs.EffectNone, "no effect"},
		{"unknown", defs.EffectNone, "no effect"},
	}
	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			d := s.ApplyEventEffects(tt.eventType)
			assert.Equal(t, tt.eventType, d.Type)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.desc, d.Description)
		})
	}
}

func TestScheduler_RecordsMetrics(t *testing.T) {
	catalog := abCatalog(t)
	s, _ := newTestScheduler(catalog, clock.NewMockTimeProvider(testStart), &scriptedRand{})
	m := observability.NewMetrics("test", nil)
	s.SetMetrics(m)

	state := component.NewEventsState()
	state.ScheduledEvents = []component.ScheduledEvent{scheduled(catalog, "A", 5), scheduled(catalog, "B", 5)}
	_, state = s.ActivateScheduledEvents(5, state)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsActivated.WithLabelValues("A")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsRescheduled.WithLabelValues("B")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveEvents))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PendingEvents))
}

// Длинный прогон на стандартном каталоге: инварианты держатся на каждой волне.
func TestScheduler_InvariantsOverLongRun(t *testing.T) {
	clk := clock.NewMockTimeProvider(testStart)
	s, _ := newTestScheduler(defs.DefaultEventCatalog, clk, utils.NewPRNGService(20250101))

	state := component.NewEventsState()
	prevActivations := map[defs.GlobalEventType]int{}
	activations := 0

	for wave := 1; wave <= 300; wave++ {
		var activated []defs.GlobalEventConfig
		activated, state = s.ActivateScheduledEvents(wave, state)
		activations += len(activated)
		state = s.ScheduleNextEvents(wave, state)

		seenActive := map[defs.GlobalEventType]bool{}
		for _, a := range state.ActiveEvents {
			require.False(t, seenActive[a.Type], "duplicate active %s at wave %d", a.Type, wave)
			seenActive[a.Type] = true
		}
		seenScheduled := map[defs.GlobalEventType]bool{}
		for i, se := range state.ScheduledEvents {
			require.False(t, seenScheduled[se.Type], "duplicate scheduled %s at wave %d", se.Type, wave)
			seenScheduled[se.Type] = true
			require.Greater(t, se.ScheduledWave, wave)
			if i > 0 {
				require.LessOrEqual(t, state.ScheduledEvents[i-1].ScheduledWave, se.ScheduledWave)
			}
		}
		for typ, w := range state.LastEventActivations {
			require.GreaterOrEqual(t, w, prevActivations[typ])
			prevActivations[typ] = w
		}

		clk.Advance(4 * time.Second)
	}
	assert.Greater(t, activations, 0)
}
