package system

import (
	"io"
	"log"
	"testing"
	"time"
	"wave-director/internal/clock"
	"wave-director/internal/component"
	"wave-director/internal/defs"
	"wave-director/internal/event"
	"wave-director/internal/utils"

	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// scriptedRand returns queued Intn values (mod n) and a fixed Float64.
type scriptedRand struct {
	ints  []int
	float float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	return r.float
}

type recorder struct {
	events []event.Event
}

func (r *recorder) OnEvent(e event.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) ofType(t event.EventType) []event.Event {
	var out []event.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// abCatalog is the two-event catalog used by the A/B scenario.
func abCatalog(t *testing.T) *defs.EventCatalog {
	t.Helper()
	c, err := defs.NewEventCatalog([]defs.GlobalEventConfig{
		{Type: "A", Name: "A", Priority: 100, DurationMs: 2000, MinWaveInterval: 4, MaxWaveInterval: 7},
		{Type: "B", Name: "B", Priority: 80, DurationMs: 3000, MinWaveInterval: 5, MaxWaveInterval: 8},
	})
	require.NoError(t, err)
	return c
}

func newTestScheduler(catalog *defs.EventCatalog, clk clock.Clock, rng utils.RandomSource) (*EventScheduler, *recorder) {
	d := event.NewDispatcher()
	rec := &recorder{}
	d.SubscribeAll(rec)
	s := NewEventScheduler(catalog, clk, rng, d)
	s.SetLogger(log.New(io.Discard, "", 0))
	return s, rec
}

func scheduled(catalog *defs.EventCatalog, t defs.GlobalEventType, wave int) component.ScheduledEvent {
	cfg, _ := catalog.Lookup(t)
	return component.ScheduledEvent{Type: t, ScheduledWave: wave, Config: cfg}
}

func activeAt(catalog *defs.EventCatalog, t defs.GlobalEventType, wave int, startMs int64) component.ActiveEvent {
	cfg, _ := catalog.Lookup(t)
	return component.ActiveEvent{Type: t, StartWave: wave, StartTimeMs: startMs, DurationMs: cfg.DurationMs, Config: cfg}
}

func activeTypes(s component.EventsState) []defs.GlobalEventType {
	var out []defs.GlobalEventType
	for _, a := range s.ActiveEvents {
		out = append(out, a.Type)
	}
	return out
}

func configTypes(cfgs []defs.GlobalEventConfig) []defs.GlobalEventType {
	var out []defs.GlobalEventType
	for _, c := range cfgs {
		out = append(out, c.Type)
	}
	return out
}
