// internal/app/director.go
package app

import (
	"encoding/json"
	"fmt"
	"log"
	"wave-director/internal/clock"
	"wave-director/internal/component"
	"wave-director/internal/defs"
	"wave-director/internal/event"
	"wave-director/internal/observability"
	"wave-director/internal/system"
	"wave-director/internal/utils"
)

// Options configures a Director. Zero values select the defaults.
type Options struct {
	Catalog         *defs.EventCatalog
	Clock           clock.Clock
	Rng             utils.RandomSource
	Seed            int64 // используется, если Rng == nil
	FormationPolicy system.FormationPolicy
	WaveTypePolicy  system.WaveTypePolicy
	Dispatcher      *event.Dispatcher
	Metrics         *observability.Metrics
	Logger          *log.Logger
	BaseEnemyCount  int
}

// WaveReport is what the host gets back from one wave.
type WaveReport struct {
	Wave      int
	Activated []defs.GlobalEventConfig
	Effects   []component.EffectDescriptor
	Spec      component.WaveSpec
}

// snapshot is the serialized form of a Director.
type snapshot struct {
	Wave  int             `json:"wave"`
	State json.RawMessage `json:"state"`
}

// Director владеет состоянием событий и прогоняет конвейер волны:
// активация, планирование, сборка. Предназначен для одного потока
// симуляции; остальным потокам отдаются копии через State().
type Director struct {
	Catalog         *defs.EventCatalog
	Scheduler       *system.EventScheduler
	Composer        *system.WaveComposer
	EventDispatcher *event.Dispatcher
	Metrics         *observability.Metrics

	opts   Options
	logger *log.Logger
	wave   int
	state  component.EventsState
}

// NewDirector initializes a director with an empty events state.
func NewDirector(opts Options) *Director {
	if opts.Catalog == nil {
		opts.Catalog = defs.DefaultEventCatalog
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewTimeProvider()
	}
	if opts.Rng == nil {
		opts.Rng = utils.NewPRNGService(opts.Seed)
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = event.NewDispatcher()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	d := &Director{
		Catalog:         opts.Catalog,
		EventDispatcher: opts.Dispatcher,
		Metrics:         opts.Metrics,
		opts:            opts,
		logger:          opts.Logger,
		state:           component.NewEventsState(),
	}
	d.buildSystems()
	return d
}

func (d *Director) buildSystems() {
	d.Scheduler = system.NewEventScheduler(d.opts.Catalog, d.opts.Clock, d.opts.Rng, d.EventDispatcher)
	d.Scheduler.SetLogger(d.logger)
	d.Scheduler.SetMetrics(d.Metrics)

	d.Composer = system.NewWaveComposer(
		d.Scheduler,
		system.NewFormationSelector(d.opts.FormationPolicy),
		d.opts.WaveTypePolicy,
		d.opts.Rng,
		d.EventDispatcher,
	)
	d.Composer.SetLogger(d.logger)
	d.Composer.SetMetrics(d.Metrics)
	if d.opts.BaseEnemyCount > 0 {
		d.Composer.SetBaseCount(d.opts.BaseEnemyCount)
	}
}

// SetRandom swaps the random source used by every subsystem.
func (d *Director) SetRandom(rng utils.RandomSource) {
	d.opts.Rng = rng
	if wp, ok := d.opts.FormationPolicy.(system.WeightedPolicy); ok {
		wp.Rng = rng
		d.opts.FormationPolicy = wp
	}
	d.buildSystems()
}

// Wave returns the last processed wave number, 0 before the first wave.
func (d *Director) Wave() int {
	return d.wave
}

// State returns a copy of the current events state.
func (d *Director) State() component.EventsState {
	return d.state.Clone()
}

// AdvanceWave runs the next wave.
func (d *Director) AdvanceWave() WaveReport {
	return d.RunWave(d.wave + 1)
}

// RunWave runs the wave pipeline for wave. Waves must increase strictly;
// anything else is a caller bug and panics.
func (d *Director) RunWave(wave int) WaveReport {
	if wave <= d.wave {
		panic(fmt.Sprintf("director: wave %d is not after wave %d", wave, d.wave))
	}

	activated, state := d.Scheduler.ActivateScheduledEvents(wave, d.state)
	state = d.Scheduler.ScheduleNextEvents(wave, state)
	spec := d.Composer.ComposeWave(wave, state)

	report := WaveReport{Wave: wave, Activated: activated, Spec: spec}
	for _, cfg := range activated {
		report.Effects = append(report.Effects, d.Scheduler.ApplyEventEffects(cfg.Type))
	}

	d.wave = wave
	d.state = state
	d.logger.Printf("Director: wave %d, %d enemies (%s, %s), active events %v",
		wave, spec.EnemyCount, spec.Formation.Name, spec.WaveType.Name, spec.ActiveEvents)
	return report
}

// Multipliers returns the live event multipliers; safe to call every frame.
func (d *Director) Multipliers() component.EventMultipliers {
	return d.Scheduler.GetActiveEventMultipliers(d.state)
}

// IsEventActive reports whether t is active right now.
func (d *Director) IsEventActive(t defs.GlobalEventType) bool {
	return d.Scheduler.IsEventActive(t, d.state)
}

// Reset replaces the state with a fresh empty one and rewinds to wave 0.
func (d *Director) Reset() {
	d.state = component.NewEventsState()
	d.wave = 0
	d.Metrics.UpdateQueue(0, 0)
	d.EventDispatcher.Dispatch(event.Event{Type: event.DirectorReset})
	d.logger.Println("Director: reset")
}

// Snapshot serializes the wave counter and events state.
func (d *Director) Snapshot() ([]byte, error) {
	state, err := component.EncodeEventsState(d.state)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snapshot{Wave: d.wave, State: state})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal director snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the director state with a snapshot. Every event type in
// the snapshot must exist in the director's catalog; configs embedded in the
// snapshot are replaced with the catalog's, active entries keep the duration
// they started with.
func (d *Director) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to unmarshal director snapshot: %w", err)
	}
	state, err := component.DecodeEventsState(snap.State)
	if err != nil {
		return err
	}
	for i, se := range state.ScheduledEvents {
		cfg, ok := d.Catalog.Lookup(se.Type)
		if !ok {
			return fmt.Errorf("%w: snapshot schedules unknown type %q", defs.ErrInvalidCatalog, se.Type)
		}
		state.ScheduledEvents[i].Config = cfg
	}
	for i, ae := range state.ActiveEvents {
		cfg, ok := d.Catalog.Lookup(ae.Type)
		if !ok {
			return fmt.Errorf("%w: snapshot has unknown active type %q", defs.ErrInvalidCatalog, ae.Type)
		}
		state.ActiveEvents[i].Config = cfg
	}

	d.wave = snap.Wave
	d.state = state
	d.Metrics.UpdateQueue(len(state.ActiveEvents), len(state.ScheduledEvents))
	d.logger.Printf("Director: restored at wave %d", d.wave)
	return nil
}
