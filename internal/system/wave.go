// internal/system/wave.go
package system

import (
	"log"
	"wave-director/internal/component"
	"wave-director/internal/config"
	"wave-director/internal/defs"
	"wave-director/internal/event"
	"wave-director/internal/observability"
	"wave-director/internal/utils"
)

// WaveComposer собирает итоговую спецификацию волны из кривой сложности,
// построения, активных событий и вида волны.
type WaveComposer struct {
	scheduler       *EventScheduler
	formations      *FormationSelector
	waveTypes       WaveTypePolicy
	difficulty      DifficultyConfig
	rng             utils.RandomSource
	eventDispatcher *event.Dispatcher
	metrics         *observability.Metrics
	logger          *log.Logger
	baseCount       int
}

func NewWaveComposer(scheduler *EventScheduler, formations *FormationSelector, waveTypes WaveTypePolicy, rng utils.RandomSource, eventDispatcher *event.Dispatcher) *WaveComposer {
	if formations == nil {
		formations = NewFormationSelector(nil)
	}
	if waveTypes == nil {
		waveTypes = DefaultWaveTypePolicy()
	}
	return &WaveComposer{
		scheduler:       scheduler,
		formations:      formations,
		waveTypes:       waveTypes,
		difficulty:      DefaultDifficultyConfig(),
		rng:             rng,
		eventDispatcher: eventDispatcher,
		logger:          log.Default(),
		baseCount:       config.BaseEnemyCount,
	}
}

// SetDifficulty replaces the difficulty curve parameters.
func (c *WaveComposer) SetDifficulty(cfg DifficultyConfig) {
	c.difficulty = cfg
}

// SetLogger replaces the diagnostics logger.
func (c *WaveComposer) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetBaseCount sets the enemy count before multipliers.
func (c *WaveComposer) SetBaseCount(n int) {
	if n < config.MinEnemyCount {
		c.logger.Printf("WaveComposer: base count %d below minimum, using %d", n, config.MinEnemyCount)
		n = config.MinEnemyCount
	}
	c.baseCount = n
}

// SetMetrics attaches a metrics sink; nil disables metrics.
func (c *WaveComposer) SetMetrics(m *observability.Metrics) {
	c.metrics = m
}

// ComposeWave computes the spawn spec for wave. state is only read.
func (c *WaveComposer) ComposeWave(wave int, state component.EventsState) component.WaveSpec {
	difficulty := c.difficulty.ComputeScaling(wave, c.rng)
	formation := c.formations.SelectFormation(wave)
	events := c.scheduler.GetActiveEventMultipliers(state)
	waveType := WaveTypeConfigFor(c.waveTypes, wave)

	spec := Compose(wave, c.baseCount, difficulty, formation, events, waveType)
	for _, a := range state.ActiveEvents {
		if c.scheduler.IsEventActive(a.Type, state) {
			spec.ActiveEvents = append(spec.ActiveEvents, a.Type)
		}
	}

	c.metrics.RecordWave(wave, spec.EnemyCount, spec.HealthMultiplier)
	c.eventDispatcher.Dispatch(event.Event{Type: event.WaveComposed, Wave: wave, Data: spec})
	return spec
}

// Compose merges already computed inputs; it has no side effects.
func Compose(wave, baseCount int, difficulty component.DifficultyScaling, formation component.FormationSelection, events component.EventMultipliers, waveType defs.WaveTypeConfig) component.WaveSpec {
	count := float64(baseCount) *
		difficulty.CountMultiplier *
		formation.CountModifier *
		events.EnemyCountMultiplier *
		waveType.CountMultiplier

	return component.WaveSpec{
		Wave:             wave,
		EnemyCount:       utils.RoundClamp(count, config.MinEnemyCount),
		HealthMultiplier: difficulty.HealthMultiplier * events.EnemyHealthMultiplier * waveType.HealthMultiplier,
		SpeedMultiplier:  difficulty.SpeedMultiplier * events.EnemySpeedMultiplier,
		RewardMultiplier: difficulty.RewardMultiplier,
		Formation:        formation,
		WaveType:         waveType,
	}
}
