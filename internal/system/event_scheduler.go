// internal/system/event_scheduler.go
package system

import (
	"fmt"
	"log"
	"sort"
	"wave-director/internal/clock"
	"wave-director/internal/component"
	"wave-director/internal/config"
	"wave-director/internal/defs"
	"wave-director/internal/event"
	"wave-director/internal/observability"
	"wave-director/internal/utils"
)

// EventScheduler решает, какие глобальные события запланированы и активны.
// Планирование идёт по номеру волны, истечение — по реальному времени из clock.
// Сам планировщик состояния не хранит: каждая операция принимает EventsState
// и возвращает новое значение.
type EventScheduler struct {
	catalog         *defs.EventCatalog
	clock           clock.Clock
	rng             utils.RandomSource
	eventDispatcher *event.Dispatcher
	metrics         *observability.Metrics
	logger          *log.Logger
}

func NewEventScheduler(catalog *defs.EventCatalog, clk clock.Clock, rng utils.RandomSource, eventDispatcher *event.Dispatcher) *EventScheduler {
	if catalog == nil {
		catalog = defs.DefaultEventCatalog
	}
	return &EventScheduler{
		catalog:         catalog,
		clock:           clk,
		rng:             rng,
		eventDispatcher: eventDispatcher,
		logger:          log.Default(),
	}
}

// SetLogger replaces the diagnostics logger.
func (s *EventScheduler) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetMetrics attaches a metrics sink; nil disables metrics.
func (s *EventScheduler) SetMetrics(m *observability.Metrics) {
	s.metrics = m
}

// Catalog returns the catalog the scheduler plans from.
func (s *EventScheduler) Catalog() *defs.EventCatalog {
	return s.catalog
}

// ActivateScheduledEvents activates the events scheduled for currentWave in
// priority order. Candidates that conflict with a live active event are moved
// to the next wave. The returned configs are the ones activated in this pass.
func (s *EventScheduler) ActivateScheduledEvents(currentWave int, state component.EventsState) ([]defs.GlobalEventConfig, component.EventsState) {
	var candidates []component.ScheduledEvent
	for _, se := range state.ScheduledEvents {
		if se.ScheduledWave == currentWave {
			candidates = append(candidates, se)
		}
	}
	if len(candidates) == 0 {
		return nil, state
	}

	next := state.Clone()
	nowMs := clock.NowMs(s.clock)
	// Истёкшие события больше не мешают активации.
	next.ActiveEvents = s.expire(currentWave, next.ActiveEvents, nowMs)

	sort.SliceStable(candidates, func(i, j int) bool {
		pi := s.mustLookup(candidates[i].Type).Priority
		pj := s.mustLookup(candidates[j].Type).Priority
		if pi != pj {
			return pi > pj
		}
		return s.catalog.Order(candidates[i].Type) < s.catalog.Order(candidates[j].Type)
	})

	activated := make(map[defs.GlobalEventType]bool, len(candidates))
	blocked := make(map[defs.GlobalEventType]bool)
	var result []defs.GlobalEventConfig

	for _, candidate := range candidates {
		cfg := s.mustLookup(candidate.Type)

		if !canActivate(cfg, next.ActiveEvents) {
			blocked[cfg.Type] = true
			retry := currentWave + config.RetryWaveOffset
			s.logger.Printf("EventScheduler: %s blocked at wave %d, retry at wave %d", cfg.Type, currentWave, retry)
			s.metrics.RecordRescheduled(string(cfg.Type))
			s.eventDispatcher.Dispatch(event.Event{
				Type: event.GlobalEventRescheduled,
				Wave: currentWave,
				Data: event.GlobalEventPayload{Config: cfg, ScheduledWave: retry},
			})
			continue
		}

		next.ActiveEvents = append(next.ActiveEvents, component.ActiveEvent{
			Type:        cfg.Type,
			StartWave:   currentWave,
			StartTimeMs: nowMs,
			DurationMs:  cfg.DurationMs,
			Config:      cfg,
		})
		if prev, ok := next.LastEventActivations[cfg.Type]; !ok || currentWave > prev {
			next.LastEventActivations[cfg.Type] = currentWave
		}
		next.LastEventWave = currentWave
		next.ActiveEvents = s.evictLowerPriority(currentWave, cfg, next.ActiveEvents)

		activated[cfg.Type] = true
		result = append(result, cfg)
		s.logger.Printf("EventScheduler: %s activated at wave %d for %dms", cfg.Type, currentWave, cfg.DurationMs)
		s.metrics.RecordActivated(string(cfg.Type))
		s.eventDispatcher.Dispatch(event.Event{
			Type: event.GlobalEventActivated,
			Wave: currentWave,
			Data: event.GlobalEventPayload{Config: cfg, ScheduledWave: currentWave},
		})
	}

	scheduled := make([]component.ScheduledEvent, 0, len(next.ScheduledEvents))
	for _, se := range next.ScheduledEvents {
		if se.ScheduledWave == currentWave {
			if activated[se.Type] {
				continue
			}
			if blocked[se.Type] {
				se.ScheduledWave = currentWave + config.RetryWaveOffset
			}
		}
		scheduled = append(scheduled, se)
	}
	sortByWave(scheduled)
	next.ScheduledEvents = scheduled

	s.metrics.UpdateQueue(len(next.ActiveEvents), len(next.ScheduledEvents))
	return result, next
}

// canActivate: активных нет, либо с каждым живым активным событием
// разрешено сосуществование хотя бы в одну сторону. Тот же тип не активируется повторно.
func canActivate(candidate defs.GlobalEventConfig, active []component.ActiveEvent) bool {
	for _, a := range active {
		if a.Type == candidate.Type {
			return false
		}
		if !a.Config.CoexistsWith(candidate.Type) && !candidate.CoexistsWith(a.Type) {
			return false
		}
	}
	return true
}

// evictLowerPriority removes active events of another type that the candidate
// does not list as coexisting and whose priority is strictly lower.
// Conflicting events with equal or higher priority stay.
func (s *EventScheduler) evictLowerPriority(currentWave int, candidate defs.GlobalEventConfig, active []component.ActiveEvent) []component.ActiveEvent {
	kept := make([]component.ActiveEvent, 0, len(active))
	for _, a := range active {
		if a.Type != candidate.Type && !candidate.CoexistsWith(a.Type) && a.Config.Priority < candidate.Priority {
			s.logger.Printf("EventScheduler: %s evicted by %s at wave %d", a.Type, candidate.Type, currentWave)
			s.metrics.RecordEvicted(string(a.Type))
			s.eventDispatcher.Dispatch(event.Event{
				Type: event.GlobalEventEvicted,
				Wave: currentWave,
				Data: event.GlobalEventPayload{Config: a.Config, By: candidate.Type},
			})
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// ScheduleNextEvents expires finished events and plans every catalog type
// that has no pending entry and is due or overdue.
func (s *EventScheduler) ScheduleNextEvents(currentWave int, state component.EventsState) component.EventsState {
	next := state.Clone()
	next.ActiveEvents = s.expire(currentWave, next.ActiveEvents, clock.NowMs(s.clock))

	for _, cfg := range s.catalog.Configs() {
		if _, pending := next.PendingFor(cfg.Type); pending {
			continue
		}

		last, activatedBefore := next.LastEventActivations[cfg.Type]
		wavesSince := currentWave - last
		shouldSchedule := wavesSince >= cfg.MinWaveInterval || (!activatedBefore && currentWave >= cfg.MinWaveInterval)
		isOverdue := float64(wavesSince) >= float64(cfg.MaxWaveInterval)*config.OverdueFactor
		if !shouldSchedule && !isOverdue {
			continue
		}

		scheduledWave := 0
		if isOverdue {
			scheduledWave = currentWave + 1
			s.logger.Printf("EventScheduler: override, %s overdue (%d waves since last), forced to wave %d", cfg.Type, wavesSince, scheduledWave)
			s.eventDispatcher.Dispatch(event.Event{
				Type: event.GlobalEventOverdue,
				Wave: currentWave,
				Data: event.GlobalEventPayload{Config: cfg, ScheduledWave: scheduledWave},
			})
		} else {
			minWait := utils.MaxInt(1, cfg.MinWaveInterval-wavesSince)
			maxWait := utils.MaxInt(minWait, cfg.MaxWaveInterval-wavesSince)
			scheduledWave = currentWave + utils.IntRange(s.rng, minWait, maxWait)
		}

		next.ScheduledEvents = append(next.ScheduledEvents, component.ScheduledEvent{
			Type:          cfg.Type,
			ScheduledWave: scheduledWave,
			Config:        cfg,
		})
		s.metrics.RecordScheduled(string(cfg.Type), isOverdue)
		s.eventDispatcher.Dispatch(event.Event{
			Type: event.GlobalEventScheduled,
			Wave: currentWave,
			Data: event.GlobalEventPayload{Config: cfg, ScheduledWave: scheduledWave},
		})
	}

	sortByWave(next.ScheduledEvents)
	s.metrics.UpdateQueue(len(next.ActiveEvents), len(next.ScheduledEvents))
	return next
}

// GetActiveEventMultipliers multiplies the per-axis factors of all live events.
// It only reads state and may be called on any render tick.
func (s *EventScheduler) GetActiveEventMultipliers(state component.EventsState) component.EventMultipliers {
	m := component.NeutralMultipliers()
	for _, a := range state.LiveEvents(clock.NowMs(s.clock)) {
		mod := a.Config.Modifiers
		if mod.EnemyCount != 0 {
			m.EnemyCountMultiplier *= mod.EnemyCount
		}
		if mod.EnemyHealth != 0 {
			m.EnemyHealthMultiplier *= mod.EnemyHealth
		}
		if mod.EnemySpeed != 0 {
			m.EnemySpeedMultiplier *= mod.EnemySpeed
		}
	}
	return m
}

// IsEventActive reports whether an unexpired event of type t is active.
func (s *EventScheduler) IsEventActive(t defs.GlobalEventType, state component.EventsState) bool {
	_, ok := state.ActiveFor(t, clock.NowMs(s.clock))
	return ok
}

// ApplyEventEffects returns the board change requested by t. The scheduler
// never touches towers itself; the board owner applies the descriptor.
// Unknown types map to EffectNone.
func (s *EventScheduler) ApplyEventEffects(t defs.GlobalEventType) component.EffectDescriptor {
	cfg, ok := s.catalog.Lookup(t)
	if !ok {
		return component.EffectDescriptor{Type: t, Kind: defs.EffectNone, Description: "no effect"}
	}
	d := component.EffectDescriptor{Type: t, Kind: cfg.Effect, Magnitude: cfg.EffectMagnitude}
	switch cfg.Effect {
	case defs.EffectClearAllTowers:
		d.Description = "clear all towers"
	case defs.EffectDegradeTowers:
		d.Description = fmt.Sprintf("reduce tower efficiency by %.0f%%", cfg.EffectMagnitude*100)
	case defs.EffectDisableWalls:
		d.Description = "walls stop blocking the path"
	default:
		d.Kind = defs.EffectNone
		d.Description = "no effect"
	}
	return d
}

func (s *EventScheduler) expire(currentWave int, active []component.ActiveEvent, nowMs int64) []component.ActiveEvent {
	kept := make([]component.ActiveEvent, 0, len(active))
	for _, a := range active {
		if a.Expired(nowMs) {
			s.metrics.RecordExpired(string(a.Type))
			s.eventDispatcher.Dispatch(event.Event{
				Type: event.GlobalEventExpired,
				Wave: currentWave,
				Data: event.GlobalEventPayload{Config: a.Config},
			})
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// mustLookup panics on a type missing from the catalog; with a static catalog
// this means the state was built from a different catalog.
func (s *EventScheduler) mustLookup(t defs.GlobalEventType) defs.GlobalEventConfig {
	cfg, ok := s.catalog.Lookup(t)
	if !ok {
		panic(fmt.Sprintf("event scheduler: type %q is not in the catalog", t))
	}
	return cfg
}

func sortByWave(events []component.ScheduledEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ScheduledWave < events[j].ScheduledWave
	})
}
