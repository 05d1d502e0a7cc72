// internal/component/events_state.go
package component

import (
	"encoding/json"
	"fmt"
	"wave-director/internal/defs"
)

// ScheduledEvent — событие, запланированное на конкретную волну.
type ScheduledEvent struct {
	Type          defs.GlobalEventType   `json:"type"`
	ScheduledWave int                    `json:"scheduled_wave"`
	Config        defs.GlobalEventConfig `json:"config"`
}

// ActiveEvent — активированное событие. Живёт DurationMs реального времени
// независимо от того, сколько волн прошло.
type ActiveEvent struct {
	Type        defs.GlobalEventType   `json:"type"`
	StartWave   int                    `json:"start_wave"`
	StartTimeMs int64                  `json:"start_time_ms"`
	DurationMs  int                    `json:"duration_ms"`
	Config      defs.GlobalEventConfig `json:"config"`
}

// Expired reports whether the event has run its full duration at nowMs.
func (a ActiveEvent) Expired(nowMs int64) bool {
	return nowMs-a.StartTimeMs >= int64(a.DurationMs)
}

// RemainingMs returns the time left before expiry, never negative.
func (a ActiveEvent) RemainingMs(nowMs int64) int64 {
	left := int64(a.DurationMs) - (nowMs - a.StartTimeMs)
	if left < 0 {
		return 0
	}
	return left
}

// EventsState is the scheduler aggregate. Scheduler operations never modify
// a state they receive; they return a new one.
type EventsState struct {
	ScheduledEvents      []ScheduledEvent             `json:"scheduled_events"`
	ActiveEvents         []ActiveEvent                `json:"active_events"`
	LastEventWave        int                          `json:"last_event_wave"`
	LastEventActivations map[defs.GlobalEventType]int `json:"last_event_activations"`
}

// NewEventsState создаёт пустое состояние для начала симуляции.
func NewEventsState() EventsState {
	return EventsState{
		ScheduledEvents:      []ScheduledEvent{},
		ActiveEvents:         []ActiveEvent{},
		LastEventActivations: make(map[defs.GlobalEventType]int),
	}
}

// Clone returns a deep copy. Catalog configs are immutable and stay shared.
func (s EventsState) Clone() EventsState {
	out := EventsState{
		ScheduledEvents:      make([]ScheduledEvent, len(s.ScheduledEvents)),
		ActiveEvents:         make([]ActiveEvent, len(s.ActiveEvents)),
		LastEventWave:        s.LastEventWave,
		LastEventActivations: make(map[defs.GlobalEventType]int, len(s.LastEventActivations)),
	}
	copy(out.ScheduledEvents, s.ScheduledEvents)
	copy(out.ActiveEvents, s.ActiveEvents)
	for t, w := range s.LastEventActivations {
		out.LastEventActivations[t] = w
	}
	return out
}

// PendingFor returns the pending scheduled event of type t, if any.
func (s EventsState) PendingFor(t defs.GlobalEventType) (ScheduledEvent, bool) {
	for _, se := range s.ScheduledEvents {
		if se.Type == t {
			return se, true
		}
	}
	return ScheduledEvent{}, false
}

// ActiveFor returns the active entry of type t that has not expired at nowMs.
func (s EventsState) ActiveFor(t defs.GlobalEventType, nowMs int64) (ActiveEvent, bool) {
	for _, ae := range s.ActiveEvents {
		if ae.Type == t && !ae.Expired(nowMs) {
			return ae, true
		}
	}
	return ActiveEvent{}, false
}

// LiveEvents returns the active entries that have not expired at nowMs.
func (s EventsState) LiveEvents(nowMs int64) []ActiveEvent {
	var live []ActiveEvent
	for _, ae := range s.ActiveEvents {
		if !ae.Expired(nowMs) {
			live = append(live, ae)
		}
	}
	return live
}

// EncodeEventsState serializes the state for snapshots.
func EncodeEventsState(s EventsState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal events state: %w", err)
	}
	return data, nil
}

// DecodeEventsState restores a state produced by EncodeEventsState.
func DecodeEventsState(data []byte) (EventsState, error) {
	var s EventsState
	if err := json.Unmarshal(data, &s); err != nil {
		return EventsState{}, fmt.Errorf("failed to unmarshal events state: %w", err)
	}
	if s.ScheduledEvents == nil {
		s.ScheduledEvents = []ScheduledEvent{}
	}
	if s.ActiveEvents == nil {
		s.ActiveEvents = []ActiveEvent{}
	}
	if s.LastEventActivations == nil {
		s.LastEventActivations = make(map[defs.GlobalEventType]int)
	}
	return s, nil
}
