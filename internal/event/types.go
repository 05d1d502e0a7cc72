// internal/event/types.go
package event

import "wave-director/internal/defs"

const (
	GlobalEventActivated   EventType = "GlobalEventActivated"   // событие стало активным
	GlobalEventRescheduled EventType = "GlobalEventRescheduled" // конфликт, перенос на следующую волну
	GlobalEventScheduled   EventType = "GlobalEventScheduled"   // запланировано на будущую волну
	GlobalEventOverdue     EventType = "GlobalEventOverdue"     // принудительное планирование
	GlobalEventEvicted     EventType = "GlobalEventEvicted"     // вытеснено более приоритетным
	GlobalEventExpired     EventType = "GlobalEventExpired"     // истекло по реальному времени
	WaveComposed           EventType = "WaveComposed"
	DirectorReset          EventType = "DirectorReset"
)

// AllTypes lists every notification the director emits.
var AllTypes = []EventType{
	GlobalEventActivated,
	GlobalEventRescheduled,
	GlobalEventScheduled,
	GlobalEventOverdue,
	GlobalEventEvicted,
	GlobalEventExpired,
	WaveComposed,
	DirectorReset,
}

// GlobalEventPayload is carried by all GlobalEvent* notifications.
type GlobalEventPayload struct {
	Config        defs.GlobalEventConfig
	ScheduledWave int                  // для Scheduled/Rescheduled/Overdue
	By            defs.GlobalEventType // для Evicted: кто вытеснил
}
