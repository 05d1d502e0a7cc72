// internal/defs/events.go
package defs

import "fmt"

// GlobalEventType — тип глобального события.
type GlobalEventType string

const (
	EventDiskFormat   GlobalEventType = "disk_format"
	EventDataFlood    GlobalEventType = "data_flood"
	EventMemoryLeak   GlobalEventType = "memory_leak"
	EventLagSpike     GlobalEventType = "lag_spike"
	EventFirewallDown GlobalEventType = "firewall_down"
)

// EffectKind describes the board-side change an event requests.
type EffectKind string

const (
	EffectNone           EffectKind = "none"
	EffectClearAllTowers EffectKind = "clear_all_towers"
	EffectDegradeTowers  EffectKind = "degrade_towers"
	EffectDisableWalls   EffectKind = "disable_walls"
)

// EventModifiers holds per-axis enemy factors. Zero means the event does not touch that axis.
type EventModifiers struct {
	EnemyCount  float64 `json:"enemy_count,omitempty"`
	EnemyHealth float64 `json:"enemy_health,omitempty"`
	EnemySpeed  float64 `json:"enemy_speed,omitempty"`
}

// GlobalEventConfig holds the static definition of a global event.
type GlobalEventConfig struct {
	Type            GlobalEventType   `json:"type"`
	Name            string            `json:"name"`
	Priority        int               `json:"priority"`
	DurationMs      int               `json:"duration_ms"`
	MinWaveInterval int               `json:"min_wave_interval"`
	MaxWaveInterval int               `json:"max_wave_interval"`
	CanCoexist      []GlobalEventType `json:"can_coexist"`
	Modifiers       EventModifiers    `json:"modifiers"`
	Effect          EffectKind        `json:"effect"`
	EffectMagnitude float64           `json:"effect_magnitude,omitempty"`
	Description     string            `json:"description,omitempty"`
}

// CoexistsWith reports whether other is listed in this event's CanCoexist.
func (c GlobalEventConfig) CoexistsWith(other GlobalEventType) bool {
	for _, t := range c.CanCoexist {
		if t == other {
			return true
		}
	}
	return false
}

// EventCatalog — упорядоченный реестр глобальных событий.
// Порядок объявления используется для разрешения равных приоритетов.
// После создания каталог не изменяется и может читаться из любых горутин.
type EventCatalog struct {
	configs []GlobalEventConfig
	index   map[GlobalEventType]int
}

// NewEventCatalog validates configs and builds a catalog keeping their order.
func NewEventCatalog(configs []GlobalEventConfig) (*EventCatalog, error) {
	c := &EventCatalog{
		configs: make([]GlobalEventConfig, len(configs)),
		index:   make(map[GlobalEventType]int, len(configs)),
	}
	for i, cfg := range configs {
		if cfg.Type == "" {
			return nil, fmt.Errorf("%w: entry %d has empty type", ErrInvalidCatalog, i)
		}
		if _, dup := c.index[cfg.Type]; dup {
			return nil, fmt.Errorf("%w: duplicate type %q", ErrInvalidCatalog, cfg.Type)
		}
		if cfg.MinWaveInterval < 1 || cfg.MaxWaveInterval < cfg.MinWaveInterval {
			return nil, fmt.Errorf("%w: %q has interval [%d, %d]", ErrInvalidCatalog, cfg.Type, cfg.MinWaveInterval, cfg.MaxWaveInterval)
		}
		if cfg.DurationMs <= 0 {
			return nil, fmt.Errorf("%w: %q has non-positive duration %d", ErrInvalidCatalog, cfg.Type, cfg.DurationMs)
		}
		if cfg.Effect == "" {
			cfg.Effect = EffectNone
		}
		cfg.CanCoexist = append([]GlobalEventType(nil), cfg.CanCoexist...)
		c.configs[i] = cfg
		c.index[cfg.Type] = i
	}
	for _, cfg := range c.configs {
		for _, other := range cfg.CanCoexist {
			if _, ok := c.index[other]; !ok {
				return nil, fmt.Errorf("%w: %q coexists with unknown type %q", ErrInvalidCatalog, cfg.Type, other)
			}
		}
	}
	return c, nil
}

// MustEventCatalog is NewEventCatalog that panics on invalid input.
func MustEventCatalog(configs []GlobalEventConfig) *EventCatalog {
	c, err := NewEventCatalog(configs)
	if err != nil {
		panic(err)
	}
	return c
}

// Configs returns a copy of all definitions in declaration order.
func (c *EventCatalog) Configs() []GlobalEventConfig {
	out := make([]GlobalEventConfig, len(c.configs))
	copy(out, c.configs)
	return out
}

// Lookup returns the definition for t.
func (c *EventCatalog) Lookup(t GlobalEventType) (GlobalEventConfig, bool) {
	i, ok := c.index[t]
	if !ok {
		return GlobalEventConfig{}, false
	}
	return c.configs[i], true
}

// Order returns the declaration index of t, or -1 when t is unknown.
func (c *EventCatalog) Order(t GlobalEventType) int {
	if i, ok := c.index[t]; ok {
		return i
	}
	return -1
}

// Len returns the number of definitions.
func (c *EventCatalog) Len() int {
	return len(c.configs)
}

// DefaultEvents — встроенный набор событий мини-игры.
var DefaultEvents = []GlobalEventConfig{
	{
		Type:            EventDiskFormat,
		Name:            "Disk Format",
		Priority:        100,
		DurationMs:      5000,
		MinWaveInterval: 8,
		MaxWaveInterval: 15,
		Effect:          EffectClearAllTowers,
		Description:     "Все башни стираются с поля",
	},
	{
		Type:            EventDataFlood,
		Name:            "Data Flood",
		Priority:        80,
		DurationMs:      15000,
		MinWaveInterval: 4,
		MaxWaveInterval: 7,
		CanCoexist:      []GlobalEventType{EventLagSpike},
		Modifiers:       EventModifiers{EnemyCount: 1.5},
		Effect:          EffectNone,
		Description:     "Поток пакетов: врагов в полтора раза больше",
	},
	{
		Type:            EventFirewallDown,
		Name:            "Firewall Down",
		Priority:        70,
		DurationMs:      12000,
		MinWaveInterval: 6,
		MaxWaveInterval: 10,
		CanCoexist:      []GlobalEventType{EventLagSpike},
		Modifiers:       EventModifiers{EnemySpeed: 1.4},
		Effect:          EffectDisableWalls,
		Description:     "Стены не блокируют путь, враги быстрее",
	},
	{
		Type:            EventMemoryLeak,
		Name:            "Memory Leak",
		Priority:        60,
		DurationMs:      20000,
		MinWaveInterval: 5,
		MaxWaveInterval: 9,
		CanCoexist:      []GlobalEventType{EventDataFlood, EventLagSpike},
		Modifiers:       EventModifiers{EnemyHealth: 1.3},
		Effect:          EffectDegradeTowers,
		EffectMagnitude: 0.2,
		Description:     "Башни теряют 20% эффективности, враги живучее",
	},
	{
		Type:            EventLagSpike,
		Name:            "Lag Spike",
		Priority:        40,
		DurationMs:      10000,
		MinWaveInterval: 3,
		MaxWaveInterval: 6,
		CanCoexist:      []GlobalEventType{EventDataFlood, EventMemoryLeak, EventFirewallDown},
		Modifiers:       EventModifiers{EnemySpeed: 0.7},
		Effect:          EffectNone,
		Description:     "Задержка сети: враги замедляются",
	},
}

// DefaultEventCatalog is built once at startup from DefaultEvents.
var DefaultEventCatalog = MustEventCatalog(DefaultEvents)
