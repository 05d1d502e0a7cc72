// internal/defs/wave_types.go
package defs

// WaveType — вид волны, влияющий на количество и живучесть врагов.
type WaveType string

const (
	WaveStandard WaveType = "standard"
	WaveSwarm    WaveType = "swarm"
	WaveElite    WaveType = "elite"
	WaveTsunami  WaveType = "tsunami"
)

// WaveTypeConfig описывает множители для вида волны.
type WaveTypeConfig struct {
	Type             WaveType `json:"type"`
	Name             string   `json:"name"`
	CountMultiplier  float64  `json:"count_multiplier"`
	HealthMultiplier float64  `json:"health_multiplier"`
}

// WaveTypeLibrary is keyed by wave type.
var WaveTypeLibrary = map[WaveType]WaveTypeConfig{
	WaveStandard: {Type: WaveStandard, Name: "Standard", CountMultiplier: 1.0, HealthMultiplier: 1.0},
	WaveSwarm:    {Type: WaveSwarm, Name: "Swarm", CountMultiplier: 2.0, HealthMultiplier: 0.6},
	WaveElite:    {Type: WaveElite, Name: "Elite", CountMultiplier: 0.5, HealthMultiplier: 2.2},
	WaveTsunami:  {Type: WaveTsunami, Name: "Tsunami", CountMultiplier: 3.0, HealthMultiplier: 1.2},
}
