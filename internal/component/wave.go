// internal/component/wave.go
package component

import "wave-director/internal/defs"

// DifficultyScaling — множители сложности для одной волны.
type DifficultyScaling struct {
	HealthMultiplier float64
	SpeedMultiplier  float64
	RewardMultiplier float64
	CountMultiplier  float64
}

// FormationSelection is the formation chosen for a wave.
type FormationSelection struct {
	Formation     defs.FormationType
	CountModifier float64
	Name          string
	Description   string
}

// EventMultipliers — суммарное влияние активных событий на врагов.
type EventMultipliers struct {
	EnemyCountMultiplier  float64
	EnemyHealthMultiplier float64
	EnemySpeedMultiplier  float64
}

// NeutralMultipliers is the bundle with no event influence.
func NeutralMultipliers() EventMultipliers {
	return EventMultipliers{EnemyCountMultiplier: 1, EnemyHealthMultiplier: 1, EnemySpeedMultiplier: 1}
}

// EffectDescriptor is a declarative change request for the board owner.
type EffectDescriptor struct {
	Type        defs.GlobalEventType
	Kind        defs.EffectKind
	Magnitude   float64
	Description string
}

// WaveSpec — итоговая спецификация волны для спавнера врагов.
type WaveSpec struct {
	Wave             int
	EnemyCount       int
	HealthMultiplier float64
	SpeedMultiplier  float64
	RewardMultiplier float64
	Formation        FormationSelection
	WaveType         defs.WaveTypeConfig
	ActiveEvents     []defs.GlobalEventType
}
