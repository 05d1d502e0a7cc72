// internal/system/wave_type.go
package system

import (
	"wave-director/internal/config"
	"wave-director/internal/defs"
)

// WaveTypePolicy decides which wave type a wave gets.
type WaveTypePolicy interface {
	WaveType(wave int) defs.WaveType
}

// IntervalWaveTypePolicy — особые волны по кратности номера.
// Проверка идёт от самой тяжёлой: цунами, элита, рой.
type IntervalWaveTypePolicy struct {
	TsunamiEvery int
	EliteEvery   int
	SwarmEvery   int
}

func DefaultWaveTypePolicy() IntervalWaveTypePolicy {
	return IntervalWaveTypePolicy{
		TsunamiEvery: config.TsunamiEvery,
		EliteEvery:   config.EliteEvery,
		SwarmEvery:   config.SwarmEvery,
	}
}

func (p IntervalWaveTypePolicy) WaveType(wave int) defs.WaveType {
	if wave <= 0 {
		return defs.WaveStandard
	}
	switch {
	case every(wave, p.TsunamiEvery):
		return defs.WaveTsunami
	case every(wave, p.EliteEvery):
		return defs.WaveElite
	case every(wave, p.SwarmEvery):
		return defs.WaveSwarm
	}
	return defs.WaveStandard
}

func every(wave, n int) bool {
	return n > 0 && wave%n == 0
}

// FixedWaveTypePolicy always returns the same type.
type FixedWaveTypePolicy defs.WaveType

func (p FixedWaveTypePolicy) WaveType(int) defs.WaveType {
	return defs.WaveType(p)
}

// WaveTypeConfigFor resolves the policy choice against the static table.
// Unknown types fall back to standard.
func WaveTypeConfigFor(policy WaveTypePolicy, wave int) defs.WaveTypeConfig {
	if cfg, ok := defs.WaveTypeLibrary[policy.WaveType(wave)]; ok {
		return cfg
	}
	return defs.WaveTypeLibrary[defs.WaveStandard]
}
