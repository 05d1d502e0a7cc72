// internal/system/difficulty.go
package system

import (
	"math"
	"wave-director/internal/component"
	"wave-director/internal/config"
	"wave-director/internal/utils"
)

// DifficultyConfig — параметры кривой сложности.
type DifficultyConfig struct {
	HealthBase           float64
	SpeedBase            float64
	RewardBase           float64
	CountBase            float64
	FluctuationIntensity float64
	ScalingCap           float64
	LogarithmicBase      float64
	CyclePeriod          int
	PlateauReduction     float64
}

// DefaultDifficultyConfig returns the constants from the config package.
func DefaultDifficultyConfig() DifficultyConfig {
	return DifficultyConfig{
		HealthBase:           config.HealthScalingBase,
		SpeedBase:            config.SpeedScalingBase,
		RewardBase:           config.RewardScalingBase,
		CountBase:            config.CountScalingBase,
		FluctuationIntensity: config.FluctuationIntensity,
		ScalingCap:           config.ScalingCap,
		LogarithmicBase:      config.LogarithmicBase,
		CyclePeriod:          config.CyclePeriod,
		PlateauReduction:     config.PlateauReduction,
	}
}

// ComputeScaling uses the default curve.
func ComputeScaling(wave int, rng utils.RandomSource) component.DifficultyScaling {
	return DefaultDifficultyConfig().ComputeScaling(wave, rng)
}

// ComputeScaling maps wave to four multipliers:
//
//	min(cap, 1 + base * ln(1 + wave/logBase) * phase(wave) * (1 + noise))
//
// noise is drawn from rng once per axis in the order health, speed, reward, count.
func (c DifficultyConfig) ComputeScaling(wave int, rng utils.RandomSource) component.DifficultyScaling {
	growth := math.Log(1 + float64(wave)/c.LogarithmicBase)
	phase := c.CyclePhaseFactor(wave)

	axis := func(base float64) float64 {
		noise := utils.Uniform(rng, -c.FluctuationIntensity, c.FluctuationIntensity)
		return math.Min(c.ScalingCap, 1+base*growth*phase*(1+noise))
	}

	return component.DifficultyScaling{
		HealthMultiplier: axis(c.HealthBase),
		SpeedMultiplier:  axis(c.SpeedBase),
		RewardMultiplier: axis(c.RewardBase),
		CountMultiplier:  axis(c.CountBase),
	}
}

// CyclePhaseFactor — во второй половине каждого цикла рост приглушается.
func (c DifficultyConfig) CyclePhaseFactor(wave int) float64 {
	if c.CyclePeriod <= 0 {
		return 1.0
	}
	if float64(wave%c.CyclePeriod) >= float64(c.CyclePeriod)/2 {
		return c.PlateauReduction
	}
	return 1.0
}
