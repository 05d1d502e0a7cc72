// internal/system/formation.go
package system

import (
	"fmt"
	"wave-director/internal/component"
	"wave-director/internal/defs"
	"wave-director/internal/utils"
)

// FormationPolicy выбирает построение для волны.
type FormationPolicy interface {
	Select(wave int) defs.FormationType
}

// WaveIndexedPolicy is deterministic: a formation is shown on the wave it
// unlocks, otherwise the unlocked set is cycled by wave number.
type WaveIndexedPolicy struct{}

func (WaveIndexedPolicy) Select(wave int) defs.FormationType {
	unlocked := defs.UnlockedFormations(wave)
	if len(unlocked) == 0 {
		return defs.FormationLine
	}
	newest := unlocked[len(unlocked)-1]
	if newest.UnlockWave == wave {
		return newest.Type
	}
	return unlocked[wave%len(unlocked)].Type
}

// RoundRobinPolicy walks FormationOrder ignoring unlock waves.
type RoundRobinPolicy struct{}

func (RoundRobinPolicy) Select(wave int) defs.FormationType {
	n := len(defs.FormationOrder)
	i := (wave - 1) % n
	if i < 0 {
		i += n
	}
	return defs.FormationOrder[i]
}

// WeightedPolicy picks among unlocked formations by weight.
type WeightedPolicy struct {
	Rng utils.RandomSource
}

func (p WeightedPolicy) Select(wave int) defs.FormationType {
	return utils.ChooseWeighted(p.Rng, defs.UnlockedFormations(wave))
}

// FormationSelector maps a wave to a formation and its static count modifier.
type FormationSelector struct {
	policy FormationPolicy
}

func NewFormationSelector(policy FormationPolicy) *FormationSelector {
	if policy == nil {
		policy = WaveIndexedPolicy{}
	}
	return &FormationSelector{policy: policy}
}

func (f *FormationSelector) SelectFormation(wave int) component.FormationSelection {
	t := f.policy.Select(wave)
	def, ok := defs.FormationLibrary[t]
	if !ok {
		panic(fmt.Sprintf("formation selector: unknown formation %q", t))
	}
	return component.FormationSelection{
		Formation:     def.Type,
		CountModifier: def.CountModifier,
		Name:          def.Name,
		Description:   def.Description,
	}
}
