// internal/defs/formations.go
package defs

// FormationType — схема, по которой враги волны выходят на поле.
type FormationType string

const (
	FormationAmbush    FormationType = "ambush"
	FormationFlanking  FormationType = "flanking"
	FormationGroup     FormationType = "group"
	FormationLine      FormationType = "line"
	FormationPincer    FormationType = "pincer"
	FormationScattered FormationType = "scattered"
	FormationWaves     FormationType = "waves"
)

// FormationDefinition holds the static data for one formation.
type FormationDefinition struct {
	Type          FormationType `json:"type"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	CountModifier float64       `json:"count_modifier"` // 0.8–1.6
	UnlockWave    int           `json:"unlock_wave"`    // первая волна, где построение доступно
	Weight        int           `json:"weight"`         // вес для случайного выбора
}

// FormationOrder — порядок объявления построений.
var FormationOrder = []FormationType{
	FormationLine,
	FormationGroup,
	FormationScattered,
	FormationFlanking,
	FormationAmbush,
	FormationPincer,
	FormationWaves,
}

// FormationLibrary is keyed by formation type.
var FormationLibrary = map[FormationType]FormationDefinition{
	FormationLine: {
		Type: FormationLine, Name: "Line", CountModifier: 1.0, UnlockWave: 1, Weight: 30,
		Description: "Враги идут друг за другом по одному",
	},
	FormationGroup: {
		Type: FormationGroup, Name: "Group", CountModifier: 1.2, UnlockWave: 3, Weight: 25,
		Description: "Плотная группа с общим темпом",
	},
	FormationScattered: {
		Type: FormationScattered, Name: "Scattered", CountModifier: 0.9, UnlockWave: 5, Weight: 20,
		Description: "Разрозненные враги с неровными интервалами",
	},
	FormationFlanking: {
		Type: FormationFlanking, Name: "Flanking", CountModifier: 1.1, UnlockWave: 7, Weight: 15,
		Description: "Две колонны обходят оборону с флангов",
	},
	FormationAmbush: {
		Type: FormationAmbush, Name: "Ambush", CountModifier: 0.8, UnlockWave: 9, Weight: 10,
		Description: "Пауза, затем резкий выброс всех врагов",
	},
	FormationPincer: {
		Type: FormationPincer, Name: "Pincer", CountModifier: 1.3, UnlockWave: 12, Weight: 10,
		Description: "Клещи: одновременный выход двумя группами",
	},
	FormationWaves: {
		Type: FormationWaves, Name: "Waves", CountModifier: 1.6, UnlockWave: 15, Weight: 5,
		Description: "Несколько подволн подряд с короткими перерывами",
	},
}

// UnlockedFormations returns the formations available at wave, in declaration order.
func UnlockedFormations(wave int) []FormationDefinition {
	var out []FormationDefinition
	for _, t := range FormationOrder {
		def := FormationLibrary[t]
		if wave >= def.UnlockWave {
			out = append(out, def)
		}
	}
	return out
}
