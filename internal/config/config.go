// internal/config/config.go
package config

import "image/color"

// Сложность: логарифмический рост с циклическим плато.
const (
	HealthScalingBase    = 0.35
	SpeedScalingBase     = 0.12
	RewardScalingBase    = 0.25
	CountScalingBase     = 0.30
	FluctuationIntensity = 0.10 // ±10% шума на каждую ось
	ScalingCap           = 5.0
	LogarithmicBase      = 10.0
	CyclePeriod          = 10   // волн в цикле нарастания/плато
	PlateauReduction     = 0.85 // множитель во второй половине цикла
)

// Сборка волны.
const (
	BaseEnemyCount  = 10
	MinEnemyCount   = 1
	OverdueFactor   = 1.5 // тип считается просроченным после maxWaveInterval*OverdueFactor волн
	RetryWaveOffset = 1   // на сколько волн откладывается событие при конфликте
)

// Вид волны по умолчанию.
const (
	TsunamiEvery = 10
	EliteEvery   = 5
	SwarmEvery   = 3
)

// Окно просмотра.
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	MaxDeltaTime = 0.06
	LineHeight   = 18
	PanelPadding = 16
	MetricsAddr  = "localhost:9108"

	IndicatorOffset  = 40
	IndicatorRadius  = 14
	AutoWaveInterval = 2.0 // секунд между волнами в режиме автопрогона
	SnapshotFile     = "director_snapshot.json"
)

var (
	BackgroundColor = color.RGBA{20, 20, 30, 255}
	TextLightColor  = color.RGBA{240, 240, 240, 255}
	TextDimColor    = color.RGBA{150, 150, 170, 255}
	WaveColor       = color.RGBA{70, 130, 180, 255}
	BossWaveColor   = color.RGBA{220, 60, 60, 255}
	ActiveColor     = color.RGBA{50, 205, 50, 255}
	ScheduledColor  = color.RGBA{255, 215, 0, 255}
	PauseOverlay    = color.RGBA{0, 0, 0, 128}
)
