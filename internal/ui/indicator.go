// internal/ui/indicator.go
package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// StateIndicator — кружок режима: пульсирует при каждой новой волне,
// клик по нему запускает следующую волну.
type StateIndicator struct {
	X, Y      float32
	Radius    float32
	LastPulse time.Time
	Now       func() time.Time
}

func NewStateIndicator(x, y, radius float32) *StateIndicator {
	return &StateIndicator{
		X:      x,
		Y:      y,
		Radius: radius,
		Now:    time.Now,
	}
}

// Pulse запускает затухающую анимацию увеличения.
func (i *StateIndicator) Pulse() {
	i.LastPulse = i.Now()
}

// CurrentRadius returns the radius including the pulse.
func (i *StateIndicator) CurrentRadius() float32 {
	elapsed := i.Now().Sub(i.LastPulse).Seconds()
	scale := 1.0 + 0.3*math.Exp(-elapsed*8)
	return i.Radius * float32(scale)
}

// Draw отрисовывает индикатор
func (i *StateIndicator) Draw(screen *ebiten.Image, stateColor color.Color) {
	r := i.CurrentRadius()
	vector.DrawFilledCircle(screen, i.X, i.Y, r, stateColor, true)
	vector.StrokeCircle(screen, i.X, i.Y, r, 1, color.White, true)
}

// IsClicked проверяет, был ли клик внутри индикатора
func (i *StateIndicator) IsClicked(x, y int) bool {
	dx := float64(float32(x) - i.X)
	dy := float64(float32(y) - i.Y)
	return math.Hypot(dx, dy) <= float64(i.Radius)
}
