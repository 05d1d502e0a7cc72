// internal/ui/wave_indicator.go
package ui

import (
	"image/color"
	"strings"
	"wave-director/internal/config"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// WaveIndicator отображает номер текущей волны римскими цифрами.
type WaveIndicator struct {
	X, Y             int
	Color            color.Color
	BossColor        color.Color
	OutlineColor     color.Color
	OutlineThickness int
	BossEvery        int
	face             font.Face
}

// NewWaveIndicator создает новый индикатор волны; X задаёт центр надписи.
func NewWaveIndicator(x, y int, face font.Face) *WaveIndicator {
	return &WaveIndicator{
		X:                x,
		Y:                y,
		Color:            config.WaveColor,
		BossColor:        config.BossWaveColor,
		OutlineColor:     color.White,
		OutlineThickness: 1,
		BossEvery:        config.TsunamiEvery,
		face:             face,
	}
}

// toRoman конвертирует целое число в римское.
func toRoman(num int) string {
	if num <= 0 {
		return ""
	}
	val := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	syb := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}

	var roman strings.Builder
	for i := 0; i < len(val); i++ {
		for num >= val[i] {
			roman.WriteString(syb[i])
			num -= val[i]
		}
	}
	return roman.String()
}

// Label returns the text drawn for wave; empty before the first wave.
func (i *WaveIndicator) Label(wave int) string {
	return toRoman(wave)
}

// ColorFor выбирает цвет: босс-волны выделяются.
func (i *WaveIndicator) ColorFor(wave int) color.Color {
	if i.BossEvery > 0 && wave > 0 && wave%i.BossEvery == 0 {
		return i.BossColor
	}
	return i.Color
}

// Draw отрисовывает индикатор на экране.
func (i *WaveIndicator) Draw(screen *ebiten.Image, wave int) {
	label := i.Label(wave)
	if label == "" {
		return
	}

	bounds := text.BoundString(i.face, label)
	x := i.X - bounds.Dx()/2
	y := i.Y - bounds.Min.Y

	// обводка
	for dy := -i.OutlineThickness; dy <= i.OutlineThickness; dy++ {
		for dx := -i.OutlineThickness; dx <= i.OutlineThickness; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			text.Draw(screen, label, i.face, x+dx, y+dy, i.OutlineColor)
		}
	}
	text.Draw(screen, label, i.face, x, y, i.ColorFor(wave))
}
