// internal/ui/event_panel.go
package ui

import (
	"fmt"
	"image/color"
	"wave-director/internal/component"
	"wave-director/internal/config"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

const (
	barHeight   = 4
	panelMargin = 5
)

var (
	panelBgColor     = color.RGBA{R: 25, G: 35, B: 45, A: 230}
	panelBorderColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
)

// EventLine — одна строка панели событий.
type EventLine struct {
	Text     string
	Color    color.Color
	Progress float64 // доля оставшегося времени; отрицательное значение отключает полосу
}

// EventPanel показывает активные глобальные события с остатком времени и
// очередь запланированных.
type EventPanel struct {
	X, Y, Width int
	face        font.Face
}

func NewEventPanel(x, y, width int, face font.Face) *EventPanel {
	return &EventPanel{X: x, Y: y, Width: width, face: face}
}

// Lines builds the panel content for the given state.
func (p *EventPanel) Lines(state component.EventsState, wave int, nowMs int64) []EventLine {
	lines := []EventLine{{Text: "ACTIVE", Color: config.TextDimColor, Progress: -1}}
	live := state.LiveEvents(nowMs)
	if len(live) == 0 {
		lines = append(lines, EventLine{Text: "  none", Color: config.TextDimColor, Progress: -1})
	}
	for _, a := range live {
		remaining := a.RemainingMs(nowMs)
		lines = append(lines, EventLine{
			Text:     fmt.Sprintf("  %s  p%d  %.1fs", a.Config.Name, a.Config.Priority, float64(remaining)/1000),
			Color:    config.ActiveColor,
			Progress: float64(remaining) / float64(a.DurationMs),
		})
	}

	lines = append(lines, EventLine{Text: "SCHEDULED", Color: config.TextDimColor, Progress: -1})
	for _, se := range state.ScheduledEvents {
		in := se.ScheduledWave - wave
		lines = append(lines, EventLine{
			Text:     fmt.Sprintf("  %s  wave %d (+%d)", se.Config.Name, se.ScheduledWave, in),
			Color:    config.ScheduledColor,
			Progress: -1,
		})
	}
	return lines
}

func (p *EventPanel) Draw(screen *ebiten.Image, state component.EventsState, wave int, nowMs int64) {
	lines := p.Lines(state, wave, nowMs)
	height := len(lines)*config.LineHeight + 2*config.PanelPadding

	vector.DrawFilledRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(height), panelBgColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(height), 2, panelBorderColor, true)

	x := p.X + config.PanelPadding
	y := p.Y + config.PanelPadding
	barWidth := float32(p.Width - 2*config.PanelPadding)
	for _, line := range lines {
		text.Draw(screen, line.Text, p.face, x, y+config.LineHeight-panelMargin, line.Color)
		if line.Progress >= 0 {
			by := float32(y + config.LineHeight - barHeight)
			vector.DrawFilledRect(screen, float32(x), by, barWidth, barHeight, config.TextDimColor, false)
			vector.DrawFilledRect(screen, float32(x), by, barWidth*float32(line.Progress), barHeight, line.Color, false)
		}
		y += config.LineHeight
	}
}
