// internal/ui/info_panel.go
package ui

import (
	"fmt"
	"image"
	"math"
	"strings"
	"wave-director/internal/component"
	"wave-director/internal/config"
	"wave-director/internal/defs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

const (
	InfoPanelHeight = 150
	animationSpeed  = 10.0
	columnSpacing   = 300
)

// InfoPanel выезжает снизу и показывает состав последней собранной волны.
type InfoPanel struct {
	IsVisible bool
	fontFace  font.Face
	currentY  float64
	targetY   float64
	spec      component.WaveSpec
	effects   []component.EffectDescriptor
}

// NewInfoPanel creates a hidden panel.
func NewInfoPanel(face font.Face) *InfoPanel {
	return &InfoPanel{
		fontFace: face,
		currentY: config.ScreenHeight,
		targetY:  config.ScreenHeight,
	}
}

// Show sets the wave being displayed and slides the panel in.
func (p *InfoPanel) Show(spec component.WaveSpec, effects []component.EffectDescriptor) {
	p.spec = spec
	p.effects = effects
	p.IsVisible = true
	p.targetY = config.ScreenHeight - InfoPanelHeight
}

func (p *InfoPanel) Hide() {
	p.targetY = config.ScreenHeight
}

func (p *InfoPanel) Update() {
	if p.currentY == p.targetY {
		return
	}
	diff := p.targetY - p.currentY
	if math.Abs(diff) < animationSpeed {
		p.currentY = p.targetY
	} else if diff > 0 {
		p.currentY += animationSpeed
	} else {
		p.currentY -= animationSpeed
	}
	if p.currentY >= config.ScreenHeight {
		p.IsVisible = false
	}
}

// Columns returns the two text columns for the displayed wave.
func (p *InfoPanel) Columns() (left, right []string) {
	s := p.spec
	left = []string{
		fmt.Sprintf("Wave %d: %s", s.Wave, s.WaveType.Name),
		fmt.Sprintf("Enemies: %d", s.EnemyCount),
		fmt.Sprintf("Health x%.2f  Speed x%.2f", s.HealthMultiplier, s.SpeedMultiplier),
		fmt.Sprintf("Reward x%.2f", s.RewardMultiplier),
	}

	right = []string{fmt.Sprintf("Formation: %s", s.Formation.Name)}
	if s.Formation.Description != "" {
		right = append(right, "  "+s.Formation.Description)
	}
	if len(s.ActiveEvents) > 0 {
		names := make([]string, len(s.ActiveEvents))
		for i, t := range s.ActiveEvents {
			names[i] = string(t)
		}
		right = append(right, "Events: "+strings.Join(names, ", "))
	}
	for _, e := range p.effects {
		if e.Kind == defs.EffectNone {
			continue
		}
		right = append(right, fmt.Sprintf("! %s: %s", e.Type, e.Description))
	}
	return left, right
}

func (p *InfoPanel) Draw(screen *ebiten.Image) {
	if !p.IsVisible && p.currentY >= config.ScreenHeight {
		return
	}

	panelRect := image.Rect(
		panelMargin,
		int(p.currentY)+panelMargin,
		config.ScreenWidth-panelMargin,
		int(p.currentY)+InfoPanelHeight-panelMargin,
	)
	vector.DrawFilledRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), panelBgColor, true)
	vector.StrokeRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), 2, panelBorderColor, true)

	left, right := p.Columns()
	x := panelRect.Min.X + 15
	y := panelRect.Min.Y + 15
	for i, line := range left {
		text.Draw(screen, line, p.fontFace, x, y+(i+1)*config.LineHeight, config.TextLightColor)
	}
	for i, line := range right {
		text.Draw(screen, line, p.fontFace, x+columnSpacing, y+(i+1)*config.LineHeight, config.TextLightColor)
	}
}
