// internal/state/director_state.go
package state

import (
	"fmt"
	"log"
	"os"
	"wave-director/internal/app"
	"wave-director/internal/clock"
	"wave-director/internal/config"
	"wave-director/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/font"
)

// Command — действие пользователя на экране директора.
type Command int

const (
	CommandNone Command = iota
	CommandAdvance
	CommandToggleAuto
	CommandReset
	CommandSnapshot
	CommandRestore
	CommandPause
)

const helpText = "SPACE/click next wave  A auto  R reset  S save  L load  P pause"

var _ State = (*DirectorState)(nil)

// DirectorState прогоняет волны директора по клавишам и рисует его состояние.
type DirectorState struct {
	sm            *StateMachine
	director      *app.Director
	clock         clock.Clock
	waveIndicator *ui.WaveIndicator
	modeIndicator *ui.StateIndicator
	eventPanel    *ui.EventPanel
	infoPanel     *ui.InfoPanel
	snapshotPath  string
	autoplay      bool
	autoTimer     float64
	status        string
	lastReport    *app.WaveReport
}

func NewDirectorState(sm *StateMachine, director *app.Director, clk clock.Clock, face font.Face) *DirectorState {
	return &DirectorState{
		sm:            sm,
		director:      director,
		clock:         clk,
		waveIndicator: ui.NewWaveIndicator(config.ScreenWidth/2, config.PanelPadding, face),
		modeIndicator: ui.NewStateIndicator(config.ScreenWidth-config.IndicatorOffset, config.IndicatorOffset, config.IndicatorRadius),
		eventPanel:    ui.NewEventPanel(config.PanelPadding, 60, config.ScreenWidth/2, face),
		infoPanel:     ui.NewInfoPanel(face),
		snapshotPath:  config.SnapshotFile,
	}
}

// SetSnapshotPath changes where S and L save and load.
func (s *DirectorState) SetSnapshotPath(path string) {
	s.snapshotPath = path
}

// Status returns the last status line.
func (s *DirectorState) Status() string {
	return s.status
}

// LastReport returns the most recent wave report, nil after reset or restore.
func (s *DirectorState) LastReport() *app.WaveReport {
	return s.lastReport
}

// Autoplay reports whether waves advance on a timer.
func (s *DirectorState) Autoplay() bool {
	return s.autoplay
}

func (s *DirectorState) Enter() {}

func (s *DirectorState) Exit() {}

func (s *DirectorState) Update(deltaTime float64) {
	s.HandleCommand(s.readCommand())
	s.tick(deltaTime)
}

func (s *DirectorState) tick(deltaTime float64) {
	if s.autoplay {
		s.autoTimer += deltaTime
		if s.autoTimer >= config.AutoWaveInterval {
			s.autoTimer = 0
			s.advance()
		}
	}
	s.infoPanel.Update()
}

func (s *DirectorState) readCommand() Command {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if s.modeIndicator.IsClicked(ebiten.CursorPosition()) {
			return CommandAdvance
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace), inpututil.IsKeyJustPressed(ebiten.KeyN):
		return CommandAdvance
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		return CommandToggleAuto
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return CommandReset
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		return CommandSnapshot
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		return CommandRestore
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return CommandPause
	}
	return CommandNone
}

// HandleCommand applies one user command.
func (s *DirectorState) HandleCommand(cmd Command) {
	switch cmd {
	case CommandAdvance:
		s.advance()
	case CommandToggleAuto:
		s.autoplay = !s.autoplay
		s.autoTimer = 0
		s.status = fmt.Sprintf("autoplay: %v", s.autoplay)
	case CommandReset:
		s.director.Reset()
		s.lastReport = nil
		s.infoPanel.Hide()
		s.status = "reset"
	case CommandSnapshot:
		s.saveSnapshot()
	case CommandRestore:
		s.loadSnapshot()
	case CommandPause:
		s.sm.Pause()
	}
}

func (s *DirectorState) advance() {
	report := s.director.AdvanceWave()
	s.lastReport = &report
	s.modeIndicator.Pulse()
	s.infoPanel.Show(report.Spec, report.Effects)
	s.status = fmt.Sprintf("wave %d: %d enemies", report.Wave, report.Spec.EnemyCount)
}

func (s *DirectorState) saveSnapshot() {
	data, err := s.director.Snapshot()
	if err != nil {
		log.Printf("Snapshot failed: %v", err)
		s.status = "snapshot failed"
		return
	}
	if err := os.WriteFile(s.snapshotPath, data, 0o644); err != nil {
		log.Printf("Failed to write snapshot %s: %v", s.snapshotPath, err)
		s.status = "snapshot failed"
		return
	}
	s.status = fmt.Sprintf("saved wave %d to %s", s.director.Wave(), s.snapshotPath)
}

func (s *DirectorState) loadSnapshot() {
	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		log.Printf("Failed to read snapshot %s: %v", s.snapshotPath, err)
		s.status = "no snapshot"
		return
	}
	if err := s.director.Restore(data); err != nil {
		log.Printf("Restore failed: %v", err)
		s.status = "restore failed"
		return
	}
	s.lastReport = nil
	s.infoPanel.Hide()
	s.status = fmt.Sprintf("restored wave %d", s.director.Wave())
}

func (s *DirectorState) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)

	wave := s.director.Wave()
	s.waveIndicator.Draw(screen, wave)
	modeColor := config.TextDimColor
	if s.autoplay {
		modeColor = config.ActiveColor
	}
	s.modeIndicator.Draw(screen, modeColor)
	s.eventPanel.Draw(screen, s.director.State(), wave, clock.NowMs(s.clock))

	m := s.director.Multipliers()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("count x%.2f  health x%.2f  speed x%.2f",
		m.EnemyCountMultiplier, m.EnemyHealthMultiplier, m.EnemySpeedMultiplier),
		config.ScreenWidth/2+2*config.PanelPadding, 60)
	ebitenutil.DebugPrintAt(screen, s.status, config.ScreenWidth/2+2*config.PanelPadding, 60+config.LineHeight)
	ebitenutil.DebugPrintAt(screen, helpText, config.PanelPadding, config.ScreenHeight-config.LineHeight-panelBottom(s.infoPanel))

	s.infoPanel.Draw(screen)
}

// panelBottom keeps the help line above the info panel while it is shown.
func panelBottom(p *ui.InfoPanel) int {
	if p.IsVisible {
		return ui.InfoPanelHeight
	}
	return 0
}
