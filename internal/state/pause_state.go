// internal/state/pause_state.go
package state

import (
	"wave-director/internal/config"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Убеждаемся, что PauseState соответствует интерфейсу State
var _ State = (*PauseState)(nil)

// PauseState замораживает предыдущий экран: волны не идут, автопрогон стоит.
// Часы директора при этом продолжают идти, события истекают по стене.
type PauseState struct {
	stateMachine  *StateMachine
	previousState State
}

func NewPauseState(sm *StateMachine, prevState State) *PauseState {
	return &PauseState{
		stateMachine:  sm,
		previousState: prevState,
	}
}

func (s *PauseState) Enter() {}

func (s *PauseState) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.Resume()
	}
}

// Resume returns to the state that was paused.
func (s *PauseState) Resume() {
	s.stateMachine.Resume()
}

func (s *PauseState) Draw(screen *ebiten.Image) {
	if s.previousState != nil {
		s.previousState.Draw(screen)
	}
	vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, config.PauseOverlay, false)

	pauseText := "PAUSED"
	// DebugPrint использует шрифт 6x16
	x := (config.ScreenWidth - len(pauseText)*6) / 2
	ebitenutil.DebugPrintAt(screen, pauseText, x, config.ScreenHeight/2-8)
}

func (s *PauseState) Exit() {}
