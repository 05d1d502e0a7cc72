// internal/state/state.go
package state

import "github.com/hajimehoshi/ebiten/v2"

// State — экран просмотрщика
type State interface {
	Enter()
	Update(deltaTime float64)
	Draw(screen *ebiten.Image)
	Exit()
}

// StateMachine переключает экраны. Пауза накладывается поверх текущего
// экрана и снимается возвратом к нему же, без пересоздания.
type StateMachine struct {
	current State
	paused  State // экран под паузой, nil вне паузы
}

// NewStateMachine создаёт машину без начального состояния
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// SetState выходит из текущего состояния и входит в новое; nil допустим.
// Явная смена экрана отменяет паузу.
func (sm *StateMachine) SetState(next State) {
	sm.paused = nil
	sm.switchTo(next)
}

func (sm *StateMachine) switchTo(next State) {
	if sm.current != nil {
		sm.current.Exit()
	}
	sm.current = next
	if sm.current != nil {
		sm.current.Enter()
	}
}

// Pause puts the pause screen over the current state. Pausing twice or
// with no current state does nothing.
func (sm *StateMachine) Pause() {
	if sm.current == nil || sm.paused != nil {
		return
	}
	under := sm.current
	sm.switchTo(NewPauseState(sm, under))
	sm.paused = under
}

// Resume returns to the state that was paused.
func (sm *StateMachine) Resume() {
	if sm.paused == nil {
		return
	}
	under := sm.paused
	sm.paused = nil
	sm.switchTo(under)
}

// Paused reports whether the pause screen is shown.
func (sm *StateMachine) Paused() bool {
	return sm.paused != nil
}

// Current returns the active state or nil.
func (sm *StateMachine) Current() State {
	return sm.current
}

func (sm *StateMachine) Update(deltaTime float64) {
	if sm.current != nil {
		sm.current.Update(deltaTime)
	}
}

func (sm *StateMachine) Draw(screen *ebiten.Image) {
	if sm.current != nil {
		sm.current.Draw(screen)
	}
}
