package toolbar

import (
	"log/slog"
	"sync"

	"github.com/aisa-it/aipage/internal/aipage/commands"
	"github.com/aisa-it/aipage/internal/aipage/selection"
)

// Target - редактор с точки зрения общей панели инструментов.
type Target interface {
	DispatchCommand(ev commands.Event)
	ToolbarState() selection.State
}

// Manager - общий реестр панели инструментов. Несколько редакторов на
// одной странице делят одну физическую панель; активен не более чем один.
// Реестр создаётся явно и внедряется в каждый экземпляр редактора.
type Manager struct {
	mu     sync.Mutex
	active Target
}

func NewManager() *Manager {
	return &Manager{}
}

// Activate делает редактор целью панели. Идемпотентна; последний
// активированный редактор выигрывает панель.
func (m *Manager) Activate(t Target) {
	m.mu.Lock()
	m.active = t
	m.mu.Unlock()
}

// Deactivate снимает редактор с панели, только если он активен сейчас.
// Порядок activate/deactivate разных редакторов значения не имеет.
func (m *Manager) Deactivate(t Target) {
	m.mu.Lock()
	if m.active == t {
		m.active = nil
	}
	m.mu.Unlock()
}

// Active возвращает текущую цель панели либо nil.
func (m *Manager) Active() Target {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Dispatch направляет команду панели активному редактору. Паника
// обработчика перехватывается и логируется: ошибка колбэка не должна
// портить состояние редактора.
func (m *Manager) Dispatch(ev commands.Event) {
	t := m.Active()
	if t == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Toolbar command handler panic", "command", ev.Command, "err", r)
		}
	}()
	t.DispatchCommand(ev)
}

// State возвращает снимок состояния активного редактора для внешней панели.
func (m *Manager) State() (selection.State, bool) {
	t := m.Active()
	if t == nil {
		return selection.State{}, false
	}
	return t.ToolbarState(), true
}
