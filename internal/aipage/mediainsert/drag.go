package mediainsert

import (
	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/dom"
)

// indicatorClass - класс тонкой горизонтальной полосы, показывающей
// позицию сброса при перетаскивании.
const indicatorClass = "aipage-drop-indicator"

// DragStart отмечает узел источником перетаскивания и включает визуальное
// состояние dragging.
func (m *Manager) DragStart(n *html.Node) {
	if m.deps.Destroyed() || !dom.IsMediaInsert(n) {
		return
	}
	m.dragging = n
	dom.SetAttr(n, AttrDragging, "true")
}

// DragOver определяет ближайший блок или медиа-вставку под указателем и
// ставит индикатор сброса перед ним или после него: верхняя половина
// прямоугольника - перед, нижняя - после.
func (m *Manager) DragOver(p Point) {
	if m.deps.Destroyed() || m.dragging == nil || m.deps.Layout == nil {
		return
	}
	target, rect, ok := m.deps.Layout.BlockAt(p)
	if !ok || target == m.dragging || target.Parent == nil {
		m.removeIndicator()
		return
	}

	m.removeIndicator()
	ind := dom.NewElement("div")
	dom.SetAttr(ind, "class", indicatorClass)
	if p.Y < rect.MidY() {
		target.Parent.InsertBefore(ind, target)
	} else {
		dom.InsertAfter(ind, target)
	}
	m.indicator = ind
}

// Drop физически переносит перетаскиваемый узел на место индикатора и
// уведомляет об изменении контента ровно один раз.
func (m *Manager) Drop() {
	if m.deps.Destroyed() {
		return
	}
	moved := false
	if m.dragging != nil && m.indicator != nil && m.indicator.Parent != nil {
		dom.Remove(m.dragging)
		m.indicator.Parent.InsertBefore(m.dragging, m.indicator)
		moved = true
	}
	m.finishDrag()
	if moved {
		m.deps.OnChange()
	}
}

// DragEnd снимает визуальное состояние перетаскивания и убирает индикатор.
// Выполняется безусловно: drop мог не состояться (перетаскивание отменено).
func (m *Manager) DragEnd() {
	if m.deps.Destroyed() {
		m.dragging = nil
		m.indicator = nil
		return
	}
	m.finishDrag()
}

func (m *Manager) finishDrag() {
	if m.dragging != nil {
		dom.DropAttrs(m.dragging, AttrDragging)
		m.dragging = nil
	}
	m.removeIndicator()
}

func (m *Manager) removeIndicator() {
	if m.indicator != nil {
		dom.Remove(m.indicator)
		m.indicator = nil
	}
}
