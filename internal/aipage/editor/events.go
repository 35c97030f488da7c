package editor

import (
	"time"

	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/commands"
	"github.com/aisa-it/aipage/internal/aipage/dom"
	"github.com/aisa-it/aipage/internal/aipage/mediainsert"
	"github.com/aisa-it/aipage/internal/aipage/sanitizer"
	"github.com/aisa-it/aipage/internal/aipage/selection"
	"github.com/aisa-it/aipage/internal/aipage/toolbar"
)

// blurRepairDelay - задержка ремонта после потери фокуса: даёт кликам по
// панели инструментов сработать раньше ремонта.
const blurRepairDelay = 100 * time.Millisecond

// HandleInput вызывается хостом после каждой нативной правки текста.
func (e *Editor) HandleInput() {
	if e.isDestroyed {
		return
	}
	e.NotifyChange()
}

// HandleKeyDown сопоставляет нажатие с таблицей комбинаций и исполняет
// команду. Возвращает true, если нажатие обработано и хост должен
// подавить действие по умолчанию.
func (e *Editor) HandleKeyDown(k commands.Key) bool {
	if e.isDestroyed {
		return false
	}
	kind, value, ok := e.exec.Shortcut(k)
	if !ok {
		return false
	}
	e.exec.Exec(kind, value)
	return true
}

// HandlePaste очищает буфер обмена строгим вариантом санитайзера и
// вклеивает результат в позицию каретки. Блочный контент, попадающий
// внутрь блока, раскалывает его по каретке.
func (e *Editor) HandlePaste(clipboardHtml string) {
	if e.isDestroyed {
		return
	}
	cleaned := e.paste.Clean(clipboardHtml)
	frag := dom.ParseFragment(cleaned)
	nodes := detachChildren(frag)
	if len(nodes) == 0 {
		return
	}

	block := selection.EnclosingBlock(e.root, e.sel)
	if hasBlockNode(nodes) && block != e.root && e.sel.Collapsed() && !e.sel.Empty() {
		e.spliceBlocks(block, nodes)
	} else {
		e.insertInline(nodes)
	}

	sanitizer.RepairNesting(e.root)
	e.NotifyChange()
}

// spliceBlocks заменяет блок на [левая половина, вставка..., правая
// половина], раскалывая его по каретке.
func (e *Editor) spliceBlocks(block *html.Node, nodes []*html.Node) {
	before, after := selection.SplitBlockAtCaret(block, e.sel.Focus)
	parent := block.Parent
	if parent == nil {
		return
	}
	anchor := block
	if before != nil {
		parent.InsertBefore(before, block)
	}
	for _, n := range nodes {
		parent.InsertBefore(n, block)
	}
	if after != nil {
		parent.InsertBefore(after, block)
	}
	dom.Remove(anchor)

	last := nodes[len(nodes)-1]
	e.sel = selection.Caret(selection.Position{Node: last, Offset: countChildren(last)})
}

// insertInline вклеивает узлы в точку каретки; без каретки дописывает в
// конец области.
func (e *Editor) insertInline(nodes []*html.Node) {
	if e.sel.Empty() || !dom.Contains(e.root, e.sel.Focus.Node) {
		for _, n := range nodes {
			e.root.AppendChild(n)
		}
		return
	}
	pos := e.sel.Focus
	target := pos.Node
	if target.Type == html.TextNode {
		rhs := splitTextNode(target, pos.Offset)
		for _, n := range nodes {
			target.Parent.InsertBefore(n, rhs)
		}
	} else {
		ref := childAt(target, pos.Offset)
		for _, n := range nodes {
			if ref != nil {
				target.InsertBefore(n, ref)
			} else {
				target.AppendChild(n)
			}
		}
	}
	last := nodes[len(nodes)-1]
	e.sel = selection.Caret(selection.Position{Node: last, Offset: countChildren(last)})
}

// HandleFocus активирует редактор против общей панели.
func (e *Editor) HandleFocus() {
	e.Activate()
}

// HandleBlur деактивирует редактор и с задержкой чинит дерево: нативные
// команды могли оставить запрещённую вложенность или теги вне белого
// списка.
func (e *Editor) HandleBlur() {
	if e.isDestroyed {
		return
	}
	e.Deactivate()
	e.loop.PostDelayed(blurRepairDelay, func() {
		if e.isDestroyed {
			return
		}
		sanitizer.RepairNesting(e.root)
		e.full.StripDisallowed(e.root)
		e.NotifyChange()
	})
}

// HandleClick открывает редактирование медиа-вставки при клике по ней.
func (e *Editor) HandleClick(n *html.Node) {
	if e.isDestroyed || n == nil {
		return
	}
	for cur := n; cur != nil && cur != e.root; cur = cur.Parent {
		if dom.IsMediaInsert(cur) {
			e.media.OpenEdit(cur)
			return
		}
	}
}

// HandleContextMenu строит контекстное меню для текущего выделения и
// отдаёт его рендереру. Возвращает набор действий.
func (e *Editor) HandleContextMenu() []toolbar.Action {
	if e.isDestroyed {
		return nil
	}
	ctx := toolbar.MenuContext{
		HasSelection: !e.sel.Empty() && !e.sel.Collapsed(),
		OnLink:       selection.FindEnclosingTag(e.root, e.sel, "a") != nil,
		OnMedia:      selection.FindEnclosingMediaInsert(e.root, e.sel) != nil,
	}
	actions := toolbar.BuildContextMenu(ctx)
	if e.opts.Renderer != nil {
		e.opts.Renderer.ShowContextMenu(actions)
	}
	return actions
}

// HandleDragStart помечает медиа-вставку перетаскиваемой.
func (e *Editor) HandleDragStart(n *html.Node) {
	e.media.DragStart(n)
}

// HandleDragOver обновляет индикатор точки сброса.
func (e *Editor) HandleDragOver(p mediainsert.Point) {
	e.media.DragOver(p)
}

// HandleDrop завершает перетаскивание переносом вставки.
func (e *Editor) HandleDrop() {
	e.media.Drop()
}

// HandleDragEnd снимает перетаскивание без переноса.
func (e *Editor) HandleDragEnd() {
	e.media.DragEnd()
}

func detachChildren(parent *html.Node) []*html.Node {
	var nodes []*html.Node
	for parent.FirstChild != nil {
		c := parent.FirstChild
		parent.RemoveChild(c)
		nodes = append(nodes, c)
	}
	return nodes
}

func hasBlockNode(nodes []*html.Node) bool {
	for _, n := range nodes {
		if dom.IsBlock(n) {
			return true
		}
	}
	return false
}

func countChildren(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

func childAt(n *html.Node, idx int) *html.Node {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if i == idx {
			return c
		}
		i++
	}
	return nil
}

// splitTextNode режет текстовый узел по рунной позиции и возвращает правую
// часть, уже вставленную следом.
func splitTextNode(n *html.Node, offset int) *html.Node {
	runes := []rune(n.Data)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}
	rhs := dom.NewText(string(runes[offset:]))
	n.Data = string(runes[:offset])
	if n.NextSibling != nil {
		n.Parent.InsertBefore(rhs, n.NextSibling)
	} else {
		n.Parent.AppendChild(rhs)
	}
	return rhs
}
