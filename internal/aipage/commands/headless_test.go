package commands

import (
	"testing"

	"github.com/aisa-it/aipage/internal/aipage/dom"
)

func TestHeadlessToggleInline(t *testing.T) {
	h := newFakeHost("<p>abcdef</p>")
	surface := NewHeadless(h)
	h.selectRange("abcdef", 1, 4)

	surface.Exec(Bold, "")
	if got := dom.RenderChildren(h.root); got != "<p>a<strong>bcd</strong>ef</p>" {
		t.Fatalf("оборачивание = %q", got)
	}
	if !surface.QueryState(Bold) {
		t.Fatalf("предикат жирности после оборачивания должен быть истинным")
	}
	if n := h.sel.Focus.Node; n == nil || n.Parent == nil || n.Parent.Data != "strong" {
		t.Fatalf("каретка после оборачивания должна остаться внутри strong")
	}

	h.caretAt("bcd", 1)
	surface.Exec(Bold, "")
	if got := dom.RenderChildren(h.root); got != "<p>abcdef</p>" {
		t.Fatalf("разворачивание = %q", got)
	}
}

func TestHeadlessToggleList(t *testing.T) {
	h := newFakeHost("<p>пункт</p>")
	surface := NewHeadless(h)
	h.caretAt("пункт", 0)

	surface.Exec(UnorderedList, "")
	if got := dom.RenderChildren(h.root); got != "<ul><li>пункт</li></ul>" {
		t.Fatalf("в список = %q", got)
	}

	h.caretAt("пункт", 0)
	surface.Exec(UnorderedList, "")
	if got := dom.RenderChildren(h.root); got != "<p>пункт</p>" {
		t.Fatalf("из списка = %q", got)
	}
}

func TestHeadlessQueryBlockFormat(t *testing.T) {
	h := newFakeHost("<h3>заголовок</h3>")
	surface := NewHeadless(h)
	h.caretAt("заголовок", 0)
	if got := surface.QueryBlockFormat(); got != "h3" {
		t.Fatalf("QueryBlockFormat = %q, ожидалось h3", got)
	}
}

func TestHeadlessInsertText(t *testing.T) {
	h := newFakeHost("<p>аб</p>")
	surface := NewHeadless(h)
	h.caretAt("аб", 1)

	surface.Exec(InsertText, "В")
	if got := dom.RenderChildren(h.root); got != "<p>аВб</p>" {
		t.Fatalf("вставка текста = %q", got)
	}
	if h.sel.Focus.Offset != 2 {
		t.Fatalf("каретка после вставки на смещении %d, ожидалось 2", h.sel.Focus.Offset)
	}
}

func TestHeadlessUndoIsNoop(t *testing.T) {
	h := newFakeHost("<p>x</p>")
	surface := NewHeadless(h)
	if err := surface.Exec(Undo, ""); err != nil {
		t.Fatalf("undo вернул ошибку: %v", err)
	}
	if got := dom.RenderChildren(h.root); got != "<p>x</p>" {
		t.Fatalf("undo изменил дерево: %q", got)
	}
}
