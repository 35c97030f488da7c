package commands

import (
	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/dom"
	"github.com/aisa-it/aipage/internal/aipage/selection"
)

// TreeAccess - доступ headless-поверхности к дереву и выделению редактора.
type TreeAccess interface {
	Root() *html.Node
	Selection() selection.Selection
	SetSelection(selection.Selection)
}

// Headless - реализация нативной поверхности без браузера: команды
// выполняются мутацией дерева, предикаты состояния - обходом предков.
// Используется в тестах и при серверном применении ядра. Undo и redo
// истории не имеют и игнорируются: история за пределами нативной
// поверхности - не задача ядра.
type Headless struct {
	tree TreeAccess
}

func NewHeadless(tree TreeAccess) *Headless {
	return &Headless{tree: tree}
}

func (h *Headless) Exec(k Kind, value string) error {
	switch k {
	case Bold:
		h.toggleInline("strong", "b")
	case Italic:
		h.toggleInline("em", "i")
	case Underline:
		h.toggleInline("u")
	case FormatBlock:
		h.formatBlock(value)
	case UnorderedList:
		h.toggleList("ul")
	case OrderedList:
		h.toggleList("ol")
	case CreateLink:
		h.wrapLink(value)
	case InsertText:
		h.insertText(value)
	case Indent, Outdent, Undo, Redo:
		// нет нативной истории и уровней отступа в headless-режиме
	}
	return nil
}

func (h *Headless) QueryState(k Kind) bool {
	root := h.tree.Root()
	sel := h.tree.Selection()
	switch k {
	case Bold:
		return findAny(root, sel, "strong", "b") != nil
	case Italic:
		return findAny(root, sel, "em", "i") != nil
	case UnorderedList:
		return selection.FindEnclosingTag(root, sel, "ul") != nil
	case OrderedList:
		return selection.FindEnclosingTag(root, sel, "ol") != nil
	}
	return false
}

func (h *Headless) QueryBlockFormat() string {
	root := h.tree.Root()
	block := selection.EnclosingBlock(root, h.tree.Selection())
	if block == root {
		return "p"
	}
	return block.Data
}

func findAny(root *html.Node, sel selection.Selection, tags ...string) *html.Node {
	for _, tag := range tags {
		if n := selection.FindEnclosingTag(root, sel, tag); n != nil {
			return n
		}
	}
	return nil
}

// toggleInline оборачивает текст выделения в тег либо разворачивает
// охватывающий тег из списка синонимов.
func (h *Headless) toggleInline(tags ...string) {
	root := h.tree.Root()
	sel := h.tree.Selection()

	if n := findAny(root, sel, tags...); n != nil {
		caret := selection.Position{Node: n.Parent, Offset: dom.ChildIndex(n)}
		dom.Unwrap(n)
		h.tree.SetSelection(selection.Caret(caret))
		return
	}

	if sel.Collapsed() || sel.Empty() {
		return
	}
	node := sel.Anchor.Node
	if node != sel.Focus.Node || node.Type != html.TextNode {
		return
	}
	start, end := sel.Anchor.Offset, sel.Focus.Offset
	if start > end {
		start, end = end, start
	}
	runes := []rune(node.Data)
	if start < 0 || end > len(runes) || start == end {
		return
	}

	parent := node.Parent
	wrap := dom.NewElement(tags[0])
	wrap.AppendChild(dom.NewText(string(runes[start:end])))
	if start > 0 {
		parent.InsertBefore(dom.NewText(string(runes[:start])), node)
	}
	parent.InsertBefore(wrap, node)
	if end < len(runes) {
		parent.InsertBefore(dom.NewText(string(runes[end:])), node)
	}
	parent.RemoveChild(node)
	// Каретка остаётся внутри обёрнутого текста: предикаты состояния и
	// панель инструментов сразу видят новый формат активным
	h.tree.SetSelection(selection.Caret(selection.Position{Node: wrap.FirstChild, Offset: end - start}))
}

func (h *Headless) formatBlock(format string) {
	root := h.tree.Root()
	block := selection.EnclosingBlock(root, h.tree.Selection())
	if block == root {
		return
	}
	switch format {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
		dom.Rename(block, format)
	}
}

func (h *Headless) toggleList(tag string) {
	root := h.tree.Root()
	sel := h.tree.Selection()

	if list := selection.FindEnclosingTag(root, sel, tag); list != nil {
		// Развернуть список: каждый пункт становится параграфом
		for el := list.FirstChild; el != nil; el = el.NextSibling {
			if el.Type == html.ElementNode && el.Data == "li" {
				dom.Rename(el, "p")
			}
		}
		dom.Unwrap(list)
		return
	}

	block := selection.EnclosingBlock(root, sel)
	if block == root {
		return
	}
	list := dom.NewElement(tag)
	block.Parent.InsertBefore(list, block)
	block.Parent.RemoveChild(block)
	dom.Rename(block, "li")
	list.AppendChild(block)
}

func (h *Headless) wrapLink(href string) {
	root := h.tree.Root()
	sel := h.tree.Selection()

	if a := selection.FindEnclosingTag(root, sel, "a"); a != nil {
		dom.SetAttr(a, "href", href)
		return
	}
	if sel.Collapsed() || sel.Empty() {
		return
	}
	node := sel.Anchor.Node
	if node != sel.Focus.Node || node.Type != html.TextNode {
		return
	}
	start, end := sel.Anchor.Offset, sel.Focus.Offset
	if start > end {
		start, end = end, start
	}
	runes := []rune(node.Data)
	if start < 0 || end > len(runes) || start == end {
		return
	}

	parent := node.Parent
	a := dom.NewElement("a")
	dom.SetAttr(a, "href", href)
	a.AppendChild(dom.NewText(string(runes[start:end])))
	if start > 0 {
		parent.InsertBefore(dom.NewText(string(runes[:start])), node)
	}
	parent.InsertBefore(a, node)
	if end < len(runes) {
		parent.InsertBefore(dom.NewText(string(runes[end:])), node)
	}
	parent.RemoveChild(node)
}

func (h *Headless) insertText(text string) {
	sel := h.tree.Selection()
	if sel.Empty() || sel.Focus.Node == nil || sel.Focus.Node.Type != html.TextNode {
		return
	}
	node := sel.Focus.Node
	runes := []rune(node.Data)
	off := sel.Focus.Offset
	if off < 0 {
		off = 0
	}
	if off > len(runes) {
		off = len(runes)
	}
	node.Data = string(runes[:off]) + text + string(runes[off:])
	h.tree.SetSelection(selection.Caret(selection.Position{Node: node, Offset: off + len([]rune(text))}))
}
