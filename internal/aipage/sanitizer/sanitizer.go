// Пакет нормализует произвольный HTML к ограниченному словарю тегов
// визуального редактора. Работает по белому списку: любой вход сводится к
// валидному дереву без исключений, в худшем случае структура теряется и
// остаётся текст.
//
// Основные возможности:
//   - Два профиля очистки: полный (программная установка контента, ручная
//     команда очистки) и строгий для вставки из буфера обмена.
//   - Преобразование таблиц в последовательность параграфов.
//   - Починка недопустимой вложенности блочных элементов.
//   - Удаление пустых элементов и схлопывание серий <br>.
//   - Оборачивание свободных узлов верхнего уровня в параграфы.
//   - Поддеревья медиа-вставок непрозрачны и не изменяются.
package sanitizer

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/dom"
)

var fullAllowed = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "ul", "ol", "li", "blockquote",
	"strong", "b", "em", "i", "a", "br", "code", "img",
}

var pasteAllowed = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"strong", "em", "p", "li", "ul", "ol", "a", "br", "code", "blockquote",
}

// Cleaner выполняет очистку HTML по одному из профилей.
type Cleaner struct {
	strict  bool
	allowed map[string]struct{}
}

// NewFull возвращает полный профиль очистки. Применяется при программной
// установке контента и ручной команде очистки.
func NewFull() *Cleaner {
	return &Cleaner{allowed: tagSet(fullAllowed)}
}

// NewPaste возвращает строгий профиль для вставки из буфера обмена:
// сокращённый набор тегов, все атрибуты удаляются, у ссылок остаются
// только href, target и name.
func NewPaste() *Cleaner {
	return &Cleaner{strict: true, allowed: tagSet(pasteAllowed)}
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// Clean очищает HTML-строку. Идемпотентна: Clean(Clean(x)) == Clean(x).
func (c *Cleaner) Clean(rawHtml string) string {
	root := dom.ParseFragment(rawHtml)
	c.CleanTree(root)
	return dom.RenderChildren(root)
}

// CleanTree очищает живое дерево на месте, без повторного парсинга.
func (c *Cleaner) CleanTree(root *html.Node) {
	removeComments(root)
	convertTables(root)
	c.filterElements(root)
	pruneEmpty(root)
	collapseBreaks(root)
	RepairNesting(root)
	wrapTopLevel(root)
	normalizeWhitespace(root)
}

// StripDisallowed прогоняет только фильтр тегов и атрибутов по живому
// дереву. Используется починкой после нативного formatBlock, который
// оставляет лишние span и div.
func (c *Cleaner) StripDisallowed(root *html.Node) {
	c.filterElements(root)
}

// filterElements - шаг фильтрации тегов: снизу вверх каждый элемент либо
// остаётся с урезанными атрибутами, либо конвертируется, либо
// разворачивается в своих детей.
func (c *Cleaner) filterElements(root *html.Node) {
	dom.WalkElementsPost(root, func(el *html.Node) {
		if c.strict {
			switch el.Data {
			case "b":
				dom.Rename(el, "strong")
			case "i":
				dom.Rename(el, "em")
			}
		}

		if _, ok := c.allowed[el.Data]; ok {
			c.filterAttrs(el)
			return
		}

		switch el.Data {
		case "div", "section", "article", "header", "footer", "main", "aside":
			if dom.HasText(el) {
				dom.Rename(el, "p")
				el.Attr = nil
			} else if hasMediaDescendant(el) {
				// Обёртку без текста вокруг медиа-вставки нельзя терять
				dom.Unwrap(el)
			} else {
				dom.Remove(el)
			}
		case "span":
			dom.Unwrap(el)
		default:
			dom.Unwrap(el)
		}
	})
}

func (c *Cleaner) filterAttrs(el *html.Node) {
	if el.Data == "a" {
		if c.strict {
			dom.KeepAttrs(el, "href", "target", "name")
		} else {
			dom.KeepAttrs(el, "href", "target")
		}
		return
	}
	if c.strict {
		el.Attr = nil
		return
	}
	dom.DropAttrs(el, "class", "style")
}

// pruneEmpty удаляет элементы, оставшиеся пустыми после фильтрации:
// параграфы, заголовки, пункты списков без текста, а также списки,
// потерявшие все пункты.
func pruneEmpty(root *html.Node) {
	dom.WalkElementsPost(root, func(el *html.Node) {
		switch el.Data {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "blockquote":
			if !dom.HasText(el) && !hasMediaDescendant(el) && !hasPreservable(el) {
				dom.Remove(el)
			}
		case "ul", "ol":
			if !hasListItem(el) {
				dom.Remove(el)
			}
		}
	})
}

func hasListItem(list *html.Node) bool {
	for el := list.FirstChild; el != nil; el = el.NextSibling {
		if el.Type == html.ElementNode && el.Data == "li" {
			return true
		}
	}
	return false
}

func hasMediaDescendant(n *html.Node) bool {
	found := false
	dom.IterNodes(n, func(child *html.Node) bool {
		if child != n && dom.IsMediaInsert(child) {
			found = true
		}
		return found
	})
	return found
}

// hasPreservable возвращает true, если в поддереве есть img или br:
// пустой по тексту параграф с ними остаётся значимым.
func hasPreservable(n *html.Node) bool {
	found := false
	dom.IterNodes(n, func(child *html.Node) bool {
		if child.Type == html.ElementNode && (child.Data == "img" || child.Data == "br") {
			found = true
		}
		return found
	})
	return found
}

// collapseBreaks схлопывает серии подряд идущих <br>: максимум два,
// излишек удаляется. Пробельные текстовые узлы серию не разрывают.
func collapseBreaks(root *html.Node) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if dom.IsMediaInsert(n) {
			return
		}
		count := 0
		var next *html.Node
		for el := n.FirstChild; el != nil; el = next {
			next = el.NextSibling
			if el.Type == html.TextNode && strings.TrimSpace(el.Data) == "" {
				continue
			}
			if el.Type == html.ElementNode && el.Data == "br" {
				count++
				if count > 2 {
					dom.Remove(el)
				}
				continue
			}
			count = 0
			if el.Type == html.ElementNode {
				walk(el)
			}
		}
	}
	walk(root)
}

// RepairNesting заменяет блочный элемент, оказавшийся внутри строчного
// тега или внутри h1-h6, p, blockquote, текстовым узлом с его сведённым
// текстом. Используется и самостоятельно: на вставке и по расфокусировке
// редактора.
func RepairNesting(root *html.Node) {
	var walk func(n *html.Node, forbidden bool)
	walk = func(n *html.Node, forbidden bool) {
		var next *html.Node
		for el := n.FirstChild; el != nil; el = next {
			next = el.NextSibling
			if el.Type != html.ElementNode || dom.IsMediaInsert(el) {
				continue
			}
			if forbidden && dom.IsBlock(el) {
				dom.ReplaceWithText(el)
				continue
			}
			walk(el, forbidden || dom.ForbidsNestedBlocks(el))
		}
	}
	walk(root, false)
}

// wrapTopLevel оборачивает свободные узлы верхнего уровня в параграфы.
// Последовательность соседних свободных узлов собирается в один параграф.
// Медиа-вставки остаются на верхнем уровне как есть.
func wrapTopLevel(root *html.Node) {
	var next *html.Node
	for el := root.FirstChild; el != nil; el = next {
		next = el.NextSibling
		if !needsWrap(el) {
			continue
		}

		p := dom.NewElement("p")
		root.InsertBefore(p, el)
		for el != nil && (needsWrap(el) || isBlankText(el)) {
			following := el.NextSibling
			root.RemoveChild(el)
			p.AppendChild(el)
			el = following
		}
		next = p.NextSibling
	}
}

func needsWrap(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return strings.TrimSpace(n.Data) != ""
	case html.ElementNode:
		return !dom.IsBlock(n) && !dom.IsMediaInsert(n)
	}
	return false
}

func isBlankText(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

var spaceRun = regexp.MustCompile(`\s{3,}`)

// normalizeWhitespace схлопывает серии из трёх и более пробельных символов
// в один пробел и обрезает края текстовых узлов. Перед обрезкой соседние
// текстовые узлы склеиваются: развёрнутые теги оставляют после себя стык
// двух текстов, и пробел на таком стыке значим. Край не обрезается, если
// соседний узел - строчный элемент: пробел вокруг <strong> или <a> значим.
func normalizeWhitespace(root *html.Node) {
	var textNodes []*html.Node
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && dom.IsMediaInsert(n) {
			return
		}
		mergeTextChildren(n)
		for el := n.FirstChild; el != nil; el = el.NextSibling {
			if el.Type == html.TextNode {
				textNodes = append(textNodes, el)
				continue
			}
			collect(el)
		}
	}
	collect(root)

	for _, el := range textNodes {
		text := spaceRun.ReplaceAllString(el.Data, " ")
		if !isInlineElement(el.PrevSibling) {
			text = strings.TrimLeft(text, " \t\n\r\f")
		}
		if !isInlineElement(el.NextSibling) {
			text = strings.TrimRight(text, " \t\n\r\f")
		}
		if text == "" {
			dom.Remove(el)
			continue
		}
		el.Data = text
	}
}

// mergeTextChildren склеивает подряд идущие текстовые узлы среди детей n.
func mergeTextChildren(n *html.Node) {
	var next *html.Node
	for el := n.FirstChild; el != nil; el = next {
		next = el.NextSibling
		if el.Type != html.TextNode {
			continue
		}
		for next != nil && next.Type == html.TextNode {
			el.Data += next.Data
			following := next.NextSibling
			dom.Remove(next)
			next = following
		}
	}
}

func isInlineElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && dom.IsInline(n)
}

func removeComments(root *html.Node) {
	var drop []*html.Node
	dom.IterNodes(root, func(n *html.Node) bool {
		if dom.IsMediaInsert(n) {
			return true
		}
		if n.Type == html.CommentNode || n.Type == html.DoctypeNode {
			drop = append(drop, n)
		}
		return false
	})
	for _, n := range drop {
		dom.Remove(n)
	}
}
