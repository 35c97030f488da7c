// Пакет предоставляет низкоуровневые операции над HTML-деревом редактируемой области.
// Дерево представлено узлами golang.org/x/net/html и мутируется напрямую:
// декларативный ре-рендеринг всей области сбивал бы каретку и выделение.
//
// Основные возможности:
//   - Парсинг HTML-фрагмента в отсоединённое дерево и обратная сериализация.
//   - Чтение и запись атрибутов узлов.
//   - Структурные мутации: удаление, разворачивание, переименование, перенос узлов.
//   - Классификация тегов (блочные, строчные, запрещающие вложенные блоки).
//   - Распознавание опорных узлов медиа-вставок по маркерному атрибуту.
package dom

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AttrMediaInsert - маркерный атрибут медиа-вставки. Поддерево с этим
// атрибутом непрозрачно для санитайзера и команд форматирования.
const AttrMediaInsert = "data-media-insert"

var (
	blockTags    = []string{"h1", "h2", "h3", "h4", "h5", "h6", "p", "ul", "ol", "li", "blockquote"}
	inlineTags   = []string{"strong", "em", "a", "code", "br"}
	noNestedTags = []string{"h1", "h2", "h3", "h4", "h5", "h6", "p", "blockquote"}
)

// IsBlock возвращает true для блочных элементов (h1-h6, p, ul, ol, li, blockquote).
func IsBlock(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && slices.Contains(blockTags, n.Data)
}

// IsInline возвращает true для строчных элементов (strong, em, a, code, br).
func IsInline(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && slices.Contains(inlineTags, n.Data)
}

// ForbidsNestedBlocks возвращает true для элементов, внутри которых не могут
// находиться блочные элементы: строчные теги и h1-h6, p, blockquote.
func ForbidsNestedBlocks(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return slices.Contains(noNestedTags, n.Data) || slices.Contains(inlineTags, n.Data)
}

// IsMediaInsert возвращает true, если узел помечен как медиа-вставка.
func IsMediaInsert(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && AttrExists(AttrMediaInsert, n.Attr)
}

// InsideMediaInsert возвращает true, если узел лежит внутри медиа-вставки
// (сам узел не считается).
func InsideMediaInsert(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if IsMediaInsert(p) {
			return true
		}
	}
	return false
}

// ParseFragment парсит HTML-фрагмент в отсоединённый корневой узел body.
// Ошибка парсинга невозможна для любых входных строк: парсер x/net/html
// всегда достраивает валидное дерево.
func ParseFragment(rawHtml string) *html.Node {
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(rawHtml), root)
	if err != nil {
		return root
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

// RenderChildren сериализует всех детей узла в HTML-строку.
func RenderChildren(root *html.Node) string {
	var sb strings.Builder
	for el := root.FirstChild; el != nil; el = el.NextSibling {
		html.Render(&sb, el)
	}
	return sb.String()
}

// Render сериализует один узел вместе с поддеревом.
func Render(n *html.Node) string {
	var sb strings.Builder
	html.Render(&sb, n)
	return sb.String()
}

func GetAttr(key string, attrs []html.Attribute) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func AttrExists(key string, attrs []html.Attribute) bool {
	return slices.ContainsFunc(attrs, func(attr html.Attribute) bool {
		return attr.Key == key
	})
}

// SetAttr записывает атрибут узла, заменяя существующее значение.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// KeepAttrs оставляет у узла только атрибуты из списка keys.
func KeepAttrs(n *html.Node, keys ...string) {
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if slices.Contains(keys, attr.Key) {
			kept = append(kept, attr)
		}
	}
	n.Attr = kept
}

// DropAttrs удаляет у узла атрибуты из списка keys, остальные сохраняет.
func DropAttrs(n *html.Node, keys ...string) {
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if !slices.Contains(keys, attr.Key) {
			kept = append(kept, attr)
		}
	}
	n.Attr = kept
}

// IterNodes обходит поддерево в прямом порядке. Обход ветви прекращается,
// когда f возвращает true.
func IterNodes(node *html.Node, f func(child *html.Node) bool) {
	if f(node) {
		return
	}
	for p := node.FirstChild; p != nil; p = p.NextSibling {
		IterNodes(p, f)
	}
}

// WalkElementsPost обходит элементы поддерева снизу вверх (post-order).
// Дети снимаются в срез до вызова f: f может удалять и заменять узлы.
// Поддеревья медиа-вставок не обходятся.
func WalkElementsPost(root *html.Node, f func(el *html.Node)) {
	var children []*html.Node
	for el := root.FirstChild; el != nil; el = el.NextSibling {
		children = append(children, el)
	}
	for _, el := range children {
		if el.Type != html.ElementNode {
			continue
		}
		if IsMediaInsert(el) {
			continue
		}
		WalkElementsPost(el, f)
		f(el)
	}
}

// Remove отсоединяет узел от родителя. Узел без родителя игнорируется.
func Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Unwrap переносит детей узла на его место и удаляет сам узел.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for n.FirstChild != nil {
		child := n.FirstChild
		n.RemoveChild(child)
		parent.InsertBefore(child, n)
	}
	parent.RemoveChild(n)
}

// Rename меняет тег элемента, сохраняя детей и атрибуты.
func Rename(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

// ReplaceWithText заменяет узел текстовым узлом с его сведённым текстом.
// Пустой текст просто удаляет узел.
func ReplaceWithText(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	text := TextContent(n)
	if text != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text}, n)
	}
	parent.RemoveChild(n)
}

// ReplaceWith ставит узел repl на место узла n.
func ReplaceWith(n, repl *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	parent.InsertBefore(repl, n)
	parent.RemoveChild(n)
}

// InsertAfter вставляет узел n сразу после узла ref.
func InsertAfter(n, ref *html.Node) {
	if ref.NextSibling != nil {
		ref.Parent.InsertBefore(n, ref.NextSibling)
	} else {
		ref.Parent.AppendChild(n)
	}
}

// NewElement создаёт пустой элемент с заданным тегом.
func NewElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// NewText создаёт текстовый узел.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// CloneShallow копирует элемент без детей.
func CloneShallow(n *html.Node) *html.Node {
	clone := &html.Node{Type: n.Type, Data: n.Data, DataAtom: n.DataAtom}
	clone.Attr = slices.Clone(n.Attr)
	return clone
}

// CloneDeep копирует узел вместе со всем поддеревом.
func CloneDeep(n *html.Node) *html.Node {
	clone := CloneShallow(n)
	for el := n.FirstChild; el != nil; el = el.NextSibling {
		clone.AppendChild(CloneDeep(el))
	}
	return clone
}

// TextContent возвращает конкатенацию всех текстовых узлов поддерева.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	IterNodes(n, func(child *html.Node) bool {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
		return false
	})
	return sb.String()
}

// HasText возвращает true, если поддерево содержит непробельный текст.
func HasText(n *html.Node) bool {
	return strings.TrimSpace(TextContent(n)) != ""
}

// Contains возвращает true, если узел n содержит узел target (включая n == target).
func Contains(n, target *html.Node) bool {
	for p := target; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// ChildIndex возвращает позицию узла среди детей родителя, -1 для корня.
func ChildIndex(n *html.Node) int {
	if n.Parent == nil {
		return -1
	}
	i := 0
	for el := n.Parent.FirstChild; el != nil; el = el.NextSibling {
		if el == n {
			return i
		}
		i++
	}
	return -1
}
