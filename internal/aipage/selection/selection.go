// Пакет моделирует каретку и выделение в редактируемом дереве.
// На его утилитах построены определение текущего состояния форматирования,
// поиск охватывающих элементов и расщепление блока в точке каретки при
// вставке блочного контента.
//
// Основные возможности:
//   - Позиция, диапазон и выделение поверх узлов дерева.
//   - Поиск охватывающего блочного элемента и элемента по тегу.
//   - Расщепление блока в точке каретки на две половины.
//   - Снимок состояния панели инструментов по текущему выделению.
//   - Сохранение позиции каретки как пути от корня и обратное разрешение.
package selection

import (
	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/dom"
)

// Position - точка в дереве: текстовый узел и смещение в рунах либо
// элемент и индекс ребёнка.
type Position struct {
	Node   *html.Node
	Offset int
}

// Selection - пара позиций. Anchor - где выделение началось, Focus - где
// находится каретка.
type Selection struct {
	Anchor Position
	Focus  Position
}

// Collapsed возвращает true для схлопнутого выделения (каретка без выделения).
func (s Selection) Collapsed() bool {
	return s.Anchor.Node == s.Focus.Node && s.Anchor.Offset == s.Focus.Offset
}

// Empty возвращает true, если выделение не установлено.
func (s Selection) Empty() bool {
	return s.Focus.Node == nil
}

// Caret возвращает схлопнутое выделение в заданной позиции.
func Caret(pos Position) Selection {
	return Selection{Anchor: pos, Focus: pos}
}

// CommonContainer возвращает ближайший узел, содержащий обе позиции
// выделения. Для схлопнутого выделения это узел каретки.
func (s Selection) CommonContainer() *html.Node {
	if s.Empty() {
		return nil
	}
	if s.Anchor.Node == s.Focus.Node {
		return s.Focus.Node
	}
	seen := map[*html.Node]bool{}
	for p := s.Anchor.Node; p != nil; p = p.Parent {
		seen[p] = true
	}
	for p := s.Focus.Node; p != nil; p = p.Parent {
		if seen[p] {
			return p
		}
	}
	return nil
}

// EnclosingBlock возвращает первый блочный элемент на пути от выделения к
// корню редактора, либо сам корень, если блока нет.
func EnclosingBlock(root *html.Node, s Selection) *html.Node {
	start := s.CommonContainer()
	for n := start; n != nil && n != root; n = n.Parent {
		if dom.IsBlock(n) {
			return n
		}
	}
	return root
}

// FindEnclosingTag ищет элемент с заданным тегом на пути от выделения к
// корню редактора, не включая корень. Возвращает nil, если не найден.
func FindEnclosingTag(root *html.Node, s Selection, tag string) *html.Node {
	start := s.CommonContainer()
	for n := start; n != nil && n != root; n = n.Parent {
		if n.Type == html.ElementNode && n.Data == tag {
			return n
		}
	}
	return nil
}

// FindEnclosingMediaInsert ищет охватывающую медиа-вставку.
func FindEnclosingMediaInsert(root *html.Node, s Selection) *html.Node {
	start := s.CommonContainer()
	for n := start; n != nil && n != root; n = n.Parent {
		if dom.IsMediaInsert(n) {
			return n
		}
	}
	return nil
}

// SplitBlockAtCaret расщепляет блок в точке каретки на два блока того же
// тега: контент до каретки и после. Пустая половина возвращается как nil.
// Используется при вставке блочного контента внутрь существующего блока,
// чтобы не породить вложенные блоки.
func SplitBlockAtCaret(block *html.Node, caret Position) (*html.Node, *html.Node) {
	before := dom.CloneShallow(block)
	after := dom.CloneShallow(block)

	splitInto(block, caret, before, after)

	if !sideHasContent(before) {
		before = nil
	}
	if !sideHasContent(after) {
		after = nil
	}
	return before, after
}

func splitInto(n *html.Node, caret Position, before, after *html.Node) {
	if n == caret.Node && n.Type == html.TextNode {
		runes := []rune(n.Data)
		off := caret.Offset
		if off < 0 {
			off = 0
		}
		if off > len(runes) {
			off = len(runes)
		}
		if off > 0 {
			before.AppendChild(dom.NewText(string(runes[:off])))
		}
		if off < len(runes) {
			after.AppendChild(dom.NewText(string(runes[off:])))
		}
		return
	}

	if n == caret.Node {
		// Каретка между детьми элемента
		i := 0
		for el := n.FirstChild; el != nil; el = el.NextSibling {
			if i < caret.Offset {
				before.AppendChild(dom.CloneDeep(el))
			} else {
				after.AppendChild(dom.CloneDeep(el))
			}
			i++
		}
		return
	}

	passed := false
	for el := n.FirstChild; el != nil; el = el.NextSibling {
		if dom.Contains(el, caret.Node) {
			if el.Type == html.TextNode {
				splitInto(el, caret, before, after)
			} else {
				b := dom.CloneShallow(el)
				a := dom.CloneShallow(el)
				splitInto(el, caret, b, a)
				if b.FirstChild != nil {
					before.AppendChild(b)
				}
				if a.FirstChild != nil {
					after.AppendChild(a)
				}
			}
			passed = true
			continue
		}
		if passed {
			after.AppendChild(dom.CloneDeep(el))
		} else {
			before.AppendChild(dom.CloneDeep(el))
		}
	}
}

func sideHasContent(n *html.Node) bool {
	if n.FirstChild == nil {
		return false
	}
	if dom.HasText(n) {
		return true
	}
	for el := n.FirstChild; el != nil; el = el.NextSibling {
		if el.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// NodePath - путь от корня к узлу как последовательность индексов детей.
type NodePath []int

// PathOf возвращает путь от корня к узлу. Второй результат false, если
// узел не принадлежит дереву корня.
func PathOf(root, n *html.Node) (NodePath, bool) {
	var path NodePath
	for cur := n; cur != root; cur = cur.Parent {
		if cur == nil || cur.Parent == nil {
			return nil, false
		}
		path = append(path, dom.ChildIndex(cur))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// Resolve возвращает узел по пути от корня. Второй результат false, если
// путь не ведёт к узлу (дерево изменилось сильнее, чем ожидалось).
func (p NodePath) Resolve(root *html.Node) (*html.Node, bool) {
	cur := root
	for _, idx := range p {
		child := cur.FirstChild
		for i := 0; i < idx && child != nil; i++ {
			child = child.NextSibling
		}
		if child == nil {
			return nil, false
		}
		cur = child
	}
	return cur, true
}
