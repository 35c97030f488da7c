package selection

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/dom"
)

// findText возвращает первый текстовый узел поддерева с заданным содержимым.
func findText(root *html.Node, data string) *html.Node {
	var found *html.Node
	dom.IterNodes(root, func(n *html.Node) bool {
		if n.Type == html.TextNode && n.Data == data {
			found = n
		}
		return found != nil
	})
	return found
}

func TestEnclosingBlock(t *testing.T) {
	root := dom.ParseFragment("<p>до <strong>акцент</strong></p><ul><li>пункт</li></ul>")

	caret := Caret(Position{Node: findText(root, "акцент"), Offset: 2})
	block := EnclosingBlock(root, caret)
	if block == nil || block.Data != "p" {
		t.Fatalf("ожидался параграф, получено %v", block)
	}

	caret = Caret(Position{Node: findText(root, "пункт"), Offset: 0})
	block = EnclosingBlock(root, caret)
	if block == nil || block.Data != "li" {
		t.Fatalf("ожидался li, получено %v", block)
	}

	block = EnclosingBlock(root, Caret(Position{Node: root, Offset: 0}))
	if block != root {
		t.Fatalf("для каретки на корне ожидался сам корень")
	}
}

func TestFindEnclosingTag(t *testing.T) {
	root := dom.ParseFragment(`<p><a href="https://x.ru">ссылка</a> текст</p>`)

	caret := Caret(Position{Node: findText(root, "ссылка"), Offset: 1})
	if a := FindEnclosingTag(root, caret, "a"); a == nil || a.Data != "a" {
		t.Fatalf("охватывающая ссылка не найдена")
	}

	caret = Caret(Position{Node: findText(root, " текст"), Offset: 1})
	if a := FindEnclosingTag(root, caret, "a"); a != nil {
		t.Fatalf("ссылка найдена вне ссылки: %v", a)
	}
}

func TestCommonContainer(t *testing.T) {
	root := dom.ParseFragment("<p><strong>a</strong><em>b</em></p>")
	sel := Selection{
		Anchor: Position{Node: findText(root, "a"), Offset: 0},
		Focus:  Position{Node: findText(root, "b"), Offset: 1},
	}
	cc := sel.CommonContainer()
	if cc == nil || cc.Data != "p" {
		t.Fatalf("ожидался общий контейнер p, получено %v", cc)
	}
}

func TestSplitBlockAtCaret(t *testing.T) {
	testCases := []struct {
		name           string
		src            string
		caretText      string
		caretOffset    int
		expectedBefore string
		expectedAfter  string
	}{
		{
			name:           "середина текстового узла",
			src:            "<p>abcd</p>",
			caretText:      "abcd",
			caretOffset:    2,
			expectedBefore: "<p>ab</p>",
			expectedAfter:  "<p>cd</p>",
		},
		{
			name:           "каретка в начале блока",
			src:            "<p>abcd</p>",
			caretText:      "abcd",
			caretOffset:    0,
			expectedBefore: "",
			expectedAfter:  "<p>abcd</p>",
		},
		{
			name:           "каретка в конце блока",
			src:            "<p>abcd</p>",
			caretText:      "abcd",
			caretOffset:    4,
			expectedBefore: "<p>abcd</p>",
			expectedAfter:  "",
		},
		{
			name:           "разрез внутри строчного форматирования",
			src:            "<p>до <strong>жирный</strong> после</p>",
			caretText:      "жирный",
			caretOffset:    3,
			expectedBefore: "<p>до <strong>жир</strong></p>",
			expectedAfter:  "<p><strong>ный</strong> после</p>",
		},
		{
			name:           "рунные смещения в кириллице",
			src:            "<p>привет</p>",
			caretText:      "привет",
			caretOffset:    3,
			expectedBefore: "<p>при</p>",
			expectedAfter:  "<p>вет</p>",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := dom.ParseFragment(tc.src)
			block := root.FirstChild
			caret := Position{Node: findText(root, tc.caretText), Offset: tc.caretOffset}

			before, after := SplitBlockAtCaret(block, caret)

			gotBefore, gotAfter := "", ""
			if before != nil {
				gotBefore = dom.Render(before)
			}
			if after != nil {
				gotAfter = dom.Render(after)
			}
			if gotBefore != tc.expectedBefore || gotAfter != tc.expectedAfter {
				t.Errorf("получено (%q, %q), ожидалось (%q, %q)", gotBefore, gotAfter, tc.expectedBefore, tc.expectedAfter)
			}
		})
	}
}

func TestNodePathRoundTrip(t *testing.T) {
	root := dom.ParseFragment("<p>a</p><ul><li>b</li><li><strong>c</strong></li></ul>")
	target := findText(root, "c")

	path, ok := PathOf(root, target)
	if !ok {
		t.Fatalf("путь к узлу не построен")
	}
	resolved, ok := path.Resolve(root)
	if !ok || resolved != target {
		t.Fatalf("путь %v разрешился в другой узел", path)
	}
}

func TestNodePathForeignNode(t *testing.T) {
	root := dom.ParseFragment("<p>a</p>")
	other := dom.ParseFragment("<p>b</p>")
	if _, ok := PathOf(root, other.FirstChild); ok {
		t.Fatalf("путь к чужому узлу не должен строиться")
	}
}

func TestNodePathResolveMissing(t *testing.T) {
	root := dom.ParseFragment("<p>a</p>")
	path := NodePath{0, 5}
	if _, ok := path.Resolve(root); ok {
		t.Fatalf("несуществующий путь не должен разрешаться")
	}
}
