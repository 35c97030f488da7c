package dom

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func TestParseFragmentRoundTrip(t *testing.T) {
	src := `<p>до <strong>акцент</strong> после</p><ul><li>пункт</li></ul>`
	root := ParseFragment(src)
	if got := RenderChildren(root); got != src {
		t.Fatalf("round trip = %q, ожидалось %q", got, src)
	}
}

func TestParseFragmentGarbageInput(t *testing.T) {
	// Парсер всегда достраивает валидное дерево
	root := ParseFragment("<p><strong>незакрыто")
	if root.FirstChild == nil {
		t.Fatalf("мусорный вход дал пустое дерево")
	}
}

func TestUnwrap(t *testing.T) {
	root := ParseFragment("<p>a<span>b<em>c</em></span>d</p>")
	var span *html.Node
	IterNodes(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "span" {
			span = n
		}
		return span != nil
	})
	Unwrap(span)
	if got := RenderChildren(root); got != "<p>ab<em>c</em>d</p>" {
		t.Fatalf("Unwrap = %q", got)
	}
}

func TestRename(t *testing.T) {
	root := ParseFragment(`<b class="x">y</b>`)
	Rename(root.FirstChild, "strong")
	if got := RenderChildren(root); got != `<strong class="x">y</strong>` {
		t.Fatalf("Rename = %q", got)
	}
}

func TestReplaceWithText(t *testing.T) {
	root := ParseFragment("<p><em>a<strong>b</strong></em>c</p>")
	ReplaceWithText(root.FirstChild.FirstChild)
	if got := RenderChildren(root); got != "<p>abc</p>" {
		t.Fatalf("ReplaceWithText = %q", got)
	}
}

func TestClassifiers(t *testing.T) {
	testCases := []struct {
		tag      string
		block    bool
		inline   bool
		noNested bool
	}{
		{"p", true, false, true},
		{"h1", true, false, true},
		{"li", true, false, false},
		{"blockquote", true, false, true},
		{"strong", false, true, true},
		{"br", false, true, true},
		{"div", false, false, false},
	}
	for _, tc := range testCases {
		n := NewElement(tc.tag)
		if IsBlock(n) != tc.block || IsInline(n) != tc.inline || ForbidsNestedBlocks(n) != tc.noNested {
			t.Errorf("классификация %s: block=%v inline=%v noNested=%v",
				tc.tag, IsBlock(n), IsInline(n), ForbidsNestedBlocks(n))
		}
	}
}

func TestMediaInsertMarkers(t *testing.T) {
	root := ParseFragment(`<figure data-media-insert="true"><img src="x.png"></figure>`)
	figure := root.FirstChild
	img := figure.FirstChild

	if !IsMediaInsert(figure) {
		t.Errorf("опорный узел не распознан")
	}
	if IsMediaInsert(img) || !InsideMediaInsert(img) {
		t.Errorf("вложенный узел классифицирован неверно")
	}
}

func TestAttrHelpers(t *testing.T) {
	n := NewElement("a")
	SetAttr(n, "href", "https://x.ru")
	SetAttr(n, "target", "_blank")
	SetAttr(n, "class", "link")
	SetAttr(n, "href", "https://y.ru")

	if GetAttr("href", n.Attr) != "https://y.ru" {
		t.Errorf("SetAttr не заменил значение")
	}
	KeepAttrs(n, "href", "target")
	if AttrExists("class", n.Attr) || !AttrExists("target", n.Attr) {
		t.Errorf("KeepAttrs: %v", n.Attr)
	}
	DropAttrs(n, "target")
	if AttrExists("target", n.Attr) || !AttrExists("href", n.Attr) {
		t.Errorf("DropAttrs: %v", n.Attr)
	}
}

func TestRenderedStructureQueryable(t *testing.T) {
	root := ParseFragment("<p>a</p><ul><li>b</li><li>c</li></ul>")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(RenderChildren(root)))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("ul > li").Length() != 2 {
		t.Errorf("ожидались два пункта списка")
	}
	if doc.Find("p").Text() != "a" {
		t.Errorf("текст параграфа = %q", doc.Find("p").Text())
	}
}
