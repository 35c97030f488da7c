package sanitizer

import (
	"testing"

	"github.com/aisa-it/aipage/internal/aipage/dom"
)

func TestCleanFull(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "простой параграф",
			src:      "<p>Привет</p>",
			expected: "<p>Привет</p>",
		},
		{
			name:     "div с текстом становится параграфом",
			src:      "<div>Hello</div>",
			expected: "<p>Hello</p>",
		},
		{
			name:     "пустой div удаляется",
			src:      "<p>a</p><div>   </div><p>b</p>",
			expected: "<p>a</p><p>b</p>",
		},
		{
			name:     "span разворачивается",
			src:      `<p><span style="color:red">x</span>y</p>`,
			expected: "<p>xy</p>",
		},
		{
			name:     "class и style срезаются",
			src:      `<p class="c" style="s">text</p>`,
			expected: "<p>text</p>",
		},
		{
			name:     "ссылка теряет name в полном профиле",
			src:      `<p><a href="https://x.ru" target="_blank" name="n">t</a></p>`,
			expected: `<p><a href="https://x.ru" target="_blank">t</a></p>`,
		},
		{
			name:     "незнакомый тег разворачивается",
			src:      "<p><u>под</u>черк</p>",
			expected: "<p>подчерк</p>",
		},
		{
			name:     "пробел между словами переживает развёртку span",
			src:      "<div>hello <span>world</span></div>",
			expected: "<p>hello world</p>",
		},
		{
			name:     "пробел на стыке текстов после развёртки сохраняется",
			src:      "<p><u>под</u> черк</p>",
			expected: "<p>под черк</p>",
		},
		{
			name:     "свободный текст оборачивается в параграф",
			src:      "просто текст",
			expected: "<p>просто текст</p>",
		},
		{
			name:     "серия свободных узлов собирается в один параграф",
			src:      "a <strong>b</strong> c<p>d</p>",
			expected: "<p>a <strong>b</strong> c</p><p>d</p>",
		},
		{
			name:     "img остаётся и оборачивается",
			src:      `<img src="x.png" class="c">`,
			expected: `<p><img src="x.png"/></p>`,
		},
		{
			name:     "пустой параграф удаляется",
			src:      "<p></p><p>x</p><p>  </p>",
			expected: "<p>x</p>",
		},
		{
			name:     "параграф с br не считается пустым",
			src:      "<p><br></p>",
			expected: "<p><br/></p>",
		},
		{
			name:     "список без пунктов удаляется",
			src:      "<ul><li>  </li></ul><p>x</p>",
			expected: "<p>x</p>",
		},
		{
			name:     "серия br ограничивается двумя",
			src:      "<p>a<br><br><br><br>b</p>",
			expected: "<p>a<br/><br/>b</p>",
		},
		{
			name:     "пробельный текст не разрывает серию br",
			src:      "<p>a<br> <br>\n<br>b</p>",
			expected: "<p>a<br/> <br/>\nb</p>",
		},
		{
			name:     "комментарии удаляются",
			src:      "<p>a<!-- note --></p>",
			expected: "<p>a</p>",
		},
		{
			name:     "длинные пробельные серии схлопываются",
			src:      "<p>  hello   world  </p>",
			expected: "<p>hello world</p>",
		},
		{
			name:     "пробел у строчного элемента сохраняется",
			src:      "<p>до <strong>акцент</strong> после</p>",
			expected: "<p>до <strong>акцент</strong> после</p>",
		},
		{
			name:     "b и i сохраняются в полном профиле",
			src:      "<p><b>x</b><i>y</i></p>",
			expected: "<p><b>x</b><i>y</i></p>",
		},
	}
	cleaner := NewFull()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := cleaner.Clean(tc.src)
			if got != tc.expected {
				t.Errorf("Clean(%q) = %q, ожидалось %q", tc.src, got, tc.expected)
			}
		})
	}
}

func TestCleanPaste(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "b переименовывается в strong",
			src:      "<p><b>x</b></p>",
			expected: "<p><strong>x</strong></p>",
		},
		{
			name:     "i переименовывается в em",
			src:      "<p><i>x</i></p>",
			expected: "<p><em>x</em></p>",
		},
		{
			name:     "img вырезается",
			src:      `<p>a<img src="x.png">b</p>`,
			expected: "<p>ab</p>",
		},
		{
			name:     "все атрибуты кроме ссылочных удаляются",
			src:      `<p id="p1" data-z="1">x</p>`,
			expected: "<p>x</p>",
		},
		{
			name:     "ссылка сохраняет href target name",
			src:      `<p><a href="https://x.ru" target="_blank" name="n" class="c">t</a></p>`,
			expected: `<p><a href="https://x.ru" target="_blank" name="n">t</a></p>`,
		},
		{
			name:     "офисная обвязка сводится к тексту",
			src:      `<div><span lang="ru">Вставка </span><span><b>из</b> Word</span></div>`,
			expected: "<p>Вставка <strong>из</strong> Word</p>",
		},
	}
	cleaner := NewPaste()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := cleaner.Clean(tc.src)
			if got != tc.expected {
				t.Errorf("Clean(%q) = %q, ожидалось %q", tc.src, got, tc.expected)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	sources := []string{
		"<div>Hello</div>",
		"просто текст<br><br><br>",
		"<table><tr><th>Name</th></tr><tr><td>Alice</td></tr></table>",
		`<p>  a   b  <span>c</span></p><ul><li></li><li>x</li></ul>`,
	}
	for _, cleaner := range []*Cleaner{NewFull(), NewPaste()} {
		for _, src := range sources {
			once := cleaner.Clean(src)
			twice := cleaner.Clean(once)
			if once != twice {
				t.Errorf("очистка не идемпотентна для %q: %q != %q", src, once, twice)
			}
		}
	}
}

func TestCleanMediaInsertOpaque(t *testing.T) {
	src := `<div data-media-insert="true" data-media-type="image"><span class="raw">x</span><b style="s">y</b></div>`
	got := NewFull().Clean(src)
	if got != src {
		t.Errorf("поддерево медиа-вставки изменено: %q", got)
	}
}

func TestCleanMediaInsertWrapperUnwrapped(t *testing.T) {
	src := `<div><div data-media-insert="true"></div></div>`
	got := NewFull().Clean(src)
	expected := `<div data-media-insert="true"></div>`
	if got != expected {
		t.Errorf("Clean(%q) = %q, ожидалось %q", src, got, expected)
	}
}

func TestRepairNesting(t *testing.T) {
	// Строим дерево вручную: парсер сам чинит часть запрещённых вложений.
	root := dom.NewElement("body")
	p := dom.NewElement("p")
	strong := dom.NewElement("strong")
	inner := dom.NewElement("h1")
	inner.AppendChild(dom.NewText("глубина"))
	strong.AppendChild(inner)
	p.AppendChild(dom.NewText("до "))
	p.AppendChild(strong)
	root.AppendChild(p)

	RepairNesting(root)

	got := dom.RenderChildren(root)
	expected := "<p>до <strong>глубина</strong></p>"
	if got != expected {
		t.Errorf("RepairNesting = %q, ожидалось %q", got, expected)
	}
}

func TestRepairNestingListsSurvive(t *testing.T) {
	root := dom.ParseFragment("<ul><li>a</li><li><ul><li>b</li></ul></li></ul>")
	RepairNesting(root)
	got := dom.RenderChildren(root)
	expected := "<ul><li>a</li><li><ul><li>b</li></ul></li></ul>"
	if got != expected {
		t.Errorf("вложенный список повреждён: %q", got)
	}
}

func TestStripDisallowedKeepsStructure(t *testing.T) {
	root := dom.ParseFragment(`<p><span class="x">a</span></p><p></p>`)
	NewFull().StripDisallowed(root)
	got := dom.RenderChildren(root)
	// Только фильтр тегов: пустой параграф не удаляется
	expected := "<p>a</p><p></p>"
	if got != expected {
		t.Errorf("StripDisallowed = %q, ожидалось %q", got, expected)
	}
}
