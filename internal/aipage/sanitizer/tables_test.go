package sanitizer

import "testing"

func TestConvertTables(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "заголовок и строка данных",
			src:      "<table><tr><th>Name</th></tr><tr><td>Alice</td></tr></table>",
			expected: "<p><strong>Name</strong></p><p>Alice</p>",
		},
		{
			name:     "ячейки строки соединяются разделителем",
			src:      "<table><tr><th>H1</th><th>H2</th></tr><tr><td>A</td><td>B</td></tr><tr><td>C</td><td>D</td></tr></table>",
			expected: "<p><strong>H1 | H2</strong></p><p>C | D</p>",
		},
		{
			name:     "таблица без заголовков",
			src:      "<table><tr><td>a</td><td>b</td></tr><tr><td>c</td></tr></table>",
			expected: "<p>a | b</p><p>c</p>",
		},
		{
			name:     "таблица без текста удаляется",
			src:      "<p>x</p><table><tr><td> </td></tr></table>",
			expected: "<p>x</p>",
		},
		{
			name:     "разметка внутри ячеек сводится к тексту",
			src:      "<table><tr><td><b>жирный</b> хвост</td></tr></table>",
			expected: "<p>жирный хвост</p>",
		},
		{
			name:     "переносы строк внутри ячейки схлопываются",
			src:      "<table><tr><td>a\n   b</td></tr></table>",
			expected: "<p>a b</p>",
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

func TestConvertTablesDeterministic(t *testing.T) {
	src := "<table><tr><th>H1</th><th>H2</th></tr><tr><td>A</td><td>B</td></tr></table>"
	cleaner := NewFull()
	first := cleaner.Clean(src)
	for i := 0; i < 10; i++ {
		if got := cleaner.Clean(src); got != first {
			t.Fatalf("результат преобразования таблицы нестабилен: %q != %q", got, first)
		}
	}
}
