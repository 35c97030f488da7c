package sanitizer

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/dom"
)

// convertTables заменяет каждую таблицу последовательностью параграфов:
// один жирный параграф с текстами заголовочных ячеек через " | ", затем по
// параграфу на строку данных. Перебор строк данных начинается с индекса,
// равного числу заголовочных ячеек - так вела себя исходная реализация,
// поведение сохранено намеренно. Таблица без извлекаемого текста
// удаляется целиком.
func convertTables(root *html.Node) {
	var tables []*html.Node
	dom.IterNodes(root, func(n *html.Node) bool {
		if dom.IsMediaInsert(n) {
			return true
		}
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, n)
			return true
		}
		return false
	})

	for _, table := range tables {
		if table.Parent == nil {
			continue
		}
		paras := tableParagraphs(table)
		if len(paras) == 0 {
			slog.Debug("Drop table without extractable text")
		}
		for _, p := range paras {
			table.Parent.InsertBefore(p, table)
		}
		dom.Remove(table)
	}
}

func tableParagraphs(table *html.Node) []*html.Node {
	rows := tableRows(table)

	var headerTexts []string
	headerCells := 0
	for _, row := range rows {
		for _, cell := range rowCells(row) {
			if cell.Data == "th" {
				headerCells++
				headerTexts = append(headerTexts, cellText(cell))
			}
		}
	}

	var paras []*html.Node
	if headerCells > 0 {
		joined := strings.Join(headerTexts, " | ")
		if strings.TrimSpace(joined) != "" {
			p := dom.NewElement("p")
			strong := dom.NewElement("strong")
			strong.AppendChild(dom.NewText(joined))
			p.AppendChild(strong)
			paras = append(paras, p)
		}
	}

	for i := headerCells; i < len(rows); i++ {
		var texts []string
		for _, cell := range rowCells(rows[i]) {
			texts = append(texts, cellText(cell))
		}
		joined := strings.Join(texts, " | ")
		if strings.TrimSpace(joined) == "" {
			continue
		}
		p := dom.NewElement("p")
		p.AppendChild(dom.NewText(joined))
		paras = append(paras, p)
	}

	return paras
}

func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	dom.IterNodes(table, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
			return true
		}
		return false
	})
	return rows
}

func rowCells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for el := row.FirstChild; el != nil; el = el.NextSibling {
		if el.Type == html.ElementNode && (el.Data == "td" || el.Data == "th") {
			cells = append(cells, el)
		}
	}
	return cells
}

func cellText(cell *html.Node) string {
	return strings.Join(strings.Fields(dom.TextContent(cell)), " ")
}
