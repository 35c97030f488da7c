package selection

import (
	"golang.org/x/net/html"
)

// State - производный снимок состояния форматирования по текущему
// выделению. Пересчитывается на каждом событии, влияющем на выделение,
// собственного жизненного цикла не имеет.
type State struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	UnorderedList bool   `json:"unordered_list"`
	OrderedList   bool   `json:"ordered_list"`
	Link          bool   `json:"link"`
	Code          bool   `json:"code"`
	Blockquote    bool   `json:"blockquote"`
	BlockFormat   string `json:"block_format"`

	MaxHeaderLevel int `json:"max_header_level"`
}

// NativeState - предикаты форматирования, которые умеет отдавать нативная
// текстовая поверхность хоста. Там, где хост их не предоставляет, снимок
// достраивается обходом предков.
type NativeState struct {
	Bold          bool
	Italic        bool
	UnorderedList bool
	OrderedList   bool
}

// Derive собирает снимок состояния панели инструментов: нативные предикаты
// плюс обход предков для code, blockquote, ссылок и уровня заголовка.
func Derive(root *html.Node, s Selection, native NativeState, maxHeaderLevel int) State {
	st := State{
		Bold:           native.Bold,
		Italic:         native.Italic,
		UnorderedList:  native.UnorderedList,
		OrderedList:    native.OrderedList,
		MaxHeaderLevel: maxHeaderLevel,
		BlockFormat:    "p",
	}
	if s.Empty() {
		return st
	}

	st.Link = FindEnclosingTag(root, s, "a") != nil
	st.Code = FindEnclosingTag(root, s, "code") != nil
	st.Blockquote = FindEnclosingTag(root, s, "blockquote") != nil

	if !st.UnorderedList {
		st.UnorderedList = FindEnclosingTag(root, s, "ul") != nil
	}
	if !st.OrderedList {
		st.OrderedList = FindEnclosingTag(root, s, "ol") != nil
	}

	block := EnclosingBlock(root, s)
	if block != root {
		switch block.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
			st.BlockFormat = block.Data
		default:
			st.BlockFormat = "p"
		}
	}
	return st
}
