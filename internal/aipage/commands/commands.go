// Пакет диспетчеризует именованные команды редактирования. Команды с
// нативным эквивалентом пробрасываются в текстовую поверхность хоста,
// остальные реализованы прямой мутацией дерева. Строковые имена команд
// живут только на границе (события внешней панели инструментов), внутри
// используется закрытое перечисление.
//
// Основные возможности:
//   - Закрытое перечисление команд и разбор строковых имён.
//   - Двухуровневый исполнитель: нативный уровень и уровень мутаций дерева.
//   - Переключатели inline-кода и цитаты.
//   - Таблица клавиатурных сочетаний.
//   - Headless-реализация нативной поверхности для тестов.
package commands

// Kind - вид команды редактирования.
type Kind int

const (
	Unknown Kind = iota

	// Нативный уровень
	Bold
	Italic
	Underline
	UnorderedList
	OrderedList
	Indent
	Outdent
	FormatBlock
	CreateLink
	Undo
	Redo
	InsertText

	// Уровень мутаций дерева
	FormatCode
	FormatBlockquote
	AddImage
	EditImage
	DeleteImage
	RemoveLink
	Cleanup
)

var kindNames = map[Kind]string{
	Bold:             "bold",
	Italic:           "italic",
	Underline:        "underline",
	UnorderedList:    "insertUnorderedList",
	OrderedList:      "insertOrderedList",
	Indent:           "indent",
	Outdent:          "outdent",
	FormatBlock:      "formatBlock",
	CreateLink:       "createLink",
	Undo:             "undo",
	Redo:             "redo",
	InsertText:       "insertText",
	FormatCode:       "formatCode",
	FormatBlockquote: "formatBlockquote",
	AddImage:         "addImage",
	EditImage:        "editImage",
	DeleteImage:      "deleteImage",
	RemoveLink:       "removeLink",
	Cleanup:          "cleanup",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsNative возвращает true для команд нативного уровня.
func (k Kind) IsNative() bool {
	return k >= Bold && k <= InsertText
}

// ParseKind разбирает строковое имя команды с границы системы.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Event - полезная нагрузка события внешней панели инструментов,
// адресованного редактору в detached-режиме.
type Event struct {
	Command string `json:"command"`
	Value   string `json:"value,omitempty"`
}

// NativeSurface - мост к нативному интерфейсу текстовых команд хоста.
type NativeSurface interface {
	Exec(k Kind, value string) error
	QueryState(k Kind) bool
	QueryBlockFormat() string
}
