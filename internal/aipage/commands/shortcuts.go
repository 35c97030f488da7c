package commands

import (
	"fmt"
	"strings"
)

// Key - нажатие клавиши с модификаторами. Mod - основной модификатор
// платформы (Ctrl либо Cmd), нормализацию выполняет хост.
type Key struct {
	Name  string
	Mod   bool
	Shift bool
}

// Shortcut сопоставляет нажатию команду по таблице сочетаний редактора.
// Возвращает false, если сочетание не назначено либо запрошенный формат
// не разрешён настройками: недоступное сочетание молча игнорируется.
func (e *Executor) Shortcut(k Key) (Kind, string, bool) {
	name := strings.ToLower(k.Name)

	if name == "tab" {
		if k.Shift {
			return Outdent, "", true
		}
		return Indent, "", true
	}

	if !k.Mod {
		return Unknown, "", false
	}

	switch name {
	case "0":
		if e.FormatPermitted("p") {
			return FormatBlock, "p", true
		}
	case "1", "2", "3", "4", "5", "6":
		format := fmt.Sprintf("h%s", name)
		if e.FormatPermitted(format) {
			return FormatBlock, format, true
		}
	case "7":
		return UnorderedList, "", true
	case "8":
		return OrderedList, "", true
	case "l":
		return CreateLink, "", true
	case ",":
		return Outdent, "", true
	case ".":
		return Indent, "", true
	case "k":
		return FormatCode, "", true
	case "j":
		return FormatBlockquote, "", true
	}
	return Unknown, "", false
}
