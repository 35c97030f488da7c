// Пакет строит модель панели инструментов и контекстного меню редактора и
// координирует единственную общую панель между несколькими экземплярами
// редактора на странице.
//
// Основные возможности:
//   - Сборка кнопок, разделителей и выпадающего списка форматов в
//     фиксированном порядке.
//   - Контекстное меню с действиями, зависящими от выделения, ссылки и
//     медиа-вставки под кареткой.
//   - Общий реестр панели: активен не более чем один редактор, активация
//     идемпотентна, последний активированный выигрывает.
package toolbar

import (
	"fmt"

	"github.com/aisa-it/aipage/internal/aipage/commands"
	"github.com/aisa-it/aipage/internal/aipage/selection"
)

type ItemKind int

const (
	Button ItemKind = iota
	Separator
	Dropdown
)

// DropdownOption - пункт выпадающего списка форматов.
type DropdownOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Item - элемент модели панели инструментов. Панель рендерит хост либо
// сам редактор, модель одинаковая.
type Item struct {
	Kind    ItemKind         `json:"kind"`
	Command commands.Kind    `json:"-"`
	Name    string           `json:"name,omitempty"`
	Options []DropdownOption `json:"options,omitempty"`
}

// Options - настройки сборки панели.
type Options struct {
	MaxHeaderLevel int
	// PermittedFormats дополнительно фильтрует список форматов, пусто - все
	PermittedFormats []string
}

// Build собирает панель инструментов в фиксированном порядке: bold, italic,
// link, форматы, списки, code, blockquote, вставка изображения, undo, redo,
// очистка.
func Build(opts Options) []Item {
	if opts.MaxHeaderLevel < 1 || opts.MaxHeaderLevel > 6 {
		opts.MaxHeaderLevel = 3
	}

	items := []Item{
		button(commands.Bold),
		button(commands.Italic),
		button(commands.CreateLink),
		sep(),
		formatDropdown(opts),
		sep(),
		button(commands.UnorderedList),
		button(commands.OrderedList),
		sep(),
		button(commands.FormatCode),
		button(commands.FormatBlockquote),
		sep(),
		button(commands.AddImage),
		sep(),
		button(commands.Undo),
		button(commands.Redo),
		sep(),
		button(commands.Cleanup),
	}
	return items
}

func button(k commands.Kind) Item {
	return Item{Kind: Button, Command: k, Name: k.String()}
}

func sep() Item {
	return Item{Kind: Separator}
}

func formatDropdown(opts Options) Item {
	permitted := func(format string) bool {
		if len(opts.PermittedFormats) == 0 {
			return true
		}
		for _, f := range opts.PermittedFormats {
			if f == format {
				return true
			}
		}
		return false
	}

	var options []DropdownOption
	if permitted("p") {
		options = append(options, DropdownOption{Label: "Параграф", Value: "p"})
	}
	for level := 1; level <= opts.MaxHeaderLevel; level++ {
		format := fmt.Sprintf("h%d", level)
		if permitted(format) {
			options = append(options, DropdownOption{Label: fmt.Sprintf("Заголовок %d", level), Value: format})
		}
	}
	return Item{Kind: Dropdown, Command: commands.FormatBlock, Name: "format", Options: options}
}

// MenuContext - условия показа контекстного меню: есть ли нескрытое
// выделение, стоит ли каретка на ссылке, на медиа-вставке. Каждое условие
// открывает свой непересекающийся набор действий.
type MenuContext struct {
	HasSelection bool
	OnLink       bool
	OnMedia      bool
}

// Action - действие контекстного меню.
type Action struct {
	Label   string        `json:"label"`
	Command commands.Kind `json:"-"`
	Value   string        `json:"value,omitempty"`
}

// BuildContextMenu собирает доступные действия по условиям контекста.
func BuildContextMenu(ctx MenuContext) []Action {
	var actions []Action
	if ctx.HasSelection {
		actions = append(actions,
			Action{Label: "Жирный", Command: commands.Bold},
			Action{Label: "Курсив", Command: commands.Italic},
			Action{Label: "Код", Command: commands.FormatCode},
			Action{Label: "Ссылка", Command: commands.CreateLink},
		)
	}
	if ctx.OnLink {
		actions = append(actions,
			Action{Label: "Изменить ссылку", Command: commands.CreateLink},
			Action{Label: "Убрать ссылку", Command: commands.RemoveLink},
		)
	}
	if ctx.OnMedia {
		actions = append(actions,
			Action{Label: "Изменить медиафайл", Command: commands.EditImage},
			Action{Label: "Удалить медиафайл", Command: commands.DeleteImage},
		)
	}
	return actions
}

// Renderer - презентационный слой панели. Реализуется хостом; редактор
// только отдаёт модель и свежие снимки состояния.
type Renderer interface {
	RenderToolbar(items []Item)
	RenderState(st selection.State)
	ShowContextMenu(actions []Action)
}
