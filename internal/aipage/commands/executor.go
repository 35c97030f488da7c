package commands

import (
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/apierrors"
	"github.com/aisa-it/aipage/internal/aipage/dom"
	policy "github.com/aisa-it/aipage/internal/aipage/redactor-policy"
	"github.com/aisa-it/aipage/internal/aipage/selection"
)

// Host - доступ исполнителя к состоянию редактора.
type Host interface {
	Root() *html.Node
	Selection() selection.Selection
	SetSelection(selection.Selection)

	// NotifyChange сообщает об изменении контента (с дедупликацией)
	NotifyChange()
	// DeferRepair ставит починку дерева на следующий тик, уведомление об
	// изменении уходит после неё
	DeferRepair()
}

// MediaHandler - вход в подсистему медиа-вставок для команд addImage,
// editImage и deleteImage.
type MediaHandler interface {
	OpenInsertAtCaret()
	OpenEditAtCaret()
	DeleteAtCaret()
}

// LinkPrompt - диалог ссылки. Открывается с текущим href, если каретка на
// ссылке. Колбэк асинхронный.
type LinkPrompt interface {
	PromptLink(current string, done func(href string, ok bool))
}

// Deps - зависимости исполнителя команд.
type Deps struct {
	Host    Host
	Native  NativeSurface
	Media   MediaHandler
	Links   LinkPrompt
	Cleanup func()

	// PermittedFormats - явный список разрешённых блочных форматов,
	// пусто - разрешены все
	PermittedFormats []string
	MaxHeaderLevel   int
}

// Executor выполняет команды редактирования.
type Executor struct {
	deps Deps
}

func NewExecutor(deps Deps) *Executor {
	if deps.MaxHeaderLevel < 1 || deps.MaxHeaderLevel > 6 {
		deps.MaxHeaderLevel = 3
	}
	return &Executor{deps: deps}
}

// Exec выполняет команду. Каждая команда завершается уведомлением об
// изменении контента, кроме formatBlock: там уведомление уходит после
// отложенной починки дерева, которую может потребовать нативное
// форматирование.
func (e *Executor) Exec(k Kind, value string) {
	switch {
	case k == Unknown:
		slog.Warn("Editor command rejected", "err", apierrors.ErrUnknownCommand.Format(value))
		return
	case k == CreateLink:
		e.createLink(value)
		return
	case k == FormatBlock:
		if !e.FormatPermitted(value) {
			return
		}
		if err := e.deps.Native.Exec(k, value); err != nil {
			slog.Error("Native formatBlock", "value", value, "err", err)
			return
		}
		// Нативное блочное форматирование легально оставляет вложенные
		// блоки и лишние span, чинить можно только после его завершения
		e.deps.Host.DeferRepair()
		return
	case k.IsNative():
		if err := e.deps.Native.Exec(k, value); err != nil {
			slog.Error("Native command", "command", k.String(), "err", err)
			return
		}
	case k == FormatCode:
		e.toggleCode()
	case k == FormatBlockquote:
		e.toggleBlockquote()
	case k == AddImage:
		if e.deps.Media != nil {
			e.deps.Media.OpenInsertAtCaret()
		}
		return // изменение контента зафиксирует подсистема медиа-вставок
	case k == EditImage:
		if e.deps.Media != nil {
			e.deps.Media.OpenEditAtCaret()
		}
		return
	case k == DeleteImage:
		if e.deps.Media != nil {
			e.deps.Media.DeleteAtCaret()
		}
		return
	case k == RemoveLink:
		e.RemoveLink()
		return
	case k == Cleanup:
		if e.deps.Cleanup != nil {
			e.deps.Cleanup()
		}
	}
	e.deps.Host.NotifyChange()
}

// ExecEvent разбирает и выполняет команду с границы системы.
func (e *Executor) ExecEvent(ev Event) {
	k, ok := ParseKind(ev.Command)
	if !ok {
		slog.Warn("Editor command rejected", "err", apierrors.ErrUnknownCommand.Format(ev.Command))
		return
	}
	e.Exec(k, ev.Value)
}

// FormatPermitted проверяет блочный формат против настроек редактора:
// уровень заголовка не выше максимального и формат входит в явный список,
// если список задан.
func (e *Executor) FormatPermitted(format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "p":
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(format[1] - '0')
		if level > e.deps.MaxHeaderLevel {
			return false
		}
	default:
		return false
	}
	if len(e.deps.PermittedFormats) == 0 {
		return true
	}
	return slices.Contains(e.deps.PermittedFormats, format)
}

// MaxHeaderLevel возвращает действующий максимальный уровень заголовка.
func (e *Executor) MaxHeaderLevel() int {
	return e.deps.MaxHeaderLevel
}

// createLink запрашивает адрес у диалога ссылки (если значения нет) и
// пробрасывает нативную команду. Адреса фильтруются политикой ссылок.
func (e *Executor) createLink(href string) {
	if href != "" {
		e.applyLink(href)
		return
	}
	if e.deps.Links == nil {
		return
	}
	current := ""
	if a := selection.FindEnclosingTag(e.deps.Host.Root(), e.deps.Host.Selection(), "a"); a != nil {
		current = dom.GetAttr("href", a.Attr)
	}
	e.deps.Links.PromptLink(current, func(href string, ok bool) {
		if !ok {
			return
		}
		e.applyLink(href)
		e.deps.Host.NotifyChange()
	})
}

func (e *Executor) applyLink(href string) {
	if !policy.SafeHref(href) {
		slog.Warn("Link url rejected", "href", href, "err", apierrors.ErrInvalidLink)
		return
	}
	if err := e.deps.Native.Exec(CreateLink, href); err != nil {
		slog.Error("Native createLink", "err", err)
	}
}

// RemoveLink разворачивает охватывающую ссылку (действие контекстного меню).
func (e *Executor) RemoveLink() {
	if a := selection.FindEnclosingTag(e.deps.Host.Root(), e.deps.Host.Selection(), "a"); a != nil {
		dom.Unwrap(a)
		e.deps.Host.NotifyChange()
	}
}

// toggleCode переключает inline-код: конец выделения внутри <code> -
// развернуть его, иначе обернуть выделенный текст в новый <code> и
// схлопнуть выделение сразу после него. Переключение одноуровневое.
func (e *Executor) toggleCode() {
	host := e.deps.Host
	root := host.Root()
	sel := host.Selection()

	if code := selection.FindEnclosingTag(root, sel, "code"); code != nil {
		caret := selection.Position{Node: code.Parent, Offset: dom.ChildIndex(code)}
		dom.Unwrap(code)
		host.SetSelection(selection.Caret(caret))
		return
	}

	if sel.Collapsed() || sel.Empty() {
		return
	}
	node := sel.Anchor.Node
	if node != sel.Focus.Node || node.Type != html.TextNode {
		slog.Debug("Inline code across nodes is not supported")
		return
	}

	start, end := sel.Anchor.Offset, sel.Focus.Offset
	if start > end {
		start, end = end, start
	}
	runes := []rune(node.Data)
	if start < 0 || end > len(runes) || start == end {
		return
	}

	parent := node.Parent
	code := dom.NewElement("code")
	code.AppendChild(dom.NewText(string(runes[start:end])))

	if start > 0 {
		parent.InsertBefore(dom.NewText(string(runes[:start])), node)
	}
	parent.InsertBefore(code, node)
	if end < len(runes) {
		parent.InsertBefore(dom.NewText(string(runes[end:])), node)
	}
	parent.RemoveChild(node)

	host.SetSelection(selection.Caret(selection.Position{Node: parent, Offset: dom.ChildIndex(code) + 1}))
}

// toggleBlockquote переключает цитату на охватывающем блоке: сам блок
// blockquote - превратить в параграф, родитель blockquote - развернуть
// родителя, иначе обернуть блок в новую цитату. Переключение одноуровневое.
func (e *Executor) toggleBlockquote() {
	host := e.deps.Host
	root := host.Root()
	block := selection.EnclosingBlock(root, host.Selection())
	if block == root {
		return
	}

	if block.Data == "blockquote" {
		dom.Rename(block, "p")
		return
	}
	if block.Parent != nil && block.Parent.Type == html.ElementNode && block.Parent.Data == "blockquote" {
		dom.Unwrap(block.Parent)
		return
	}

	quote := dom.NewElement("blockquote")
	block.Parent.InsertBefore(quote, block)
	block.Parent.RemoveChild(block)
	quote.AppendChild(block)
}
