package editor

import (
	"github.com/aisa-it/aipage/internal/aipage/dom"
	policy "github.com/aisa-it/aipage/internal/aipage/redactor-policy"
	"github.com/aisa-it/aipage/internal/aipage/sanitizer"
	"github.com/aisa-it/aipage/internal/aipage/selection"
)

// SetContent заменяет контент редактора. Значение, совпадающее с зеркалом,
// игнорируется. Несовпадающее записывается сразу и сообщается колбэку как
// есть; полный проход санитайзера выполняется на следующем тике, с повторной
// записью при расхождении и восстановлением каретки, если она была.
func (e *Editor) SetContent(htmlContent string) {
	if e.isDestroyed || htmlContent == e.content {
		return
	}

	caret, hadCaret := e.savedCaret()

	e.root = dom.ParseFragment(htmlContent)
	e.sel = selection.Selection{}
	e.content = htmlContent
	e.lastReported = htmlContent
	e.media.SetRoot(e.root)
	if e.opts.OnChange != nil {
		e.opts.OnChange(htmlContent)
	}

	e.loop.Post(func() {
		if e.isDestroyed {
			return
		}
		e.sanitizeInPlace()
		if hadCaret {
			e.restoreCaret(caret)
		}
		e.media.Rebind()
	})
}

// Content возвращает зеркало последней сериализованной формы контента.
func (e *Editor) Content() string {
	return e.content
}

// PlainText возвращает контент без разметки.
func (e *Editor) PlainText() string {
	return policy.FlattenToText(dom.RenderChildren(e.root))
}

// NotifyChange сериализует дерево, обновляет зеркало и дёргает колбэк
// изменения. Подряд идущие одинаковые значения схлопываются в один вызов.
func (e *Editor) NotifyChange() {
	if e.isDestroyed {
		return
	}
	serialized := dom.RenderChildren(e.root)
	e.content = serialized
	if serialized == e.lastReported {
		return
	}
	e.lastReported = serialized
	if e.opts.OnChange != nil {
		e.opts.OnChange(serialized)
	}
	e.loop.Post(func() {
		if e.isDestroyed {
			return
		}
		e.refreshToolbarState()
	})
}

// DeferRepair откладывает восстановление вложенности до следующего тика.
// Используется после нативного formatBlock: браузерная реализация может
// оставить заголовок внутри списка или цитаты.
func (e *Editor) DeferRepair() {
	e.loop.Post(func() {
		if e.isDestroyed {
			return
		}
		sanitizer.RepairNesting(e.root)
		e.full.StripDisallowed(e.root)
		e.NotifyChange()
	})
}

// cleanupNow прогоняет полный санитайзер по текущему дереву на месте.
func (e *Editor) cleanupNow() {
	e.full.CleanTree(e.root)
	e.media.Rebind()
}

func (e *Editor) sanitizeInPlace() {
	e.full.CleanTree(e.root)
	cleaned := dom.RenderChildren(e.root)
	if cleaned != e.content {
		e.content = cleaned
		e.lastReported = cleaned
		if e.opts.OnChange != nil {
			e.opts.OnChange(cleaned)
		}
	}
}

type savedCaret struct {
	path   selection.NodePath
	offset int
}

func (e *Editor) savedCaret() (savedCaret, bool) {
	if e.sel.Empty() || !e.sel.Collapsed() {
		return savedCaret{}, false
	}
	path, ok := selection.PathOf(e.root, e.sel.Focus.Node)
	if !ok {
		return savedCaret{}, false
	}
	return savedCaret{path: path, offset: e.sel.Focus.Offset}, true
}

func (e *Editor) restoreCaret(c savedCaret) {
	n, ok := c.path.Resolve(e.root)
	if !ok {
		e.sel = selection.Selection{}
		return
	}
	e.sel = selection.Caret(selection.Position{Node: n, Offset: c.offset})
}
