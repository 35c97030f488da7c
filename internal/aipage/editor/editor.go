// Пакет реализует ядро визуального редактора контент-виджетов: жизненный
// цикл экземпляра, протокол общей панели инструментов и воронку изменений
// контента через санитайзер к колбэку хоста.
//
// Основные возможности:
//   - Создание, рендер и уничтожение экземпляра редактора.
//   - Активация и деактивация относительно общего реестра панели.
//   - Установка и чтение контента с отложенной санитизацией и
//     восстановлением каретки.
//   - Дедупликация уведомлений об изменении контента.
//   - Detached-режим: редактор без собственной панели исполняет команды
//     внешней панели.
//   - Обработчики событий ввода, вставки, клавиатуры и перетаскивания.
package editor

import (
	"log/slog"

	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/apierrors"
	"github.com/aisa-it/aipage/internal/aipage/commands"
	"github.com/aisa-it/aipage/internal/aipage/config"
	"github.com/aisa-it/aipage/internal/aipage/dom"
	"github.com/aisa-it/aipage/internal/aipage/eventloop"
	"github.com/aisa-it/aipage/internal/aipage/mediainsert"
	"github.com/aisa-it/aipage/internal/aipage/sanitizer"
	"github.com/aisa-it/aipage/internal/aipage/selection"
	"github.com/aisa-it/aipage/internal/aipage/toolbar"
)

// Options - параметры создания редактора. Обязателен только Manager при
// работе нескольких редакторов на странице; остальные зависимости имеют
// headless-значения по умолчанию.
type Options struct {
	// Content - начальный HTML-контент
	Content string
	// OnChange получает очищенный HTML после каждого значимого изменения
	OnChange func(html string)
	// Namespace пробрасывается в поверхности выбора медиафайлов
	Namespace string

	// PermittedFormats - явный список разрешённых блочных форматов
	PermittedFormats []string
	// MaxHeaderLevel - максимальный уровень заголовка; ноль - спросить
	// хоста, затем конфигурацию окружения
	MaxHeaderLevel int
	// MaxHeaderLevelFromHost - чтение уровня из хост-документа
	MaxHeaderLevelFromHost func() int

	// DetachedToolbar - редактор не строит собственную панель и исполняет
	// команды внешней
	DetachedToolbar bool

	Manager  *toolbar.Manager
	Renderer toolbar.Renderer
	Native   commands.NativeSurface
	Links    commands.LinkPrompt
	Loop     eventloop.Loop

	Store    mediainsert.AssetStore
	Picker   mediainsert.Picker
	Markup   mediainsert.MarkupRenderer
	Layout   mediainsert.Layout
	Notifier mediainsert.Notifier
}

// Editor - экземпляр редактора. Владеет ровно одним редактируемым деревом
// и зеркалом его сериализованной формы.
type Editor struct {
	opts    Options
	loop    eventloop.Loop
	manager *toolbar.Manager

	root *html.Node
	sel  selection.Selection

	// content - зеркало последней сериализованной формы
	content      string
	lastReported string

	full  *sanitizer.Cleaner
	paste *sanitizer.Cleaner

	exec  *commands.Executor
	media *mediainsert.Manager
	items []toolbar.Item

	rendered    bool
	isActive    bool
	isDestroyed bool
	teardown    []func()
}

// New создаёт редактор без рендера. Уровень заголовков выбирается по
// приоритету: явная настройка, хост-документ, переменные окружения,
// значение по умолчанию.
func New(opts Options) *Editor {
	cfg := config.ReadConfig()
	if opts.MaxHeaderLevel == 0 && opts.MaxHeaderLevelFromHost != nil {
		opts.MaxHeaderLevel = opts.MaxHeaderLevelFromHost()
	}
	if opts.MaxHeaderLevel == 0 {
		opts.MaxHeaderLevel = cfg.MaxHeaderLevel
	}
	if len(opts.PermittedFormats) == 0 {
		opts.PermittedFormats = cfg.PermittedFormatList()
	}
	if opts.Loop == nil {
		opts.Loop = eventloop.NewSerial()
	}
	if opts.Manager == nil {
		opts.Manager = toolbar.NewManager()
	}

	full := sanitizer.NewFull()
	if cfg.StrictClean {
		// Хост потребовал строгий профиль и для программной установки
		// контента, не только для вставки из буфера
		full = sanitizer.NewPaste()
	}

	e := &Editor{
		opts:    opts,
		loop:    opts.Loop,
		manager: opts.Manager,
		root:    dom.ParseFragment(""),
		content: opts.Content,
		full:    full,
		paste:   sanitizer.NewPaste(),
	}

	if e.opts.Native == nil {
		e.opts.Native = commands.NewHeadless(e)
	}

	e.exec = commands.NewExecutor(commands.Deps{
		Host:             e,
		Native:           e.opts.Native,
		Media:            e,
		Links:            opts.Links,
		Cleanup:          e.cleanupNow,
		PermittedFormats: opts.PermittedFormats,
		MaxHeaderLevel:   opts.MaxHeaderLevel,
	})

	e.media = mediainsert.NewManager(e.root, mediainsert.Deps{
		Store:     opts.Store,
		Picker:    opts.Picker,
		Renderer:  opts.Markup,
		Layout:    opts.Layout,
		Loop:      e.loop,
		Notifier:  opts.Notifier,
		Namespace: opts.Namespace,
		OnChange:  e.NotifyChange,
		Destroyed: func() bool { return e.isDestroyed },
	})

	return e
}

// Render строит редактируемую область и, вне detached-режима, панель
// инструментов. Начальный контент записывается сразу, санитизация
// выполняется отложенным тиком: область интерактивна до её завершения.
func (e *Editor) Render() {
	if e.isDestroyed {
		return
	}
	e.runTeardown()

	e.root = dom.ParseFragment(e.content)
	e.sel = selection.Selection{}
	e.media.SetRoot(e.root)
	e.rendered = true

	if !e.opts.DetachedToolbar {
		e.items = toolbar.Build(toolbar.Options{
			MaxHeaderLevel:   e.exec.MaxHeaderLevel(),
			PermittedFormats: e.opts.PermittedFormats,
		})
		if e.opts.Renderer != nil {
			e.opts.Renderer.RenderToolbar(e.items)
		}
	}

	e.teardown = append(e.teardown, func() {
		e.media.SetRoot(dom.ParseFragment(""))
	})

	e.loop.Post(func() {
		if e.isDestroyed {
			return
		}
		e.sanitizeInPlace()
		e.media.Rebind()
	})
}

// Activate регистрирует редактор целью общей панели инструментов.
func (e *Editor) Activate() {
	if e.isDestroyed || !e.rendered {
		return
	}
	e.manager.Activate(e)
	e.isActive = true
	e.refreshToolbarState()
}

// Deactivate снимает редактор с общей панели.
func (e *Editor) Deactivate() {
	if e.isDestroyed {
		return
	}
	e.manager.Deactivate(e)
	e.isActive = false
}

// Active возвращает true, если редактор сейчас цель общей панели.
func (e *Editor) Active() bool {
	return e.isActive
}

// Destroyed возвращает true после Destroy.
func (e *Editor) Destroyed() bool {
	return e.isDestroyed
}

// Destroy переводит редактор в терминальное состояние: снятие с панели,
// сброс обработчиков, удаление DOM. Все мутирующие операции после этого -
// тихие no-op: асинхронные коллабораторы могут дозвониться после сноса.
func (e *Editor) Destroy() {
	if e.isDestroyed {
		return
	}
	e.Deactivate()
	e.runTeardown()
	e.root = dom.ParseFragment("")
	e.sel = selection.Selection{}
	e.rendered = false
	e.isDestroyed = true
}

func (e *Editor) runTeardown() {
	for _, fn := range e.teardown {
		fn()
	}
	e.teardown = nil
}

// DispatchCommand исполняет команду внешней панели (detached-режим).
// Ошибки обработчиков перехватываются и логируются.
func (e *Editor) DispatchCommand(ev commands.Event) {
	if e.isDestroyed {
		slog.Debug("Command on destroyed editor ignored", "command", ev.Command, "err", apierrors.ErrEditorDestroyed)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Editor command handler panic", "command", ev.Command, "err", r)
		}
	}()
	e.exec.ExecEvent(ev)
}

// ToolbarState собирает свежий снимок состояния форматирования для панели.
func (e *Editor) ToolbarState() selection.State {
	native := selection.NativeState{
		Bold:          e.opts.Native.QueryState(commands.Bold),
		Italic:        e.opts.Native.QueryState(commands.Italic),
		UnorderedList: e.opts.Native.QueryState(commands.UnorderedList),
		OrderedList:   e.opts.Native.QueryState(commands.OrderedList),
	}
	return selection.Derive(e.root, e.sel, native, e.exec.MaxHeaderLevel())
}

// Toolbar возвращает собранную модель панели (пусто в detached-режиме).
func (e *Editor) Toolbar() []toolbar.Item {
	return e.items
}

func (e *Editor) refreshToolbarState() {
	if e.opts.Renderer != nil {
		e.opts.Renderer.RenderState(e.ToolbarState())
	}
}

// Root возвращает корень редактируемого дерева.
func (e *Editor) Root() *html.Node {
	return e.root
}

// Selection возвращает текущее выделение.
func (e *Editor) Selection() selection.Selection {
	return e.sel
}

// SetSelection устанавливает выделение. Вызывается хостом при каждом
// изменении позиции каретки.
func (e *Editor) SetSelection(sel selection.Selection) {
	if e.isDestroyed {
		return
	}
	e.sel = sel
}

// Exec выполняет команду редактирования.
func (e *Editor) Exec(k commands.Kind, value string) {
	if e.isDestroyed {
		return
	}
	e.exec.Exec(k, value)
}

// OpenInsertAtCaret открывает поверхность выбора медиафайла для вставки
// после блока с кареткой.
func (e *Editor) OpenInsertAtCaret() {
	block := selection.EnclosingBlock(e.root, e.sel)
	if block == e.root {
		e.media.Insert(nil)
		return
	}
	e.media.Insert(block)
}

// OpenEditAtCaret открывает редактирование медиа-вставки под кареткой.
func (e *Editor) OpenEditAtCaret() {
	if n := selection.FindEnclosingMediaInsert(e.root, e.sel); n != nil {
		e.media.OpenEdit(n)
	}
}

// DeleteAtCaret удаляет медиа-вставку под кареткой.
func (e *Editor) DeleteAtCaret() {
	if n := selection.FindEnclosingMediaInsert(e.root, e.sel); n != nil {
		e.media.Delete(n)
	}
}

// Media возвращает менеджер медиа-вставок.
func (e *Editor) Media() *mediainsert.Manager {
	return e.media
}
