package mediainsert

import (
	"context"
	"log/slog"

	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"

	"github.com/aisa-it/aipage/internal/aipage/apierrors"
	"github.com/aisa-it/aipage/internal/aipage/dom"
	"github.com/aisa-it/aipage/internal/aipage/eventloop"
)

// Point - координаты указателя в системе координат редактируемой области.
type Point struct {
	X, Y float64
}

// Rect - ограничивающий прямоугольник элемента.
type Rect struct {
	Top, Left, Width, Height float64
}

func (r Rect) MidY() float64 {
	return r.Top + r.Height/2
}

// Layout отдаёт геометрию редактируемой области: ближайший блочный элемент
// или медиа-вставку под указателем и его прямоугольник. Реализуется хостом.
type Layout interface {
	BlockAt(p Point) (*html.Node, Rect, bool)
}

// PickResult - выбор медиафайла во внешней поверхности выбора.
type PickResult struct {
	Asset  Asset
	Config Config
}

// EditRequest - данные для поверхности редактирования. LoadErr не фатален:
// поверхность открывается и с ним, редактирование размещения остаётся
// доступным.
type EditRequest struct {
	Config    Config
	Asset     Asset
	LoadErr   error
	Namespace string
}

// Picker - внешние поверхности выбора и редактирования медиафайла.
// Колбэки асинхронные: могут прийти после уничтожения редактора.
type Picker interface {
	PickAsset(namespace string, done func(res PickResult, ok bool))
	EditConfig(req EditRequest, done func(cfg Config, ok bool))
}

// Notifier доводит ошибку операции до пользователя. Реализуется хостом.
type Notifier interface {
	NotifyError(err error)
}

// Deps - зависимости менеджера медиа-вставок.
type Deps struct {
	Store     AssetStore
	Picker    Picker
	Renderer  MarkupRenderer
	Layout    Layout
	Loop      eventloop.Loop
	Notifier  Notifier
	Namespace string

	// OnChange вызывается после каждой успешной мутации дерева
	OnChange func()
	// Destroyed проверяется перед касанием дерева из асинхронных колбэков
	Destroyed func() bool
}

// Manager владеет всеми узлами медиа-вставок внутри редактируемой области.
type Manager struct {
	root *html.Node
	deps Deps

	group     singleflight.Group
	bound     map[*html.Node]bool
	dragging  *html.Node
	indicator *html.Node
}

func NewManager(root *html.Node, deps Deps) *Manager {
	if deps.Renderer == nil {
		deps.Renderer = BasicRenderer{}
	}
	if deps.OnChange == nil {
		deps.OnChange = func() {}
	}
	if deps.Destroyed == nil {
		deps.Destroyed = func() bool { return false }
	}
	return &Manager{root: root, deps: deps, bound: make(map[*html.Node]bool)}
}

// SetRoot переключает менеджер на новое дерево (повторный рендер редактора).
func (m *Manager) SetRoot(root *html.Node) {
	m.root = root
	m.bound = make(map[*html.Node]bool)
	m.dragging = nil
	m.indicator = nil
	m.Rebind()
}

// Rebind (пере)привязывает обработчики ко всем медиа-вставкам дерева.
// Идемпотентна: повторный вызов для уже привязанного узла ничего не делает.
// Вызывается после каждого прохода рендера или установки контента.
func (m *Manager) Rebind() {
	if m.deps.Destroyed() {
		return
	}
	live := make(map[*html.Node]bool)
	dom.IterNodes(m.root, func(n *html.Node) bool {
		if dom.IsMediaInsert(n) {
			live[n] = m.bound[n]
			return true
		}
		return false
	})
	for n := range live {
		live[n] = true
	}
	m.bound = live
}

// Bound возвращает true, если узлу привязаны обработчики.
func (m *Manager) Bound(n *html.Node) bool {
	return m.bound[n]
}

// Insert открывает внешнюю поверхность выбора медиафайла и по выбору
// вставляет разметку после блока с кареткой либо в конец документа.
func (m *Manager) Insert(caretBlock *html.Node) {
	if m.deps.Destroyed() || m.deps.Picker == nil {
		return
	}
	m.deps.Picker.PickAsset(m.deps.Namespace, func(res PickResult, ok bool) {
		m.deps.Loop.Post(func() {
			if !ok || m.deps.Destroyed() {
				return
			}
			m.splice(res.Asset, res.Config, caretBlock, nil)
		})
	})
}

// splice строит разметку медиа-вставки и помещает её в дерево: на место
// replaced, после caretBlock либо в конец. Ошибка построения не трогает
// окружающее дерево.
func (m *Manager) splice(asset Asset, cfg Config, caretBlock, replaced *html.Node) {
	// Обновление существующего узла и первичная вставка сообщаются
	// пользователю разными ошибками
	failure := apierrors.ErrMediaSpliceFailed
	if replaced != nil {
		failure = apierrors.ErrMediaUpdateFailed
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("Media insert config rejected", "err", err)
		m.notify(apierrors.ErrMediaConfigInvalid)
		return
	}

	markup, err := m.deps.Renderer.RenderMedia(asset, cfg)
	if err != nil {
		slog.Error("Render media markup", "asset", cfg.ID, "err", err)
		m.notify(failure)
		return
	}

	frag := dom.ParseFragment(markup)
	node := firstElement(frag)
	if node == nil {
		slog.Error("Media markup has no element", "asset", cfg.ID)
		m.notify(failure)
		return
	}
	frag.RemoveChild(node)
	cfg.ApplyTo(node)

	switch {
	case replaced != nil && replaced.Parent != nil:
		dom.ReplaceWith(replaced, node)
		delete(m.bound, replaced)
	case caretBlock != nil && caretBlock.Parent != nil && caretBlock != m.root:
		dom.InsertAfter(node, caretBlock)
	default:
		m.root.AppendChild(node)
	}

	m.Rebind()
	m.deps.OnChange()
}

// OpenEdit читает конфигурацию из атрибутов узла, подтягивает метаданные
// медиафайла (ошибка загрузки не фатальна) и открывает поверхность
// редактирования. По сохранению разметка перегенерируется на месте старой.
func (m *Manager) OpenEdit(n *html.Node) {
	if m.deps.Destroyed() || m.deps.Picker == nil {
		return
	}
	cfg := ConfigFromNode(n)

	go func() {
		var asset Asset
		var fetchErr error
		if m.deps.Store != nil {
			v, err, _ := m.group.Do(cfg.ID, func() (interface{}, error) {
				return m.deps.Store.Fetch(context.Background(), cfg.ID)
			})
			if err != nil {
				fetchErr = apierrors.ErrMediaFetchFailed
				slog.Warn("Fetch media asset", "asset", cfg.ID, "err", err)
			} else {
				asset = v.(Asset)
			}
		}

		m.deps.Loop.Post(func() {
			if m.deps.Destroyed() {
				return
			}
			req := EditRequest{Config: cfg, Asset: asset, LoadErr: fetchErr, Namespace: m.deps.Namespace}
			m.deps.Picker.EditConfig(req, func(newCfg Config, ok bool) {
				m.deps.Loop.Post(func() {
					if !ok || m.deps.Destroyed() || n.Parent == nil {
						return
					}
					m.splice(asset, newCfg, nil, n)
				})
			})
		})
	}()
}

// Delete удаляет узел медиа-вставки из дерева.
func (m *Manager) Delete(n *html.Node) {
	if m.deps.Destroyed() {
		return
	}
	dom.Remove(n)
	delete(m.bound, n)
	m.deps.OnChange()
}

func (m *Manager) notify(err error) {
	if m.deps.Notifier != nil {
		m.deps.Notifier.NotifyError(err)
	}
}

func firstElement(root *html.Node) *html.Node {
	for el := root.FirstChild; el != nil; el = el.NextSibling {
		if el.Type == html.ElementNode {
			return el
		}
	}
	return nil
}
