// Пакет реализует подсистему медиа-вставок: встраивание нередактируемого,
// но перетаскиваемого узла медиафайла внутрь свободно редактируемой
// области. Внутренняя разметка таких узлов непрозрачна для санитайзера.
//
// Основные возможности:
//   - Типизированная конфигурация вставки с валидацией полей.
//   - Сериализация конфигурации в data-атрибуты узла и обратно.
//   - Вставка, редактирование и удаление узлов медиа-вставок.
//   - Перетаскивание с индикатором позиции сброса.
//   - Дедупликация параллельных загрузок метаданных одного медиафайла.
package mediainsert

import (
	"github.com/go-playground/validator"
	"golang.org/x/net/html"

	"github.com/aisa-it/aipage/internal/aipage/dom"
)

const (
	AttrType         = "data-media-type"
	AttrID           = "data-media-id"
	AttrWidth        = "data-width"
	AttrAlign        = "data-align"
	AttrGalleryStyle = "data-gallery-style"
	AttrCaption      = "data-caption"
	AttrAltText      = "data-alt-text"
	AttrTitle        = "data-title"

	// AttrDragging - визуальное состояние перетаскивания
	AttrDragging = "data-dragging"
)

var validate = validator.New()

// Config - типизированная конфигурация медиа-вставки. Атрибуты узла
// остаются формой хранения (совместимость по HTML), структура живёт только
// на время сессии редактирования.
type Config struct {
	Type         string `validate:"required"`
	ID           string `validate:"required,uuid"`
	Width        string `validate:"omitempty,max=16"`
	Align        string `validate:"omitempty,oneof=left center right"`
	GalleryStyle string `validate:"omitempty,oneof=single grid carousel"`
	Caption      string
	AltText      string
	Title        string
}

// Validate проверяет конфигурацию перед записью в дерево.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// ConfigFromNode восстанавливает конфигурацию из data-атрибутов узла.
// Снимок денормализован: сам медиафайл живёт во внешнем хранилище.
func ConfigFromNode(n *html.Node) Config {
	return Config{
		Type:         dom.GetAttr(AttrType, n.Attr),
		ID:           dom.GetAttr(AttrID, n.Attr),
		Width:        dom.GetAttr(AttrWidth, n.Attr),
		Align:        dom.GetAttr(AttrAlign, n.Attr),
		GalleryStyle: dom.GetAttr(AttrGalleryStyle, n.Attr),
		Caption:      dom.GetAttr(AttrCaption, n.Attr),
		AltText:      dom.GetAttr(AttrAltText, n.Attr),
		Title:        dom.GetAttr(AttrTitle, n.Attr),
	}
}

// ApplyTo записывает конфигурацию в data-атрибуты узла вместе с маркерным
// атрибутом медиа-вставки.
func (c Config) ApplyTo(n *html.Node) {
	dom.SetAttr(n, dom.AttrMediaInsert, "true")
	setOrDrop(n, AttrType, c.Type)
	setOrDrop(n, AttrID, c.ID)
	setOrDrop(n, AttrWidth, c.Width)
	setOrDrop(n, AttrAlign, c.Align)
	setOrDrop(n, AttrGalleryStyle, c.GalleryStyle)
	setOrDrop(n, AttrCaption, c.Caption)
	setOrDrop(n, AttrAltText, c.AltText)
	setOrDrop(n, AttrTitle, c.Title)
}

func setOrDrop(n *html.Node, key, val string) {
	if val == "" {
		dom.DropAttrs(n, key)
		return
	}
	dom.SetAttr(n, key, val)
}
