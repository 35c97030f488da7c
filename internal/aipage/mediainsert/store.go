package mediainsert

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
)

// Asset - метаданные медиафайла из внешнего хранилища.
type Asset struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
}

// AssetStore отдаёт метаданные медиафайла по идентификатору. Реализация
// живёт на стороне хоста (библиотека медиафайлов).
type AssetStore interface {
	Fetch(ctx context.Context, id string) (Asset, error)
}

// MemoryStore - хранилище метаданных в памяти для тестов и headless-запуска.
type MemoryStore struct {
	mu     sync.RWMutex
	assets map[string]Asset
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assets: make(map[string]Asset)}
}

// Add регистрирует новый медиафайл и возвращает его со сгенерированным ID.
func (s *MemoryStore) Add(url, name, contentType string) Asset {
	id, _ := uuid.NewV4()
	asset := Asset{ID: id, URL: url, Name: name, ContentType: contentType}
	s.mu.Lock()
	s.assets[id.String()] = asset
	s.mu.Unlock()
	return asset
}

func (s *MemoryStore) Fetch(_ context.Context, id string) (Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[id]
	if !ok {
		return Asset{}, fmt.Errorf("asset %s not found", id)
	}
	return asset, nil
}

// MarkupRenderer строит HTML-разметку медиа-вставки по медиафайлу и
// конфигурации размещения. Хост подставляет собственный рендерер; при его
// отсутствии используется базовый.
type MarkupRenderer interface {
	RenderMedia(asset Asset, cfg Config) (string, error)
}

// BasicRenderer - базовая разметка: figure с data-атрибутами конфигурации
// и img внутри. URL медиафайла берётся best-effort: при недоступных
// метаданных остаётся пустым, вставка всё равно проходит.
type BasicRenderer struct{}

func (BasicRenderer) RenderMedia(asset Asset, cfg Config) (string, error) {
	var sb strings.Builder
	sb.WriteString(`<figure data-media-insert="true">`)
	sb.WriteString(fmt.Sprintf(`<img src="%s" alt="%s">`,
		html.EscapeString(asset.URL), html.EscapeString(cfg.AltText)))
	if cfg.Caption != "" {
		sb.WriteString(`<figcaption>` + html.EscapeString(cfg.Caption) + `</figcaption>`)
	}
	sb.WriteString(`</figure>`)
	return sb.String(), nil
}
