package mediainsert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aisa-it/aipage/internal/aipage/dom"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Type:         "gallery",
		ID:           "0b4e1e2e-45f1-4f3a-9a68-6f2b8f9d1c11",
		Align:        "center",
		GalleryStyle: "grid",
	}
	assert.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"без типа", func(c *Config) { c.Type = "" }},
		{"без идентификатора", func(c *Config) { c.ID = "" }},
		{"идентификатор не uuid", func(c *Config) { c.ID = "42" }},
		{"неизвестное выравнивание", func(c *Config) { c.Align = "justify" }},
		{"неизвестный стиль галереи", func(c *Config) { c.GalleryStyle = "mosaic" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfigNodeRoundTrip(t *testing.T) {
	cfg := Config{
		Type:    "image",
		ID:      "0b4e1e2e-45f1-4f3a-9a68-6f2b8f9d1c11",
		Width:   "50%",
		Align:   "left",
		Caption: "подпись",
	}
	n := dom.NewElement("figure")
	cfg.ApplyTo(n)

	assert.True(t, dom.IsMediaInsert(n))
	assert.Equal(t, cfg, ConfigFromNode(n))
}

func TestConfigApplyToDropsClearedFields(t *testing.T) {
	n := dom.NewElement("figure")
	Config{Type: "image", ID: "x", Caption: "старая"}.ApplyTo(n)
	Config{Type: "image", ID: "x"}.ApplyTo(n)
	assert.False(t, dom.AttrExists(AttrCaption, n.Attr), "очищенное поле должно уйти из атрибутов")
}
