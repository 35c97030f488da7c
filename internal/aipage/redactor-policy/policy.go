// Определяет политики безопасности для контента визуального редактора.
// Политики применяются к сериализованному HTML и дополняют структурный
// санитайзер: сведение разметки к чистому тексту и проверка ссылок,
// чтобы предотвратить XSS через значения href.
//
// Основные возможности:
//   - Политика полного удаления тегов для извлечения текста из HTML.
//   - Политика ссылок: разрешены только безопасные схемы URL и атрибуты
//     href, target, name.
//   - Хелперы FlattenToText и SafeHref поверх политик.
package policy

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var StripTagsPolicy *bluemonday.Policy = bluemonday.StrictPolicy()
var LinkPolicy *bluemonday.Policy = bluemonday.NewPolicy()

func init() {
	LinkPolicy.AllowAttrs("href", "target", "name").OnElements("a")
	LinkPolicy.AllowStandardURLs()
	LinkPolicy.AllowRelativeURLs(true)
	LinkPolicy.RequireNoFollowOnLinks(false)
}

// FlattenToText сводит HTML к чистому тексту без тегов.
func FlattenToText(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}
	return html.UnescapeString(StripTagsPolicy.Sanitize(htmlContent))
}

// SafeHref проверяет URL ссылки через политику ссылок. Возвращает false,
// если политика отвергла значение (опасная схема, мусор вместо URL).
func SafeHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}
	probe := `<a href="` + html.EscapeString(href) + `">x</a>`
	return strings.Contains(LinkPolicy.Sanitize(probe), "href=")
}
