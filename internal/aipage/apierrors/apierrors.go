// Пакет содержит определения ошибок ядра визуального редактора. Каждая
// ошибка имеет код и описание, что позволяет хосту показывать пользователю
// информативные сообщения. Также включает helper-функцию для форматирования
// сообщений об ошибках.
//
// Основные возможности:
//   - Определение ошибок медиа-вставок, команд и жизненного цикла редактора.
//   - Коды ошибок для машинной обработки на стороне хоста.
//   - Сообщения об ошибках на английском и русском языках.
package apierrors

import (
	"fmt"
)

type DefinedError struct {
	Code  int    `json:"code"`
	Err   string `json:"error"`
	RuErr string `json:"ru_error,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

var (
	// 1*** - media insert errors
	ErrMediaFetchFailed   = DefinedError{Code: 1001, Err: "failed to fetch media asset metadata", RuErr: "Не удалось загрузить данные медиафайла"}
	ErrMediaSpliceFailed  = DefinedError{Code: 1002, Err: "failed to insert media element", RuErr: "Не удалось вставить медиафайл"}
	ErrMediaUpdateFailed  = DefinedError{Code: 1003, Err: "failed to update media element", RuErr: "Не удалось обновить медиафайл"}
	ErrMediaConfigInvalid = DefinedError{Code: 1004, Err: "invalid media insert config", RuErr: "Некорректные параметры медиа-вставки"}

	// 2*** - command errors
	ErrUnknownCommand = DefinedError{Code: 2001, Err: "unknown editor command %q", RuErr: "Неизвестная команда редактора %q"}
	ErrInvalidLink    = DefinedError{Code: 2002, Err: "link url rejected", RuErr: "Недопустимый адрес ссылки"}

	// 3*** - lifecycle errors
	ErrEditorDestroyed = DefinedError{Code: 3001, Err: "editor instance destroyed", RuErr: "Экземпляр редактора уничтожен"}
)

// Format подставляет аргументы в сообщения ошибки.
func (e DefinedError) Format(args ...interface{}) DefinedError {
	e.Err = fmt.Sprintf(e.Err, args...)
	e.RuErr = fmt.Sprintf(e.RuErr, args...)
	return e
}
