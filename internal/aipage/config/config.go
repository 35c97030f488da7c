// Управление конфигурацией редактора из переменных окружения.
// Содержит структуру Config для хранения параметров по умолчанию и функцию
// ReadConfig для их загрузки из переменных окружения.
//
// Основные возможности:
//   - Загрузка конфигурации из переменных окружения с использованием тегов struct.
//   - Преобразование типов данных из переменных окружения (string, int, bool).
//   - Ограничение значений (MaxHeaderLevel в пределах 1..6).
package config

import (
	"log/slog"
	"reflect"
	"strings"
)

type Config struct {
	// Максимальный уровень заголовка, доступный в редакторе по умолчанию
	MaxHeaderLevel int `env:"EDITOR_MAX_HEADER_LEVEL"`

	// Список разрешённых блочных форматов через запятую, пусто - все
	PermittedFormats string `env:"EDITOR_PERMITTED_FORMATS"`

	// Строгий профиль очистки и для программной установки контента
	StrictClean bool `env:"EDITOR_STRICT_CLEAN"`
}

// ReadConfig загружает конфигурацию редактора из переменных окружения и
// нормализует значения. MaxHeaderLevel за пределами 1..6 заменяется
// значением по умолчанию 3.
func ReadConfig() *Config {
	config := &Config{}

	envConfig("env", config)

	if config.MaxHeaderLevel < 1 || config.MaxHeaderLevel > 6 {
		config.MaxHeaderLevel = 3
	}

	return config
}

// PermittedFormatList возвращает разобранный список форматов из конфигурации.
func (c *Config) PermittedFormatList() []string {
	if strings.TrimSpace(c.PermittedFormats) == "" {
		return nil
	}
	var res []string
	for f := range strings.SplitSeq(c.PermittedFormats, ",") {
		if f = strings.TrimSpace(f); f != "" {
			res = append(res, f)
		}
	}
	return res
}

// Присваивает полям в переданной структуре значения переменных. Название переменной для каждого поля лежит в теге этого поля.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)

		if !Exist(fEnvTag) {
			continue
		}

		logValue := GetEnv(fEnvTag)
		if logValue == "" {
			continue
		}

		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", logValue),
			slog.String("source", "ENVIRONMENT"),
		)

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(GetEnv(fEnvTag))
		case int:
			v.Field(i).SetInt(int64(GetIntEnv(fEnvTag)))
		case bool:
			v.Field(i).SetBool(GetBoolEnv(fEnvTag))
		}
	}
}
