package config

import (
	"testing"
)

func TestReadConfigDefaults(t *testing.T) {
	cfg := ReadConfig()
	if cfg.MaxHeaderLevel != 3 {
		t.Errorf("MaxHeaderLevel по умолчанию = %d, ожидалось 3", cfg.MaxHeaderLevel)
	}
	if cfg.PermittedFormatList() != nil {
		t.Errorf("список форматов по умолчанию должен быть пустым")
	}
}

func TestReadConfigFromEnv(t *testing.T) {
	t.Setenv("EDITOR_MAX_HEADER_LEVEL", "2")
	t.Setenv("EDITOR_PERMITTED_FORMATS", "p, h1 ,h2,")
	t.Setenv("EDITOR_STRICT_CLEAN", "true")

	cfg := ReadConfig()
	if cfg.MaxHeaderLevel != 2 {
		t.Errorf("MaxHeaderLevel = %d, ожидалось 2", cfg.MaxHeaderLevel)
	}
	if !cfg.StrictClean {
		t.Errorf("StrictClean не прочитан")
	}
	formats := cfg.PermittedFormatList()
	if len(formats) != 3 || formats[0] != "p" || formats[1] != "h1" || formats[2] != "h2" {
		t.Errorf("PermittedFormatList = %v", formats)
	}
}

func TestReadConfigClampsHeaderLevel(t *testing.T) {
	t.Setenv("EDITOR_MAX_HEADER_LEVEL", "42")
	cfg := ReadConfig()
	if cfg.MaxHeaderLevel != 3 {
		t.Errorf("уровень за пределами 1..6 должен заменяться на 3, получено %d", cfg.MaxHeaderLevel)
	}
}
