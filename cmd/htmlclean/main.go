// Утилита очистки HTML-контента правилами редактора.
//
// Читает HTML из stdin, прогоняет через санитайзер и печатает результат в
// stdout. Флаг -strict включает строгий вариант (правила вставки из буфера
// обмена), -minify дополнительно сжимает результат.
package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"

	"github.com/aisa-it/aipage/internal/aipage/sanitizer"
)

func main() {
	strict := flag.Bool("strict", false, "строгий вариант очистки (правила вставки)")
	compact := flag.Bool("minify", false, "сжать результат")
	flag.Parse()

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		slog.Error("Read stdin", "err", err)
		os.Exit(1)
	}

	cleaner := sanitizer.NewFull()
	if *strict {
		cleaner = sanitizer.NewPaste()
	}
	out := cleaner.Clean(string(raw))

	if *compact {
		m := minify.New()
		m.AddFunc("text/html", mhtml.Minify)
		out, err = m.String("text/html", out)
		if err != nil {
			slog.Error("Minify output", "err", err)
			os.Exit(1)
		}
	}

	if _, err := io.Copy(os.Stdout, strings.NewReader(out)); err != nil {
		slog.Error("Write stdout", "err", err)
		os.Exit(1)
	}
}
