package cli

import (
	"fmt"
	"io"
	"os"

	"web-cloner-go/pkg/render"
)

// HandleFormatCommand indents an HTML document read from path, or stdin when
// path is empty or "-".
func (a *App) HandleFormatCommand(path string) error {
	var r io.Reader = a.stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprintln(a.stdout, render.FormatHTML(string(data)))
	return nil
}
