package render

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrNothingToCopy is returned when there is no HTML to copy.
var ErrNothingToCopy = errors.New("nothing to copy")

// CopyFailedMessage is shown when the clipboard rejects a write.
const CopyFailedMessage = "Failed to copy to clipboard"

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the operating system clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// CopyHTML copies html to cb. Panics from the clipboard backend are turned
// into errors.
func CopyHTML(cb Clipboard, html string) (err error) {
	if html == "" {
		return ErrNothingToCopy
	}
	if cb == nil {
		return errors.New("no clipboard configured")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard panicked: %v", r)
		}
	}()

	if err := cb.WriteAll(html); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}
