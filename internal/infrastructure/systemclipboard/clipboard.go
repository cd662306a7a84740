package systemclipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"ArticlesDesk/internal/ports"
)

// ErrUnsupported is returned when no clipboard utility is available on the host.
var ErrUnsupported = errors.New("clipboard is not supported in this environment")

// Clipboard writes to the operating system clipboard.
type Clipboard struct{}

var _ ports.Clipboard = Clipboard{}

// WriteText copies text to the system clipboard.
func (Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
