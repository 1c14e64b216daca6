// Package console delivers reports to the local terminal, emitting GitHub
// Actions workflow commands when output is not an interactive terminal so CI
// log annotations still appear.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/changelint/changelint/internal/usecase/lint"
)

// Delivery implements the lint.Delivery port by writing to an io.Writer.
type Delivery struct {
	out        io.Writer
	isTerminal bool
}

// NewDelivery constructs a console delivery writing to stdout.
func NewDelivery() *Delivery {
	return &Delivery{
		out:        os.Stdout,
		isTerminal: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// NewDeliveryWithWriter constructs a console delivery over an explicit
// writer. Used by tests.
func NewDeliveryWithWriter(out io.Writer, isTerminal bool) *Delivery {
	return &Delivery{out: out, isTerminal: isTerminal}
}

// SubmitAggregate writes the markdown report verbatim.
func (d *Delivery) SubmitAggregate(ctx context.Context, markdown string) error {
	_, err := fmt.Fprintln(d.out, markdown)
	return err
}

// SubmitInline writes each comment as either a human-readable line or a
// workflow-command annotation, depending on whether output is a terminal.
func (d *Delivery) SubmitInline(ctx context.Context, comments []lint.InlineComment, level lint.Level) error {
	for _, comment := range comments {
		var line string
		if d.isTerminal {
			prefix := "warning"
			if level == lint.LevelFail {
				prefix = "error"
			}
			line = fmt.Sprintf("%s: %s:%d: %s", prefix, comment.File, comment.Line, firstLine(comment.Message))
		} else {
			command := "warning"
			if level == lint.LevelFail {
				command = "error"
			}
			line = fmt.Sprintf("::%s file=%s,line=%d::%s", command, comment.File, comment.Line, escapeWorkflowValue(comment.Message))
		}
		if _, err := fmt.Fprintln(d.out, line); err != nil {
			return err
		}
	}
	return nil
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}

// escapeWorkflowValue encodes the characters GitHub Actions requires escaped
// in workflow-command data.
func escapeWorkflowValue(value string) string {
	value = strings.ReplaceAll(value, "%", "%25")
	value = strings.ReplaceAll(value, "\r", "%0D")
	return strings.ReplaceAll(value, "\n", "%0A")
}
