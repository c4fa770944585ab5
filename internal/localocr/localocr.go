// Package localocr invokes either an operator-supplied custom command or
// the built-in default OCR tool, always via argument-list exec, never
// shell concatenation.
package localocr

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

const (
	inputPlaceholder  = "{{input_pdf}}"
	outputPlaceholder = "{{output_txt}}"
)

// RunCustomCommand splits command on whitespace, substitutes the
// {{input_pdf}}/{{output_txt}} placeholders token-by-token on the already
// split arguments, and execs it. A non-zero exit is returned as an error;
// the caller (internal/stages/ocr.go) treats that as critical.
func RunCustomCommand(ctx context.Context, command, inputPDFPath, outputTxtPath string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return errors.New("empty OCR command")
	}
	args := make([]string, len(fields))
	for i, f := range fields {
		f = strings.ReplaceAll(f, inputPlaceholder, inputPDFPath)
		f = strings.ReplaceAll(f, outputPlaceholder, outputTxtPath)
		args[i] = f
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "OCR command %q exited with error", command)
	}
	return nil
}

// DefaultToolPath is the built-in OCR program invoked when a pipeline does
// not select a custom command or external engine. Configurable so tests
// can point it at a fixture binary.
var DefaultToolPath = "dococr"

// RunDefault invokes the built-in tool: `dococr <input.pdf> <output-base>`,
// where it writes `<output-base>.txt` on success. Any failure here is
// critical since, unlike a custom command, the default tool's contract
// guarantees output on success.
func RunDefault(ctx context.Context, inputPDFPath, outputBase string) error {
	cmd := exec.CommandContext(ctx, DefaultToolPath, inputPDFPath, outputBase)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "default OCR tool failed")
	}
	return nil
}
