package output

import (
	"fmt"
	"io"
	"os"

	"loupe/internal/service"
)

// Writer renders a review outcome in a specific format.
type Writer interface {
	Write(w io.Writer, out service.Outcome) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteOutcome writes the outcome to the given file path, or stdout when the
// path is empty.
func WriteOutcome(out service.Outcome, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, out)
}
