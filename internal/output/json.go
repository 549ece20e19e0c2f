package output

import (
	"encoding/json"
	"fmt"
	"io"

	"loupe/internal/service"
)

// JSONWriter outputs the full outcome as JSON.
type JSONWriter struct{}

type jsonOutcome struct {
	OK     bool        `json:"ok"`
	Error  string      `json:"error,omitempty"`
	Review interface{} `json:"review,omitempty"`
}

func (j *JSONWriter) Write(w io.Writer, out service.Outcome) error {
	payload := jsonOutcome{OK: !out.Failed()}
	if out.Failed() {
		payload.Error = out.ErrorMessage
	} else {
		payload.Review = out.Result
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
