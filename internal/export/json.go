package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/auditmd/auditmd/internal/record"
)

// JSONWriter outputs the full report as JSON. Record order is preserved
// exactly as frozen in the report.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *record.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
