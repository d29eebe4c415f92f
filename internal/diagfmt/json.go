package diagfmt

import (
	"encoding/json"
	"io"

	"loupe/internal/diag"
)

// JSON writes the report as indented JSON. Issue field names and severity
// spellings are the stable wire contract; nothing here renames them.
func JSON(w io.Writer, report *diag.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
