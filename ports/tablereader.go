package ports

import (
	"io"

	"storereport/domain/report"
)

// TableReader parses an uploaded export into the raw cell grid. Cells stay
// untyped strings; structural interpretation belongs to the reconciler.
type TableReader interface {
	Read(src io.Reader, filename string) (report.RawTable, error)
}
