package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"storereport/domain/report"
)

// Reader parses uploaded Excel and CSV exports into an untyped cell grid.
// Cells stay strings exactly as the file holds them; all header and data
// interpretation happens downstream in the reconciler.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Read dispatches on the file extension. ".xls" uploads are attempted as
// workbooks too; modern exports often carry the legacy extension on an xlsx
// payload, and genuine legacy files surface a parse error to the caller.
func (r *Reader) Read(src io.Reader, filename string) (report.RawTable, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return r.readCSV(src)
	case ".xlsx", ".xls":
		return r.readWorkbook(src)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// readWorkbook reads the first sheet of a workbook. Exports come from
// arbitrary store systems, so no sheet name is assumed.
func (r *Reader) readWorkbook(src io.Reader) (report.RawTable, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	log.Printf("[Reader] workbook sheet %q read (%d rows)", sheets[0], len(rows))
	return report.RawTable(rows), nil
}

func (r *Reader) readCSV(src io.Reader) (report.RawTable, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1 // exports are ragged

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[Reader] CSV file read (%d rows)", len(rows))
	return report.RawTable(rows), nil
}
