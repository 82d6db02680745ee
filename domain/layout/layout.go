package layout

import (
	"strings"

	"storereport/domain/eval"
	"storereport/domain/report"
	"storereport/domain/target"
)

// Colors used by the rendered table.
const (
	HeaderPrimaryBG   = "#40466e"
	HeaderSecondaryBG = "#5a629e"
	ZebraBG           = "#f2f2f2"
	PlainBG           = "#ffffff"
	SubtotalBG        = "#fff3cd"
	SuccessColor      = "#2e7d32"
	FailureColor      = "#c62828"
	AlertColor        = "#d32f2f"
	TitleColor        = "#333333"
	TextColor         = "#000000"
	HeaderTextColor   = "#ffffff"
)

// SubtotalToken marks aggregate rows in the owner column.
const SubtotalToken = "小计"

const (
	numeratorLabel   = "分子"
	denominatorLabel = "分母"

	outcomePrimary   = "考核结论"
	outcomeSecondary = "结果"
	outcomeKey       = "outcome"

	headerPrimaryHeight   = 1.2
	headerSecondaryHeight = 1.0
	dataRowBaseHeight     = 1.0
	extraLineIncrement    = 0.45

	minCanvasWidth = 16.0
)

// CellStyle carries the rendering directives for one cell.
type CellStyle struct {
	Background string
	Color      string
	Bold       bool
	AlignLeft  bool
}

// TableLayout is the full rendering plan for one entity's report: the cell
// matrix (two header rows plus data rows), per-cell styles, and geometry in
// abstract layout units the renderer scales to pixels.
type TableLayout struct {
	Title      string
	Cells      [][]string
	Styles     [][]CellStyle
	RowHeights []float64
	Width      float64
	Height     float64
}

// Engine derives table geometry and styling from evaluated records. It holds
// no state besides the resolver it needs to re-check indicator cells for the
// alert color; Build is a pure function of its inputs.
type Engine struct {
	resolver *target.Resolver
}

func NewEngine(resolver *target.Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// Build lays out the report table for one entity. records and evals run in
// parallel; evals[i] is the outcome for records[i].
func (e *Engine) Build(ds *report.Dataset, records []report.Record, evals []eval.Evaluation, entity string) *TableLayout {
	shown := visibleHeaders(ds.Headers)

	cells := make([][]string, 0, len(records)+2)
	row0 := make([]string, len(shown))
	row1 := make([]string, len(shown))
	for i, h := range shown {
		row0[i] = h.Primary
		row1[i] = h.Secondary
	}
	cells = append(cells, row0, row1)

	for i, rec := range records {
		row := make([]string, len(shown))
		for j, h := range shown {
			if h.Key == outcomeKey {
				row[j] = evals[i].Summary()
			} else {
				row[j] = rec[h.Key]
			}
		}
		cells = append(cells, row)
	}

	heights := rowHeights(cells)

	return &TableLayout{
		Title:      entity + " - 门店考核报表",
		Cells:      cells,
		Styles:     e.styleCells(cells, shown),
		RowHeights: heights,
		Width:      canvasWidth(len(shown)),
		Height:     canvasHeight(heights),
	}
}

// visibleHeaders filters the reconciled header list down to what the report
// shows: the entity column is the report's title, numerator and denominator
// columns only back the indicators, and a synthetic outcome column closes
// the table.
func visibleHeaders(headers []report.HeaderEntry) []report.HeaderEntry {
	var shown []report.HeaderEntry
	for i, h := range headers {
		if i == 0 {
			continue
		}
		if h.Secondary == numeratorLabel || h.Secondary == denominatorLabel {
			continue
		}
		shown = append(shown, h)
	}
	return append(shown, report.HeaderEntry{
		Primary:   outcomePrimary,
		Secondary: outcomeSecondary,
		Key:       outcomeKey,
	})
}

// rowHeights returns per-row heights in layout units: fixed header bands,
// then a base unit per data row plus an increment for every embedded line
// break in the row's tallest cell.
func rowHeights(cells [][]string) []float64 {
	heights := make([]float64, 0, len(cells))
	heights = append(heights, headerPrimaryHeight, headerSecondaryHeight)
	for _, row := range cells[2:] {
		maxNewlines := 0
		for _, c := range row {
			if n := strings.Count(c, "\n"); n > maxNewlines {
				maxNewlines = n
			}
		}
		heights = append(heights, dataRowBaseHeight+float64(maxNewlines)*extraLineIncrement)
	}
	return heights
}

func canvasWidth(cols int) float64 {
	w := float64(cols)*1.5 + 3
	if w < minCanvasWidth {
		return minCanvasWidth
	}
	return w
}

func canvasHeight(heights []float64) float64 {
	sum := 0.0
	for _, h := range heights {
		sum += h
	}
	return sum*0.5 + 2
}

func (e *Engine) styleCells(cells [][]string, shown []report.HeaderEntry) [][]CellStyle {
	styles := make([][]CellStyle, len(cells))
	lastCol := len(shown) - 1

	for r, row := range cells {
		styles[r] = make([]CellStyle, len(row))

		if r < 2 {
			bg := HeaderPrimaryBG
			if r == 1 {
				bg = HeaderSecondaryBG
			}
			for c := range row {
				styles[r][c] = CellStyle{Background: bg, Color: HeaderTextColor, Bold: true}
			}
			continue
		}

		bg := PlainBG
		if r%2 == 0 {
			bg = ZebraBG
		}
		bold := false
		if strings.Contains(row[0], SubtotalToken) {
			bg = SubtotalBG
			bold = true
		}

		for c, text := range row {
			st := CellStyle{Background: bg, Color: TextColor, Bold: bold}
			switch {
			case c == lastCol:
				if strings.Contains(text, "全部合格") {
					st.Color = SuccessColor
					st.Bold = true
				} else {
					st.Color = FailureColor
					st.AlignLeft = true
				}
			case e.belowTarget(shown[c], text):
				st.Color = AlertColor
			}
			styles[r][c] = st
		}
	}
	return styles
}

// belowTarget re-checks a single indicator cell so missed values stay marked
// even outside the outcome column.
func (e *Engine) belowTarget(h report.HeaderEntry, text string) bool {
	if !strings.Contains(h.Secondary, eval.IndicatorToken) {
		return false
	}
	t, ok := e.resolver.Resolve(h.Primary)
	if !ok {
		return false
	}
	v, ok := target.ParseValue(text)
	if !ok {
		return false
	}
	return eval.AlignScale(t, v) < t.Threshold
}
