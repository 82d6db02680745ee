package layout

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"storereport/domain/eval"
	"storereport/domain/report"
	"storereport/domain/target"
)

func buildFixture(t *testing.T, raw report.RawTable, entity string) *TableLayout {
	t.Helper()
	ds, err := report.Reconcile(raw)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	resolver := target.NewResolver(target.DefaultGlossary())
	evaluator := eval.NewEvaluator(resolver)
	records := ds.FilterByEntity(entity)
	evals := make([]eval.Evaluation, len(records))
	for i, rec := range records {
		evals[i] = evaluator.Evaluate(rec, ds.Headers)
	}
	return NewEngine(resolver).Build(ds, records, evals, entity)
}

func scenarioRaw() report.RawTable {
	return report.RawTable{
		{}, {},
		{"", "DCC首呼", "", "DCC首呼"},
		{"代理商", "指标", "分子", "分母"},
		{"门店A", "95", "10", "10"},
	}
}

// TestBuildScenario tests the end-to-end layout of a single passing record:
// numerator and denominator columns disappear and the outcome column carries
// the all-pass sentinel.
func TestBuildScenario(t *testing.T) {
	tl := buildFixture(t, scenarioRaw(), "门店A")

	wantHeader := []string{"DCC首呼", "考核结论"}
	if !reflect.DeepEqual(tl.Cells[0], wantHeader) {
		t.Errorf("primary header row = %v, want %v", tl.Cells[0], wantHeader)
	}
	wantSub := []string{"指标", "结果"}
	if !reflect.DeepEqual(tl.Cells[1], wantSub) {
		t.Errorf("secondary header row = %v, want %v", tl.Cells[1], wantSub)
	}

	if len(tl.Cells) != 3 {
		t.Fatalf("expected 3 table rows, got %d", len(tl.Cells))
	}
	dataRow := tl.Cells[2]
	if dataRow[len(dataRow)-1] != eval.AllPass {
		t.Errorf("outcome cell = %q, want all-pass sentinel", dataRow[len(dataRow)-1])
	}
	for _, cell := range tl.Cells[1] {
		if cell == "分子" || cell == "分母" {
			t.Errorf("support column leaked into the matrix: %v", tl.Cells[1])
		}
	}

	if tl.Title != "门店A - 门店考核报表" {
		t.Errorf("unexpected title %q", tl.Title)
	}
}

// TestRowHeights tests the sizing formula: base unit plus an increment per
// embedded line break.
func TestRowHeights(t *testing.T) {
	raw := report.RawTable{
		{}, {},
		{"", "DCC首呼", "试乘试驾满意度"},
		{"代理商", "指标", "指标"},
		{"门店A", "85", "4.5"},
	}
	tl := buildFixture(t, raw, "门店A")

	if tl.RowHeights[0] != 1.2 || tl.RowHeights[1] != 1.0 {
		t.Errorf("header heights = %v, want [1.2 1.0 ...]", tl.RowHeights[:2])
	}

	// Two failures produce an outcome cell with 3 lines of text per failure
	// pair: "a:\nx / y\nb:\nx / y" has 3 newlines.
	outcome := tl.Cells[2][len(tl.Cells[2])-1]
	newlines := strings.Count(outcome, "\n")
	want := 1.0 + float64(newlines)*0.45
	if math.Abs(tl.RowHeights[2]-want) > 1e-9 {
		t.Errorf("data row height = %v, want %v (%d newlines)", tl.RowHeights[2], want, newlines)
	}
}

// TestRowHeightTwoBreaks tests the exact formula for a cell with two
// embedded line breaks.
func TestRowHeightTwoBreaks(t *testing.T) {
	heights := rowHeights([][]string{
		{"h"}, {"h"},
		{"one\ntwo\nthree", "plain"},
	})
	want := 1.0 + 2*0.45
	if math.Abs(heights[2]-want) > 1e-9 {
		t.Errorf("height = %v, want %v", heights[2], want)
	}
}

// TestCanvasDimensions tests the width floor and the height formula.
func TestCanvasDimensions(t *testing.T) {
	if got := canvasWidth(2); got != 16.0 {
		t.Errorf("canvasWidth(2) = %v, want the 16.0 floor", got)
	}
	if got := canvasWidth(12); got != 21.0 {
		t.Errorf("canvasWidth(12) = %v, want 21.0", got)
	}

	heights := []float64{1.2, 1.0, 1.0, 1.9}
	want := (1.2+1.0+1.0+1.9)*0.5 + 2
	if got := canvasHeight(heights); math.Abs(got-want) > 1e-9 {
		t.Errorf("canvasHeight = %v, want %v", got, want)
	}
}

// TestStyles tests header styling, zebra striping, subtotal highlighting,
// outcome coloring and the indicator alert color.
func TestStyles(t *testing.T) {
	raw := report.RawTable{
		{}, {},
		{"", "", "DCC首呼"},
		{"代理商", "管家", "指标"},
		{"门店A", "张三", "85"},
		{"", "小计", "96"},
	}
	tl := buildFixture(t, raw, "门店A")

	for c, st := range tl.Styles[0] {
		if st.Background != HeaderPrimaryBG || st.Color != HeaderTextColor || !st.Bold {
			t.Errorf("header row 0 col %d style = %+v", c, st)
		}
	}
	if tl.Styles[1][0].Background != HeaderSecondaryBG {
		t.Errorf("header row 1 background = %s", tl.Styles[1][0].Background)
	}

	// Row 2 (first data row) is even: zebra shade, and the failing indicator
	// cell (85 -> 0.85 < 0.95) gets the alert color.
	if tl.Styles[2][0].Background != ZebraBG {
		t.Errorf("row 2 background = %s, want zebra shade", tl.Styles[2][0].Background)
	}
	if tl.Styles[2][1].Color != AlertColor {
		t.Errorf("failing indicator cell color = %s, want alert", tl.Styles[2][1].Color)
	}

	// The outcome cell for a failing record is the error color, left aligned.
	last := len(tl.Cells[2]) - 1
	if tl.Styles[2][last].Color != FailureColor || !tl.Styles[2][last].AlignLeft {
		t.Errorf("failing outcome style = %+v", tl.Styles[2][last])
	}

	// Row 3 is the subtotal row: highlight background, bold, passing outcome
	// in the success color.
	if tl.Styles[3][0].Background != SubtotalBG || !tl.Styles[3][0].Bold {
		t.Errorf("subtotal row style = %+v", tl.Styles[3][0])
	}
	if tl.Styles[3][last].Color != SuccessColor || !tl.Styles[3][last].Bold {
		t.Errorf("passing outcome style = %+v", tl.Styles[3][last])
	}
}

// TestBuildIsPure tests that building twice from the same inputs yields
// identical layouts.
func TestBuildIsPure(t *testing.T) {
	a := buildFixture(t, scenarioRaw(), "门店A")
	b := buildFixture(t, scenarioRaw(), "门店A")
	if !reflect.DeepEqual(a, b) {
		t.Error("Build is not deterministic for identical inputs")
	}
}
