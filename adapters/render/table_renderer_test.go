package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"storereport/domain/layout"
)

// noFont forces the built-in face so tests stay off the network.
type noFont struct{}

func (noFont) FontPath(context.Context) (string, bool) { return "", false }

func smallLayout() *layout.TableLayout {
	return &layout.TableLayout{
		Title: "StoreA - report",
		Cells: [][]string{
			{"Metric", "Outcome"},
			{"indicator", "result"},
			{"95", "pass\nall good"},
		},
		Styles: [][]layout.CellStyle{
			{{Background: layout.HeaderPrimaryBG, Color: layout.HeaderTextColor, Bold: true}, {Background: layout.HeaderPrimaryBG, Color: layout.HeaderTextColor, Bold: true}},
			{{Background: layout.HeaderSecondaryBG, Color: layout.HeaderTextColor, Bold: true}, {Background: layout.HeaderSecondaryBG, Color: layout.HeaderTextColor, Bold: true}},
			{{Background: layout.ZebraBG, Color: layout.TextColor}, {Background: layout.ZebraBG, Color: layout.SuccessColor, AlignLeft: true}},
		},
		RowHeights: []float64{1.2, 1.0, 1.45},
		Width:      16,
		Height:     3.825,
	}
}

// TestRenderProducesPNG tests that rendering yields a decodable PNG with the
// scaled canvas dimensions.
func TestRenderProducesPNG(t *testing.T) {
	r := NewTableRenderer(noFont{}, 40)

	data, err := r.Render(context.Background(), smallLayout())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 16*40, img.Bounds().Dx())
	require.Equal(t, int(3.825*40), img.Bounds().Dy())
}

// TestRenderEmptyLayout tests the guard against an empty matrix.
func TestRenderEmptyLayout(t *testing.T) {
	r := NewTableRenderer(noFont{}, 40)
	_, err := r.Render(context.Background(), &layout.TableLayout{})
	require.Error(t, err)
}

// TestRenderMismatchedHeights tests the guard against a height list that
// does not match the matrix.
func TestRenderMismatchedHeights(t *testing.T) {
	tl := smallLayout()
	tl.RowHeights = tl.RowHeights[:2]

	r := NewTableRenderer(noFont{}, 40)
	_, err := r.Render(context.Background(), tl)
	require.Error(t, err)
}

// TestRenderDefaultScale tests that a non-positive scale falls back to the
// default.
func TestRenderDefaultScale(t *testing.T) {
	r := NewTableRenderer(noFont{}, 0)
	require.Equal(t, DefaultPixelsPerUnit, r.ppu)
}
