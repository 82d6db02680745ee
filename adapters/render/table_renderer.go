package render

import (
	"bytes"
	"context"
	"log"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"storereport/domain/layout"
	apperrors "storereport/internal/errors"
	"storereport/ports"
)

// DefaultPixelsPerUnit converts abstract layout units to pixels.
const DefaultPixelsPerUnit = 80.0

const (
	marginUnits    = 0.4
	titleBandUnits = 1.1
	cellPadUnits   = 0.12
	gridColor      = "#b0b0b0"
)

// TableRenderer rasterizes a table layout into a PNG. The font provider is
// consulted per render; when it has nothing the built-in bitmap face is used
// (legible for digits and latin text, missing CJK glyphs — still better than
// refusing to render).
type TableRenderer struct {
	fonts ports.FontProvider
	ppu   float64
}

func NewTableRenderer(fonts ports.FontProvider, pixelsPerUnit float64) *TableRenderer {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = DefaultPixelsPerUnit
	}
	return &TableRenderer{fonts: fonts, ppu: pixelsPerUnit}
}

type faceSet struct {
	title           font.Face
	headerPrimary   font.Face
	headerSecondary font.Face
	data            font.Face
}

// Render draws the full report: title band on top, then the table with every
// cell filled, stroked and labeled per its style directive.
func (r *TableRenderer) Render(ctx context.Context, tl *layout.TableLayout) ([]byte, error) {
	if len(tl.Cells) == 0 || len(tl.Cells[0]) == 0 {
		return nil, apperrors.RenderError("layout has no cells", nil)
	}
	if len(tl.RowHeights) != len(tl.Cells) {
		return nil, apperrors.RenderError("layout row heights do not match the cell matrix", nil)
	}

	wpx := tl.Width * r.ppu
	hpx := tl.Height * r.ppu
	dc := gg.NewContext(int(wpx), int(hpx))
	dc.SetHexColor("#ffffff")
	dc.Clear()

	margin := marginUnits * r.ppu
	titleBand := titleBandUnits * r.ppu
	tableW := wpx - 2*margin
	tableH := hpx - titleBand - margin

	unitSum := 0.0
	for _, h := range tl.RowHeights {
		unitSum += h
	}

	cols := len(tl.Cells[0])
	colW := tableW / float64(cols)
	faces := r.loadFaces(ctx)

	y := titleBand
	for i, row := range tl.Cells {
		rh := tl.RowHeights[i] / unitSum * tableH
		face := faces.data
		switch i {
		case 0:
			face = faces.headerPrimary
		case 1:
			face = faces.headerSecondary
		}

		x := margin
		for j, text := range row {
			st := tl.Styles[i][j]

			dc.SetHexColor(st.Background)
			dc.DrawRectangle(x, y, colW, rh)
			dc.Fill()
			dc.SetHexColor(gridColor)
			dc.SetLineWidth(1)
			dc.DrawRectangle(x, y, colW, rh)
			dc.Stroke()

			dc.SetFontFace(face)
			dc.SetHexColor(st.Color)
			r.drawCellText(dc, text, x, y, colW, rh, st)

			x += colW
		}
		y += rh
	}

	dc.SetFontFace(faces.title)
	dc.SetHexColor(layout.TitleColor)
	drawString(dc, tl.Title, wpx/2, titleBand/2, 0.5, 0.5, true)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, apperrors.RenderError("failed to encode report image", err)
	}
	return buf.Bytes(), nil
}

// drawCellText lays the cell's lines out vertically centered; horizontal
// placement follows the style directive.
func (r *TableRenderer) drawCellText(dc *gg.Context, text string, x, y, w, h float64, st layout.CellStyle) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	lineH := dc.FontHeight() * 1.3
	startY := y + h/2 - lineH*float64(len(lines)-1)/2

	pad := cellPadUnits * r.ppu
	for i, line := range lines {
		ly := startY + float64(i)*lineH
		if st.AlignLeft {
			drawString(dc, line, x+pad, ly, 0, 0.5, st.Bold)
		} else {
			drawString(dc, line, x+w/2, ly, 0.5, 0.5, st.Bold)
		}
	}
}

// drawString renders one anchored line; bold is simulated by double striking
// with a sub-pixel offset since only the regular face is provisioned.
func drawString(dc *gg.Context, s string, x, y, ax, ay float64, bold bool) {
	dc.DrawStringAnchored(s, x, y, ax, ay)
	if bold {
		dc.DrawStringAnchored(s, x+0.6, y, ax, ay)
	}
}

// loadFaces builds the face set from the provisioned TTF, falling back to
// the built-in bitmap face when the provider has nothing usable.
func (r *TableRenderer) loadFaces(ctx context.Context) faceSet {
	fallback := faceSet{
		title:           basicfont.Face7x13,
		headerPrimary:   basicfont.Face7x13,
		headerSecondary: basicfont.Face7x13,
		data:            basicfont.Face7x13,
	}

	path, ok := r.fonts.FontPath(ctx)
	if !ok {
		return fallback
	}

	load := func(points float64) (font.Face, bool) {
		face, err := gg.LoadFontFace(path, points)
		if err != nil {
			log.Printf("[TableRenderer] failed to load font face from %s: %v", path, err)
			return nil, false
		}
		return face, true
	}

	base := 0.20 * r.ppu
	data, ok := load(base)
	if !ok {
		return fallback
	}
	headerPrimary, ok := load(base * 1.18)
	if !ok {
		return fallback
	}
	title, ok := load(base * 1.6)
	if !ok {
		return fallback
	}

	return faceSet{
		title:           title,
		headerPrimary:   headerPrimary,
		headerSecondary: data,
		data:            data,
	}
}
