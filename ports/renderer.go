package ports

import (
	"context"

	"storereport/domain/layout"
)

// TableRenderer turns a table layout into an encoded raster image. The
// rendering backend is a collaborator: the pipeline only hands it the matrix
// and style directives and gets bytes back.
type TableRenderer interface {
	Render(ctx context.Context, tl *layout.TableLayout) ([]byte, error)
}
