package ports

import "context"

// FontProvider resolves a font file for the renderer. ok=false means no font
// could be provisioned and the renderer should degrade to its built-in face;
// font trouble is never fatal to report generation.
type FontProvider interface {
	FontPath(ctx context.Context) (path string, ok bool)
}
