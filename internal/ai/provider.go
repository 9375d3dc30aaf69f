package ai

import "context"

// ImageGenerator produces raster artwork from a text prompt. Generation is
// treated as unreliable; every call site needs a non-fatal fallback.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio string) (data []byte, mimeType string, err error)
}
