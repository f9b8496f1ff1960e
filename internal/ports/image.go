package ports

import "context"

// ImageConverterPort converts an icon file into a store-compatible logo
// image. Callers treat conversion failures as best-effort.
type ImageConverterPort interface {
	ConvertIcoToImage(ctx context.Context, sourcePath string, destPath string) error
}
