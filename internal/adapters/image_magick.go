package adapters

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"msstore-packager/internal/ports"
	"msstore-packager/internal/shared"
	"msstore-packager/internal/types"
)

// MagickConverter shells out to ImageMagick to turn an .ico into a logo
// image. Callers decide whether a failure is fatal; during Configure it is
// not.
type MagickConverter struct {
	Runner ports.RunnerPort
}

func NewMagickConverter(runner ports.RunnerPort) MagickConverter {
	return MagickConverter{Runner: runner}
}

func (c MagickConverter) ConvertIcoToImage(ctx context.Context, sourcePath string, destPath string) error {
	result, err := c.Runner.Run(ctx, types.CommandSpec{
		Label:      "image convert",
		Executable: "magick",
		Args:       []string{sourcePath + "[0]", destPath},
	})
	if err != nil {
		return err
	}
	if !result.Succeeded() {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("image conversion failed").
			WithCause(shared.CommandError(result.Stderr, fmt.Errorf("exit code %d", result.ExitCode)))
	}
	return nil
}

var _ ports.ImageConverterPort = MagickConverter{}
