package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/acarl005/stripansi"
)

// The build tools' captured output is a load-bearing contract: the produced
// package path is only reported there, so a missing marker line is a typed
// error rather than a best-effort guess.

const arrowSeparator = "->"

// ExtractArrowPath locates the produced package path in MSBuild-style
// output: the first line referencing ext, taking the text after the arrow
// separator.
func ExtractArrowPath(output string, ext string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, ext) {
			continue
		}
		arrowIdx := strings.Index(line, arrowSeparator)
		if arrowIdx < 0 {
			continue
		}
		path := strings.TrimSpace(line[arrowIdx+len(arrowSeparator):])
		if path != "" {
			return path, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("build output does not reference a %s package path", ext))
}

// ExtractMarkerPath locates the produced package path in Flutter-style
// output: the last line containing marker, taking the text after it. ANSI
// escape sequences are stripped before scanning.
func ExtractMarkerPath(output string, marker string) (string, error) {
	plain := stripansi.Strip(output)
	var found string
	for _, line := range strings.Split(plain, "\n") {
		markerIdx := strings.Index(line, marker)
		if markerIdx < 0 {
			continue
		}
		path := strings.TrimSpace(line[markerIdx+len(marker):])
		path = strings.TrimSpace(strings.TrimPrefix(path, ":"))
		if path != "" {
			found = path
		}
	}
	if found == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("build output does not contain a %q line", marker))
	}
	return found, nil
}
