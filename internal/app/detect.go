package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"msstore-packager/internal/ports"
)

// Detect reports which configurator, if any, matches the project directory.
// "No match" is a result, not an error.
func (s Service) Detect(_ context.Context, req DetectRequest) (DetectResult, error) {
	if strings.TrimSpace(req.ProjectPath) == "" {
		return DetectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	configurator, ok := s.findConfigurator(req.ProjectPath)
	if !ok {
		return DetectResult{}, nil
	}
	return DetectResult{Configurator: configurator.Name(), Found: true}, nil
}

// findConfigurator matches each configurator's detection patterns against
// the top level of the directory. Detection is a pure read: unreadable
// paths and malformed patterns are treated as non-matches.
func (s Service) findConfigurator(projectPath string) (ports.ConfiguratorPort, bool) {
	entries, err := os.ReadDir(projectPath)
	if err != nil {
		return nil, false
	}
	for _, configurator := range s.Configurators {
		for _, pattern := range configurator.DetectionPatterns() {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				matched, matchErr := filepath.Match(pattern, entry.Name())
				if matchErr != nil {
					continue
				}
				if matched {
					return configurator, true
				}
			}
		}
	}
	return nil, false
}
