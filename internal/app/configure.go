package app

import (
	"context"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"msstore-packager/internal/ports"
)

func (s Service) Configure(ctx context.Context, req ConfigureRequest) (ConfigureResult, error) {
	if strings.TrimSpace(req.ProjectPath) == "" {
		return ConfigureResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	assert.NotEmpty(ctx, req.Identity.ID, "app id must be set")

	configurator, ok := s.findConfigurator(req.ProjectPath)
	if !ok {
		return ConfigureResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no configurator matches the project")
	}
	result, err := configurator.Configure(ctx, ports.ConfigureRequest{
		ProjectPath: req.ProjectPath,
		Output:      req.Output,
		Identity:    req.Identity,
	})
	if err != nil {
		return ConfigureResult{}, err
	}
	return ConfigureResult{
		Configurator: configurator.Name(),
		OutputDir:    result.OutputDir,
	}, nil
}
