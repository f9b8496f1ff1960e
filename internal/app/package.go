package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"msstore-packager/internal/ports"
	"msstore-packager/internal/types"
)

func (s Service) Package(ctx context.Context, req PackageRequest) (PackageResult, error) {
	if strings.TrimSpace(req.ProjectPath) == "" {
		return PackageResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	configurator, ok := s.findConfigurator(req.ProjectPath)
	if !ok {
		return PackageResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no configurator matches the project")
	}
	result, err := configurator.Package(ctx, ports.PackageRequest{
		ProjectPath: req.ProjectPath,
		Output:      req.Output,
		Identity:    optionalIdentity(req.Identity),
	})
	if err != nil {
		return PackageResult{}, err
	}
	return PackageResult{
		Configurator: configurator.Name(),
		OutputDir:    result.OutputDir,
		PackagePath:  result.PackagePath,
	}, nil
}

// optionalIdentity treats an identity without an id as absent; operations
// then fall back to manifest recovery.
func optionalIdentity(identity types.AppIdentity) *types.AppIdentity {
	if !identity.HasID() {
		return nil
	}
	return &identity
}
