package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"msstore-packager/internal/adapters"
	"msstore-packager/internal/ports"
)

func (s Service) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	if strings.TrimSpace(req.ProjectPath) == "" {
		return PublishResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	configurator, ok := s.findConfigurator(req.ProjectPath)
	if !ok {
		return PublishResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no configurator matches the project")
	}
	store := adapters.NewHTTPStoreClient(
		req.StoreEndpoint,
		req.StoreAPIKey,
		req.StoreWorkers,
		req.StoreTimeoutSec,
		req.StoreRetries,
		req.StoreRetryDelayMs,
	)
	result, err := configurator.Publish(ctx, ports.PublishRequest{
		ProjectPath: req.ProjectPath,
		InputDir:    req.InputDir,
		Identity:    optionalIdentity(req.Identity),
		Store:       store,
		Submissions: s.Submissions,
	})
	if err != nil {
		return PublishResult{}, err
	}
	return PublishResult{
		Configurator: configurator.Name(),
		Code:         result.Code,
	}, nil
}
