package app

import (
	"msstore-packager/internal/adapters"
	"msstore-packager/internal/ports"
)

// Service wires the configurator set and its collaborators. Configurators
// are tried in registration order during detection; the first match wins.
type Service struct {
	Configurators []ports.ConfiguratorPort
	Submissions   ports.SubmissionSourcePort
}

func NewService() Service {
	runner := adapters.NewProcessRunner(adapters.NewLogStatus())
	return Service{
		Configurators: []ports.ConfiguratorPort{
			adapters.NewUWPConfigurator(runner),
			adapters.NewFlutterConfigurator(runner, adapters.NewMagickConverter(runner)),
		},
		Submissions: adapters.NewSubmissionFileAdapter(),
	}
}
