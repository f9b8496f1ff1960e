package app

import "msstore-packager/internal/types"

type DetectRequest struct {
	ProjectPath string
}

type DetectResult struct {
	Configurator string
	Found        bool
}

type ConfigureRequest struct {
	ProjectPath string
	Output      string
	Identity    types.AppIdentity
}

type ConfigureResult struct {
	Configurator string
	OutputDir    string
}

type PackageRequest struct {
	ProjectPath string
	Output      string
	Identity    types.AppIdentity
}

type PackageResult struct {
	Configurator string
	OutputDir    string
	PackagePath  string
}

type PublishRequest struct {
	ProjectPath       string
	InputDir          string
	Identity          types.AppIdentity
	StoreEndpoint     string
	StoreAPIKey       string
	StoreWorkers      int
	StoreTimeoutSec   int
	StoreRetries      int
	StoreRetryDelayMs int
}

type PublishResult struct {
	Configurator string
	Code         int
}
