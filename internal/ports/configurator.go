package ports

import (
	"context"

	"msstore-packager/internal/types"
)

type ConfigureRequest struct {
	ProjectPath string
	Output      string
	Identity    types.AppIdentity
}

type ConfigureResult struct {
	OutputDir string
}

type PackageRequest struct {
	ProjectPath string
	Output      string
	Identity    *types.AppIdentity
}

type PackageResult struct {
	OutputDir   string
	PackagePath string
}

type PublishRequest struct {
	ProjectPath string
	InputDir    string
	Identity    *types.AppIdentity
	Store       StoreClientPort
	Submissions SubmissionSourcePort
}

type PublishResult struct {
	Code int
}

// ConfiguratorPort is the per-project-type capability contract. Detection is
// a pure filesystem read; Configure mutates the project manifest in place and
// must be idempotent; Package invokes the platform toolchain; Publish
// resolves the application identity and forwards artifacts to the store.
type ConfiguratorPort interface {
	Name() string

	// DetectionPatterns returns file globs matched against the top level of
	// a candidate project directory.
	DetectionPatterns() []string

	// PackageExtension is the artifact suffix this project type produces.
	PackageExtension() types.PackageExtension

	// DefaultPackagesDir is where the toolchain drops packages when the
	// caller does not supply an input directory.
	DefaultPackagesDir(projectPath string) string

	// AppIDRecovery returns a function that re-reads the identity written
	// into the manifest during a previous Configure.
	AppIDRecovery(projectPath string) IdentityRecoveryFunc

	Configure(ctx context.Context, req ConfigureRequest) (ConfigureResult, error)
	Package(ctx context.Context, req PackageRequest) (PackageResult, error)
	Publish(ctx context.Context, req PublishRequest) (PublishResult, error)
}
