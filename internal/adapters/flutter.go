package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"msstore-packager/internal/core"
	"msstore-packager/internal/ports"
	"msstore-packager/internal/shared"
	"msstore-packager/internal/types"
)

const (
	pubspecName       = "pubspec.yaml"
	flutterExecutable = "flutter"
	msixCreatedMarker = "msix created"

	// Success signals for the msix dependency dry-run probe.
	msixNoChangesSignal      = "No dependencies would change"
	msixAlreadyPresentSignal = "is already in"
)

// FlutterConfigurator drives Flutter projects: pubspec mutation, msix
// packaging through the Flutter toolchain, and Release-directory publishing.
type FlutterConfigurator struct {
	Runner ports.RunnerPort
	Images ports.ImageConverterPort
}

func NewFlutterConfigurator(runner ports.RunnerPort, images ports.ImageConverterPort) FlutterConfigurator {
	return FlutterConfigurator{Runner: runner, Images: images}
}

func (c FlutterConfigurator) Name() string {
	return string(types.ProjectKindFlutter)
}

func (c FlutterConfigurator) DetectionPatterns() []string {
	return []string{pubspecName}
}

func (c FlutterConfigurator) PackageExtension() types.PackageExtension {
	return types.PackageExtensionMsix
}

func (c FlutterConfigurator) DefaultPackagesDir(projectPath string) string {
	return filepath.Join(projectPath, "build", "windows", "runner", "Release")
}

func (c FlutterConfigurator) pubspecPath(projectPath string) string {
	return filepath.Join(projectPath, pubspecName)
}

func (c FlutterConfigurator) Configure(ctx context.Context, req ports.ConfigureRequest) (ports.ConfigureResult, error) {
	pubGet, err := c.Runner.Run(ctx, types.CommandSpec{
		Label:      "flutter pub get",
		Executable: flutterExecutable,
		Args:       []string{"pub", "get"},
		Dir:        req.ProjectPath,
	})
	if err != nil {
		return ports.ConfigureResult{}, err
	}
	if !pubGet.Succeeded() {
		return ports.ConfigureResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("flutter pub get failed").
			WithCause(shared.CommandError(pubGet.Stderr, fmt.Errorf("exit code %d", pubGet.ExitCode)))
	}

	path := c.pubspecPath(req.ProjectPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return ports.ConfigureResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(pubspecName + " not found").
			WithCause(err)
	}
	content := string(data)

	outputDir := strings.TrimSpace(req.Output)
	if outputDir == "" {
		outputDir = req.ProjectPath
	}

	// A pre-existing uncommented msix_config key makes Configure a no-op,
	// whatever shape that block has. Idempotency here covers first-time
	// initialization only.
	if core.HasUncommentedKey(content, core.MsixConfigKey) {
		return ports.ConfigureResult{OutputDir: outputDir}, nil
	}

	logoPath := c.generateLogo(ctx, req.ProjectPath)
	updated := core.AppendMsixBlock(content, core.MsixBlock{
		DisplayName:          req.Identity.DisplayName,
		PublisherDisplayName: req.Identity.PublisherDisplayName,
		Publisher:            req.Identity.Publisher,
		IdentityName:         req.Identity.IdentityName,
		LogoPath:             logoPath,
		AppID:                req.Identity.ID,
	})

	if err := ctx.Err(); err != nil {
		return ports.ConfigureResult{}, err
	}
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return ports.ConfigureResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + pubspecName).
			WithCause(err)
	}
	return ports.ConfigureResult{OutputDir: outputDir}, nil
}

// generateLogo converts the Windows runner icon into a store logo. Missing
// icons and conversion failures degrade to no logo rather than failing
// Configure.
func (c FlutterConfigurator) generateLogo(ctx context.Context, projectPath string) string {
	if c.Images == nil {
		return ""
	}
	relIco := filepath.Join("windows", "runner", "resources", "app_icon.ico")
	icoPath := filepath.Join(projectPath, relIco)
	if _, err := os.Stat(icoPath); err != nil {
		return ""
	}
	relLogo := filepath.Join("windows", "runner", "resources", "app_icon.png")
	if err := c.Images.ConvertIcoToImage(ctx, icoPath, filepath.Join(projectPath, relLogo)); err != nil {
		log.Warn().Err(err).Msg("logo generation skipped")
		return ""
	}
	return filepath.ToSlash(relLogo)
}

func (c FlutterConfigurator) Package(ctx context.Context, req ports.PackageRequest) (ports.PackageResult, error) {
	if err := c.ensureMsixDependency(ctx, req.ProjectPath); err != nil {
		return ports.PackageResult{}, err
	}

	build, err := c.Runner.Run(ctx, types.CommandSpec{
		Label:      "msix build",
		Executable: flutterExecutable,
		Args:       []string{"pub", "run", "msix:build", "--store"},
		Dir:        req.ProjectPath,
	})
	if err != nil {
		return ports.PackageResult{}, err
	}
	if !build.Succeeded() {
		return ports.PackageResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("msix build failed").
			WithCause(shared.CommandError(build.Stderr, fmt.Errorf("exit code %d", build.ExitCode)))
	}

	pack, err := c.Runner.Run(ctx, types.CommandSpec{
		Label:      "msix pack",
		Executable: flutterExecutable,
		Args:       []string{"pub", "run", "msix:pack", "--store"},
		Dir:        req.ProjectPath,
	})
	if err != nil {
		return ports.PackageResult{}, err
	}
	if !pack.Succeeded() {
		return ports.PackageResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("msix pack failed").
			WithCause(shared.CommandError(pack.Stderr, fmt.Errorf("exit code %d", pack.ExitCode)))
	}

	packagePath, err := core.ExtractMarkerPath(pack.Stdout+"\n"+pack.Stderr, msixCreatedMarker)
	if err != nil {
		return ports.PackageResult{}, err
	}
	if !filepath.IsAbs(packagePath) {
		packagePath = filepath.Join(req.ProjectPath, packagePath)
	}
	return ports.PackageResult{
		OutputDir:   filepath.Dir(packagePath),
		PackagePath: packagePath,
	}, nil
}

// ensureMsixDependency probes for the msix dev dependency with a dry-run
// add. Two signals mean it is already present: a clean "no changes" exit or
// an already-present error. Anything else installs it.
func (c FlutterConfigurator) ensureMsixDependency(ctx context.Context, projectPath string) error {
	probe, err := c.Runner.Run(ctx, types.CommandSpec{
		Label:      "msix probe",
		Executable: flutterExecutable,
		Args:       []string{"pub", "add", "--dev", "msix", "--dry-run"},
		Dir:        projectPath,
	})
	if err != nil {
		return err
	}
	present := (probe.Succeeded() && strings.Contains(probe.Stdout, msixNoChangesSignal)) ||
		(!probe.Succeeded() && strings.Contains(probe.Stderr, msixAlreadyPresentSignal))
	if present {
		return nil
	}

	install, err := c.Runner.Run(ctx, types.CommandSpec{
		Label:      "msix install",
		Executable: flutterExecutable,
		Args:       []string{"pub", "add", "--dev", "msix"},
		Dir:        projectPath,
	})
	if err != nil {
		return err
	}
	if !install.Succeeded() {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("packaging precondition failed: unable to add msix dependency").
			WithCause(shared.CommandError(install.Stderr, fmt.Errorf("exit code %d", install.ExitCode)))
	}
	return nil
}

func (c FlutterConfigurator) Publish(ctx context.Context, req ports.PublishRequest) (ports.PublishResult, error) {
	return publishPipeline(ctx, req, c.DefaultPackagesDir(req.ProjectPath), c.PackageExtension(), c.AppIDRecovery(req.ProjectPath))
}

func (c FlutterConfigurator) AppIDRecovery(projectPath string) ports.IdentityRecoveryFunc {
	return func(ctx context.Context) (types.AppIdentity, error) {
		if err := ctx.Err(); err != nil {
			return types.AppIdentity{}, err
		}
		data, err := os.ReadFile(c.pubspecPath(projectPath))
		if err != nil {
			return types.AppIdentity{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(pubspecName + " not found").
				WithCause(err)
		}
		id, err := core.RecoverPubspecAppID(string(data))
		if err != nil {
			return types.AppIdentity{}, err
		}
		return types.AppIdentity{ID: id}, nil
	}
}

var _ ports.ConfiguratorPort = FlutterConfigurator{}
