package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"

	"msstore-packager/internal/core"
	"msstore-packager/internal/ports"
	"msstore-packager/internal/shared"
	"msstore-packager/internal/types"
)

const uwpManifestName = "Package.appxmanifest"

// UWPConfigurator drives UWP projects: appxmanifest mutation, MSBuild
// packaging, and AppPackages publishing.
type UWPConfigurator struct {
	Runner ports.RunnerPort

	// NewID generates the phone product id written on every Configure run.
	NewID func() string
}

func NewUWPConfigurator(runner ports.RunnerPort) UWPConfigurator {
	return UWPConfigurator{Runner: runner, NewID: uuid.NewString}
}

func (c UWPConfigurator) Name() string {
	return string(types.ProjectKindUWP)
}

func (c UWPConfigurator) DetectionPatterns() []string {
	return []string{uwpManifestName}
}

func (c UWPConfigurator) PackageExtension() types.PackageExtension {
	return types.PackageExtensionMsixUpload
}

func (c UWPConfigurator) DefaultPackagesDir(projectPath string) string {
	return filepath.Join(projectPath, "AppPackages")
}

func (c UWPConfigurator) manifestPath(projectPath string) string {
	return filepath.Join(projectPath, uwpManifestName)
}

func (c UWPConfigurator) Configure(ctx context.Context, req ports.ConfigureRequest) (ports.ConfigureResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.ConfigureResult{}, err
	}
	path := c.manifestPath(req.ProjectPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return ports.ConfigureResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(uwpManifestName + " not found").
			WithCause(err)
	}
	doc, err := core.ParseAppxManifest(data)
	if err != nil {
		return ports.ConfigureResult{}, err
	}
	if err := core.ConfigureAppxManifest(doc, req.Identity, c.NewID()); err != nil {
		return ports.ConfigureResult{}, err
	}

	// Cancellation is honored up to here; once the write starts the edit
	// completes and is flushed so the manifest is never left half-written.
	if err := ctx.Err(); err != nil {
		return ports.ConfigureResult{}, err
	}
	out, err := doc.WriteToBytes()
	if err != nil {
		return ports.ConfigureResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to serialize " + uwpManifestName).
			WithCause(err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return ports.ConfigureResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + uwpManifestName).
			WithCause(err)
	}

	outputDir := strings.TrimSpace(req.Output)
	if outputDir == "" {
		outputDir = req.ProjectPath
	}
	return ports.ConfigureResult{OutputDir: outputDir}, nil
}

func (c UWPConfigurator) Package(ctx context.Context, req ports.PackageRequest) (ports.PackageResult, error) {
	if runtime.GOOS != "windows" {
		return ports.PackageResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("unsupported host platform: uwp packaging requires windows")
	}
	msbuild, err := c.locateMSBuild(ctx)
	if err != nil {
		return ports.PackageResult{}, err
	}

	restore, err := c.Runner.Run(ctx, types.CommandSpec{
		Label:      "msbuild restore",
		Executable: msbuild,
		Args:       []string{"/t:restore"},
		Dir:        req.ProjectPath,
	})
	if err != nil {
		return ports.PackageResult{}, err
	}
	if !restore.Succeeded() {
		return ports.PackageResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("msbuild restore failed").
			WithCause(shared.CommandError(restore.Stderr, fmt.Errorf("exit code %d", restore.ExitCode)))
	}

	args := []string{
		"/p:Configuration=Release",
		"/p:Platform=x64",
		"/p:UapAppxPackageBuildMode=StoreUpload",
		"/p:AppxBundle=Always",
		"/p:AppxBundlePlatforms=x86|x64|ARM64",
	}
	if output := strings.TrimSpace(req.Output); output != "" {
		args = append(args, "/p:AppxPackageDir="+output)
	}
	build, err := c.Runner.Run(ctx, types.CommandSpec{
		Label:      "msbuild",
		Executable: msbuild,
		Args:       args,
		Dir:        req.ProjectPath,
	})
	if err != nil {
		return ports.PackageResult{}, err
	}
	if !build.Succeeded() {
		return ports.PackageResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("msbuild failed").
			WithCause(shared.CommandError(build.Stderr, fmt.Errorf("exit code %d", build.ExitCode)))
	}

	packagePath, err := core.ExtractArrowPath(build.Stdout, string(c.PackageExtension()))
	if err != nil {
		return ports.PackageResult{}, err
	}
	return ports.PackageResult{
		OutputDir:   filepath.Dir(packagePath),
		PackagePath: packagePath,
	}, nil
}

func (c UWPConfigurator) Publish(ctx context.Context, req ports.PublishRequest) (ports.PublishResult, error) {
	return publishPipeline(ctx, req, c.DefaultPackagesDir(req.ProjectPath), c.PackageExtension(), c.AppIDRecovery(req.ProjectPath))
}

func (c UWPConfigurator) AppIDRecovery(projectPath string) ports.IdentityRecoveryFunc {
	return func(ctx context.Context) (types.AppIdentity, error) {
		if err := ctx.Err(); err != nil {
			return types.AppIdentity{}, err
		}
		data, err := os.ReadFile(c.manifestPath(projectPath))
		if err != nil {
			return types.AppIdentity{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(uwpManifestName + " not found").
				WithCause(err)
		}
		doc, err := core.ParseAppxManifest(data)
		if err != nil {
			return types.AppIdentity{}, err
		}
		id, err := core.RecoverAppxAppID(doc)
		if err != nil {
			return types.AppIdentity{}, err
		}
		return types.AppIdentity{ID: id}, nil
	}
}

// locateMSBuild discovers the MSBuild executable through the Visual Studio
// installer query tool. Absence of either tool is a hard failure.
func (c UWPConfigurator) locateMSBuild(ctx context.Context) (string, error) {
	programFiles := os.Getenv("ProgramFiles(x86)")
	if programFiles == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("packaging precondition failed: ProgramFiles(x86) is not set")
	}
	vswhere := filepath.Join(programFiles, "Microsoft Visual Studio", "Installer", "vswhere.exe")
	result, err := c.Runner.Run(ctx, types.CommandSpec{
		Label:      "vswhere",
		Executable: vswhere,
		Args: []string{
			"-latest",
			"-requires", "Microsoft.Component.MSBuild",
			"-find", `MSBuild\**\Bin\MSBuild.exe`,
		},
	})
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("packaging precondition failed: vswhere.exe not found").
			WithCause(err)
	}
	msbuild := firstNonEmptyLine(result.Stdout)
	if !result.Succeeded() || msbuild == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("packaging precondition failed: msbuild not found").
			WithCause(shared.CommandError(result.Stderr, fmt.Errorf("exit code %d", result.ExitCode)))
	}
	return msbuild, nil
}

func firstNonEmptyLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

var _ ports.ConfiguratorPort = UWPConfigurator{}
