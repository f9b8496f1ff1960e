package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msstore-packager/internal/core"
	"msstore-packager/internal/ports"
	"msstore-packager/internal/types"
)

const minimalPubspec = `name: demo_app
description: A demo.

dependencies:
  flutter:
    sdk: flutter
`

func flutterProjectDir(t *testing.T, pubspec string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, pubspecName), []byte(pubspec), 0644))
	return dir
}

func TestFlutterConfigureAppendsBlockOnce(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("..", "..", "fixtures", "pubspec-sample.yaml"))
	require.NoError(t, err)
	dir := flutterProjectDir(t, string(fixture))
	runner := newFakeRunner()
	flutter := NewFlutterConfigurator(runner, &fakeImages{})

	req := ports.ConfigureRequest{ProjectPath: dir, Identity: sampleIdentity()}
	result, err := flutter.Configure(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, dir, result.OutputDir)
	assert.Equal(t, []string{"flutter pub get"}, runner.labels())

	first, err := os.ReadFile(filepath.Join(dir, pubspecName))
	require.NoError(t, err)
	assert.True(t, core.HasUncommentedKey(string(first), core.MsixConfigKey))
	assert.Contains(t, string(first), "msstore_appId: 9NBLGGH4R315")

	_, err = flutter.Configure(t.Context(), req)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, pubspecName))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second), "configured pubspec must not grow a second block")
}

func TestFlutterConfigurePubGetFailure(t *testing.T) {
	dir := flutterProjectDir(t, minimalPubspec)
	runner := newFakeRunner()
	runner.results["flutter pub get"] = types.CommandResult{ExitCode: 1, Stderr: "no sdk"}
	flutter := NewFlutterConfigurator(runner, &fakeImages{})

	_, err := flutter.Configure(t.Context(), ports.ConfigureRequest{ProjectPath: dir, Identity: sampleIdentity()})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "flutter pub get failed")
}

func TestFlutterConfigureGeneratesLogo(t *testing.T) {
	dir := flutterProjectDir(t, minimalPubspec)
	iconDir := filepath.Join(dir, "windows", "runner", "resources")
	require.NoError(t, os.MkdirAll(iconDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(iconDir, "app_icon.ico"), []byte("ico"), 0644))

	images := &fakeImages{}
	flutter := NewFlutterConfigurator(newFakeRunner(), images)

	_, err := flutter.Configure(t.Context(), ports.ConfigureRequest{ProjectPath: dir, Identity: sampleIdentity()})
	require.NoError(t, err)
	require.Len(t, images.converted, 1)

	updated, err := os.ReadFile(filepath.Join(dir, pubspecName))
	require.NoError(t, err)
	assert.Contains(t, string(updated), "logo_path: windows/runner/resources/app_icon.png")
}

func TestFlutterConfigureLogoFailureIsNonFatal(t *testing.T) {
	dir := flutterProjectDir(t, minimalPubspec)
	iconDir := filepath.Join(dir, "windows", "runner", "resources")
	require.NoError(t, os.MkdirAll(iconDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(iconDir, "app_icon.ico"), []byte("ico"), 0644))

	images := &fakeImages{err: assert.AnError}
	flutter := NewFlutterConfigurator(newFakeRunner(), images)

	_, err := flutter.Configure(t.Context(), ports.ConfigureRequest{ProjectPath: dir, Identity: sampleIdentity()})
	require.NoError(t, err)

	updated, err := os.ReadFile(filepath.Join(dir, pubspecName))
	require.NoError(t, err)
	assert.NotContains(t, string(updated), "logo_path")
}

func TestFlutterPackageInstallsMsixWhenAbsent(t *testing.T) {
	dir := flutterProjectDir(t, minimalPubspec)
	runner := newFakeRunner()
	runner.results["msix probe"] = types.CommandResult{Stdout: "Would change 1 dependency."}
	runner.results["msix pack"] = types.CommandResult{Stdout: "msix created: build\\windows\\runner\\Release\\demo_app.msix"}
	flutter := NewFlutterConfigurator(runner, &fakeImages{})

	result, err := flutter.Package(t.Context(), ports.PackageRequest{ProjectPath: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"msix probe", "msix install", "msix build", "msix pack"}, runner.labels())
	assert.True(t, strings.HasSuffix(result.PackagePath, "demo_app.msix"))
	assert.True(t, filepath.IsAbs(result.PackagePath))
}

func TestFlutterPackageSkipsInstallWhenPresent(t *testing.T) {
	for name, probe := range map[string]types.CommandResult{
		"clean no changes":      {Stdout: msixNoChangesSignal + "."},
		"already present error": {ExitCode: 65, Stderr: `"msix" ` + msixAlreadyPresentSignal + ` "dev_dependencies".`},
	} {
		t.Run(name, func(t *testing.T) {
			dir := flutterProjectDir(t, minimalPubspec)
			runner := newFakeRunner()
			runner.results["msix probe"] = probe
			runner.results["msix pack"] = types.CommandResult{Stdout: "msix created: out.msix"}
			flutter := NewFlutterConfigurator(runner, &fakeImages{})

			_, err := flutter.Package(t.Context(), ports.PackageRequest{ProjectPath: dir})
			require.NoError(t, err)
			assert.Equal(t, []string{"msix probe", "msix build", "msix pack"}, runner.labels())
		})
	}
}

func TestFlutterPackageInstallFailure(t *testing.T) {
	dir := flutterProjectDir(t, minimalPubspec)
	runner := newFakeRunner()
	runner.results["msix probe"] = types.CommandResult{ExitCode: 1, Stderr: "network down"}
	runner.results["msix install"] = types.CommandResult{ExitCode: 1, Stderr: "network down"}
	flutter := NewFlutterConfigurator(runner, &fakeImages{})

	_, err := flutter.Package(t.Context(), ports.PackageRequest{ProjectPath: dir})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "packaging precondition failed")
}

func TestFlutterPublishRecoversAppID(t *testing.T) {
	dir := flutterProjectDir(t, minimalPubspec)
	runner := newFakeRunner()
	flutter := NewFlutterConfigurator(runner, &fakeImages{})
	_, err := flutter.Configure(t.Context(), ports.ConfigureRequest{ProjectPath: dir, Identity: sampleIdentity()})
	require.NoError(t, err)

	releaseDir := filepath.Join(dir, "build", "windows", "runner", "Release")
	require.NoError(t, os.MkdirAll(releaseDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(releaseDir, "demo_app.msix"), []byte("x"), 0644))

	store := &fakeStore{code: 0}
	result, err := flutter.Publish(t.Context(), ports.PublishRequest{ProjectPath: dir, Store: store})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Code)
	assert.Equal(t, "9NBLGGH4R315", store.identity.ID)
	assert.Equal(t, []string{filepath.Join(releaseDir, "demo_app.msix")}, store.files)
}

func TestFlutterPublishEmptyAppIDValue(t *testing.T) {
	dir := flutterProjectDir(t, minimalPubspec+"\nmsix_config:\n  msstore_appId:\n")
	flutter := NewFlutterConfigurator(newFakeRunner(), &fakeImages{})

	releaseDir := filepath.Join(dir, "build", "windows", "runner", "Release")
	require.NoError(t, os.MkdirAll(releaseDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(releaseDir, "demo_app.msix"), []byte("x"), 0644))

	_, err := flutter.Publish(t.Context(), ports.PublishRequest{ProjectPath: dir, Store: &fakeStore{}})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
