package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"msstore-packager/internal/ports"
	"msstore-packager/internal/types"
)

// publishPipeline is the shared publish flow behind every configurator:
// resolve the application identity, enumerate package artifacts in the input
// directory, and delegate the upload to the store collaborator. The store's
// result code is returned unchanged.
func publishPipeline(ctx context.Context, req ports.PublishRequest, defaultDir string, ext types.PackageExtension, recovery ports.IdentityRecoveryFunc) (ports.PublishResult, error) {
	if req.Store == nil {
		return ports.PublishResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("store client is required for publish")
	}
	identity, err := req.Store.EnsureApplicationInitialized(ctx, req.Identity, recovery)
	if err != nil {
		return ports.PublishResult{}, err
	}

	inputDir := strings.TrimSpace(req.InputDir)
	if inputDir == "" {
		inputDir = defaultDir
	}
	files, err := collectPackageFiles(inputDir, ext)
	if err != nil {
		return ports.PublishResult{}, err
	}
	if len(files) == 0 {
		return ports.PublishResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no %s packages found in %s", ext, inputDir))
	}

	submission := func() types.SubmissionData {
		if req.Submissions != nil {
			return req.Submissions.Load(req.ProjectPath, identity)
		}
		return types.SubmissionData{Description: identity.DisplayName + " submission"}
	}
	code, err := req.Store.Publish(ctx, identity, submission, inputDir, files)
	if err != nil {
		return ports.PublishResult{}, err
	}
	return ports.PublishResult{Code: code}, nil
}

// collectPackageFiles enumerates top-level files in dir carrying the
// project type's package extension. The set is computed fresh from disk on
// every call, never cached.
func collectPackageFiles(dir string, ext types.PackageExtension) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package directory not found").
			WithCause(err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), string(ext)) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
