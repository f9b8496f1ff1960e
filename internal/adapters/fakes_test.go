package adapters

import (
	"context"

	"msstore-packager/internal/ports"
	"msstore-packager/internal/types"
)

// fakeRunner scripts external command outcomes by label and records every
// invocation.
type fakeRunner struct {
	results map[string]types.CommandResult
	errs    map[string]error
	calls   []types.CommandSpec
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: map[string]types.CommandResult{},
		errs:    map[string]error{},
	}
}

func (r *fakeRunner) Run(ctx context.Context, spec types.CommandSpec) (types.CommandResult, error) {
	r.calls = append(r.calls, spec)
	if err := ctx.Err(); err != nil {
		return types.CommandResult{}, err
	}
	if err, ok := r.errs[spec.Label]; ok {
		return types.CommandResult{}, err
	}
	return r.results[spec.Label], nil
}

func (r *fakeRunner) labels() []string {
	var labels []string
	for _, call := range r.calls {
		labels = append(labels, call.Label)
	}
	return labels
}

var _ ports.RunnerPort = (*fakeRunner)(nil)

// fakeStore records what the publish pipeline forwards to the store
// collaborator.
type fakeStore struct {
	identity types.AppIdentity
	files    []string
	inputDir string
	data     types.SubmissionData
	code     int
	initErr  error
	pubErr   error
}

func (s *fakeStore) EnsureApplicationInitialized(ctx context.Context, identity *types.AppIdentity, recover ports.IdentityRecoveryFunc) (types.AppIdentity, error) {
	if s.initErr != nil {
		return types.AppIdentity{}, s.initErr
	}
	if identity != nil && identity.HasID() {
		return *identity, nil
	}
	return recover(ctx)
}

func (s *fakeStore) Publish(_ context.Context, identity types.AppIdentity, submission ports.SubmissionFunc, outputDir string, packageFiles []string) (int, error) {
	if s.pubErr != nil {
		return 0, s.pubErr
	}
	s.identity = identity
	s.files = packageFiles
	s.inputDir = outputDir
	s.data = submission()
	return s.code, nil
}

var _ ports.StoreClientPort = (*fakeStore)(nil)

// fakeImages converts by copying nothing and optionally failing.
type fakeImages struct {
	err       error
	converted []string
}

func (i *fakeImages) ConvertIcoToImage(_ context.Context, sourcePath string, destPath string) error {
	if i.err != nil {
		return i.err
	}
	i.converted = append(i.converted, destPath)
	return nil
}

var _ ports.ImageConverterPort = (*fakeImages)(nil)
