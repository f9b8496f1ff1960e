package ports

import (
	"context"

	"msstore-packager/internal/types"
)

// IdentityRecoveryFunc re-reads a previously configured manifest and returns
// the application identity embedded in it.
type IdentityRecoveryFunc func(ctx context.Context) (types.AppIdentity, error)

// SubmissionFunc supplies listing content lazily, only when the store client
// actually needs it.
type SubmissionFunc func() types.SubmissionData

// StoreClientPort is the remote store collaborator. Submission workflow
// state lives entirely on the store side; this port only initializes the
// application record and forwards artifacts.
type StoreClientPort interface {
	EnsureApplicationInitialized(ctx context.Context, identity *types.AppIdentity, recover IdentityRecoveryFunc) (types.AppIdentity, error)
	Publish(ctx context.Context, identity types.AppIdentity, submission SubmissionFunc, outputDir string, packageFiles []string) (int, error)
}
