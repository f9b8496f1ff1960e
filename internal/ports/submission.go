package ports

import "msstore-packager/internal/types"

// SubmissionSourcePort loads submission listing content for a project,
// falling back to a synthesized placeholder when no richer source exists.
type SubmissionSourcePort interface {
	Load(projectPath string, identity types.AppIdentity) types.SubmissionData
}
