package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"msstore-packager/internal/ports"
	"msstore-packager/internal/types"
)

const submissionFileName = "store.submission.yaml"

// SubmissionFileAdapter reads listing content from store.submission.yaml in
// the project root. A missing or malformed file degrades to a synthesized
// placeholder; submission data is never load-bearing for publish.
type SubmissionFileAdapter struct{}

func NewSubmissionFileAdapter() SubmissionFileAdapter {
	return SubmissionFileAdapter{}
}

func (a SubmissionFileAdapter) Load(projectPath string, identity types.AppIdentity) types.SubmissionData {
	data, err := os.ReadFile(filepath.Join(projectPath, submissionFileName))
	if err != nil {
		return placeholderSubmission(identity)
	}
	var submission types.SubmissionData
	if err := yaml.Unmarshal(data, &submission); err != nil {
		return placeholderSubmission(identity)
	}
	if strings.TrimSpace(submission.Description) == "" {
		submission.Description = placeholderSubmission(identity).Description
	}
	return submission
}

func placeholderSubmission(identity types.AppIdentity) types.SubmissionData {
	name := strings.TrimSpace(identity.DisplayName)
	if name == "" {
		name = identity.ID
	}
	return types.SubmissionData{Description: name + " submission"}
}

var _ ports.SubmissionSourcePort = SubmissionFileAdapter{}
