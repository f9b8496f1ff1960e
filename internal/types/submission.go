package types

// SubmissionData is the listing content sent alongside uploaded packages.
// Built per publish call; a placeholder is synthesized when no
// store.submission.yaml exists next to the project.
type SubmissionData struct {
	Description string   `yaml:"description"`
	Images      []string `yaml:"images"`
}
