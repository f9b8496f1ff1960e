package types

// AppIdentity carries the store-assigned application record fields that get
// embedded into a project manifest. Once written by Configure, the ID must be
// recoverable from the manifest alone.
type AppIdentity struct {
	ID                   string `yaml:"id"`
	IdentityName         string `yaml:"identity_name"`
	Publisher            string `yaml:"publisher"`
	PublisherDisplayName string `yaml:"publisher_display_name"`
	DisplayName          string `yaml:"display_name"`
}

func (i AppIdentity) HasID() bool {
	return i.ID != ""
}
