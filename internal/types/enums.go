package types

type ProjectKind string

const (
	ProjectKindUWP     ProjectKind = "uwp"
	ProjectKindFlutter ProjectKind = "flutter"
)

type PackageExtension string

const (
	PackageExtensionMsixUpload PackageExtension = ".msixupload"
	PackageExtensionMsix       PackageExtension = ".msix"
)
