package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const (
	// MsixConfigKey is the section key whose uncommented presence makes a
	// later Configure run a no-op.
	MsixConfigKey = "msix_config"

	// MsstoreAppIDKey is the flat key holding the application id inside the
	// msix block.
	MsstoreAppIDKey = "msstore_appId"

	// MsixVersionToken is the fixed version written into new msix blocks.
	MsixVersionToken = "0.0.1.0"

	commentMarker = "#"
)

// MsixBlock holds the values appended to a pubspec on first-time
// configuration.
type MsixBlock struct {
	DisplayName          string
	PublisherDisplayName string
	Publisher            string
	IdentityName         string
	LogoPath             string
	AppID                string
}

// HasUncommentedKey reports whether any line of content carries key outside
// a comment. A line counts as commented only when the comment marker appears
// before the key; markers after the key do not hide it.
func HasUncommentedKey(content string, key string) bool {
	for _, line := range strings.Split(content, "\n") {
		if keyIndexOutsideComment(line, key) >= 0 {
			return true
		}
	}
	return false
}

// AppendMsixBlock appends the msix configuration block to content. The block
// shape is a flat key-value list; LogoPath is emitted only when a logo was
// actually generated.
func AppendMsixBlock(content string, block MsixBlock) string {
	var builder strings.Builder
	builder.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString(MsixConfigKey + ":\n")
	builder.WriteString("  display_name: " + block.DisplayName + "\n")
	builder.WriteString("  publisher_display_name: " + block.PublisherDisplayName + "\n")
	builder.WriteString("  publisher: " + block.Publisher + "\n")
	builder.WriteString("  identity_name: " + block.IdentityName + "\n")
	builder.WriteString("  msix_version: " + MsixVersionToken + "\n")
	if block.LogoPath != "" {
		builder.WriteString("  logo_path: " + block.LogoPath + "\n")
	}
	builder.WriteString("  " + MsstoreAppIDKey + ": " + block.AppID + "\n")
	return builder.String()
}

// RecoverPubspecAppID re-scans pubspec content for the app id written during
// Configure. The value is the text after the last colon on the key's line,
// with any trailing comment stripped first. A present key with an empty
// value is an error, not an empty result.
func RecoverPubspecAppID(content string) (string, error) {
	for _, line := range strings.Split(content, "\n") {
		keyIdx := keyIndexOutsideComment(line, MsstoreAppIDKey)
		if keyIdx < 0 {
			continue
		}
		value := line
		if commentIdx := strings.Index(line[keyIdx:], commentMarker); commentIdx >= 0 {
			value = line[:keyIdx+commentIdx]
		}
		colonIdx := strings.LastIndex(value, ":")
		if colonIdx >= 0 {
			value = value[colonIdx+1:]
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s is present in pubspec.yaml but has no value", MsstoreAppIDKey))
		}
		return value, nil
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s not found in pubspec.yaml", MsstoreAppIDKey))
}

// keyIndexOutsideComment returns the index of key in line, or -1 when the
// key is absent or a comment marker precedes it.
func keyIndexOutsideComment(line string, key string) int {
	keyIdx := strings.Index(line, key)
	if keyIdx < 0 {
		return -1
	}
	commentIdx := strings.Index(line, commentMarker)
	if commentIdx >= 0 && commentIdx < keyIdx {
		return -1
	}
	return keyIdx
}
