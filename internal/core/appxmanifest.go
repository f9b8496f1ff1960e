package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/beevik/etree"

	"msstore-packager/internal/types"
)

const (
	buildNamespaceURI    = "http://schemas.microsoft.com/developer/appx/2015/build"
	buildNamespacePrefix = "build"

	// AppIDItemName keys the single metadata item a repeated Configure run
	// must find and update rather than duplicate.
	AppIDItemName = "MSStoreCLIAppId"
)

// ParseAppxManifest parses an appxmanifest document from raw bytes.
func ParseAppxManifest(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse appxmanifest").
			WithCause(err)
	}
	return doc, nil
}

// ConfigureAppxManifest embeds the store identity into a parsed
// appxmanifest. All edits are in-memory; the caller owns persistence.
//
// Re-running with the same identity is a no-op except for the
// PhoneProductId attribute, which is replaced with phoneProductID on every
// run when a PhoneIdentity element exists.
func ConfigureAppxManifest(doc *etree.Document, identity types.AppIdentity, phoneProductID string) error {
	root := doc.SelectElement("Package")
	if root == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("appxmanifest has no Package root element")
	}

	ensureBuildNamespace(root)
	item := ensureMetadataItem(root)
	item.CreateAttr("Value", identity.ID)

	if el := root.SelectElement("Identity"); el != nil {
		el.CreateAttr("Name", identity.IdentityName)
		el.CreateAttr("Publisher", identity.Publisher)
	} else {
		el = root.CreateElement("Identity")
		el.CreateAttr("Name", identity.IdentityName)
		el.CreateAttr("Publisher", identity.Publisher)
	}

	properties := root.SelectElement("Properties")
	if properties == nil {
		properties = root.CreateElement("Properties")
	}
	setChildText(properties, "DisplayName", identity.DisplayName)
	setChildText(properties, "PublisherDisplayName", identity.PublisherDisplayName)

	// The phone product id is regenerated on every run; this is the one
	// documented exception to the idempotency rule.
	if phone := findAnyNamespace(root, "PhoneIdentity"); phone != nil {
		phone.CreateAttr("PhoneProductId", phoneProductID)
	}

	return nil
}

// RecoverAppxAppID performs a pure read of a parsed appxmanifest and returns
// the application id written by a previous Configure.
func RecoverAppxAppID(doc *etree.Document) (string, error) {
	root := doc.SelectElement("Package")
	if root == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("appxmanifest has no Package root element")
	}
	metadata := root.SelectElement(buildNamespacePrefix + ":Metadata")
	if metadata == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("appxmanifest has no build metadata element")
	}
	item := findMetadataItem(metadata)
	if item == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("appxmanifest has no %s metadata item", AppIDItemName))
	}
	id := strings.TrimSpace(item.SelectAttrValue("Value", ""))
	if id == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s metadata item has an empty value", AppIDItemName))
	}
	return id, nil
}

// ensureBuildNamespace declares the build namespace prefix on the root and
// appends it to IgnorableNamespaces so standard tooling keeps accepting the
// manifest. Existing ignorable tokens are preserved; the build token is
// added at most once.
func ensureBuildNamespace(root *etree.Element) {
	if root.SelectAttr("xmlns:"+buildNamespacePrefix) == nil {
		root.CreateAttr("xmlns:"+buildNamespacePrefix, buildNamespaceURI)
	}

	ignorable := root.SelectAttrValue("IgnorableNamespaces", "")
	tokens := strings.Fields(ignorable)
	for _, token := range tokens {
		if token == buildNamespacePrefix {
			return
		}
	}
	tokens = append(tokens, buildNamespacePrefix)
	root.CreateAttr("IgnorableNamespaces", strings.Join(tokens, " "))
}

// ensureMetadataItem returns the single app-id metadata item, creating the
// container and the item when absent, never duplicating either.
func ensureMetadataItem(root *etree.Element) *etree.Element {
	metadata := root.SelectElement(buildNamespacePrefix + ":Metadata")
	if metadata == nil {
		metadata = root.CreateElement(buildNamespacePrefix + ":Metadata")
	}
	item := findMetadataItem(metadata)
	if item == nil {
		item = metadata.CreateElement(buildNamespacePrefix + ":Item")
		item.CreateAttr("Name", AppIDItemName)
	}
	return item
}

func findMetadataItem(metadata *etree.Element) *etree.Element {
	for _, item := range metadata.ChildElements() {
		if item.Tag != "Item" {
			continue
		}
		if item.SelectAttrValue("Name", "") == AppIDItemName {
			return item
		}
	}
	return nil
}

func findAnyNamespace(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

func setChildText(parent *etree.Element, tag string, value string) {
	child := parent.SelectElement(tag)
	if child == nil {
		child = parent.CreateElement(tag)
	}
	child.SetText(value)
}
