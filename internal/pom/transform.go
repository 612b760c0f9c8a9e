package pom

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/grape-build/grape/internal/manifest"
)

// MavenNamespace is the default namespace of a Maven 4.0.0 POM.
const MavenNamespace = "http://maven.apache.org/POM/4.0.0"

// DependencyScope is the scope given to every injected dependency.
const DependencyScope = "compile"

// ErrMissingDependenciesElement means the template has no <dependencies>
// element in the expected namespace directly under the root.
var ErrMissingDependenciesElement = errors.New("template has no <dependencies> element")

// Transform loads the template at templatePath and merges the descriptor into
// it. The template file itself is never modified.
func Transform(templatePath string, d *manifest.Descriptor, namespace string) (*Document, error) {
	doc, err := Load(templatePath)
	if err != nil {
		return nil, err
	}

	if err := doc.Apply(d, namespace); err != nil {
		return nil, fmt.Errorf("%s: %w", templatePath, err)
	}

	return doc, nil
}

// Apply appends the descriptor's dependencies and upserts the root identity
// fields groupId, artifactId and version. Fields whose option is absent are
// left alone.
func (d *Document) Apply(desc *manifest.Descriptor, namespace string) error {
	root := d.Root()

	deps, err := d.DependenciesElement(namespace)
	if err != nil {
		return err
	}

	for _, dep := range desc.Dependencies {
		appendDependency(deps, dep)
	}

	fields := []struct {
		option string
		tag    string
	}{
		{manifest.OptionGroupID, "groupId"},
		{manifest.OptionArtifactID, "artifactId"},
		{manifest.OptionVersion, "version"},
	}
	for _, f := range fields {
		if value, ok := desc.Option(f.option); ok {
			SetField(root, namespace, f.tag, value)
		}
	}

	return nil
}

// DependenciesElement returns the root's <dependencies> child in namespace.
func (d *Document) DependenciesElement(namespace string) (*etree.Element, error) {
	deps := FindChild(d.Root(), namespace, "dependencies")
	if deps == nil {
		return nil, fmt.Errorf("%w (namespace %q)", ErrMissingDependenciesElement, namespace)
	}
	return deps, nil
}

// Dependencies lists the <dependency> entries currently present in the
// document, in document order.
func (d *Document) Dependencies(namespace string) ([]manifest.Dependency, error) {
	deps, err := d.DependenciesElement(namespace)
	if err != nil {
		return nil, err
	}

	var result []manifest.Dependency
	for _, child := range deps.ChildElements() {
		if child.Tag != "dependency" {
			continue
		}
		result = append(result, manifest.Dependency{
			GroupID:    childText(child, "groupId"),
			ArtifactID: childText(child, "artifactId"),
			Version:    childText(child, "version"),
		})
	}
	return result, nil
}

// SetField finds the child of root with the given local name in namespace and
// overwrites its text, or appends a new unqualified child holding value. After
// the call at most one such child exists.
func SetField(root *etree.Element, namespace, localName, value string) {
	if elem := FindChild(root, namespace, localName); elem != nil {
		elem.SetText(value)
		return
	}
	root.CreateElement(localName).SetText(value)
}

// FindChild returns the first direct child element of parent whose local name
// is localName and whose resolved namespace URI is namespace.
func FindChild(parent *etree.Element, namespace, localName string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == localName && child.NamespaceURI() == namespace {
			return child
		}
	}
	return nil
}

// appendDependency adds one <dependency> block. Tags are unqualified so they
// inherit the template's default namespace.
func appendDependency(parent *etree.Element, dep manifest.Dependency) {
	elem := parent.CreateElement("dependency")
	elem.CreateElement("groupId").SetText(dep.GroupID)
	elem.CreateElement("artifactId").SetText(dep.ArtifactID)
	elem.CreateElement("version").SetText(dep.Version)
	elem.CreateElement("scope").SetText(DependencyScope)
}

func childText(parent *etree.Element, localName string) string {
	for _, child := range parent.ChildElements() {
		if child.Tag == localName {
			return child.Text()
		}
	}
	return ""
}
