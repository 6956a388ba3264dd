// Package xsd turns schema files into a generic tree of named element nodes.
// It knows just enough about XML Schema to find top-level declarations; the
// meaning of the constructs is left to the type graph builder.
package xsd

import "strings"

// Schema construct local names.
const (
	ElementSchema         = "schema"
	ElementComplexType    = "complexType"
	ElementSimpleType     = "simpleType"
	ElementElement        = "element"
	ElementAttribute      = "attribute"
	ElementComplexContent = "complexContent"
	ElementSimpleContent  = "simpleContent"
	ElementExtension      = "extension"
	ElementRestriction    = "restriction"
	ElementSequence       = "sequence"
	ElementChoice         = "choice"
	ElementAll            = "all"
	ElementList           = "list"
	ElementUnion          = "union"
	ElementAnnotation     = "annotation"
	ElementDocumentation  = "documentation"
	ElementEnumeration    = "enumeration"
	ElementPattern        = "pattern"
	ElementMinLength      = "minLength"
	ElementMaxLength      = "maxLength"
	ElementInclude        = "include"
	ElementImport         = "import"
)

// Attr is a single attribute, keyed by its local name.
type Attr struct {
	Name  string
	Value string
}

// Node is one parsed schema element.
type Node struct {
	Space    string
	Local    string
	Attrs    []Attr
	Children []*Node
	Text     string
	File     string
	Line     int
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	v, _ := n.LookupAttr(name)
	return v
}

// LookupAttr returns the value of the named attribute and whether it was present.
func (n *Node) LookupAttr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Name returns the trimmed "name" attribute.
func (n *Node) Name() string {
	return strings.TrimSpace(n.Attr("name"))
}

// Is reports whether the node's local name is one of locals.
func (n *Node) Is(locals ...string) bool {
	for _, l := range locals {
		if n.Local == l {
			return true
		}
	}
	return false
}

// Child returns the first direct child with the given local name.
func (n *Node) Child(local string) *Node {
	for _, c := range n.Children {
		if c.Local == local {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns the direct children with the given local name, in document order.
func (n *Node) ChildrenNamed(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// Documentation returns the non-empty, trimmed lines of all annotation/documentation children.
func (n *Node) Documentation() []string {
	var lines []string
	for _, ann := range n.ChildrenNamed(ElementAnnotation) {
		for _, doc := range ann.ChildrenNamed(ElementDocumentation) {
			for _, line := range strings.Split(doc.Text, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
		}
	}
	return lines
}

// IsTypeDeclaration reports whether a top-level node declares a type: a named
// complexType or simpleType, or a named element carrying an inline type definition.
func IsTypeDeclaration(n *Node) bool {
	if n == nil || n.Name() == "" {
		return false
	}
	switch n.Local {
	case ElementComplexType, ElementSimpleType:
		return true
	case ElementElement:
		return n.Child(ElementComplexType) != nil || n.Child(ElementSimpleType) != nil
	}
	return false
}

// IsElementAlias reports whether a top-level node is an element declaration that
// only points at a named type (<element name="Patient" type="Patient"/>).
func IsElementAlias(n *Node) bool {
	return n != nil && n.Local == ElementElement && n.Name() != "" && n.Attr("type") != "" &&
		n.Child(ElementComplexType) == nil && n.Child(ElementSimpleType) == nil
}
