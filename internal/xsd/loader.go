package xsd

import (
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Files that accompany schema archives but never describe generated types.
var skippedFiles = map[string]bool{
	"xml.xsd":        true,
	"fhir-xhtml.xsd": true,
	"tombstone.xsd":  true,
}

const skippedPrefix = "fhir-atom"

// Schema is the fully materialized content of one version's schema directory.
type Schema struct {
	Version string
	Dir     string
	Files   []string
	// Declarations holds every top-level child of every loaded schema root, in file order.
	Declarations []*Node
}

// Types returns the declarations that define types.
func (s *Schema) Types() []*Node {
	var out []*Node
	for _, n := range s.Declarations {
		if IsTypeDeclaration(n) {
			out = append(out, n)
		}
	}
	return out
}

// Aliases returns the top-level element declarations that only reference a named type.
func (s *Schema) Aliases() []*Node {
	var out []*Node
	for _, n := range s.Declarations {
		if IsElementAlias(n) {
			out = append(out, n)
		}
	}
	return out
}

// Skip reports whether a schema file should be ignored by name.
func Skip(filename string) bool {
	base := filepath.Base(filename)
	return skippedFiles[base] || strings.HasPrefix(base, skippedPrefix)
}

// LoadDir parses every .xsd file directly under dir, sorted by file name.
func LoadDir(dir, version string) (*Schema, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory %s: %w", dir, err)
	}

	schema := &Schema{Version: version, Dir: dir}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".xsd" || Skip(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		root, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		if root.Local != ElementSchema {
			return nil, fmt.Errorf("%s: root element is %q, expected %q", path, root.Local, ElementSchema)
		}
		schema.Files = append(schema.Files, path)
		schema.Declarations = append(schema.Declarations, root.Children...)
	}

	if len(schema.Files) == 0 {
		return nil, fmt.Errorf("no schema files found in %s", dir)
	}

	return schema, nil
}

// LoadFS is LoadDir over an fs.FS rooted at the version directory.
func LoadFS(fsys fs.FS, version string) (*Schema, error) {
	matches, err := fs.Glob(fsys, "*.xsd")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	schema := &Schema{Version: version}
	for _, name := range matches {
		if Skip(name) {
			continue
		}
		f, err := fsys.Open(name)
		if err != nil {
			return nil, err
		}
		root, err := Parse(f, name)
		f.Close()
		if err != nil {
			return nil, err
		}
		if root.Local != ElementSchema {
			return nil, fmt.Errorf("%s: root element is %q, expected %q", name, root.Local, ElementSchema)
		}
		schema.Files = append(schema.Files, name)
		schema.Declarations = append(schema.Declarations, root.Children...)
	}

	if len(schema.Files) == 0 {
		return nil, fmt.Errorf("no schema files found for version %s", version)
	}
	return schema, nil
}

// ParseFile parses a single schema file.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse builds a node tree from XML input. file is recorded on every node.
func Parse(r io.Reader, file string) (*Node, error) {
	decoder := xml.NewDecoder(r)

	var stack []*Node
	var root *Node

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := decoder.InputPos()
			n := &Node{
				Space: t.Name.Space,
				Local: t.Name.Local,
				Attrs: convertAttrs(t.Attr),
				File:  file,
				Line:  line,
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			} else {
				return nil, fmt.Errorf("%s: unexpected element %s after document end", file, t.Name.Local)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%s: %w", file, io.ErrUnexpectedEOF)
	}
	return root, nil
}

func convertAttrs(attrs []xml.Attr) []Attr {
	out := make([]Attr, 0, len(attrs))
	for _, a := range attrs {
		// namespace declarations are resolved by the decoder
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		out = append(out, Attr{Name: a.Name.Local, Value: a.Value})
	}
	return out
}
