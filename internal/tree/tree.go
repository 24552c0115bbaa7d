// Package tree decodes descriptor trees written as YAML documents.
//
// A document is a single value:
//
//	tag: section
//	props:
//	  class: card
//	  style: {fontSize: 12px}
//	children:
//	  - {tag: h2, children: Title}
//	  - plain text
//	  - {raw: "<em>trusted</em>"}
//	  - fragment: [a, b]
//
// Scalars become children as is, so numbers and booleans follow the usual
// child rules. A "children" entry inside props is used only when the
// mapping has no top-level children.
package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/ripple/pkg/vdom"
)

// SyntaxError reports a document that is valid YAML but not a tree.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("tree: line %d: %s", e.Line, e.Msg)
}

// Decode parses one YAML document into a renderable value.
// An empty document decodes to nil.
func Decode(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return decode(doc.Content[0])
}

// LoadFile reads and decodes the document at path.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// LoadDir decodes every .yaml and .yml file in dir, keyed by base name
// without extension.
func LoadDir(dir string) (map[string]any, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		v, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(e.Name(), ext)] = v
	}
	return out, nil
}

func decode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decode(n.Alias)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return decodeMapping(n)
	}
	return nil, &SyntaxError{Line: n.Line, Msg: "unsupported node"}
}

func decodeMapping(n *yaml.Node) (any, error) {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}

	if v, ok := fields["raw"]; ok {
		if len(fields) != 1 || v.Kind != yaml.ScalarNode {
			return nil, &SyntaxError{Line: n.Line, Msg: "raw must be the only key and hold a string"}
		}
		return vdom.Raw(v.Value), nil
	}

	if v, ok := fields["fragment"]; ok {
		if len(fields) != 1 {
			return nil, &SyntaxError{Line: n.Line, Msg: "fragment must be the only key"}
		}
		children, err := decode(v)
		if err != nil {
			return nil, err
		}
		return vdom.Build(vdom.FragmentMarker, nil, children), nil
	}

	tagNode, ok := fields["tag"]
	if !ok {
		return nil, &SyntaxError{Line: n.Line, Msg: "mapping needs one of tag, fragment or raw"}
	}
	if tagNode.Kind != yaml.ScalarNode || tagNode.Value == "" {
		return nil, &SyntaxError{Line: tagNode.Line, Msg: "tag must be a non-empty string"}
	}
	for k := range fields {
		switch k {
		case "tag", "props", "children", "key":
		default:
			return nil, &SyntaxError{Line: n.Line, Msg: fmt.Sprintf("unknown key %q", k)}
		}
	}

	props := vdom.Props{}
	if p, ok := fields["props"]; ok {
		if p.Kind != yaml.MappingNode {
			return nil, &SyntaxError{Line: p.Line, Msg: "props must be a mapping"}
		}
		for i := 0; i+1 < len(p.Content); i += 2 {
			name, value := p.Content[i].Value, p.Content[i+1]
			var v any
			var err error
			if name == "children" {
				v, err = decode(value)
			} else {
				err = value.Decode(&v)
			}
			if err != nil {
				return nil, err
			}
			props[name] = v
		}
	}
	if k, ok := fields["key"]; ok {
		props["key"] = k.Value
	}

	if c, ok := fields["children"]; ok {
		children, err := decode(c)
		if err != nil {
			return nil, err
		}
		return vdom.Build(tagNode.Value, props, children), nil
	}
	return vdom.Build(tagNode.Value, props), nil
}

// Names returns the keys of pages in sorted order.
func Names(pages map[string]any) []string {
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
