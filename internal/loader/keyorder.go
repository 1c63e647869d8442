package loader

import (
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// keyOrder records the declaration order of mapping keys in a document.
// Sequence elements are keyed by their index.
type keyOrder struct {
	keys     []string
	children map[string]*keyOrder
}

// extractKeyOrder parses raw YAML or JSON and returns the key order of every
// mapping in it. It returns nil when data cannot be parsed.
func extractKeyOrder(data []byte) *keyOrder {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil
	}
	return walkNode(&root)
}

func walkNode(n *yaml.Node) *keyOrder {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return walkNode(n.Content[0])
	case yaml.MappingNode:
		o := &keyOrder{children: make(map[string]*keyOrder, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if key == "<<" {
				continue
			}
			o.keys = append(o.keys, key)
			if child := walkNode(n.Content[i+1]); child != nil {
				o.children[key] = child
			}
		}
		return o
	case yaml.SequenceNode:
		o := &keyOrder{children: make(map[string]*keyOrder, len(n.Content))}
		for i, c := range n.Content {
			key := strconv.Itoa(i)
			o.keys = append(o.keys, key)
			if child := walkNode(c); child != nil {
				o.children[key] = child
			}
		}
		return o
	}
	return nil
}

// at descends along path. It is nil-safe.
func (o *keyOrder) at(path ...string) *keyOrder {
	for _, p := range path {
		if o == nil {
			return nil
		}
		o = o.children[p]
	}
	return o
}

// orderedKeys returns the keys of m in declaration order. Keys the document
// did not record are appended sorted.
func orderedKeys[V any](o *keyOrder, m map[string]V) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	if o != nil {
		for _, k := range o.keys {
			if _, ok := m[k]; !ok {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	var rest []string
	for k := range m {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// sub returns a copy of path extended with elems.
func sub(path []string, elems ...string) []string {
	out := make([]string, 0, len(path)+len(elems))
	out = append(out, path...)
	return append(out, elems...)
}
