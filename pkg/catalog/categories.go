package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// CategoryNode is one entry of the vehicle category tree. Leaf nodes carry an
// empty children set; the upstream encodes childless nodes as an empty JSON
// array instead of an object, so Children needs a tolerant unmarshaller.
type CategoryNode struct {
	Text     string           `json:"text"`
	Children CategoryChildren `json:"children"`
}

type CategoryChildren map[string]CategoryNode

func (c *CategoryChildren) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" || strings.HasPrefix(trimmed, "[") {
		*c = nil
		return nil
	}
	var m map[string]CategoryNode
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*c = m
	return nil
}

// CategoryTree maps top level category ids to their nodes.
type CategoryTree map[string]CategoryNode

// ParseTree decodes a category tree payload. Some endpoint variants wrap the
// tree in a single "categories" object; that layer is stripped here so callers
// always see the same shape.
func ParseTree(data []byte) (CategoryTree, error) {
	var wrapped struct {
		Categories CategoryTree `json:"categories"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Categories) > 0 {
		return wrapped.Categories, nil
	}

	var tree CategoryTree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("invalid category tree: %w", err)
	}
	return tree, nil
}

// Leaf is a selectable subcategory, the only level articles hang off of.
type Leaf struct {
	ID   string
	Name string
}

// Leaves returns every leaf of the tree keyed by id.
func (t CategoryTree) Leaves() map[string]Leaf {
	leaves := make(map[string]Leaf)
	for id, node := range t {
		collectLeaves(id, node, leaves)
	}
	return leaves
}

func collectLeaves(id string, node CategoryNode, out map[string]Leaf) {
	if len(node.Children) == 0 {
		out[id] = Leaf{ID: id, Name: node.Text}
		return
	}
	for childID, child := range node.Children {
		collectLeaves(childID, child, out)
	}
}

// Markdown renders the tree as a compact listing for prompt context: one
// heading per top level group followed by its leaf subcategories with ids.
// Output is sorted by id so the same tree always renders the same text.
func (t CategoryTree) Markdown() string {
	var b strings.Builder

	for _, id := range sortedKeys(t) {
		node := t[id]

		leaves := make(map[string]Leaf)
		collectLeaves(id, node, leaves)
		if len(leaves) == 0 {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("# " + node.Text + "\n")
		for _, leafID := range sortedLeafKeys(leaves) {
			leaf := leaves[leafID]
			b.WriteString(fmt.Sprintf("- %s (%s)\n", leaf.Name, leaf.ID))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func sortedKeys(t CategoryTree) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedLeafKeys(m map[string]Leaf) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
