package normalize

import (
	"strconv"
	"strings"

	"github.com/sourceplane/wfviz/internal/model"
	"gopkg.in/yaml.v3"
)

// Needs normalizes a raw `needs` declaration into a list of job ids:
// absent → empty, a single id → one element, a list → itself.
// The list is returned unchanged: no deduplication, no existence check.
func Needs(needs interface{}) []string {
	switch v := needs.(type) {
	case nil:
		return []string{}
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	case []string:
		return v
	default:
		return []string{}
	}
}

// Truthy reports whether a YAML value counts as set: null, false, zero and
// "" do not; any mapping or sequence does, even when empty.
func Truthy(node *yaml.Node) bool {
	if node == nil {
		return false
	}
	if node.Kind == yaml.AliasNode {
		return Truthy(node.Alias)
	}
	if node.Kind != yaml.ScalarNode {
		return node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode
	}

	switch node.ShortTag() {
	case "!!null":
		return false
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(node.Value))
		return err != nil || b
	case "!!int":
		i, err := strconv.ParseInt(strings.ReplaceAll(node.Value, "_", ""), 0, 64)
		return err != nil || i != 0
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		return err != nil || f != 0
	default:
		return node.Value != ""
	}
}

// IsNull reports whether node is an explicit YAML null.
func IsNull(node *yaml.Node) bool {
	if node == nil {
		return false
	}
	if node.Kind == yaml.AliasNode {
		return IsNull(node.Alias)
	}
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

// Triggers expands the `on` value into triggers in declaration order.
// The shorthand forms `on: push` and `on: [push, pull_request]` yield
// triggers with an empty, non-null configuration.
func Triggers(on *yaml.Node) []model.Trigger {
	if on == nil {
		return nil
	}
	if on.Kind == yaml.AliasNode {
		return Triggers(on.Alias)
	}

	triggers := make([]model.Trigger, 0)
	switch on.Kind {
	case yaml.ScalarNode:
		if on.Value != "" && !IsNull(on) {
			triggers = append(triggers, model.Trigger{Name: on.Value, Config: map[string]interface{}{}})
		}
	case yaml.SequenceNode:
		for _, item := range on.Content {
			if item.Kind == yaml.ScalarNode && item.Value != "" && !IsNull(item) {
				triggers = append(triggers, model.Trigger{Name: item.Value, Config: map[string]interface{}{}})
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(on.Content); i += 2 {
			key, value := on.Content[i], on.Content[i+1]
			trigger := model.Trigger{Name: key.Value}
			if IsNull(value) {
				trigger.Null = true
			} else {
				trigger.Config = Value(value)
			}
			triggers = append(triggers, trigger)
		}
	}
	return triggers
}

// Value decodes a YAML subtree into plain Go values, or nil when it cannot.
func Value(node *yaml.Node) interface{} {
	if node == nil {
		return nil
	}
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return nil
	}
	return v
}

// Scalar returns the text of a scalar node; other kinds and null yield "".
func Scalar(node *yaml.Node) string {
	if node == nil {
		return ""
	}
	if node.Kind == yaml.AliasNode {
		return Scalar(node.Alias)
	}
	if node.Kind != yaml.ScalarNode || IsNull(node) {
		return ""
	}
	return node.Value
}

// StringList returns the scalars of a sequence, or a single scalar as a list.
// Non-scalar sequence entries are skipped.
func StringList(node *yaml.Node) []string {
	if node == nil {
		return nil
	}
	if node.Kind == yaml.AliasNode {
		return StringList(node.Alias)
	}
	switch node.Kind {
	case yaml.ScalarNode:
		if s := Scalar(node); s != "" {
			return []string{s}
		}
		return nil
	case yaml.SequenceNode:
		list := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if s := Scalar(item); s != "" {
				list = append(list, s)
			}
		}
		return list
	}
	return nil
}

// SequenceScalars returns every scalar entry of a sequence verbatim, with
// null entries as "". Non-scalar entries are skipped.
func SequenceScalars(node *yaml.Node) []string {
	if node == nil {
		return nil
	}
	if node.Kind == yaml.AliasNode {
		return SequenceScalars(node.Alias)
	}
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	list := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind == yaml.AliasNode {
			item = item.Alias
		}
		if item.Kind == yaml.ScalarNode {
			list = append(list, Scalar(item))
		}
	}
	return list
}

// Lookup returns the value stored under key in a mapping node.
func Lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil {
		return nil
	}
	if mapping.Kind == yaml.AliasNode {
		return Lookup(mapping.Alias, key)
	}
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
