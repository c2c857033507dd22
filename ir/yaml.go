package ir

import "github.com/goccy/go-yaml"

// MarshalYAML serializes the node as YAML, preserving object member order
// via yaml.MapSlice.
func MarshalYAML(node *Node) ([]byte, error) {
	return yaml.Marshal(toYAMLAny(node))
}

func toYAMLAny(node *Node) any {
	switch node.Type {
	case ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			res[i] = yaml.MapItem{Key: f, Value: toYAMLAny(node.Values[i])}
		}
		return res
	case ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = toYAMLAny(elt)
		}
		return res
	default:
		return ToAny(node)
	}
}
