package rtshim

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders s as a YAML string scalar.
func (s StringValue) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts any scalar.  A value containing a zero byte is
// rejected rather than truncated.
func (s *StringValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return newErr(ErrType, fmt.Sprintf("line %d: string value must be a scalar", node.Line))
	}
	if strings.IndexByte(node.Value, 0) >= 0 {
		return newErr(ErrCanon, fmt.Sprintf("line %d: zero byte in string value", node.Line))
	}
	*s = FromString(node.Value)
	return nil
}
