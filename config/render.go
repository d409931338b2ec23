package config

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RenderDefaultYAML renders a commented config file holding every default.
func RenderDefaultYAML() (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	sections := make(map[string]*yaml.Node)

	for _, o := range Options() {
		parent := root
		key := o.Key
		if section, rest, ok := strings.Cut(o.Key, "."); ok {
			parent, key = sections[section], rest
			if parent == nil {
				parent = &yaml.Node{Kind: yaml.MappingNode}
				sections[section] = parent
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: section}, parent)
			}
		}

		var value yaml.Node
		if err := value.Encode(o.Value); err != nil {
			return "", fmt.Errorf("encoding %s: %w", o.Key, err)
		}
		parent.Content = append(parent.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key, HeadComment: o.Comment}, &value)
	}

	var buf bytes.Buffer
	buf.WriteString("# notepipe configuration (YAML)\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
