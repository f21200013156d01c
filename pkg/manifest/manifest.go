package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMaxSize caps manifest files at 512 KB.
const DefaultMaxSize = 512 * 1024

// Broker is one data-broker entry from the manifest.
type Broker struct {
	Name     string              `yaml:"name"`
	ID       string              `yaml:"id,omitempty"`
	Domain   string              `yaml:"domain,omitempty"`
	URL      string              `yaml:"url,omitempty"`
	Status   string              `yaml:"status,omitempty"`
	Notes    string              `yaml:"notes,omitempty"`
	Workflow []map[string]string `yaml:"workflow,omitempty"`
}

// Load reads and validates a broker manifest. It accepts either a
// top-level {"brokers": [...]} mapping or a bare list of entries, and
// normalises the legacy "broker:" key to "name:".
func Load(path string, maxSize int64) ([]Broker, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest: %w", err)
	}
	if info.Size() > maxSize {
		return nil, &TooLargeError{Path: path, Size: info.Size(), Limit: maxSize}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, invalidf(path, "YAML parse error: %v", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	items, err := brokerNodes(path, root.Content[0])
	if err != nil {
		return nil, err
	}

	brokers := make([]Broker, 0, len(items))
	for i, item := range items {
		if item.Kind != yaml.MappingNode {
			return nil, invalidf(path, "item #%d must be a mapping", i)
		}
		normalizeLegacyKey(item)
		if key := unknownKey(item); key != "" {
			return nil, invalidf(path, "item #%d: unknown field %q", i, key)
		}

		var b Broker
		if err := item.Decode(&b); err != nil {
			return nil, invalidf(path, "item #%d: %v", i, err)
		}
		b.Name = strings.TrimSpace(b.Name)
		if b.Name == "" {
			return nil, invalidf(path, "item #%d: broker name must not be blank", i)
		}
		brokers = append(brokers, b)
	}
	return brokers, nil
}

// brokerNodes extracts the entry list from either manifest shape.
func brokerNodes(path string, node *yaml.Node) ([]*yaml.Node, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Content, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value != "brokers" {
				continue
			}
			value := node.Content[i+1]
			if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
				return nil, nil
			}
			if value.Kind != yaml.SequenceNode {
				return nil, invalidf(path, "'brokers' key must contain a list")
			}
			return value.Content, nil
		}
		return nil, invalidf(path, "schema invalid: expected list or a 'brokers' key")
	default:
		return nil, invalidf(path, "schema invalid: expected list or mapping")
	}
}

// normalizeLegacyKey rewrites a legacy "broker" key to "name" when no
// "name" key is present.
func normalizeLegacyKey(item *yaml.Node) {
	hasName := false
	var legacy *yaml.Node
	for i := 0; i+1 < len(item.Content); i += 2 {
		switch item.Content[i].Value {
		case "name":
			hasName = true
		case "broker":
			legacy = item.Content[i]
		}
	}
	if legacy != nil && !hasName {
		legacy.Value = "name"
	}
}

// unknownKey returns the first field name that is not part of the
// broker schema, or "" when every key is recognised.
func unknownKey(item *yaml.Node) string {
	for i := 0; i+1 < len(item.Content); i += 2 {
		switch item.Content[i].Value {
		case "name", "id", "domain", "url", "status", "notes", "workflow":
		default:
			return item.Content[i].Value
		}
	}
	return ""
}
