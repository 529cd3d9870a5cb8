package recipe

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML lets SourceFieldsStrategy be spelled as the same
// names the embedding API's enum uses ("AUTO_DROP"/"AUTO_FINALIZE")
// rather than as a bare integer, following the teacher's
// internal/ext Config pattern for funxy.yaml.
func (s *SourceFieldStrategy) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	switch name {
	case "AUTO_DROP":
		*s = AutoDrop
	case "AUTO_FINALIZE":
		*s = AutoFinalize
	default:
		return fmt.Errorf("recipe: unknown source_fields_strategy %q", name)
	}
	return nil
}

// MarshalYAML renders SourceFieldStrategy back to its symbolic name.
func (s SourceFieldStrategy) MarshalYAML() (any, error) {
	switch s {
	case AutoDrop:
		return "AUTO_DROP", nil
	case AutoFinalize:
		return "AUTO_FINALIZE", nil
	default:
		return nil, fmt.Errorf("recipe: unknown source_fields_strategy value %d", s)
	}
}

// LoadOptionsYAML decodes Options from a YAML document, e.g.:
//
//	source_fields_strategy: AUTO_FINALIZE
//	with_source_fields_timestamp_cast: true
func LoadOptionsYAML(doc []byte) (Options, error) {
	var opts Options
	if err := yaml.Unmarshal(doc, &opts); err != nil {
		return Options{}, fmt.Errorf("recipe: decoding options YAML: %w", err)
	}
	return opts, nil
}
