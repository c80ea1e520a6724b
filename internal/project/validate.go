package project

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
)

// Validate checks a JSON-like value (map[string]any, []any and scalars, as
// produced by evaluating the configuration) against ConfigSchema. Every
// violation is reported in a single *errors.ConfigValidationError.
func Validate(value any) error {
	v := &validator{issues: make([]errors.Issue, 0)}
	v.validate("", ConfigSchema, value)

	if len(v.issues) > 0 {
		return &errors.ConfigValidationError{Issues: v.issues}
	}
	return nil
}

// Decode validates value and converts it into a Config
func Decode(value any) (*Config, error) {
	if err := Validate(value); err != nil {
		return nil, err
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		TagName:     "json",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(value); err != nil {
		return nil, &errors.ConfigValidationError{
			Issues: []errors.Issue{{Message: err.Error()}},
		}
	}
	return &cfg, nil
}

type validator struct {
	issues []errors.Issue
}

func (v *validator) add(path, format string, args ...any) {
	v.issues = append(v.issues, errors.Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) validate(path string, node *Node, value any) {
	if value == nil {
		v.add(path, "expected %s, got null", kindName(node.Kind))
		return
	}

	switch node.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			v.add(path, "expected string, got %s", typeName(value))
			return
		}
		if node.NonEmpty && s == "" {
			v.add(path, "must not be empty")
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			v.add(path, "expected boolean, got %s", typeName(value))
		}
	case KindEnum:
		s, ok := value.(string)
		if !ok {
			v.add(path, "expected string, got %s", typeName(value))
			return
		}
		for _, member := range node.Enum {
			if s == member {
				return
			}
		}
		v.add(path, "invalid value %q, expected one of: %s", s, strings.Join(node.Enum, ", "))
	case KindArray:
		items, ok := value.([]any)
		if !ok {
			v.add(path, "expected array, got %s", typeName(value))
			return
		}
		for i, item := range items {
			v.validate(fmt.Sprintf("%s[%d]", path, i), node.Elem, item)
		}
	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			v.add(path, "expected object, got %s", typeName(value))
			return
		}
		v.validateObject(path, node, obj)
	}
}

func (v *validator) validateObject(path string, node *Node, obj map[string]any) {
	known := make(map[string]bool, len(node.Fields))
	for _, field := range node.Fields {
		known[field.Name] = true

		fieldPath := joinPath(path, field.Name)
		value, present := obj[field.Name]
		if !present {
			if field.Required {
				v.add(fieldPath, "required")
			}
			continue
		}
		v.validate(fieldPath, field.Node, value)
	}

	unknown := make([]string, 0)
	for key := range obj {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		v.add(joinPath(path, key), "unknown key")
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func kindName(kind Kind) string {
	switch kind {
	case KindString, KindEnum:
		return "string"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "value"
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int32, int64, float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", value)
}
