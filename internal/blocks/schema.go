package blocks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrUnknownType     = errors.New("blocks: unknown block type")
	ErrPropsValidation = errors.New("blocks: props validation failed")
)

// PropsIssue captures a single props validation failure.
type PropsIssue struct {
	Location string
	Message  string
}

// PropsValidationError surfaces validation issues for a block's props bag.
type PropsValidationError struct {
	Type   Type
	Issues []PropsIssue
	Cause  error
}

func (e *PropsValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%s (%s): %v", ErrPropsValidation.Error(), e.Type, e.Cause)
		}
		return fmt.Sprintf("%s (%s)", ErrPropsValidation.Error(), e.Type)
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s (%s): %s", ErrPropsValidation.Error(), e.Type, strings.Join(parts, "; "))
}

func (e *PropsValidationError) Unwrap() error {
	return ErrPropsValidation
}

// ValidateProps checks a props bag against the schema for the given type.
// Schemas keep additionalProperties open so unknown keys written by newer
// editor releases validate cleanly.
func ValidateProps(t Type, props map[string]any) error {
	compiled, err := schemaFor(t)
	if err != nil {
		return err
	}
	if props == nil {
		props = map[string]any{}
	}
	if err := compiled.Validate(props); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &PropsValidationError{
				Type:   t,
				Issues: collectPropsIssues(validationErr),
				Cause:  err,
			}
		}
		return &PropsValidationError{Type: t, Cause: err}
	}
	return nil
}

var (
	schemaOnce     sync.Once
	schemaCompiled map[Type]*jsonschema.Schema
	schemaErr      error
)

func schemaFor(t Type) (*jsonschema.Schema, error) {
	schemaOnce.Do(compileAllSchemas)
	if schemaErr != nil {
		return nil, schemaErr
	}
	compiled, ok := schemaCompiled[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return compiled, nil
}

func compileAllSchemas() {
	schemaCompiled = make(map[Type]*jsonschema.Schema, len(propsSchemas))
	for t, definition := range propsSchemas {
		compiled, err := compilePropsSchema(definition)
		if err != nil {
			schemaErr = fmt.Errorf("blocks: compiling %s schema: %w", t, err)
			return
		}
		schemaCompiled[t] = compiled
	}
}

func compilePropsSchema(definition map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(definition)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectPropsIssues(err *jsonschema.ValidationError) []PropsIssue {
	if err == nil {
		return nil
	}
	issues := []PropsIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, PropsIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

var overlaySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"enabled": map[string]any{"type": "boolean"},
		"color":   map[string]any{"type": "string"},
		"opacity": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
	},
}

var propsSchemas = map[Type]map[string]any{
	TypeRichText: {
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{"type": "string"},
			"align":   map[string]any{"type": "string", "enum": []any{"left", "center", "right", "justify"}},
			"format":  map[string]any{"type": "string", "enum": []any{"html", "markdown"}},
		},
	},
	TypeImage: {
		"type": "object",
		"properties": map[string]any{
			"url":     map[string]any{"type": "string"},
			"alt":     map[string]any{"type": "string"},
			"caption": map[string]any{"type": "string"},
			"link":    map[string]any{"type": "string"},
			"size":    map[string]any{"type": "string"},
			"align":   map[string]any{"type": "string", "enum": []any{"left", "center", "right"}},
		},
	},
	TypeGallery: {
		"type": "object",
		"properties": map[string]any{
			"images": map[string]any{
				"type": "array",
				"items": map[string]any{
					"anyOf": []any{
						map[string]any{"type": "string"},
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"url": map[string]any{"type": "string"},
								"alt": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
			"columns":  map[string]any{"type": "integer", "minimum": 1, "maximum": 6},
			"spacing":  map[string]any{"type": "integer", "minimum": 0},
			"lightbox": map[string]any{"type": "boolean"},
		},
	},
	TypeCarousel: {
		"type": "object",
		"properties": map[string]any{
			"slides": map[string]any{
				"type": "array",
				"items": map[string]any{
					"anyOf": []any{
						map[string]any{"type": "string"},
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"url":     map[string]any{"type": "string"},
								"alt":     map[string]any{"type": "string"},
								"caption": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
			"autoplay":      map[string]any{"type": "boolean"},
			"autoplaySpeed": map[string]any{"type": "integer", "minimum": 100},
			"transition":    map[string]any{"type": "string", "enum": []any{"slide", "fade"}},
			"loop":          map[string]any{"type": "boolean"},
			"arrows":        map[string]any{"type": "boolean"},
			"dots":          map[string]any{"type": "boolean"},
			"slideSpeed":    map[string]any{"type": "integer", "minimum": 0},
		},
	},
	TypeHero: {
		"type": "object",
		"properties": map[string]any{
			"title":              map[string]any{"type": "string"},
			"subtitle":           map[string]any{"type": "string"},
			"backgroundImage":    map[string]any{"type": "string"},
			"backgroundColor":    map[string]any{"type": "string"},
			"backgroundGradient": map[string]any{"type": "string"},
			"overlay":            overlaySchema,
			"height":             map[string]any{"type": "string"},
			"align":              map[string]any{"type": "string", "enum": []any{"left", "center", "right"}},
		},
	},
	TypeForm: {
		"type": "object",
		"properties": map[string]any{
			"fields": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
			"successMessage": map[string]any{"type": "string"},
		},
	},
	TypeHTML: {
		"type": "object",
		"properties": map[string]any{
			"content":  map[string]any{"type": "string"},
			"sanitize": map[string]any{"type": "boolean"},
		},
	},
	TypeButton: {
		"type": "object",
		"properties": map[string]any{
			"label":  map[string]any{"type": "string"},
			"url":    map[string]any{"type": "string"},
			"target": map[string]any{"type": "string", "enum": []any{"_self", "_blank"}},
			"style":  map[string]any{"type": "string"},
			"size":   map[string]any{"type": "string"},
		},
	},
	TypeSpacer: {
		"type": "object",
		"properties": map[string]any{
			"height": map[string]any{"type": "integer", "minimum": 0},
		},
	},
	TypeColumns: {
		"type": "object",
		"properties": map[string]any{
			"columns": map[string]any{"type": "integer", "minimum": 1, "maximum": 6},
			"content": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"blocks": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "object"},
						},
					},
				},
			},
		},
	},
	TypeVideo: {
		"type": "object",
		"properties": map[string]any{
			"url":      map[string]any{"type": "string"},
			"autoplay": map[string]any{"type": "boolean"},
			"loop":     map[string]any{"type": "boolean"},
			"controls": map[string]any{"type": "boolean"},
		},
	},
	TypeBackgroundImage: {
		"type": "object",
		"properties": map[string]any{
			"image":    map[string]any{"type": "string"},
			"size":     map[string]any{"type": "string"},
			"position": map[string]any{"type": "string"},
			"overlay":  overlaySchema,
		},
	},
}
