package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// schemaNode is the subset of json schema checked here
type schemaNode struct {
	Ref        string                 `json:"$ref"`
	Defs       map[string]*schemaNode `json:"$defs"`
	Type       string                 `json:"type"`
	Properties map[string]*schemaNode `json:"properties"`
	Required   []string               `json:"required"`
	Enum       []any                  `json:"enum"`
	Minimum    *float64               `json:"minimum"`
	Maximum    *float64               `json:"maximum"`
}

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema schemaNode
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := checkNode(&schema, schema.Defs, configMap, ""); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// basic validation - check required fields match
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// checkNode walks the value along the schema, checking required keys, enums and numeric bounds
func checkNode(node *schemaNode, defs map[string]*schemaNode, value any, path string) error {
	if node.Ref != "" {
		def, ok := defs[strings.TrimPrefix(node.Ref, "#/$defs/")]
		if !ok {
			return fmt.Errorf("%s: unknown schema reference %s", path, node.Ref)
		}
		node = def
	}

	switch v := value.(type) {
	case map[string]any:
		for _, req := range node.Required {
			if _, ok := v[req]; !ok {
				return fmt.Errorf("%s is required", join(path, req))
			}
		}
		for key, prop := range node.Properties {
			if val, ok := v[key]; ok {
				if err := checkNode(prop, defs, val, join(path, key)); err != nil {
					return err
				}
			}
		}
	case string:
		if v != "" && len(node.Enum) > 0 && !slices.Contains(node.Enum, any(v)) {
			return fmt.Errorf("%s: %q is not one of %v", path, v, node.Enum)
		}
	case float64:
		if node.Minimum != nil && v < *node.Minimum {
			return fmt.Errorf("%s: %v is less than %v", path, v, *node.Minimum)
		}
		if node.Maximum != nil && v > *node.Maximum {
			return fmt.Errorf("%s: %v is greater than %v", path, v, *node.Maximum)
		}
	}
	return nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	// check server config
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}

	if cfg.LLM.Primary.Model == "" {
		return fmt.Errorf("llm.primary.model is required")
	}

	// embeddings need a model when enabled
	if cfg.Embedding.Enabled && cfg.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required when embeddings are enabled")
	}

	if cfg.Extraction.Retries < 1 {
		return fmt.Errorf("extraction.retries must be at least 1")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
