package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

//go:embed schema/config.schema.yaml
var schemaYAML []byte

const schemaURL = "deployfleet://config.schema.json"

// compiledSchema compiles the embedded schema once per process.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	schemaJSON, err := sigsyaml.YAMLToJSON(schemaYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config schema: %w", err)
	}
	schema, err := jsonschema.CompileString(schemaURL, string(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	return schema, nil
})

// LoadFile reads, schema-checks and parses the project configuration.
func LoadFile(path string) (*RootConfig, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document into a validated RootConfig.
func Parse(data []byte) (*RootConfig, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var cfg RootConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// validateSchema checks the raw document against the embedded JSON schema.
func validateSchema(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	jsonData, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}

	var doc any
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to decode config document: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("%w: config is empty", ErrInvalidConfig)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
