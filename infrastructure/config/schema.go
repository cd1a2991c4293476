package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/felixgeelhaar/opregistry/domain/config"
)

// SchemaID is the $id of the manifest schema.
const SchemaID = "https://github.com/felixgeelhaar/opregistry/manifest.schema.json"

// GenerateSchema reflects the JSON Schema of a registry manifest.
func GenerateSchema() *jsonschema.Schema {
	s := jsonschema.Reflect(&config.Manifest{})
	s.ID = jsonschema.ID(SchemaID)
	s.Title = "Operation Registry Manifest"
	s.Description = "Providers and handlers served by an operation registry"
	return s
}

// SchemaJSON returns the manifest schema as indented JSON.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
