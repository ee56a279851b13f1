package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/foldeval/refold/pkg/config"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&config.RunConfig{})
	schema.Title = "Refold Run Configuration"
	schema.Description = "Schema for refold.yml."

	// Only mode and the query folder are truly required; everything else
	// is mode-dependent and checked by Validate instead.
	schema.Required = []string{"mode", "query_pdb_folder"}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	if err := os.WriteFile("refold.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated schema at refold.schema.json")
}
