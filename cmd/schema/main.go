// Command schema writes the JSON schema of the recipescope config, embedded by pkg/config for verification.
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/umputun/recipescope/pkg/config"
)

func main() {
	outputPath := "pkg/config/schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	schema, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("failed to generate schema: %v", err)
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal schema: %v", err)
	}

	if err := os.WriteFile(outputPath, append(data, '\n'), 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		log.Fatalf("failed to write schema to %s: %v", outputPath, err)
	}
	log.Printf("config schema written to %s", outputPath)
}
