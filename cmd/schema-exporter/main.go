// Command schema-exporter writes the component catalog as versioned JSON
// Schema files plus the protocol capability document, for hosts that
// validate or document surface payloads outside this module.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/c360/surfacekit/component"
	"github.com/c360/surfacekit/protocol"
)

func main() {
	outDir := flag.String("out", "./schemas", "Output directory for component schemas")
	capabilitiesOut := flag.String("capabilities", "./schemas/capabilities.json", "Output path for the protocol capability document")
	flag.Parse()

	log.Printf("Schema Exporter")
	log.Printf("  Output dir: %s", *outDir)
	log.Printf("  Capabilities: %s", *capabilitiesOut)

	catalog := component.DefaultCatalog()
	kinds := catalog.Kinds()
	log.Printf("Found %d component kinds", len(kinds))

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	for _, kind := range kinds {
		reg, ok := catalog.Get(kind)
		if !ok {
			log.Fatalf("Catalog lost kind %s between listing and lookup", kind)
		}

		doc, err := exportSchema(reg)
		if err != nil {
			log.Fatalf("Failed to export schema for %s: %v", kind, err)
		}

		outFile := filepath.Join(*outDir, fmt.Sprintf("%s.v1.json", kind))
		if err := writeJSON(outFile, doc); err != nil {
			log.Fatalf("Failed to write schema for %s: %v", kind, err)
		}
		log.Printf("  ✓ Generated: %s", outFile)
	}

	if *capabilitiesOut != "" {
		if err := os.MkdirAll(filepath.Dir(*capabilitiesOut), 0755); err != nil {
			log.Fatalf("Failed to create capabilities directory: %v", err)
		}
		if err := writeJSON(*capabilitiesOut, protocol.CapabilityDocument()); err != nil {
			log.Fatalf("Failed to write capability document: %v", err)
		}
		log.Printf("  ✓ Generated capability document: %s", *capabilitiesOut)
	}

	log.Printf("✅ Schema generation complete!")
}

// exportSchema renders one catalog registration as a standalone JSON
// Schema document with the registration metadata attached under a
// vendor extension key.
func exportSchema(reg component.Registration) (map[string]any, error) {
	doc := map[string]any{}
	if reg.Schema != "" {
		if err := json.Unmarshal([]byte(reg.Schema), &doc); err != nil {
			return nil, fmt.Errorf("schema for %q is not valid JSON: %w", reg.Kind, err)
		}
	}
	if _, ok := doc["type"]; !ok {
		doc["type"] = "object"
	}

	doc["$schema"] = "http://json-schema.org/draft-07/schema#"
	doc["$id"] = fmt.Sprintf("%s.v1.json", reg.Kind)
	doc["title"] = fmt.Sprintf("%s Properties", reg.Kind)
	doc["description"] = reg.Description

	metadata := map[string]any{
		"kind":      string(reg.Kind),
		"category":  string(reg.Category),
		"container": reg.Container,
	}
	if len(reg.ChildProps) > 0 {
		metadata["childProps"] = reg.ChildProps
	}
	if reg.GroupProp != "" {
		metadata["groupProp"] = reg.GroupProp
	}
	doc["x-component-metadata"] = metadata

	return doc, nil
}

// writeJSON writes a document as indented JSON.
func writeJSON(filename string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
