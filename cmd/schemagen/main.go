package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/pkg/schema"
)

func main() {
	outputDir := flag.String("output", "api", "Output directory for generated schemas")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	generator := schema.NewGenerator(schema.WithClosedObjects())

	schemaJSON, err := generator.GenerateJSONSchema(domain.GeneratedArticle{})
	if err != nil {
		log.Fatalf("Failed to generate schema for GeneratedArticle: %v", err)
	}

	jsonFile := filepath.Join(*outputDir, "generated-article-v1.json")
	if err := os.WriteFile(jsonFile, []byte(schemaJSON), 0644); err != nil {
		log.Fatalf("Failed to write JSON schema: %v", err)
	}
	fmt.Printf("Generated JSON schema: %s\n", jsonFile)

	yamlFile := filepath.Join(*outputDir, "batch-example.yaml")
	if err := os.WriteFile(yamlFile, []byte(batchExample), 0644); err != nil {
		log.Fatalf("Failed to write YAML example: %v", err)
	}
	fmt.Printf("Generated YAML example: %s\n", yamlFile)
}

const batchExample = `# Batch generation file for: news_writer batch -f <file>
kind: ArticleBatch
version: v1
concurrency: 2
items:
  - url: "https://example.com/noticia-ia"
  - url: "https://example.com/robotica-hoy"
    featured: true
`
