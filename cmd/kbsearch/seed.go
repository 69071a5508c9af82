package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/poiesic/kbsearch/core"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Documents []seedDocument `yaml:"documents"`
}

type seedDocument struct {
	Title      string    `yaml:"title"`
	Body       string    `yaml:"body"`
	Excerpt    string    `yaml:"excerpt"`
	Attachment string    `yaml:"attachment"`
	Category   string    `yaml:"category"`
	Tags       []string  `yaml:"tags"`
	Status     string    `yaml:"status"`
	ApprovedAt time.Time `yaml:"approved_at"`
}

// readSeedFile parses path into documents. Status defaults to approved.
func readSeedFile(path string) ([]*core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	docs := make([]*core.Document, 0, len(file.Documents))
	for i, sd := range file.Documents {
		if strings.TrimSpace(sd.Title) == "" {
			return nil, fmt.Errorf("document %d in %s has no title", i+1, path)
		}
		status := core.DocumentStatusApproved
		if sd.Status != "" {
			status, err = core.ParseDocumentStatus(sd.Status)
			if err != nil {
				return nil, fmt.Errorf("document %q: %w", sd.Title, err)
			}
		}
		docs = append(docs, &core.Document{
			Title:          sd.Title,
			Body:           sd.Body,
			Excerpt:        sd.Excerpt,
			AttachmentText: sd.Attachment,
			Category:       sd.Category,
			Tags:           sd.Tags,
			Status:         status,
			ApprovedAt:     sd.ApprovedAt,
		})
	}
	return docs, nil
}
