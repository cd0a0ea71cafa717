package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/investment"
)

// TemplateStore holds the SAFE templates.
// It loads from an external directory when a file named "<variant>.docx" exists
// there, with fallback to the embedded templates.
type TemplateStore struct {
	externalDir string
	templates   []Template
	mu          sync.RWMutex
}

// Template is a loaded .docx template
type Template struct {
	ID          string // Stable ID derived from the variant
	Variant     investment.Variant
	Name        string
	Description string
	Source      string // "embedded" or the external file path
	Content     []byte // Read-only

	// Placeholders are the distinct field names the template references
	Placeholders []string
}

// TemplateStoreConfig configures the template store
type TemplateStoreConfig struct {
	// ExternalDir is the directory to load templates from.
	// If empty or a file is missing there, embedded templates are used.
	ExternalDir string
}

// NewTemplateStore creates a new template store
func NewTemplateStore(config *TemplateStoreConfig) (*TemplateStore, error) {
	store := &TemplateStore{}

	if config != nil && config.ExternalDir != "" {
		store.externalDir = config.ExternalDir
	}

	if err := store.loadTemplates(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *TemplateStore) loadTemplates() error {
	defaults := GetDefaultTemplates()
	templates := make([]Template, 0, len(defaults))

	for _, dt := range defaults {
		content, source, err := s.loadTemplateContent(dt)
		if err != nil {
			return fmt.Errorf("failed to load template %s: %w", dt.Variant, err)
		}
		if err := validateContainer(content); err != nil {
			return fmt.Errorf("template %s (%s) is not a usable document: %w", dt.Variant, source, err)
		}
		names, err := Placeholders(content)
		if err != nil {
			return fmt.Errorf("template %s (%s) could not be scanned: %w", dt.Variant, source, err)
		}

		templates = append(templates, Template{
			ID:           generateTemplateID(dt.Variant),
			Variant:      dt.Variant,
			Name:         dt.Name,
			Description:  dt.Description,
			Source:       source,
			Content:      content,
			Placeholders: names,
		})
	}

	s.mu.Lock()
	s.templates = templates
	s.mu.Unlock()
	return nil
}

func (s *TemplateStore) loadTemplateContent(dt DefaultTemplate) ([]byte, string, error) {
	if s.externalDir != "" {
		externalPath := filepath.Join(s.externalDir, filepath.Base(dt.FilePath))
		if content, err := os.ReadFile(externalPath); err == nil {
			return content, externalPath, nil
		}
	}

	content, err := LoadTemplateContent(dt.FilePath)
	if err != nil {
		return nil, "", err
	}
	return content, "embedded", nil
}

// Get returns the template for a variant
func (s *TemplateStore) Get(variant investment.Variant) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.templates {
		if s.templates[i].Variant == variant {
			t := s.templates[i]
			return &t, nil
		}
	}
	return nil, NewRenderError(ErrCodeTemplateNotFound, fmt.Sprintf("no template for investment type %q", variant), nil)
}

// All returns every template in variant order
func (s *TemplateStore) All() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Template, len(s.templates))
	copy(result, s.templates)
	return result
}

// Reload reloads all templates from disk/embedded. On failure the previously
// loaded set stays active.
func (s *TemplateStore) Reload() error {
	return s.loadTemplates()
}

// generateTemplateID generates a stable UUID v5 so the same variant always has the same ID
func generateTemplateID(variant investment.Variant) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8") // URL namespace
	return uuid.NewSHA1(namespace, []byte("safe-template:"+string(variant))).String()
}

func validateContainer(content []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return err
	}
	for _, f := range zr.File {
		if f.Name == mainDocumentPart {
			return nil
		}
	}
	return fmt.Errorf("missing %s", mainDocumentPart)
}
