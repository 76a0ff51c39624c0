// Package cache persists the identity cache block inside the consumer
// workspace's configuration file. This package implements the
// domain.CacheStore interface using yaml.v3.
package cache

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/benjaminmgross/thoughts-publish/internal/domain"
)

// BlockKey is the fixed top-level key the cache block lives under.
const BlockKey = "discussions"

// filePerm is the mode for a newly created configuration file.
const filePerm = 0o644

// cacheBlock is the on-disk shape of the identity cache.
type cacheBlock struct {
	RemoteURL          string `yaml:"remote_url"`
	RepositoryID       string `yaml:"repo_id"`
	ResearchCategoryID string `yaml:"research_category_id"`
	PlansCategoryID    string `yaml:"plans_category_id"`
}

// YAMLStore reads and writes a single cache block in a YAML configuration
// file, preserving any unrelated top-level keys. At most one block exists
// at a time: saving fully replaces the previous block, whatever remote URL
// it was keyed by.
type YAMLStore struct {
	path string
}

// NewYAMLStore creates a store backed by the configuration file at path.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Load reads the cache block. Returns (nil, nil) when the file or the
// block does not exist.
func (s *YAMLStore) Load() (*domain.IdentityCache, error) {
	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}

	raw, ok := doc[BlockKey]
	if !ok {
		return nil, nil
	}

	// Round-trip the block through YAML rather than walking the untyped map.
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode cache block: %w", err)
	}

	var block cacheBlock
	if err := yaml.Unmarshal(data, &block); err != nil {
		return nil, fmt.Errorf("failed to decode cache block: %w", err)
	}

	return &domain.IdentityCache{
		RemoteURL:          block.RemoteURL,
		RepositoryID:       block.RepositoryID,
		ResearchCategoryID: block.ResearchCategoryID,
		PlansCategoryID:    block.PlansCategoryID,
	}, nil
}

// Save writes the cache block, replacing any existing block and preserving
// unrelated top-level keys in the configuration file.
func (s *YAMLStore) Save(cache *domain.IdentityCache) error {
	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	doc[BlockKey] = cacheBlock{
		RemoteURL:          cache.RemoteURL,
		RepositoryID:       cache.RepositoryID,
		ResearchCategoryID: cache.ResearchCategoryID,
		PlansCategoryID:    cache.PlansCategoryID,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := os.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	return nil
}

// readDocument parses the configuration file into an untyped map.
// A missing file yields (nil, nil).
func (s *YAMLStore) readDocument() (map[string]interface{}, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	return doc, nil
}
