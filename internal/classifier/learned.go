package classifier

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// learnedFile is the on-disk shape of the learned mappings database.
type learnedFile struct {
	Mappings map[string]string `yaml:"mappings"`
}

// LearnedStore persists text-to-category mappings picked up from successful
// AI classifications, so similar expenses resolve locally next time.
type LearnedStore struct {
	Path string
}

// NewLearnedStore creates a store backed by the given YAML file.
func NewLearnedStore(path string) *LearnedStore {
	return &LearnedStore{Path: path}
}

// Load reads the mappings. A missing file is not an error; it returns an
// empty map and the file is created on the next save.
func (s *LearnedStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("could not read learned mappings file: %w", err)
	}

	var f learnedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		// Tolerate the bare map[string]string format too.
		direct := make(map[string]string)
		if err2 := yaml.Unmarshal(data, &direct); err2 != nil {
			return nil, fmt.Errorf("could not parse learned mappings file: %w", err)
		}
		return direct, nil
	}
	if f.Mappings == nil {
		return map[string]string{}, nil
	}
	return f.Mappings, nil
}

const learnedHeader = `# Learned expense-to-category mappings
# This file maps expense text to category paths ("Main > Sub").
# It is updated automatically when the AI fallback classifies a new phrase.
`

// Save writes the mappings, creating the parent directory if needed.
func (s *LearnedStore) Save(mappings map[string]string) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create learned mappings directory: %w", err)
		}
	}

	data, err := yaml.Marshal(learnedFile{Mappings: mappings})
	if err != nil {
		return fmt.Errorf("could not marshal learned mappings: %w", err)
	}

	if err := os.WriteFile(s.Path, append([]byte(learnedHeader), data...), 0o644); err != nil {
		return fmt.Errorf("could not write learned mappings file: %w", err)
	}
	return nil
}
