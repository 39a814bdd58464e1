package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"noteboard/chat"
)

// Prompts holds the localizable prompt texts. Keeping them in a YAML file
// lets deployments swap wording and language without a rebuild.
type Prompts struct {
	Chat     chat.PromptTemplate `yaml:"chat"`
	Keywords struct {
		System string `yaml:"system"`
	} `yaml:"keywords"`
}

func LoadPrompts(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var prompts Prompts
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	if prompts.Chat.System == "" || prompts.Chat.NoNotes == "" || prompts.Keywords.System == "" {
		return nil, fmt.Errorf("prompts file %s is missing required entries", path)
	}
	return &prompts, nil
}
