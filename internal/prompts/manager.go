package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into the binary
//
//go:embed templates/*.yaml
var templateFS embed.FS

// PromptProvider is what handlers and services depend on.
type PromptProvider interface {
	BuildPrompt(mode, variant string, data map[string]string) (string, error)
	Modes() []string
}

type PromptManager struct {
	prompts map[string]map[string]string // mode -> variant -> complete prompt
}

// loaded prompt template
type PromptTemplate struct {
	BasePrompt string            `yaml:"base_prompt"`
	Variants   map[string]string `yaml:"variants"`
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]map[string]string),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// builds a prompt for the given mode and variant, substituting data values
func (pm *PromptManager) BuildPrompt(mode, variant string, data map[string]string) (string, error) {
	modePrompts, exists := pm.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}

	promptTemplate, exists := modePrompts[variant]
	if !exists {
		return "", fmt.Errorf("variant '%s' not found for mode '%s'", variant, mode)
	}

	// Simple string replacement instead of template execution
	result := promptTemplate
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}

	return result, nil
}

func (pm *PromptManager) Modes() []string {
	modes := make([]string, 0, len(pm.prompts))
	for mode := range pm.prompts {
		modes = append(modes, mode)
	}
	return modes
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		pm.prompts[name] = make(map[string]string)

		for variant, variantPrompt := range promptTemplate.Variants {
			var fullPrompt strings.Builder
			if promptTemplate.BasePrompt != "" {
				fullPrompt.WriteString(promptTemplate.BasePrompt)
				fullPrompt.WriteString("\n\n")
			}
			fullPrompt.WriteString(variantPrompt)

			pm.prompts[name][variant] = fullPrompt.String()
		}
	}

	return nil
}
