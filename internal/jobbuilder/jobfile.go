package jobbuilder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadInput reads a job description from a YAML or JSON file. The format is
// chosen by extension; anything that is not .json is parsed as YAML.
func LoadInput(path string) (JobInput, error) {
	var input JobInput
	data, err := os.ReadFile(path)
	if err != nil {
		return input, fmt.Errorf("read job file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &input); err != nil {
			return input, fmt.Errorf("parse job file %s: %w", path, err)
		}
		return input, nil
	}
	if err := yaml.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("parse job file %s: %w", path, err)
	}
	return input, nil
}
