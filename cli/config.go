package main

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "http://localhost:3000"

type cliConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`
}

// loadConfig reads config.yaml next to the binary's working directory. The
// file is optional; ${VAR} placeholders are substituted from the environment,
// and TASKPILOT_URL overrides whatever the file says.
func loadConfig(path string) (*cliConfig, error) {
	var cfg cliConfig
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, err
	default:
		content := string(data)
		for _, env := range os.Environ() {
			pair := strings.SplitN(env, "=", 2)
			if len(pair) != 2 {
				continue
			}
			placeholder := "${" + pair[0] + "}"
			content = strings.ReplaceAll(content, placeholder, pair[1])
		}
		if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
			return nil, err
		}
	}

	if url := os.Getenv("TASKPILOT_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultBaseURL
	}
	return &cfg, nil
}
