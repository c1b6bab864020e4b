// Package garmin uploads validated workouts to Garmin Connect. It is an
// external collaborator of the conversion pipeline: the converter never
// touches it until a workout has passed validation.
package garmin

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the whole application configuration: Garmin credentials plus
// the optional sections consumed by the generator and the preview server.
type Config struct {
	Email      string     `yaml:"email,omitempty"`
	Password   string     `yaml:"password,omitempty"`
	TokenFile  string     `yaml:"token_file,omitempty"`
	BaseURL    string     `yaml:"base_url,omitempty"`
	LLM        *LLMConfig `yaml:"llm,omitempty"`
	MaxRetries int        `yaml:"max_retries,omitempty"`
	ServerAddr string     `yaml:"server_addr,omitempty"`
}

// LLMConfig configures the generation module (optional for upload-only use).
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
}

// LoadConfig reads YAML config from disk.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validateAuth() error {
	if c.TokenFile == "" && (c.Email == "" || c.Password == "") {
		return errors.New("config must include token_file or email and password")
	}
	return nil
}
