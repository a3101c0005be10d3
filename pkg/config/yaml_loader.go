package config

import (
	"io"

	"gopkg.in/yaml.v2"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

type yamlConfigLoader struct{}

func (l yamlConfigLoader) LoadConfig(reader io.Reader, config *Config) error {
	if config == nil {
		return gomel.NewConfigError("config parameter is nil")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if err = yaml.UnmarshalStrict(data, config); err != nil {
		return err
	}
	var parsed map[string]interface{}
	if err = yaml.Unmarshal(data, &parsed); err != nil {
		return err
	}
	return checkFieldCount(config, len(parsed))
}

func (l yamlConfigLoader) StoreConfig(writer io.Writer, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	_, err = writer.Write(data)
	return err
}

// NewYAMLConfigLoader returns a Loader reading configurations stored in YAML.
// Keys are the lowercased field names of Config.
func NewYAMLConfigLoader() Loader {
	return yamlConfigLoader{}
}

// NewYAMLConfigWriter returns a Writer storing configurations in YAML.
func NewYAMLConfigWriter() Writer {
	return yamlConfigLoader{}
}
