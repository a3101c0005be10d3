package config

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Loader is an abstraction for parsing configurations from a given io.Reader instance.
type Loader interface {
	// LoadConfig parses an instance of the Config type using a given instance of io.Reader.
	LoadConfig(io.Reader, *Config) error
}

// Writer is an abstraction for storing configurations using a given instance of io.Writer.
type Writer interface {
	// StoreConfig outputs a representation of the Config using the provided io.Writer.
	StoreConfig(io.Writer, *Config) error
}

type jsonConfigLoader struct{}

func (l jsonConfigLoader) LoadConfig(reader io.Reader, config *Config) error {
	if config == nil {
		return gomel.NewConfigError("config parameter is nil")
	}

	var buffer bytes.Buffer
	decoder := json.NewDecoder(io.TeeReader(reader, &buffer))
	decoder.DisallowUnknownFields()
	err := decoder.Decode(config)
	if err != nil {
		return err
	}
	// check if the provided JSON representation has the same number of fields as the Config type
	var parsedJSON map[string]interface{}
	err = json.NewDecoder(&buffer).Decode(&parsedJSON)
	if err != nil {
		return err
	}
	return checkFieldCount(config, len(parsedJSON))
}

func (l jsonConfigLoader) StoreConfig(writer io.Writer, config *Config) error {
	return json.NewEncoder(writer).Encode(*config)
}

// NewJSONConfigLoader returns a new instance of the Loader type that expects that the provided configuration
// is stored using the JSON format.
func NewJSONConfigLoader() Loader {
	return jsonConfigLoader{}
}

// NewJSONConfigWriter returns a new instance of the Writer type that stores the configuration using the JSON
// format.
func NewJSONConfigWriter() Writer {
	return jsonConfigLoader{}
}

func checkFieldCount(config *Config, parsed int) error {
	if reflect.Indirect(reflect.ValueOf(config)).NumField() != parsed {
		return gomel.NewConfigError("Provided configuration has incorrect number of fields")
	}
	return nil
}
