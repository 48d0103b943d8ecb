//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a .yaml, .yml or .json file on top of the defaults.
func LoadFile(path string) (Config, error) {
	config := Default()

	file, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrap(err, "read config file")
	}

	if err := parseConfigFile(file, path, &config); err != nil {
		return config, err
	}
	return config, nil
}

func parseConfigFile(file []byte, name string, config *Config) error {
	switch ext := filepath.Ext(name); ext {
	case ".json":
		if err := json.Unmarshal(file, config); err != nil {
			return fmt.Errorf("error unmarshalling the json config file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(file, config); err != nil {
			return fmt.Errorf("error unmarshalling the yaml config file: %w", err)
		}
	case "":
		return fmt.Errorf("config file does not have a file ending, got '%s'", name)
	default:
		return fmt.Errorf("unsupported config file extension '%s', use .yaml or .json", ext)
	}
	return nil
}

// Load resolves the configuration in the following order, later sources
// override earlier ones:
// 1. Defaults
// 2. Config file, if path is set
// 3. Environment variables
// Command line flags are applied by the caller afterwards, followed by
// Validate.
func Load(path string, logger logrus.FieldLogger) (Config, error) {
	config := Default()

	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return config, configErr(err)
		}
		config = loaded
		logger.WithField("action", "config_load").
			WithField("config_file_path", path).
			Debug("loaded graph load config file")
	}

	if err := FromEnv(&config); err != nil {
		return config, configErr(err)
	}

	return config, nil
}

func configErr(err error) error {
	return fmt.Errorf("invalid config: %w", err)
}
