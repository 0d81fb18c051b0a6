// Package configs provides embedded configuration file templates used by the
// init subcommand.
package configs

import _ "embed"

// ConfigYAML is the template YAML configuration file.
//
//go:embed config.example.yaml
var ConfigYAML []byte

// EnvExample is the template .env file.
//
//go:embed env.example
var EnvExample []byte
