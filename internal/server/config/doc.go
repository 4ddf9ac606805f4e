// Package config defines the relaychat server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation (addresses, durations, enums)
//   - sanitize.go: masks secrets before the config is logged
//
// Values are loaded through internal/infra/confloader from a YAML file and
// RELAYCHAT_* environment variables on top of Default().
package config
