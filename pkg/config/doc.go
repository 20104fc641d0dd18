// Package config provides configuration management for Quill.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// A configuration built entirely from defaults is available through
// config.NewDefault, which is useful for embedding Quill as a library.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention QUILL_SECTION_FIELD.
// For example:
//
//   - QUILL_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - QUILL_PROVIDER_BASE_URL overrides provider.base_url
//   - QUILL_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
// Note that secrets (such as the provider API key) are never part of the
// configuration file; they are resolved at request time through the secrets
// package.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading. Validation
// includes:
//
//   - Required field checks (e.g., provider base URL, model allowlist)
//   - Range validation (e.g., temperature must be 0-2)
//   - Format validation (e.g., valid URL format)
//   - Logical validation (e.g., the default model must be on the allowlist)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - provider.base_url: base URL is required
//	  - models.default: default model "gpt-9" is not in the allowed list
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//
//	provider:
//	  base_url: "https://api.openai.com/v1"
//	  api_key_name: "provider.api_key"
//
//	models:
//	  allowed: ["gpt-4o-mini", "gpt-4o"]
//	  default: "gpt-4o-mini"
//
//	cache:
//	  enabled: true
//	  ttl: 1h
//	  capacity: 1000
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
