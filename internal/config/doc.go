// Package config loads and merges auditmd configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (AUDITMD_PROVIDER, AUDITMD_MODEL, AUDITMD_FAILON, etc.)
//  3. Config file ($XDG_CONFIG_HOME/auditmd/config.yaml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config] and [SetField] to update a single
// key before calling [Save].
package config
