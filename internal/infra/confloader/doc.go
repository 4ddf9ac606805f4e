// Package confloader loads configuration into koanf-tagged structs.
//
// Sources, lowest priority first:
//
//  1. Values already present in the target struct (defaults)
//  2. A YAML configuration file
//  3. Environment variables (RELAYCHAT_ prefix)
//  4. Explicit overrides via LoadMap (flags, tests)
//
// Watcher reports changes to a configuration file so that selected values,
// such as the log level, can be applied without a restart.
package confloader
