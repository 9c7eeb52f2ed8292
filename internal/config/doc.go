// SPDX-License-Identifier: MPL-2.0

// Package config loads palm configuration and turns it into a plugin load order.
//
// Two YAML files are read with Viper: the global $PALM_HOME/config.yaml (created with
// defaults when missing) and the project's .palm/config.yaml. They are merged with the
// project taking precedence for scalars while lists are concatenated, validated
// against the embedded CUE #Config schema and decoded into Config. PALM_-prefixed
// environment variables override scalar keys.
//
// The Resolver answers the questions the dispatcher asks before any plugin is
// loaded: which plugins, in which order, and whether the current branch is protected.
package config
