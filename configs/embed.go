// Package configs provides the embedded index-configuration template for
// picky.
//
// Templates are embedded at build time using Go's //go:embed directive so
// they ship with the binary rather than depending on a file living
// alongside it at runtime.
package configs

import _ "embed"

// IndexConfigTemplate is an example index configuration, printed by
// `picky config example`: one index with a plain text category, a
// partial-match category, a similarity-match category, and a bucketed
// location category, matching internal/config.Config's YAML shape.
//
//go:embed index-config.example.yaml
var IndexConfigTemplate string
