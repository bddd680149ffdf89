// Package locales embeds the translation files used for error messages.
package locales

import "embed"

//go:embed *.yaml
var FS embed.FS
