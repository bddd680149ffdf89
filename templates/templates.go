// Package templates embeds the email templates.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed mail
var files embed.FS

func FS() fs.FS {
	return files
}
