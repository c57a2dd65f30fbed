package assets

import "embed"

// Ships holds the ship part catalog.
//
//go:embed ships/*.json
var Ships embed.FS
