package data

import (
	_ "embed"
)

// SeedCategories is the default hexagon: six axes in display order.
//
//go:embed seed/categories.json
var SeedCategories []byte
