package sitemap

import (
	"strconv"
	"strings"
)

const ext = ".xml"

// Namer derives output filenames.
type Namer interface {
	// Group returns the unsuffixed filename of a group, e.g. sitemap-product.xml.
	Group(base, key string) string
	// Increment returns the filename of the n-th split file of a group, n >= 1.
	Increment(group string, n int) string
}

// DefaultNamer produces <base>-<key>.xml and <base>-<key>.<n>.xml.
type DefaultNamer struct{}

// Group is idempotent: a base already ending in -<key> is not suffixed twice.
func (DefaultNamer) Group(base, key string) string {
	stem := strings.TrimSuffix(base, ext)
	stem = strings.TrimSuffix(stem, "-"+key)
	return stem + "-" + key + ext
}

func (DefaultNamer) Increment(group string, n int) string {
	return strings.TrimSuffix(group, ext) + "." + strconv.Itoa(n) + ext
}
