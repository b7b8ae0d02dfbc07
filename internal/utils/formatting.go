package utils

import "github.com/dustin/go-humanize"

// HumanSize renders a byte count in IEC units, e.g. 9.8 MiB.
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
