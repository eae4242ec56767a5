package utils

import (
	"hash/fnv"
	"strconv"
)

// Fingerprint returns a short FNV-1a digest of a fetched export, used to
// tell whether the sheet changed between cycles.
func Fingerprint(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return strconv.FormatUint(h.Sum64(), 16)
}
