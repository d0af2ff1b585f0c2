// Package groupid derives the numeric identity of a workspace group.
package groupid

import "github.com/cespare/xxhash/v2"

// Of returns the group ID for a canonical "<workspace>/<group>" name: the low
// 32 bits of the XXH64 digest (seed 0) of its UTF-8 bytes. IDs are not
// unique; distinct names may collide.
func Of(canonicalName string) uint32 {
	return uint32(xxhash.Sum64String(canonicalName))
}
