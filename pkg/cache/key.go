package cache

import "strings"

// Key builds the conventional "<kind>:<id>" cache key, e.g. "item:1038081"
// or "listing:front". The namespace is a convention between callers, not
// enforced by the cache itself: collisions across kinds are avoided by
// callers choosing distinct kinds.
func Key(kind, id string) string {
	return kind + ":" + id
}

// SplitKey splits a conventional cache key back into kind and id. Keys
// without a separator are returned as an id with an empty kind.
func SplitKey(key string) (kind, id string) {
	kind, id, ok := strings.Cut(key, ":")
	if !ok {
		return "", key
	}
	return kind, id
}
