// Package cachekey builds canonical keys from logical request descriptions.
// The cache, the request deduplicator and the batching scheduler all key off
// the same codec, so a cache write, a dedup lookup and a batch slot for the
// "same" logical request are guaranteed to agree.
package cachekey

import (
	"encoding/json"
	"strings"
)

// Build returns the canonical key for a logical request in the form
// "<method>::<url>::<params-json>". The method is case-folded and params are
// serialized with sorted object keys, so two semantically identical requests
// always produce the same key:
//
//	Build("GET", "/x", map[string]any{"a": 1, "b": 2}) ==
//	Build("get", "/x", map[string]any{"b": 2, "a": 1})
//
// The params segment is omitted when params is empty.
func Build(method, url string, params map[string]any) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	b.WriteString("::")
	b.WriteString(url)
	if len(params) > 0 {
		// encoding/json writes map keys in sorted order, which makes the
		// serialization independent of insertion order.
		raw, err := json.Marshal(params)
		if err != nil {
			// Params without a JSON form have no canonical serialization;
			// key on method and url alone.
			return b.String()
		}
		b.WriteString("::")
		b.Write(raw)
	}
	return b.String()
}
