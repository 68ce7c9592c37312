// Package cache provides a file-based cache for model critiques.
//
// A Key holds the provider name, the model and the serialized request
// messages (cell source, redacted outputs and image data URIs); its SHA-256
// names the entry file. Each entry stores the critique with the provider,
// model and creation time. Entries older than the TTL are treated as misses
// and removed on read or by Prune.
//
// The default cache directory is $XDG_CACHE_HOME/unprompted (or the
// OS-appropriate equivalent). Requests are redacted before they are hashed
// and before the response is stored.
package cache
