// Package storage fetches the content a domain points at, such as the website
// published under its ipfs.html.value record.
//
// Content is addressed by the hash stored in the record. Backends are
// read-only and selected by location URI:
//
//   - ipfs://host:port/?timeout=30s - an IPFS node's HTTP API
//   - s3://bucket/prefix/?region=us-east-1&endpoint=... - a public bucket mirror
//   - file:///var/lib/websites/ - a local directory mirror
//
// # Fallback
//
// MultiBackend tries each available backend in order and returns the first
// hit. When every reachable backend reports the content missing the result is
// interfaces.ErrContentNotFound; when none is reachable it is
// interfaces.ErrBackendUnavailable.
//
// # Layout
//
// IPFS resolves /ipfs/<hash>, falling back to /ipfs/<hash>/index.html for
// directories. S3 reads the object <prefix>/<hash>. The file backend reads
// <dir>/<hash>, or <dir>/<hash>/index.html when that is a directory.
package storage
