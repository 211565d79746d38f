// Package main (cmd/httpserver) runs the domain resolution server.
//
// The server exposes the resolution API over HTTP under /api/domains/{domain},
// optionally serves website content for domains with an IPFS hash record, and
// optionally answers DNS TXT queries with the on-chain records of a domain.
//
// Naming services are configured from an optional YAML file (--config) with
// command-line flags applied on top. Each enabled service needs an RPC
// endpoint and either a registry address or a known network.
//
// Example usage:
//
//	resolution-server --eth-rpc=https://cloudflare-eth.com \
//	    --listen-addr=0.0.0.0:8080 \
//	    --dns-addr=0.0.0.0:5353 \
//	    --content=ipfs://127.0.0.1:5001 \
//	    --content=s3://website-mirror/sites
package main
