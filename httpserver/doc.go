/*
Package httpserver serves blockchain domain resolution over HTTP.

# Resolution API

  - GET /api/domains/{domain}/address/{ticker} - currency address
  - GET /api/domains/{domain}/records/{key} - single record
  - GET /api/domains/{domain}/records - every record, where the naming service can list them
  - GET /api/domains/{domain}/owner - owner address
  - GET /api/domains/{domain}/resolver - resolver contract address
  - GET /api/domains/{domain}/namehash - node hash, computed locally
  - GET /api/domains/{domain}/website - content published under ipfs.html.value

Successful lookups return a JSON object echoing the domain. Failures return

	{"error": "no BTC record found for brad.crypto", "code": "UnspecifiedCurrency"}

with the status derived from the code:

	UnsupportedDomain                            400
	UnregisteredDomain, UnspecifiedResolver,
	RecordNotFound, UnspecifiedCurrency          404
	MethodNotSupported                           501
	NamingServiceDown                            502
	anything else                                500

# Operations

  - /livez, /readyz - liveness and readiness probes
  - /drain, /undrain - toggle readiness ahead of a shutdown
  - /debug/pprof - profiling, when enabled

Prometheus metrics are served on a separate listener.
*/
package httpserver
