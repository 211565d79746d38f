// Package naming binds the namehash engine and the registry/resolver protocol
// into per-backend naming services, and routes domains to them by suffix.
package naming

import (
	"context"
	"errors"
	"strings"

	"github.com/ruteri/domain-resolution/interfaces"
)

// Service names.
const (
	CNSName = "CNS"
	ZNSName = "ZNS"
	ENSName = "ENS"
)

// supportsDomain reports whether domain is suffix itself or a subdomain of it
// made of non-empty labels.
func supportsDomain(domain, suffix string) bool {
	if domain == suffix {
		return true
	}
	rest, found := strings.CutSuffix(domain, "."+suffix)
	if !found || rest == "" {
		return false
	}
	for _, label := range strings.Split(rest, ".") {
		if label == "" {
			return false
		}
	}
	return true
}

func unsupported(domain string) error {
	return &interfaces.ResolutionError{Code: interfaces.UnsupportedDomain, Domain: domain}
}

func notSupported(method, domain string) error {
	return &interfaces.ResolutionError{Code: interfaces.MethodNotSupported, Method: method, Domain: domain}
}

type recordFunc func(ctx context.Context, domain string, key string) (string, error)

// lookupAddress reads the crypto.<TICKER>.address record. A missing ticker or
// a missing record are both UnspecifiedCurrency.
func lookupAddress(ctx context.Context, record recordFunc, domain, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", &interfaces.ResolutionError{Code: interfaces.UnspecifiedCurrency, Domain: domain}
	}

	value, err := record(ctx, domain, interfaces.AddressKey(ticker))
	if errors.Is(err, interfaces.ErrRecordNotFound) {
		return "", &interfaces.ResolutionError{Code: interfaces.UnspecifiedCurrency, Domain: domain, CurrencyTicker: ticker}
	}
	return value, err
}
