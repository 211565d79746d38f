// Package resolution is the entry point for resolving blockchain domains.
//
// A Resolution normalizes the domain, routes it to the naming service owning
// its suffix and runs the lookup, logging and metering every call:
//
//	res, err := resolution.NewFromConfig(ctx, config.DefaultConfig(), log, nil)
//	if err != nil {
//		return err
//	}
//	defer res.Close()
//
//	btc, err := res.Address(ctx, "brad.crypto", "BTC")
//	if errors.Is(err, interfaces.ErrUnspecifiedCurrency) {
//		// the domain exists but holds no BTC address
//	}
package resolution

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ruteri/domain-resolution/interfaces"
	"github.com/ruteri/domain-resolution/metrics"
	"github.com/ruteri/domain-resolution/naming"
)

// Resolution resolves domains through a router of naming services.
// It holds no mutable state and is safe for concurrent use.
type Resolution struct {
	router  *naming.Router
	log     *slog.Logger
	metrics *metrics.Metrics
	closers []func()
}

// New wraps router. metrics may be nil.
func New(router *naming.Router, log *slog.Logger, m *metrics.Metrics) *Resolution {
	return &Resolution{
		router:  router,
		log:     log,
		metrics: m,
	}
}

// NormalizeDomain trims surrounding whitespace and lowercases the domain.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// Services returns the configured naming services.
func (r *Resolution) Services() []interfaces.NamingService {
	return r.router.Services()
}

// IsSupportedDomain reports whether any configured service owns the domain.
func (r *Resolution) IsSupportedDomain(domain string) bool {
	_, err := r.router.Route(NormalizeDomain(domain))
	return err == nil
}

// Namehash returns the node hash of domain as computed by its naming service.
func (r *Resolution) Namehash(domain string) (interfaces.NodeHash, error) {
	service, err := r.router.Route(NormalizeDomain(domain))
	if err != nil {
		return interfaces.NodeHash{}, err
	}
	return service.Namehash(NormalizeDomain(domain)), nil
}

// Childhash hashes label under parent using the rules of the service owning suffix.
func (r *Resolution) Childhash(parent interfaces.NodeHash, label string, suffix string) (interfaces.NodeHash, error) {
	service, err := r.router.Route(NormalizeDomain(suffix))
	if err != nil {
		return interfaces.NodeHash{}, err
	}
	return service.Childhash(parent, strings.ToLower(label)), nil
}

// Address returns the domain's address for a currency ticker.
func (r *Resolution) Address(ctx context.Context, domain, ticker string) (string, error) {
	return lookup(r, "address", domain, func(s interfaces.NamingService, d string) (string, error) {
		return s.Address(ctx, d, ticker)
	}, slog.String("ticker", ticker))
}

// Record returns the value stored under key.
func (r *Resolution) Record(ctx context.Context, domain, key string) (string, error) {
	return lookup(r, "record", domain, func(s interfaces.NamingService, d string) (string, error) {
		return s.Record(ctx, d, key)
	}, slog.String("key", key))
}

// Owner returns the owner address of the domain.
func (r *Resolution) Owner(ctx context.Context, domain string) (string, error) {
	return lookup(r, "owner", domain, func(s interfaces.NamingService, d string) (string, error) {
		return s.Owner(ctx, d)
	})
}

// Resolver returns the resolver contract address of the domain.
func (r *Resolution) Resolver(ctx context.Context, domain string) (string, error) {
	return lookup(r, "resolver", domain, func(s interfaces.NamingService, d string) (string, error) {
		return s.Resolver(ctx, d)
	})
}

// Resolve returns every record of the domain where the naming service supports it.
func (r *Resolution) Resolve(ctx context.Context, domain string) (map[string]string, error) {
	return lookup(r, "resolve", domain, func(s interfaces.NamingService, d string) (map[string]string, error) {
		return s.Resolve(ctx, d)
	})
}

// IpfsHash returns the content hash of the domain's website.
func (r *Resolution) IpfsHash(ctx context.Context, domain string) (string, error) {
	return r.Record(ctx, domain, interfaces.IpfsHashKey)
}

// Email returns the domain's whois email.
func (r *Resolution) Email(ctx context.Context, domain string) (string, error) {
	return r.Record(ctx, domain, interfaces.EmailKey)
}

// HTTPURL returns the domain's redirect URL.
func (r *Resolution) HTTPURL(ctx context.Context, domain string) (string, error) {
	return r.Record(ctx, domain, interfaces.RedirectURLKey)
}

// Close releases the transports opened by NewFromConfig.
func (r *Resolution) Close() {
	for _, closeFn := range r.closers {
		closeFn()
	}
	r.closers = nil
}

func lookup[T any](r *Resolution, method, domain string, call func(interfaces.NamingService, string) (T, error), attrs ...any) (T, error) {
	start := time.Now()
	domain = NormalizeDomain(domain)

	serviceName := ""
	var result T
	service, err := r.router.Route(domain)
	if err == nil {
		serviceName = service.Name()
		result, err = call(service, domain)
	}

	duration := time.Since(start)
	r.metrics.ObserveLookup(serviceName, method, duration, err)

	logAttrs := append([]any{
		slog.String("method", method),
		slog.String("domain", domain),
		slog.String("service", serviceName),
		slog.Duration("duration", duration),
	}, attrs...)
	if err != nil {
		r.log.Debug("Lookup failed", append(logAttrs, "err", err)...)
		return result, err
	}

	r.log.Debug("Lookup succeeded", logAttrs...)
	return result, nil
}
