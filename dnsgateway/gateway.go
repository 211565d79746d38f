// Package dnsgateway answers DNS TXT queries for blockchain domains with
// their on-chain records, one "key=value" string per record.
package dnsgateway

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/ruteri/domain-resolution/interfaces"
)

// DefaultKeys are the records published when no key list is configured.
var DefaultKeys = []string{
	interfaces.IpfsHashKey,
	interfaces.RedirectURLKey,
	interfaces.EmailKey,
	interfaces.AddressKey("BTC"),
	interfaces.AddressKey("ETH"),
}

// maxTXTStringLen is the longest character-string a TXT record can carry.
const maxTXTStringLen = 255

// RecordResolver is the resolution API the gateway needs.
// *resolution.Resolution implements it.
type RecordResolver interface {
	Record(ctx context.Context, domain, key string) (string, error)
	Resolve(ctx context.Context, domain string) (map[string]string, error)
}

type Config struct {
	// Keys lists the record keys to publish, in answer order.
	Keys []string
	// TTL of the answers in seconds.
	TTL uint32
	// Timeout bounds the lookups for one query.
	Timeout time.Duration
	Log     *slog.Logger
}

// Gateway implements dns.Handler.
type Gateway struct {
	resolver RecordResolver
	keys     []string
	ttl      uint32
	timeout  time.Duration
	log      *slog.Logger
}

func New(resolver RecordResolver, cfg Config) *Gateway {
	keys := cfg.Keys
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Gateway{
		resolver: resolver,
		keys:     keys,
		ttl:      cfg.TTL,
		timeout:  timeout,
		log:      cfg.Log,
	}
}

// ServeDNS answers the first question of the request.
func (g *Gateway) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true

	if len(r.Question) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		answer, rcode := g.Answer(ctx, r.Question[0])
		cancel()

		m.Answer = answer
		m.Rcode = rcode
	}

	if err := w.WriteMsg(m); err != nil {
		g.log.Error("Failed to write DNS response", "err", err)
	}
}

// Answer resolves one question to TXT records and a response code.
//
// Unsupported domains are REFUSED, unregistered domains are NXDOMAIN and
// transport failures are SERVFAIL. A registered domain without records, and
// any non-TXT question, gets an empty NOERROR answer.
func (g *Gateway) Answer(ctx context.Context, q dns.Question) ([]dns.RR, int) {
	if q.Qclass != dns.ClassINET && q.Qclass != dns.ClassANY {
		return nil, dns.RcodeRefused
	}

	if q.Qtype != dns.TypeTXT && q.Qtype != dns.TypeANY {
		return nil, dns.RcodeSuccess
	}

	domain := strings.TrimSuffix(strings.ToLower(q.Name), ".")
	records, err := g.records(ctx, domain)
	if err != nil {
		rcode := RcodeFor(err)
		level := slog.LevelDebug
		if rcode == dns.RcodeServerFailure {
			level = slog.LevelError
		}
		g.log.Log(ctx, level, "DNS lookup failed", "domain", domain, "err", err, "rcode", dns.RcodeToString[rcode])
		return nil, rcode
	}

	answer := make([]dns.RR, 0, len(records))
	for _, record := range records {
		answer = append(answer, &dns.TXT{
			Hdr: dns.RR_Header{
				Name:   dns.Fqdn(q.Name),
				Rrtype: dns.TypeTXT,
				Class:  dns.ClassINET,
				Ttl:    g.ttl,
			},
			Txt: splitTXT(record),
		})
	}

	return answer, dns.RcodeSuccess
}

// records returns the "key=value" strings set for domain, in key order.
func (g *Gateway) records(ctx context.Context, domain string) ([]string, error) {
	all, err := g.resolver.Resolve(ctx, domain)
	switch {
	case err == nil:
		out := []string{}
		for _, key := range g.keys {
			if value, ok := all[key]; ok && !interfaces.IsNullAddress(value) {
				out = append(out, key+"="+value)
			}
		}
		return out, nil
	case errors.Is(err, interfaces.ErrUnspecifiedResolver):
		return nil, nil
	case !errors.Is(err, interfaces.ErrMethodNotSupported):
		return nil, err
	}

	out := []string{}
	for _, key := range g.keys {
		value, err := g.resolver.Record(ctx, domain, key)
		if errors.Is(err, interfaces.ErrRecordNotFound) || errors.Is(err, interfaces.ErrUnspecifiedResolver) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, key+"="+value)
	}
	return out, nil
}

// RcodeFor maps a resolution failure to a DNS response code.
func RcodeFor(err error) int {
	code, ok := interfaces.CodeOf(err)
	if !ok {
		return dns.RcodeServerFailure
	}

	switch code {
	case interfaces.UnsupportedDomain:
		return dns.RcodeRefused
	case interfaces.UnregisteredDomain:
		return dns.RcodeNameError
	case interfaces.UnspecifiedResolver, interfaces.RecordNotFound, interfaces.UnspecifiedCurrency:
		return dns.RcodeSuccess
	case interfaces.MethodNotSupported:
		return dns.RcodeNotImplemented
	default:
		return dns.RcodeServerFailure
	}
}

func splitTXT(s string) []string {
	if len(s) <= maxTXTStringLen {
		return []string{s}
	}

	var parts []string
	for len(s) > maxTXTStringLen {
		parts = append(parts, s[:maxTXTStringLen])
		s = s[maxTXTStringLen:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
