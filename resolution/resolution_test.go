package resolution

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/domain-resolution/config"
	"github.com/ruteri/domain-resolution/interfaces"
	"github.com/ruteri/domain-resolution/metrics"
	"github.com/ruteri/domain-resolution/naming"
	"github.com/ruteri/domain-resolution/registry"
)

const (
	ownerAddress    = "0x8aaD44321A86b170879d7A244c1e8d360c99DdA8"
	resolverAddress = "0xb66DcE2DA6afAAa98F2013446dBCB0f4B0ab2842"
	btcAddress      = "bc1q359khn0phg58xgezyqsuuaha28zkwx047c0c3y"
	ipfsHash        = "QmVaAtQbi3EtsfpKoLzALm6vXphdi2KjMgxEDKeGg6wHuK"
	email           = "brad@example.com"
	redirectURL     = "https://brad.example.com"
)

type testEnv struct {
	res     *Resolution
	cns     *registry.MockNamingClient
	zns     *registry.MockNamingClient
	ens     *registry.MockNamingClient
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		cns:     registry.NewMockNamingClient(),
		zns:     registry.NewMockNamingClient(),
		ens:     registry.NewMockNamingClient(),
		metrics: metrics.NewMetrics("test"),
	}

	cns := naming.NewCNS(env.cns)
	zns := naming.NewZNS(env.zns)
	ens := naming.NewENS(env.ens)

	for _, s := range []struct {
		service interfaces.NamingService
		client  *registry.MockNamingClient
	}{{cns, env.cns}, {zns, env.zns}, {ens, env.ens}} {
		node := s.service.Namehash("brad." + s.service.Suffix())
		s.client.SetOwner(node, ownerAddress)
		s.client.SetResolver(node, resolverAddress)
		s.client.SetRecord(resolverAddress, node, "crypto.BTC.address", btcAddress)
		s.client.SetRecord(resolverAddress, node, interfaces.IpfsHashKey, ipfsHash)
		s.client.SetRecord(resolverAddress, node, interfaces.EmailKey, email)
		s.client.SetRecord(resolverAddress, node, interfaces.RedirectURLKey, redirectURL)
	}

	router, err := naming.NewRouter(cns, zns, ens)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.res = New(router, logger, env.metrics)
	return env
}

func (e *testEnv) calls() int64 {
	return e.cns.Calls() + e.zns.Calls() + e.ens.Calls()
}

func TestResolution_Lookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, domain := range []string{"brad.crypto", "brad.zil", "brad.eth"} {
		t.Run(domain, func(t *testing.T) {
			address, err := env.res.Address(ctx, domain, "btc")
			require.NoError(t, err)
			assert.Equal(t, btcAddress, address)

			value, err := env.res.Record(ctx, domain, "crypto.BTC.address")
			require.NoError(t, err)
			assert.Equal(t, btcAddress, value)

			owner, err := env.res.Owner(ctx, domain)
			require.NoError(t, err)
			assert.Equal(t, ownerAddress, owner)

			resolver, err := env.res.Resolver(ctx, domain)
			require.NoError(t, err)
			assert.Equal(t, resolverAddress, resolver)

			hash, err := env.res.IpfsHash(ctx, domain)
			require.NoError(t, err)
			assert.Equal(t, ipfsHash, hash)

			mail, err := env.res.Email(ctx, domain)
			require.NoError(t, err)
			assert.Equal(t, email, mail)

			url, err := env.res.HTTPURL(ctx, domain)
			require.NoError(t, err)
			assert.Equal(t, redirectURL, url)
		})
	}
}

func TestResolution_NormalizesDomain(t *testing.T) {
	env := newTestEnv(t)

	address, err := env.res.Address(context.Background(), "  Brad.CRYPTO\n", "BTC")
	require.NoError(t, err)
	assert.Equal(t, btcAddress, address)

	assert.True(t, env.res.IsSupportedDomain(" BRAD.ZIL "))
	assert.Equal(t, "brad.crypto", NormalizeDomain("\tBRAD.crypto "))
}

func TestResolution_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.res.Address(ctx, "brad.crypto", "XRP")
	assert.ErrorIs(t, err, interfaces.ErrUnspecifiedCurrency)

	_, err = env.res.Email(ctx, "nobody.zil")
	assert.ErrorIs(t, err, interfaces.ErrUnregisteredDomain)

	_, err = env.res.Resolve(ctx, "brad.crypto")
	assert.ErrorIs(t, err, interfaces.ErrMethodNotSupported)

	before := env.calls()
	_, err = env.res.Record(ctx, "brad.com", interfaces.IpfsHashKey)
	assert.ErrorIs(t, err, interfaces.ErrUnsupportedDomain)
	assert.False(t, env.res.IsSupportedDomain("brad.com"))
	assert.Equal(t, before, env.calls())
}

func TestResolution_Resolve(t *testing.T) {
	env := newTestEnv(t)

	records, err := env.res.Resolve(context.Background(), "BRAD.zil")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"crypto.BTC.address":      btcAddress,
		interfaces.IpfsHashKey:    ipfsHash,
		interfaces.EmailKey:       email,
		interfaces.RedirectURLKey: redirectURL,
	}, records)
}

func TestResolution_Hashing(t *testing.T) {
	env := newTestEnv(t)

	node, err := env.res.Namehash("Brad.Crypto")
	require.NoError(t, err)
	assert.Equal(t, "0x756e4e998dbffd803c21d23b06cd855cdc7a4b57706c95964a37e24b47c10fc9", node.Hex())

	parent, err := env.res.Namehash("crypto")
	require.NoError(t, err)
	child, err := env.res.Childhash(parent, "brad", "crypto")
	require.NoError(t, err)
	assert.Equal(t, node, child)

	zil, err := env.res.Namehash("brad.zil")
	require.NoError(t, err)
	assert.Equal(t, "0x5fc604da00f502da70bfbc618088c0ce468ec9d18d05540935ae4118e8f50787", zil.Hex())

	_, err = env.res.Namehash("brad.com")
	assert.ErrorIs(t, err, interfaces.ErrUnsupportedDomain)

	_, err = env.res.Childhash(parent, "brad", "com")
	assert.ErrorIs(t, err, interfaces.ErrUnsupportedDomain)

	assert.Zero(t, env.calls())
}

func TestResolution_Metrics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _ = env.res.Address(ctx, "brad.crypto", "BTC")
	_, _ = env.res.Address(ctx, "brad.crypto", "XRP")
	_, _ = env.res.Owner(ctx, "brad.com")

	lookups, err := testutil.GatherAndCount(env.metrics.Registry(), "test_resolution_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 3, lookups)

	assert.NoError(t, testutil.GatherAndCompare(env.metrics.Registry(), strings.NewReader(`
# HELP test_resolution_lookups_total Total number of domain lookups by naming service, method and outcome.
# TYPE test_resolution_lookups_total counter
test_resolution_lookups_total{method="address",outcome="UnspecifiedCurrency",service="CNS"} 1
test_resolution_lookups_total{method="address",outcome="ok",service="CNS"} 1
test_resolution_lookups_total{method="owner",outcome="UnsupportedDomain",service="unknown"} 1
`), "test_resolution_lookups_total"))
}

func TestResolution_WithoutMetrics(t *testing.T) {
	client := registry.NewMockNamingClient()
	router, err := naming.NewRouter(naming.NewCNS(client))
	require.NoError(t, err)

	res := New(router, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	_, err = res.Owner(context.Background(), "brad.crypto")
	assert.ErrorIs(t, err, interfaces.ErrUnregisteredDomain)
}

func TestNewFromConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.CNS.URL = "http://127.0.0.1:8545"
	cfg.ENS.URL = "http://127.0.0.1:8545"
	cfg.ZNS.URL = "http://127.0.0.1:4201"

	res, err := NewFromConfig(ctx, cfg, logger, nil)
	require.NoError(t, err)
	defer res.Close()

	names := []string{}
	for _, service := range res.Services() {
		names = append(names, service.Name())
	}
	assert.Equal(t, []string{naming.CNSName, naming.ZNSName, naming.ENSName}, names)
	// CNS and ENS share one Ethereum client.
	assert.Len(t, res.closers, 2)

	cfg.ZNS.Disabled = true
	res2, err := NewFromConfig(ctx, cfg, logger, nil)
	require.NoError(t, err)
	defer res2.Close()
	assert.Len(t, res2.Services(), 2)
	assert.False(t, res2.IsSupportedDomain("brad.zil"))

	cfg.CNS.Network = "nowhere"
	_, err = NewFromConfig(ctx, cfg, logger, nil)
	assert.ErrorIs(t, err, interfaces.ErrConfiguration)
}
