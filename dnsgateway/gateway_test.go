package dnsgateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/domain-resolution/interfaces"
	"github.com/ruteri/domain-resolution/naming"
	"github.com/ruteri/domain-resolution/registry"
	"github.com/ruteri/domain-resolution/resolution"
)

const (
	ownerAddress    = "0x8aaD44321A86b170879d7A244c1e8d360c99DdA8"
	resolverAddress = "0xb66DcE2DA6afAAa98F2013446dBCB0f4B0ab2842"
	btcAddress      = "bc1q359khn0phg58xgezyqsuuaha28zkwx047c0c3y"
	ipfsHash        = "QmVaAtQbi3EtsfpKoLzALm6vXphdi2KjMgxEDKeGg6wHuK"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(t *testing.T) (*Gateway, *registry.MockNamingClient, *registry.MockNamingClient) {
	t.Helper()

	cnsClient := registry.NewMockNamingClient()
	znsClient := registry.NewMockNamingClient()
	cns := naming.NewCNS(cnsClient)
	zns := naming.NewZNS(znsClient)

	for _, s := range []struct {
		service interfaces.NamingService
		client  *registry.MockNamingClient
	}{{cns, cnsClient}, {zns, znsClient}} {
		node := s.service.Namehash("brad." + s.service.Suffix())
		s.client.SetOwner(node, ownerAddress)
		s.client.SetResolver(node, resolverAddress)
		s.client.SetRecord(resolverAddress, node, "crypto.BTC.address", btcAddress)
		s.client.SetRecord(resolverAddress, node, interfaces.IpfsHashKey, ipfsHash)
		s.client.SetOwner(s.service.Namehash("owned."+s.service.Suffix()), ownerAddress)
	}

	router, err := naming.NewRouter(cns, zns)
	require.NoError(t, err)

	res := resolution.New(router, testLogger(), nil)
	return New(res, Config{TTL: 60, Log: testLogger()}), cnsClient, znsClient
}

func txtStrings(t *testing.T, answer []dns.RR) []string {
	t.Helper()
	out := []string{}
	for _, rr := range answer {
		txt, ok := rr.(*dns.TXT)
		require.True(t, ok)
		out = append(out, strings.Join(txt.Txt, ""))
	}
	return out
}

func TestGateway_Answer(t *testing.T) {
	gw, _, _ := newTestGateway(t)
	ctx := context.Background()

	expected := []string{
		"ipfs.html.value=" + ipfsHash,
		"crypto.BTC.address=" + btcAddress,
	}

	for _, name := range []string{"brad.crypto.", "BRAD.zil."} {
		t.Run(name, func(t *testing.T) {
			answer, rcode := gw.Answer(ctx, dns.Question{Name: name, Qtype: dns.TypeTXT, Qclass: dns.ClassINET})
			require.Equal(t, dns.RcodeSuccess, rcode)
			assert.Equal(t, expected, txtStrings(t, answer))
			for _, rr := range answer {
				assert.Equal(t, name, rr.Header().Name)
				assert.Equal(t, uint32(60), rr.Header().Ttl)
			}
		})
	}
}

func TestGateway_Rcodes(t *testing.T) {
	gw, cnsClient, _ := newTestGateway(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		qtype uint16
		rcode int
		empty bool
	}{
		{"brad.com.", dns.TypeTXT, dns.RcodeRefused, true},
		{"nobody.crypto.", dns.TypeTXT, dns.RcodeNameError, true},
		{"nobody.zil.", dns.TypeTXT, dns.RcodeNameError, true},
		{"owned.crypto.", dns.TypeTXT, dns.RcodeSuccess, true},
		{"owned.zil.", dns.TypeTXT, dns.RcodeSuccess, true},
		{"brad.crypto.", dns.TypeA, dns.RcodeSuccess, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			answer, rcode := gw.Answer(ctx, dns.Question{Name: tc.name, Qtype: tc.qtype, Qclass: dns.ClassINET})
			assert.Equal(t, tc.rcode, rcode, dns.RcodeToString[rcode])
			assert.Empty(t, answer)
		})
	}

	before := cnsClient.Calls()
	_, _ = gw.Answer(ctx, dns.Question{Name: "brad.crypto.", Qtype: dns.TypeAAAA, Qclass: dns.ClassINET})
	assert.Equal(t, before, cnsClient.Calls())

	cnsClient.Err = errors.New("connection refused")
	_, rcode := gw.Answer(ctx, dns.Question{Name: "brad.crypto.", Qtype: dns.TypeTXT, Qclass: dns.ClassINET})
	assert.Equal(t, dns.RcodeServerFailure, rcode)

	_, rcode = gw.Answer(ctx, dns.Question{Name: "brad.crypto.", Qtype: dns.TypeTXT, Qclass: dns.ClassCHAOS})
	assert.Equal(t, dns.RcodeRefused, rcode)
}

func TestRcodeFor(t *testing.T) {
	assert.Equal(t, dns.RcodeServerFailure, RcodeFor(errors.New("plain")))
	assert.Equal(t, dns.RcodeServerFailure, RcodeFor(interfaces.NewTransportError("get", errors.New("eof"))))
	assert.Equal(t, dns.RcodeNotImplemented, RcodeFor(&interfaces.ResolutionError{Code: interfaces.MethodNotSupported}))
}

func TestSplitTXT(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitTXT("short"))

	long := strings.Repeat("a", 600)
	parts := splitTXT(long)
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 255)
	assert.Len(t, parts[1], 255)
	assert.Len(t, parts[2], 90)
	assert.Equal(t, long, strings.Join(parts, ""))
}

func TestGateway_ServeDNS(t *testing.T) {
	gw, _, _ := newTestGateway(t)

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	server := &dns.Server{PacketConn: pc, Handler: gw, NotifyStartedFunc: func() { close(started) }}
	go func() {
		_ = server.ActivateAndServe()
	}()
	defer server.Shutdown()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("DNS server did not start")
	}

	client := &dns.Client{Net: "udp", Timeout: 5 * time.Second}

	m := new(dns.Msg)
	m.SetQuestion("brad.crypto.", dns.TypeTXT)
	in, _, err := client.Exchange(m, pc.LocalAddr().String())
	require.NoError(t, err)
	assert.Equal(t, dns.RcodeSuccess, in.Rcode)
	assert.True(t, in.Authoritative)
	assert.Equal(t, []string{"ipfs.html.value=" + ipfsHash, "crypto.BTC.address=" + btcAddress}, txtStrings(t, in.Answer))

	m = new(dns.Msg)
	m.SetQuestion("nobody.crypto.", dns.TypeTXT)
	in, _, err = client.Exchange(m, pc.LocalAddr().String())
	require.NoError(t, err)
	assert.Equal(t, dns.RcodeNameError, in.Rcode)
}
