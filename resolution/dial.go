package resolution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/ruteri/domain-resolution/config"
	"github.com/ruteri/domain-resolution/interfaces"
	"github.com/ruteri/domain-resolution/metrics"
	"github.com/ruteri/domain-resolution/naming"
	"github.com/ruteri/domain-resolution/registry"
)

// NewFromConfig dials every enabled source and builds the router over them.
// Sources sharing an Ethereum URL share one client. metrics may be nil.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (*Resolution, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Resolution{log: log, metrics: m}
	ethClients := map[string]*ethclient.Client{}

	dialEthereum := func(url string) (*ethclient.Client, error) {
		if client, ok := ethClients[url]; ok {
			return client, nil
		}
		log.Info("Connecting to Ethereum RPC", "address", url)
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to dial Ethereum RPC %s: %w", url, err)
		}
		ethClients[url] = client
		res.closers = append(res.closers, client.Close)
		return client, nil
	}

	var services []interfaces.NamingService
	fail := func(err error) (*Resolution, error) {
		res.Close()
		return nil, err
	}

	if !cfg.CNS.Disabled {
		address, err := cfg.CNSRegistry()
		if err != nil {
			return fail(err)
		}
		client, err := dialEthereum(cfg.CNS.URL)
		if err != nil {
			return fail(err)
		}
		transport, err := registry.NewCNSClient(client, address)
		if err != nil {
			return fail(interfaces.NewConfigurationError("cns: %v", err))
		}
		services = append(services, naming.NewCNS(transport))
	}

	if !cfg.ZNS.Disabled {
		address, err := cfg.ZNSRegistry()
		if err != nil {
			return fail(err)
		}
		log.Info("Connecting to Zilliqa RPC", "address", cfg.ZNS.URL)
		client, err := rpc.DialContext(ctx, cfg.ZNS.URL)
		if err != nil {
			return fail(fmt.Errorf("failed to dial Zilliqa RPC %s: %w", cfg.ZNS.URL, err))
		}
		res.closers = append(res.closers, client.Close)
		transport, err := registry.NewZNSClient(client, address)
		if err != nil {
			return fail(interfaces.NewConfigurationError("zns: %v", err))
		}
		services = append(services, naming.NewZNS(transport))
	}

	if !cfg.ENS.Disabled {
		address, err := cfg.ENSRegistry()
		if err != nil {
			return fail(err)
		}
		client, err := dialEthereum(cfg.ENS.URL)
		if err != nil {
			return fail(err)
		}
		transport, err := registry.NewENSClient(client, address)
		if err != nil {
			return fail(interfaces.NewConfigurationError("ens: %v", err))
		}
		services = append(services, naming.NewENS(transport))
	}

	router, err := naming.NewRouter(services...)
	if err != nil {
		return fail(err)
	}
	res.router = router

	return res, nil
}
