package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ruteri/domain-resolution/common"
	"github.com/ruteri/domain-resolution/config"
	"github.com/ruteri/domain-resolution/httpserver"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String("log-service")

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger, listenAddr string) *httpserver.HTTPServerConfig {
	metricsAddr := cCtx.String(MetricsAddrFlag.Name)
	enablePprof := cCtx.Bool(PprofFlag.Name)
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second

	return &httpserver.HTTPServerConfig{
		ListenAddr:               listenAddr,
		MetricsAddr:              metricsAddr,
		Log:                      logger,
		EnablePprof:              enablePprof,
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

// LoadConfig reads the optional config file and applies the source flags on top.
func LoadConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := cCtx.String(ConfigFileFlag.Name); path != "" {
		loaded, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cCtx.IsSet(EthereumRpcFlag.Name) {
		cfg.CNS.URL = cCtx.String(EthereumRpcFlag.Name)
		cfg.ENS.URL = cCtx.String(EthereumRpcFlag.Name)
	}
	if cCtx.IsSet(ZilliqaRpcFlag.Name) {
		cfg.ZNS.URL = cCtx.String(ZilliqaRpcFlag.Name)
	}
	if cCtx.IsSet(NetworkFlag.Name) {
		cfg.CNS.Network = cCtx.String(NetworkFlag.Name)
		cfg.ZNS.Network = cCtx.String(NetworkFlag.Name)
		cfg.ENS.Network = cCtx.String(NetworkFlag.Name)
	}
	if cCtx.IsSet(CNSRegistryFlag.Name) {
		cfg.CNS.Registry = cCtx.String(CNSRegistryFlag.Name)
	}
	if cCtx.IsSet(ZNSRegistryFlag.Name) {
		cfg.ZNS.Registry = cCtx.String(ZNSRegistryFlag.Name)
	}
	if cCtx.IsSet(ENSRegistryFlag.Name) {
		cfg.ENS.Registry = cCtx.String(ENSRegistryFlag.Name)
	}
	for _, name := range cCtx.StringSlice(DisableServiceFlag.Name) {
		switch name {
		case "cns":
			cfg.CNS.Disabled = true
		case "zns":
			cfg.ZNS.Disabled = true
		case "ens":
			cfg.ENS.Disabled = true
		}
	}
	if cCtx.IsSet(ContentFlag.Name) {
		cfg.Content = cCtx.StringSlice(ContentFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var ConfigFileFlag = &cli.StringFlag{
	Name:    "config",
	Usage:   "path to a YAML resolution config",
	EnvVars: []string{"RESOLUTION_CONFIG"},
}

var EthereumRpcFlag = &cli.StringFlag{
	Name:    "eth-rpc",
	Value:   config.DefaultEthereumURL,
	Usage:   "Ethereum RPC endpoint for CNS and ENS",
	EnvVars: []string{"ETH_RPC"},
}

var ZilliqaRpcFlag = &cli.StringFlag{
	Name:    "zil-rpc",
	Value:   config.DefaultZilliqaURL,
	Usage:   "Zilliqa RPC endpoint for ZNS",
	EnvVars: []string{"ZIL_RPC"},
}

var NetworkFlag = &cli.StringFlag{
	Name:  "network",
	Value: config.MainnetNetwork,
	Usage: "network whose registry addresses are used",
}

var CNSRegistryFlag = &cli.StringFlag{
	Name:  "cns-registry",
	Usage: "override the CNS registry contract address",
}

var ZNSRegistryFlag = &cli.StringFlag{
	Name:  "zns-registry",
	Usage: "override the ZNS registry contract address",
}

var ENSRegistryFlag = &cli.StringFlag{
	Name:  "ens-registry",
	Usage: "override the ENS registry contract address",
}

var DisableServiceFlag = &cli.StringSliceFlag{
	Name:  "disable",
	Usage: "naming services to disable: cns, zns, ens",
}

var ContentFlag = &cli.StringSliceFlag{
	Name:  "content",
	Usage: "website content locations tried in order: ipfs://host:port, s3://bucket/prefix, file:///dir",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var LogFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
}

var SourceFlags = []cli.Flag{
	ConfigFileFlag,
	EthereumRpcFlag,
	ZilliqaRpcFlag,
	NetworkFlag,
	CNSRegistryFlag,
	ZNSRegistryFlag,
	ENSRegistryFlag,
	DisableServiceFlag,
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}
