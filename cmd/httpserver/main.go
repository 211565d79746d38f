package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ruteri/domain-resolution/cmd/flags"
	"github.com/ruteri/domain-resolution/common"
	"github.com/ruteri/domain-resolution/dnsgateway"
	"github.com/ruteri/domain-resolution/httpserver"
	"github.com/ruteri/domain-resolution/interfaces"
	"github.com/ruteri/domain-resolution/metrics"
	"github.com/ruteri/domain-resolution/resolution"
	"github.com/ruteri/domain-resolution/storage"
)

var listenAddrFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:8080",
	Usage: "address to listen on for API",
}

var dnsAddrFlag = &cli.StringFlag{
	Name:  "dns-addr",
	Usage: "address to serve the DNS TXT gateway on (disabled when empty)",
}

var dnsTTLFlag = &cli.UintFlag{
	Name:  "dns-ttl",
	Value: 300,
	Usage: "TTL in seconds of DNS gateway answers",
}

func main() {
	appFlags := append([]cli.Flag{
		listenAddrFlag,
		dnsAddrFlag,
		dnsTTLFlag,
		flags.ContentFlag,
		flags.LogServiceFlagFn("domain-resolution"),
	}, flags.CommonFlags...)
	appFlags = append(appFlags, flags.SourceFlags...)

	app := &cli.App{
		Name:  "resolution-server",
		Usage: "Serve blockchain domain resolution over HTTP and DNS",
		Flags: appFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			cfg, err := flags.LoadConfig(cCtx)
			if err != nil {
				logger.Error("Invalid resolution config", "err", err)
				return err
			}

			metricsSrv, err := metrics.New(common.PackageName, cCtx.String(flags.MetricsAddrFlag.Name))
			if err != nil {
				logger.Error("Failed to create metrics server", "err", err)
				return err
			}

			res, err := resolution.NewFromConfig(cCtx.Context, cfg, logger, metricsSrv.Metrics())
			if err != nil {
				logger.Error("Failed to set up naming services", "err", err)
				return err
			}
			defer res.Close()

			for _, service := range res.Services() {
				logger.Info("Naming service enabled", "service", service.Name(), "suffix", service.Suffix())
			}

			var content interfaces.ContentBackend
			if len(cfg.Content) > 0 {
				multi, err := storage.NewBackendFactory(logger).CreateMultiBackend(cfg.Content)
				if err != nil {
					logger.Error("Failed to create content backends", "err", err)
					return err
				}
				logger.Info("Website content enabled", "backends", multi.Name())
				content = multi
			}

			handler := httpserver.NewHandler(res, content, logger)
			server, err := httpserver.New(flags.ConfigureServer(cCtx, logger, cCtx.String(listenAddrFlag.Name)), handler, metricsSrv)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}
			server.RunInBackground()

			var dnsServer *dnsgateway.Server
			if addr := cCtx.String(dnsAddrFlag.Name); addr != "" {
				gateway := dnsgateway.New(res, dnsgateway.Config{
					TTL: uint32(cCtx.Uint(dnsTTLFlag.Name)),
					Log: logger,
				})
				dnsServer = dnsgateway.NewServer(addr, gateway, logger)
				dnsServer.RunInBackground()
			}

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			if dnsServer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := dnsServer.Shutdown(ctx); err != nil {
					logger.Error("DNS gateway shutdown failed", "err", err)
				}
				cancel()
			}

			server.Shutdown()
			logger.Info("Server shutdown complete")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
