package dnsgateway

import (
	"context"
	"errors"
	"log/slog"

	"github.com/miekg/dns"
)

// Server serves a Gateway over UDP and TCP on the same address.
type Server struct {
	log     *slog.Logger
	servers []*dns.Server
}

func NewServer(addr string, gateway *Gateway, log *slog.Logger) *Server {
	return &Server{
		log: log,
		servers: []*dns.Server{
			{Addr: addr, Net: "udp", Handler: gateway},
			{Addr: addr, Net: "tcp", Handler: gateway},
		},
	}
}

func (s *Server) RunInBackground() {
	for _, srv := range s.servers {
		go func(srv *dns.Server) {
			s.log.Info("Starting DNS gateway", "listenAddress", srv.Addr, "net", srv.Net)
			if err := srv.ListenAndServe(); err != nil {
				s.log.Error("DNS gateway failed", "net", srv.Net, "err", err)
			}
		}(srv)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	for _, srv := range s.servers {
		if err := srv.ShutdownContext(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
