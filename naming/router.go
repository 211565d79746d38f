package naming

import (
	"github.com/ruteri/domain-resolution/interfaces"
)

// Router dispatches domains to the naming service owning their suffix.
type Router struct {
	services []interfaces.NamingService
}

// NewRouter creates a router over services. Two services claiming overlapping
// suffixes are a configuration error, reported here rather than on first use.
func NewRouter(services ...interfaces.NamingService) (*Router, error) {
	if len(services) == 0 {
		return nil, interfaces.NewConfigurationError("no naming services configured")
	}

	for i, a := range services {
		for _, b := range services[i+1:] {
			if a.IsSupportedDomain(b.Suffix()) || b.IsSupportedDomain(a.Suffix()) {
				return nil, interfaces.NewConfigurationError("naming services %s and %s both claim .%s", a.Name(), b.Name(), b.Suffix())
			}
		}
	}

	return &Router{services: services}, nil
}

// Route returns the service owning domain. No transport call is made.
func (r *Router) Route(domain string) (interfaces.NamingService, error) {
	var match interfaces.NamingService
	for _, service := range r.services {
		if !service.IsSupportedDomain(domain) {
			continue
		}
		if match != nil {
			return nil, interfaces.NewConfigurationError("domain %s is claimed by %s and %s", domain, match.Name(), service.Name())
		}
		match = service
	}

	if match == nil {
		return nil, unsupported(domain)
	}
	return match, nil
}

// Services returns the configured services in registration order.
func (r *Router) Services() []interfaces.NamingService {
	return append([]interfaces.NamingService(nil), r.services...)
}
