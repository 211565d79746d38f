package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ruteri/domain-resolution/interfaces"
)

// Error codes for failures outside the resolution taxonomy.
const (
	ContentNotFound    = "ContentNotFound"
	ContentUnavailable = "ContentUnavailable"
	InternalError      = "InternalError"
)

// DomainResolver is the resolution API the handler serves.
// *resolution.Resolution implements it.
type DomainResolver interface {
	Address(ctx context.Context, domain, ticker string) (string, error)
	Record(ctx context.Context, domain, key string) (string, error)
	Owner(ctx context.Context, domain string) (string, error)
	Resolver(ctx context.Context, domain string) (string, error)
	Resolve(ctx context.Context, domain string) (map[string]string, error)
	IpfsHash(ctx context.Context, domain string) (string, error)
	Namehash(domain string) (interfaces.NodeHash, error)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handler serves the domain resolution API.
type Handler struct {
	resolver DomainResolver
	content  interfaces.ContentBackend
	log      *slog.Logger
}

// NewHandler creates the API handler. content may be nil, in which case
// website requests fail with 404.
func NewHandler(resolver DomainResolver, content interfaces.ContentBackend, log *slog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		content:  content,
		log:      log,
	}
}

// HandleAddress serves GET /api/domains/{domain}/address/{ticker}.
func (h *Handler) HandleAddress(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	ticker := chi.URLParam(r, "ticker")

	address, err := h.resolver.Address(r.Context(), domain, ticker)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, map[string]string{
		"domain":  domain,
		"ticker":  ticker,
		"address": address,
	})
}

// HandleRecord serves GET /api/domains/{domain}/records/{key}.
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	key := chi.URLParam(r, "key")

	value, err := h.resolver.Record(r.Context(), domain, key)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, map[string]string{
		"domain": domain,
		"key":    key,
		"value":  value,
	})
}

// HandleRecords serves GET /api/domains/{domain}/records.
func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	records, err := h.resolver.Resolve(r.Context(), domain)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"domain":  domain,
		"records": records,
	})
}

// HandleOwner serves GET /api/domains/{domain}/owner.
func (h *Handler) HandleOwner(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	owner, err := h.resolver.Owner(r.Context(), domain)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, map[string]string{"domain": domain, "owner": owner})
}

// HandleResolver serves GET /api/domains/{domain}/resolver.
func (h *Handler) HandleResolver(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	resolver, err := h.resolver.Resolver(r.Context(), domain)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, map[string]string{"domain": domain, "resolver": resolver})
}

// HandleNamehash serves GET /api/domains/{domain}/namehash. No chain call is made.
func (h *Handler) HandleNamehash(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	node, err := h.resolver.Namehash(domain)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, map[string]string{"domain": domain, "namehash": node.Hex()})
}

// HandleWebsite serves GET /api/domains/{domain}/website: the content
// published under the domain's ipfs.html.value record.
func (h *Handler) HandleWebsite(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	hash, err := h.resolver.IpfsHash(r.Context(), domain)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.content == nil {
		h.writeStatus(w, http.StatusNotFound, ErrorResponse{Error: "no content backend configured", Code: ContentNotFound})
		return
	}

	data, err := h.content.Fetch(r.Context(), hash)
	switch {
	case errors.Is(err, interfaces.ErrContentNotFound):
		h.writeStatus(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: ContentNotFound})
		return
	case err != nil:
		h.log.Error("Failed to fetch website", "err", err, "domain", domain, "hash", hash)
		h.writeStatus(w, http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: ContentUnavailable})
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("X-Content-Hash", hash)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// StatusFor maps a resolution failure to its HTTP status.
func StatusFor(err error) int {
	code, ok := interfaces.CodeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch code {
	case interfaces.UnsupportedDomain:
		return http.StatusBadRequest
	case interfaces.UnregisteredDomain, interfaces.UnspecifiedResolver,
		interfaces.RecordNotFound, interfaces.UnspecifiedCurrency:
		return http.StatusNotFound
	case interfaces.MethodNotSupported:
		return http.StatusNotImplemented
	case interfaces.NamingServiceDown:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)

	code := InternalError
	if c, ok := interfaces.CodeOf(err); ok {
		code = string(c)
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("Resolution failed", "err", err, "code", code)
	}

	h.writeStatus(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func (h *Handler) writeJSON(w http.ResponseWriter, response interface{}) {
	h.writeStatus(w, http.StatusOK, response)
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}
