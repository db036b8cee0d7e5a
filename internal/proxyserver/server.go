// Package proxyserver is the data plane's HTTP listener set: one
// net/http.Server per Listener declared in a GatewayConfiguration, all
// routing through a single atomically-swapped Router. Reload compiles
// a new Router off the request path and installs it with one pointer
// store, the same "build the new state fully, then swap" shape
// ChrisforCrystal-mas-apigateway/../internal-gateway-reload.go.go uses
// for its own hot-reloadable gatewayState, narrowed here to the single
// Router this module's GatewayConfiguration compiles to.
package proxyserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"

	"github.com/whitefamily/vale-gateway/internal/filterchain"
	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
	"github.com/whitefamily/vale-gateway/internal/router"
)

// Server is one gateway's data-plane process: every Listener it
// declares, fronted by the same Router/FilterDefinitions pair.
type Server struct {
	log logr.Logger

	current atomic.Pointer[state]
	servers []*http.Server

	// Transport is shared across every proxied request; net/http pools
	// and reuses its connections per upstream host.
	transport http.RoundTripper
}

type state struct {
	config *gatewayconfig.GatewayConfiguration
	router *router.Router
}

// New returns a Server with no configuration installed yet; call
// Reload before Start.
func New(log logr.Logger) *Server {
	return &Server{
		log:       log,
		transport: &http.Transport{},
	}
}

// Reload compiles cfg into a new Router and atomically installs it.
// Requests already in flight keep running against the Router snapshot
// they captured; a compile failure leaves the previously installed
// configuration serving, per spec.md §7's ConfigurationDrift policy of
// preferring the last good configuration over failing closed.
func (s *Server) Reload(cfg gatewayconfig.GatewayConfiguration) error {
	r, err := router.Compile(&cfg)
	if err != nil {
		return fmt.Errorf("proxyserver: compiling router: %w", err)
	}
	cfgCopy := cfg
	s.current.Store(&state{config: &cfgCopy, router: r})
	return nil
}

// Ready reports whether a configuration has been installed.
func (s *Server) Ready() bool {
	return s.current.Load() != nil
}

// Start launches one net/http.Server per Listener named by the most
// recently Reloaded configuration and blocks until ctx is canceled or
// one listener exits with an unexpected error, then shuts every
// listener down within a bounded grace period.
func (s *Server) Start(ctx context.Context) error {
	st := s.current.Load()
	if st == nil {
		return errors.New("proxyserver: Start called before Reload")
	}
	if len(st.config.Listeners) == 0 {
		return errors.New("proxyserver: configuration declares no listeners")
	}

	errCh := make(chan error, len(st.config.Listeners))
	for _, l := range st.config.Listeners {
		l := l
		srv := &http.Server{
			Addr:    ":" + strconv.Itoa(int(l.Port)),
			Handler: s,
		}
		s.servers = append(s.servers, srv)
		go func() {
			s.log.Info("listener starting", "name", l.Name, "port", l.Port, "protocol", l.Protocol)
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("proxyserver: listener %s: %w", l.Name, err)
				return
			}
			errCh <- nil
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			s.shutdown()
			return err
		}
	}

	s.shutdown()
	return nil
}

func (s *Server) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range s.servers {
		_ = srv.Shutdown(shutdownCtx)
	}
}

// ServeHTTP implements http.Handler: match the request against the
// installed Router, run the matched rule's filter chain, and either
// short-circuit (redirect/static response/deny) or proxy it upstream,
// per spec.md §4.H/§4.I.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	st := s.current.Load()
	if st == nil {
		http.Error(w, "gateway not configured", http.StatusServiceUnavailable)
		return
	}

	result := st.router.Match(req)
	if result == nil {
		s.writeErrorResponse(w, st.config.ErrorResponses, http.StatusNotFound)
		return
	}

	outcome := filterchain.Apply(req, result.Rule, result.MatchedPrefix, st.config.FilterDefinitions)
	switch outcome.Kind {
	case filterchain.Redirect:
		http.Redirect(w, req, outcome.RedirectLocation, outcome.RedirectStatus)
		return
	case filterchain.StaticResponse:
		writeStaticResponse(w, outcome.StaticResponse)
		return
	case filterchain.Denied:
		s.writeErrorResponse(w, st.config.ErrorResponses, http.StatusForbidden)
		return
	}

	backend, endpoint, ok := selectBackend(result.Rule.Backends)
	if !ok {
		s.writeErrorResponse(w, st.config.ErrorResponses, http.StatusServiceUnavailable)
		return
	}

	s.proxyUpstream(w, req, backend, endpoint, outcome, st.config.ErrorResponses)
}

func writeStaticResponse(w http.ResponseWriter, resp filterchain.StaticResponse) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

// writeErrorResponse renders the data plane's own error page for a
// request that never reaches an upstream, per the ErrorResponses kind
// named in the active configuration.
func (s *Server) writeErrorResponse(w http.ResponseWriter, cfg gatewayconfig.ErrorResponses, status int) {
	switch cfg.Kind {
	case gatewayconfig.ErrorResponsesHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, "<html><body><h1>%d %s</h1></body></html>", status, http.StatusText(status))
	case gatewayconfig.ErrorResponsesProblemDetail:
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"status":%d,"title":%q}`, status, http.StatusText(status))
	default:
		w.WriteHeader(status)
	}
}

// selectBackend picks one weighted Backend, then one Endpoint behind
// it uniformly at random; Backends with no ready Endpoints are never
// selected, since they cannot serve the request. Returns ok=false if
// every Backend is currently endpoint-less.
func selectBackend(backends []gatewayconfig.Backend) (gatewayconfig.Backend, gatewayconfig.Endpoint, bool) {
	var totalWeight int32
	eligible := make([]gatewayconfig.Backend, 0, len(backends))
	for _, b := range backends {
		if len(b.Endpoints) == 0 {
			continue
		}
		w := b.Weight
		if w <= 0 {
			w = 1
		}
		totalWeight += w
		eligible = append(eligible, b)
	}
	if len(eligible) == 0 {
		return gatewayconfig.Backend{}, gatewayconfig.Endpoint{}, false
	}

	pick := rand.Int31n(totalWeight)
	var chosen gatewayconfig.Backend
	for _, b := range eligible {
		w := b.Weight
		if w <= 0 {
			w = 1
		}
		if pick < w {
			chosen = b
			break
		}
		pick -= w
	}

	endpoint := chosen.Endpoints[rand.Intn(len(chosen.Endpoints))]
	return chosen, endpoint, true
}

// proxyUpstream forwards req to the chosen backend endpoint, applies
// ResponseHeaderModifier to the upstream reply, and streams the body
// back. A round trip failure renders the configured error response
// rather than leaking a raw Go error to the client.
func (s *Server) proxyUpstream(w http.ResponseWriter, req *http.Request, backend gatewayconfig.Backend, endpoint gatewayconfig.Endpoint, outcome filterchain.Outcome, errCfg gatewayconfig.ErrorResponses) {
	upstreamURL := *req.URL
	upstreamURL.Scheme = "http"
	upstreamURL.Host = net.JoinHostPort(endpoint.IP, strconv.Itoa(int(backend.Port)))

	outReq := req.Clone(req.Context())
	outReq.URL = &upstreamURL
	outReq.RequestURI = ""
	outReq.Host = upstreamURL.Host

	resp, err := s.transport.RoundTrip(outReq)
	if err != nil {
		s.log.Error(err, "upstream round trip failed", "backend", backend.Name, "endpoint", endpoint.IP)
		s.writeErrorResponse(w, errCfg, http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	filterchain.ApplyResponseHeaders(resp.Header, outcome)

	dst := w.Header()
	for k, vv := range resp.Header {
		dst[k] = vv
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
