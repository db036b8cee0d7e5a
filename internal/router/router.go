package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
	"github.com/whitefamily/vale-gateway/internal/regexcache"
)

// Router is the compiled routing table for one GatewayConfiguration.
// It is immutable once built; reload replaces the *Router value
// wholesale rather than mutating it in place, so in-flight requests
// always see a single consistent table.
type Router struct {
	config *gatewayconfig.GatewayConfiguration
	rules  []compiledRule
}

type compiledRule struct {
	hostMatch gatewayconfig.HostMatch
	match     gatewayconfig.Match
	rule      *gatewayconfig.Rule
	route     *gatewayconfig.HTTPRouteConfig
	score     score
}

// Compile builds a Router from cfg. Regexes named by Regex path/header/
// query matchers are compiled (and cached) here, off the request path,
// per SPEC_FULL.md §4.H/§5. An error is returned if any pattern fails
// to compile; the caller should keep serving the previous Router.
func Compile(cfg *gatewayconfig.GatewayConfiguration) (*Router, error) {
	r := &Router{config: cfg}
	for i := range cfg.HTTPRoutes {
		route := &cfg.HTTPRoutes[i]
		hostMatches := route.HostMatches
		if len(hostMatches) == 0 {
			hostMatches = []gatewayconfig.HostMatch{{Kind: gatewayconfig.HostMatchAny}}
		}
		for j := range route.Rules {
			rule := &route.Rules[j]
			if rule.UniqueID == "" {
				continue // rules lacking a stable UID are skipped at synthesis time
			}
			matches := rule.Matches
			if len(matches) == 0 {
				matches = []gatewayconfig.Match{{Path: gatewayconfig.PathMatch{Kind: gatewayconfig.PathMatchPrefix, Value: "/"}}}
			}
			if err := precompileRegexes(matches); err != nil {
				return nil, err
			}
			for _, hm := range hostMatches {
				for _, m := range matches {
					r.rules = append(r.rules, compiledRule{
						hostMatch: hm,
						match:     m,
						rule:      rule,
						route:     route,
						score:     scoreFor(hm, m, rule.CreatedAt),
					})
				}
			}
		}
	}
	return r, nil
}

func precompileRegexes(matches []gatewayconfig.Match) error {
	for _, m := range matches {
		if m.Path.Kind == gatewayconfig.PathMatchRegex {
			if _, err := regexcache.Compile(m.Path.Value); err != nil {
				return err
			}
		}
		for _, h := range m.Headers {
			if h.Kind == gatewayconfig.ValueMatchRegex {
				if _, err := regexcache.Compile(h.Value); err != nil {
					return err
				}
			}
		}
		for _, q := range m.QueryParams {
			if q.Kind == gatewayconfig.ValueMatchRegex {
				if _, err := regexcache.Compile(q.Value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Result is what Match returns: the winning rule/route, plus the
// matched prefix if and only if the winning path matcher was a Prefix
// match the request path actually started with.
type Result struct {
	Route         *gatewayconfig.HTTPRouteConfig
	Rule          *gatewayconfig.Rule
	Match         gatewayconfig.Match
	MatchedPrefix *string
}

// Match scores every compiled rule against req and returns the best
// one, or nil if none match. Host comparison is case-insensitive; path,
// method, header and query-param comparisons follow SPEC_FULL.md §4.H.
func (r *Router) Match(req *http.Request) *Result {
	requestHost := hostOnly(req.Host)
	path := req.URL.Path

	var best *compiledRule
	for i := range r.rules {
		cr := &r.rules[i]
		if !hostMatches(cr.hostMatch, requestHost) {
			continue
		}
		if !pathMatches(cr.match.Path, path) {
			continue
		}
		if cr.match.Method != "" && !strings.EqualFold(cr.match.Method, req.Method) {
			continue
		}
		if !headersMatch(cr.match.Headers, req.Header) {
			continue
		}
		if !queryParamsMatch(cr.match.QueryParams, req.URL.Query()) {
			continue
		}
		if best == nil || cr.score.less(best.score) {
			best = cr
		}
	}
	if best == nil {
		return nil
	}

	result := &Result{Route: best.route, Rule: best.rule, Match: best.match}
	if best.match.Path.Kind == gatewayconfig.PathMatchPrefix && strings.HasPrefix(path, best.match.Path.Value) {
		p := best.match.Path.Value
		result.MatchedPrefix = &p
	}
	return result
}

func hostOnly(hostHeader string) string {
	if h, _, err := splitHostPort(hostHeader); err == nil {
		return h
	}
	return hostHeader
}

// splitHostPort splits hostport at its last ':' without calling
// net.SplitHostPort, so a bare host with no port (which
// net.SplitHostPort rejects) comes back whole with an empty port.
func splitHostPort(hostport string) (string, string, error) {
	if !strings.Contains(hostport, ":") {
		return hostport, "", nil
	}
	idx := strings.LastIndex(hostport, ":")
	return hostport[:idx], hostport[idx+1:], nil
}

func pathMatches(pm gatewayconfig.PathMatch, path string) bool {
	switch pm.Kind {
	case gatewayconfig.PathMatchExact:
		return path == pm.Value
	case gatewayconfig.PathMatchPrefix:
		if !strings.HasPrefix(path, pm.Value) {
			return false
		}
		// "/api" must not match "/apiextra"; a prefix match requires
		// either an exact match or a following '/' boundary, the same
		// segment-aware rule Gateway API implementations use.
		if len(path) == len(pm.Value) {
			return true
		}
		if strings.HasSuffix(pm.Value, "/") {
			return true
		}
		return path[len(pm.Value)] == '/'
	case gatewayconfig.PathMatchRegex:
		re, err := regexcache.Compile(pm.Value)
		if err != nil {
			return false
		}
		return re.MatchString(path)
	default:
		return false
	}
}

func valueMatches(kind gatewayconfig.ValueMatchKind, pattern, actual string) bool {
	switch kind {
	case gatewayconfig.ValueMatchRegex:
		re, err := regexcache.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(actual)
	default:
		return actual == pattern
	}
}

func headersMatch(want []gatewayconfig.HeaderMatch, got http.Header) bool {
	for _, h := range want {
		if !valueMatches(h.Kind, h.Value, got.Get(h.Name)) {
			return false
		}
	}
	return true
}

func queryParamsMatch(want []gatewayconfig.QueryParamMatch, got url.Values) bool {
	for _, q := range want {
		if !valueMatches(q.Kind, q.Value, got.Get(q.Name)) {
			return false
		}
	}
	return true
}
