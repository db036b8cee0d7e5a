// Package gatewayconfig defines GatewayConfiguration, the document
// described in SPEC_FULL.md §3.3: the single value produced per
// Gateway by the control plane's synthesis pipeline, consumed by the
// data plane's router. Every type here is a plain, comparable-by-value
// struct of slices so it can serialize byte-stably (SPEC_FULL.md §8:
// "serialize -> deserialize -> serialize: byte-equal output") and so
// two synthesis runs over the same registries produce identical output
// with no wall-clock or map-iteration-order leakage.
package gatewayconfig

import "net"

// IPCEndpoint is where the data plane reaches the current primary
// control-plane replica.
type IPCEndpoint struct {
	IP   string `yaml:"ip" json:"ip"`
	Port uint16 `yaml:"port" json:"port"`
}

// HostMatchKind tags how a hostname matcher behaves.
type HostMatchKind string

const (
	HostMatchExact  HostMatchKind = "Exact"
	HostMatchSuffix HostMatchKind = "Suffix"
	HostMatchAny    HostMatchKind = "Any"
)

// HostMatch matches the HTTP Host header. Suffix values are stored
// with their leading dot (".example.com"), never the Gateway API
// wildcard form ("*.example.com"), so a plain strings.HasSuffix check
// at match time can't be fooled by "evil-example.com" matching
// "*.example.com" -- see SPEC_FULL.md §4.H.
type HostMatch struct {
	Kind  HostMatchKind `yaml:"kind" json:"kind"`
	Value string        `yaml:"value,omitempty" json:"value,omitempty"`
}

// Listener is one Gateway-declared listener, translated to the
// data-plane-facing shape.
type Listener struct {
	Name     string    `yaml:"name" json:"name"`
	Port     uint16    `yaml:"port" json:"port"`
	Protocol string    `yaml:"protocol" json:"protocol"`
	Hostname HostMatch `yaml:"hostname" json:"hostname"`
}

// ClientAddressesKind tags the client-address extraction strategy.
type ClientAddressesKind string

const (
	ClientAddressesNone    ClientAddressesKind = "None"
	ClientAddressesHeader  ClientAddressesKind = "Header"
	ClientAddressesProxies ClientAddressesKind = "Proxies"
)

// ClientAddresses configures how the data plane determines the
// client's real IP, per SPEC_FULL.md §4.I.
type ClientAddresses struct {
	Kind           ClientAddressesKind `yaml:"kind" json:"kind"`
	HeaderName     string              `yaml:"headerName,omitempty" json:"headerName,omitempty"`
	TrustedIPs     []string            `yaml:"trustedIPs,omitempty" json:"trustedIPs,omitempty"`
	TrustedCIDRs   []string            `yaml:"trustedCIDRs,omitempty" json:"trustedCIDRs,omitempty"`
	TrustedHeaders []string            `yaml:"trustedHeaders,omitempty" json:"trustedHeaders,omitempty"`
}

// ErrorResponsesKind tags the error-page rendering strategy.
type ErrorResponsesKind string

const (
	ErrorResponsesEmpty         ErrorResponsesKind = "Empty"
	ErrorResponsesHTML          ErrorResponsesKind = "HTML"
	ErrorResponsesProblemDetail ErrorResponsesKind = "ProblemDetail"
)

// ErrorResponses configures how the data plane renders its own
// generated error pages (as opposed to StaticResponseFilter, which
// renders rule-attached static responses).
type ErrorResponses struct {
	Kind        ErrorResponsesKind `yaml:"kind" json:"kind"`
	AuthorityURL string            `yaml:"authorityUrl,omitempty" json:"authorityUrl,omitempty"`
}

// PathMatchKind tags a path matcher's semantics.
type PathMatchKind string

const (
	PathMatchExact  PathMatchKind = "Exact"
	PathMatchPrefix PathMatchKind = "Prefix"
	PathMatchRegex  PathMatchKind = "Regex"
)

// PathMatch matches the request path.
type PathMatch struct {
	Kind  PathMatchKind `yaml:"kind" json:"kind"`
	Value string        `yaml:"value" json:"value"`
}

// ValueMatchKind tags a header/query-param value matcher.
type ValueMatchKind string

const (
	ValueMatchExact ValueMatchKind = "Exact"
	ValueMatchRegex ValueMatchKind = "Regex"
)

// HeaderMatch matches one request header.
type HeaderMatch struct {
	Name  string         `yaml:"name" json:"name"`
	Kind  ValueMatchKind `yaml:"kind" json:"kind"`
	Value string         `yaml:"value" json:"value"`
}

// QueryParamMatch matches one request query parameter.
type QueryParamMatch struct {
	Name  string         `yaml:"name" json:"name"`
	Kind  ValueMatchKind `yaml:"kind" json:"kind"`
	Value string         `yaml:"value" json:"value"`
}

// Match is one Gateway API HTTPRouteMatch translated into the
// data-plane's matcher vocabulary.
type Match struct {
	Path        PathMatch         `yaml:"path" json:"path"`
	Method      string            `yaml:"method,omitempty" json:"method,omitempty"`
	Headers     []HeaderMatch     `yaml:"headers,omitempty" json:"headers,omitempty"`
	QueryParams []QueryParamMatch `yaml:"queryParams,omitempty" json:"queryParams,omitempty"`
}

// FilterKind tags the filter taxonomy of SPEC_FULL.md §3.3/§4.I.
type FilterKind string

const (
	FilterRequestHeaderModifier  FilterKind = "RequestHeaderModifier"
	FilterResponseHeaderModifier FilterKind = "ResponseHeaderModifier"
	FilterRequestRedirect        FilterKind = "RequestRedirect"
	FilterURLRewrite             FilterKind = "URLRewrite"
	FilterStaticResponseRef      FilterKind = "StaticResponseRef"
	FilterAccessControlRef       FilterKind = "AccessControlRef"
	FilterClientAddressesRef     FilterKind = "ClientAddressesRef"
)

// HeaderValue is one (name, value) pair used by add/set header
// operations; duplicate names are legal for Add (duplicate-header
// semantics).
type HeaderValue struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// HeaderModifier is the remove -> set -> add triple applied, in that
// order, by RequestHeaderModifier/ResponseHeaderModifier.
type HeaderModifier struct {
	Remove []string      `yaml:"remove,omitempty" json:"remove,omitempty"`
	Set    []HeaderValue `yaml:"set,omitempty" json:"set,omitempty"`
	Add    []HeaderValue `yaml:"add,omitempty" json:"add,omitempty"`
}

// PathRewriteKind tags how a redirect/rewrite filter rewrites the
// path.
type PathRewriteKind string

const (
	PathRewriteNone           PathRewriteKind = ""
	PathRewriteFullPath       PathRewriteKind = "ReplaceFullPath"
	PathRewritePrefixMatch    PathRewriteKind = "ReplacePrefixMatch"
)

// PathRewrite is the shared path-rewrite payload used by both
// RequestRedirect and URLRewrite, per SPEC_FULL.md §4.I "Path rewrite".
type PathRewrite struct {
	Kind  PathRewriteKind `yaml:"kind,omitempty" json:"kind,omitempty"`
	Value string          `yaml:"value,omitempty" json:"value,omitempty"`
}

// RequestRedirect terminates the filter chain with an HTTP redirect.
type RequestRedirect struct {
	Scheme     string      `yaml:"scheme,omitempty" json:"scheme,omitempty"`
	Hostname   string      `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	Port       uint16      `yaml:"port,omitempty" json:"port,omitempty"`
	Path       PathRewrite `yaml:"path,omitempty" json:"path,omitempty"`
	StatusCode int         `yaml:"statusCode,omitempty" json:"statusCode,omitempty"`
}

// URLRewrite rewrites the upstream request in place.
type URLRewrite struct {
	Hostname string      `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	Path     PathRewrite `yaml:"path,omitempty" json:"path,omitempty"`
}

// Filter is a tagged union over the filter kinds of SPEC_FULL.md §3.3.
// Exactly one of the payload fields is meaningful, selected by Kind.
type Filter struct {
	Kind FilterKind `yaml:"kind" json:"kind"`

	RequestHeaderModifier  *HeaderModifier  `yaml:"requestHeaderModifier,omitempty" json:"requestHeaderModifier,omitempty"`
	ResponseHeaderModifier *HeaderModifier  `yaml:"responseHeaderModifier,omitempty" json:"responseHeaderModifier,omitempty"`
	RequestRedirect        *RequestRedirect `yaml:"requestRedirect,omitempty" json:"requestRedirect,omitempty"`
	URLRewrite             *URLRewrite      `yaml:"urlRewrite,omitempty" json:"urlRewrite,omitempty"`
	RefKey                 string           `yaml:"refKey,omitempty" json:"refKey,omitempty"`
}

// Endpoint is one ready address behind a Backend.
type Endpoint struct {
	IP   string `yaml:"ip" json:"ip"`
	Zone string `yaml:"zone,omitempty" json:"zone,omitempty"`
	Node string `yaml:"node,omitempty" json:"node,omitempty"`
}

// Backend is one weighted upstream target of a rule.
type Backend struct {
	Name      string     `yaml:"name" json:"name"`
	Namespace string     `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Port      uint16     `yaml:"port,omitempty" json:"port,omitempty"`
	Weight    int32      `yaml:"weight" json:"weight"`
	Endpoints []Endpoint `yaml:"endpoints,omitempty" json:"endpoints,omitempty"`
}

// Rule is one HTTPRoute rule, fully resolved: matches, filters and
// backends needed to serve a request without further registry lookups.
type Rule struct {
	// UniqueID is "{gatewayUID}:{routeUID}:{ruleIndex}", stable across
	// reloads as long as both UIDs survive.
	UniqueID string `yaml:"uniqueId" json:"uniqueId"`

	// CreatedAt is the owning HTTPRoute's creationTimestamp (unix
	// seconds), used only as the final tiebreaker in router scoring.
	CreatedAt int64 `yaml:"createdAt" json:"createdAt"`

	Matches  []Match  `yaml:"matches,omitempty" json:"matches,omitempty"`
	Filters  []Filter `yaml:"filters,omitempty" json:"filters,omitempty"`
	Backends []Backend `yaml:"backends,omitempty" json:"backends,omitempty"`
}

// HTTPRouteConfig is one HTTPRoute's contribution to a gateway's
// configuration.
type HTTPRouteConfig struct {
	HostMatches []HostMatch `yaml:"hostMatches,omitempty" json:"hostMatches,omitempty"`
	Rules       []Rule      `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// StaticResponseBody is the literal body of a StaticResponseFilter.
type StaticResponseBody struct {
	ContentType string `yaml:"contentType" json:"contentType"`
	Bytes       []byte `yaml:"bytes" json:"bytes"`
}

// StaticResponseDef is a listener-level filter-definition-table entry
// that a StaticResponseRef filter resolves against.
type StaticResponseDef struct {
	StatusCode int                  `yaml:"statusCode" json:"statusCode"`
	Body       *StaticResponseBody  `yaml:"body,omitempty" json:"body,omitempty"`
}

// AccessControlDef is a listener-level filter-definition-table entry
// that an AccessControlRef filter resolves against.
type AccessControlDef struct {
	Allow []string `yaml:"allow,omitempty" json:"allow,omitempty"`
	Deny  []string `yaml:"deny,omitempty" json:"deny,omitempty"`
}

// FilterDefinitions is the per-gateway table that ref-kind filters
// resolve their key against, per the invariant in SPEC_FULL.md §3.3
// ("every ref-kind filter refers to a key defined in the listener-level
// filter-definition table").
type FilterDefinitions struct {
	StaticResponses  map[string]StaticResponseDef  `yaml:"staticResponses,omitempty" json:"staticResponses,omitempty"`
	AccessControls   map[string]AccessControlDef   `yaml:"accessControls,omitempty" json:"accessControls,omitempty"`
	ClientAddresses  map[string]ClientAddresses    `yaml:"clientAddresses,omitempty" json:"clientAddresses,omitempty"`
}

// GatewayConfiguration is the single derived document of SPEC_FULL.md
// §3.3, produced once per Gateway by generateGatewayConfigurations and
// consumed directly by the data plane's router.
type GatewayConfiguration struct {
	GatewayName      string              `yaml:"gatewayName" json:"gatewayName"`
	GatewayNamespace string              `yaml:"gatewayNamespace" json:"gatewayNamespace"`
	GatewayUID       string              `yaml:"gatewayUID" json:"gatewayUID"`

	IPC              IPCEndpoint         `yaml:"ipc" json:"ipc"`
	Listeners        []Listener          `yaml:"listeners" json:"listeners"`
	ClientAddresses  ClientAddresses     `yaml:"clientAddresses" json:"clientAddresses"`
	ErrorResponses   ErrorResponses      `yaml:"errorResponses" json:"errorResponses"`
	HTTPRoutes       []HTTPRouteConfig   `yaml:"httpRoutes,omitempty" json:"httpRoutes,omitempty"`
	FilterDefinitions FilterDefinitions  `yaml:"filterDefinitions" json:"filterDefinitions"`
}

// AllRules flattens every rule across every HTTPRoute, the shape the
// router compiles from.
func (c *GatewayConfiguration) AllRules() []RuleWithRoute {
	var out []RuleWithRoute
	for i := range c.HTTPRoutes {
		route := &c.HTTPRoutes[i]
		for j := range route.Rules {
			out = append(out, RuleWithRoute{Route: route, Rule: &route.Rules[j]})
		}
	}
	return out
}

// RuleWithRoute pairs a Rule with the HTTPRouteConfig that owns it, the
// unit the router scores per request.
type RuleWithRoute struct {
	Route *HTTPRouteConfig
	Rule  *Rule
}

// ParseIP is a small shared helper: endpoints and trusted-proxy lists
// alike need strict IP parsing with no hostname fallback.
func ParseIP(s string) (net.IP, bool) {
	ip := net.ParseIP(s)
	return ip, ip != nil
}
