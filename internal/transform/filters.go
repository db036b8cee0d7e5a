package transform

import (
	"github.com/go-logr/logr"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

// Extension-ref kind strings this system recognizes for the
// key-resolved filter kinds (StaticResponseRef/AccessControlRef/
// ClientAddressesRef). Only StaticResponseFilter is backed by a real
// CRD (its definitions come from the StaticResponseFilter registry and
// internal/status counts its Attached references); AccessControlFilter
// and ClientAddressesFilter definitions are authored directly on the
// Gateway object's annotations and parsed at synthesis time -- see
// parseAccessControls/parseClientAddresses in synthesize.go and the
// corresponding Open Question decision in DESIGN.md.
const (
	extensionKindStaticResponse  = "StaticResponseFilter"
	extensionKindAccessControl   = "AccessControlFilter"
	extensionKindClientAddresses = "ClientAddressesFilter"
)

func translateFilters(log logr.Logger, filters []gatewayv1.HTTPRouteFilter, routeNamespace string) []gatewayconfig.Filter {
	out := make([]gatewayconfig.Filter, 0, len(filters))
	for _, f := range filters {
		switch f.Type {
		case gatewayv1.HTTPRouteFilterRequestHeaderModifier:
			if f.RequestHeaderModifier != nil {
				out = append(out, gatewayconfig.Filter{Kind: gatewayconfig.FilterRequestHeaderModifier, RequestHeaderModifier: translateHeaderFilter(f.RequestHeaderModifier)})
			}
		case gatewayv1.HTTPRouteFilterResponseHeaderModifier:
			if f.ResponseHeaderModifier != nil {
				out = append(out, gatewayconfig.Filter{Kind: gatewayconfig.FilterResponseHeaderModifier, ResponseHeaderModifier: translateHeaderFilter(f.ResponseHeaderModifier)})
			}
		case gatewayv1.HTTPRouteFilterRequestRedirect:
			if f.RequestRedirect != nil {
				out = append(out, gatewayconfig.Filter{Kind: gatewayconfig.FilterRequestRedirect, RequestRedirect: translateRequestRedirect(f.RequestRedirect)})
			}
		case gatewayv1.HTTPRouteFilterURLRewrite:
			if f.URLRewrite != nil {
				out = append(out, gatewayconfig.Filter{Kind: gatewayconfig.FilterURLRewrite, URLRewrite: translateURLRewrite(f.URLRewrite)})
			}
		case gatewayv1.HTTPRouteFilterExtensionRef:
			if f.ExtensionRef != nil {
				if filter, ok := translateExtensionRef(f.ExtensionRef, routeNamespace); ok {
					out = append(out, filter)
				} else {
					log.Info("unrecognized extensionRef filter kind, skipping", "group", f.ExtensionRef.Group, "kind", f.ExtensionRef.Kind)
				}
			}
		default:
			log.Info("unsupported HTTPRoute filter type, skipping", "type", f.Type)
		}
	}
	return out
}

func translateHeaderFilter(f *gatewayv1.HTTPHeaderFilter) *gatewayconfig.HeaderModifier {
	out := &gatewayconfig.HeaderModifier{Remove: append([]string(nil), f.Remove...)}
	for _, s := range f.Set {
		out.Set = append(out.Set, gatewayconfig.HeaderValue{Name: string(s.Name), Value: s.Value})
	}
	for _, a := range f.Add {
		out.Add = append(out.Add, gatewayconfig.HeaderValue{Name: string(a.Name), Value: a.Value})
	}
	return out
}

func translatePathModifier(p *gatewayv1.HTTPPathModifier) gatewayconfig.PathRewrite {
	if p == nil {
		return gatewayconfig.PathRewrite{}
	}
	switch p.Type {
	case gatewayv1.FullPathHTTPPathModifier:
		value := ""
		if p.ReplaceFullPath != nil {
			value = *p.ReplaceFullPath
		}
		return gatewayconfig.PathRewrite{Kind: gatewayconfig.PathRewriteFullPath, Value: value}
	case gatewayv1.PrefixMatchHTTPPathModifier:
		value := ""
		if p.ReplacePrefixMatch != nil {
			value = *p.ReplacePrefixMatch
		}
		return gatewayconfig.PathRewrite{Kind: gatewayconfig.PathRewritePrefixMatch, Value: value}
	default:
		return gatewayconfig.PathRewrite{}
	}
}

func translateRequestRedirect(r *gatewayv1.HTTPRequestRedirectFilter) *gatewayconfig.RequestRedirect {
	out := &gatewayconfig.RequestRedirect{Path: translatePathModifier(r.Path)}
	if r.Scheme != nil {
		out.Scheme = *r.Scheme
	}
	if r.Hostname != nil {
		out.Hostname = string(*r.Hostname)
	}
	if r.Port != nil {
		out.Port = uint16(*r.Port)
	}
	if r.StatusCode != nil {
		out.StatusCode = *r.StatusCode
	}
	return out
}

func translateURLRewrite(r *gatewayv1.HTTPURLRewriteFilter) *gatewayconfig.URLRewrite {
	out := &gatewayconfig.URLRewrite{Path: translatePathModifier(r.Path)}
	if r.Hostname != nil {
		out.Hostname = string(*r.Hostname)
	}
	return out
}

func translateExtensionRef(ref *gatewayv1.LocalObjectReference, routeNamespace string) (gatewayconfig.Filter, bool) {
	switch string(ref.Kind) {
	case extensionKindStaticResponse:
		return gatewayconfig.Filter{Kind: gatewayconfig.FilterStaticResponseRef, RefKey: routeNamespace + "/" + string(ref.Name)}, true
	case extensionKindAccessControl:
		return gatewayconfig.Filter{Kind: gatewayconfig.FilterAccessControlRef, RefKey: string(ref.Name)}, true
	case extensionKindClientAddresses:
		return gatewayconfig.Filter{Kind: gatewayconfig.FilterClientAddressesRef, RefKey: string(ref.Name)}, true
	default:
		return gatewayconfig.Filter{}, false
	}
}
