package transform

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/go-logr/logr"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/objref"
	"github.com/whitefamily/vale-gateway/internal/registry"
)

// DefaultIPCPort is the port the data plane dials to reach the primary
// control-plane replica's push channel (internal/ipc).
const DefaultIPCPort uint16 = 9191

// Annotations a Gateway object may carry to author the AccessControlRef
// / ClientAddressesRef filter-definition tables. There is no dedicated
// CRD for these two filter kinds (only StaticResponseFilter warrants
// one, since it alone needs Attached-count status); see the Open
// Question decision in DESIGN.md.
const (
	AnnotationAccessControls   = "vale-gateway.whitefamily.in/access-controls"
	AnnotationClientAddresses  = "vale-gateway.whitefamily.in/client-addresses"
)

// SynthesisInputs bundles generateGatewayConfigurations' inputs, all of
// them already produced by the other transformers / filters.
type SynthesisInputs struct {
	PrimaryIP            net.IP
	GatewayInstances      map[objref.Ref]GatewayInstance
	HTTPRoutesByGateway   map[objref.Ref][]*gatewayv1.HTTPRoute
	ServiceBackends       map[objref.Ref][]gatewayconfig.Endpoint
	StaticResponseFilters *registry.Registry[k8sobj.StaticResponseFilter]
}

// GenerateGatewayConfigurations implements generateGatewayConfigurations:
// for every Gateway with a resolved instance, produce a
// GatewayConfiguration or skip it with a logged reason.
func GenerateGatewayConfigurations(log logr.Logger, gateways *registry.Registry[k8sobj.Gateway], in SynthesisInputs) map[objref.Ref]gatewayconfig.GatewayConfiguration {
	out := make(map[objref.Ref]gatewayconfig.GatewayConfiguration)

	for _, gw := range gateways.List() {
		gwRef := gw.Ref()
		cfg, ok := synthesizeOne(log, gw.Gateway, gwRef, in)
		if !ok {
			continue
		}
		out[gwRef] = cfg
	}

	return out
}

func synthesizeOne(log logr.Logger, gw *gatewayv1.Gateway, gwRef objref.Ref, in SynthesisInputs) (gatewayconfig.GatewayConfiguration, bool) {
	instance, ok := in.GatewayInstances[gwRef]
	if !ok {
		log.Info("no GatewayInstance resolved, skipping gateway", "gateway", gwRef)
		return gatewayconfig.GatewayConfiguration{}, false
	}
	if gw.UID == "" {
		log.Info("Gateway has no UID yet, skipping", "gateway", gwRef)
		return gatewayconfig.GatewayConfiguration{}, false
	}

	cfg := gatewayconfig.GatewayConfiguration{
		GatewayName:      gw.Name,
		GatewayNamespace: gw.Namespace,
		GatewayUID:       string(gw.UID),
	}

	// Step 1: seed IPC endpoint from primary IP + IPC port.
	if in.PrimaryIP != nil {
		cfg.IPC = gatewayconfig.IPCEndpoint{IP: in.PrimaryIP.String(), Port: DefaultIPCPort}
	}

	// Step 2: copy listeners.
	for _, l := range gw.Spec.Listeners {
		port, err := translatePort(int32(l.Port))
		if err != nil {
			log.Info("listener port overflow, skipping listener", "gateway", gwRef, "listener", l.Name, "port", l.Port)
			continue
		}
		hostname := ""
		if l.Hostname != nil {
			hostname = string(*l.Hostname)
		}
		cfg.Listeners = append(cfg.Listeners, gatewayconfig.Listener{
			Name:     string(l.Name),
			Port:     port,
			Protocol: string(l.Protocol),
			Hostname: translateHostname(hostname),
		})
	}

	// Step 3: copy gateway-options.
	cfg.ErrorResponses = translateErrorResponses(instance.Options.ErrorResponses)
	cfg.ClientAddresses = translateClientAddresses(instance.Options.ClientAddresses)

	// Filter-definitions table: StaticResponses from the CRD registry,
	// AccessControls/ClientAddresses from the Gateway's annotations.
	cfg.FilterDefinitions = gatewayconfig.FilterDefinitions{
		StaticResponses: collectStaticResponseDefs(log, in.HTTPRoutesByGateway[gwRef], in.StaticResponseFilters),
		AccessControls:  parseAccessControls(log, gw),
		ClientAddresses: parseClientAddresses(log, gw),
	}

	// Step 4/5: translate each attached HTTPRoute.
	for _, route := range in.HTTPRoutesByGateway[gwRef] {
		routeCfg := translateRoute(log, route, string(gw.UID), in.ServiceBackends)
		if routeCfg != nil {
			cfg.HTTPRoutes = append(cfg.HTTPRoutes, *routeCfg)
		}
	}

	return cfg, true
}

func translateRoute(log logr.Logger, route *gatewayv1.HTTPRoute, gatewayUID string, serviceBackends map[objref.Ref][]gatewayconfig.Endpoint) *gatewayconfig.HTTPRouteConfig {
	if route.UID == "" {
		log.Info("HTTPRoute has no UID yet, skipping", "route", route.Namespace+"/"+route.Name)
		return nil
	}

	out := &gatewayconfig.HTTPRouteConfig{}
	for _, h := range route.Spec.Hostnames {
		out.HostMatches = append(out.HostMatches, translateHostname(string(h)))
	}

	for i, rule := range route.Spec.Rules {
		translated := gatewayconfig.Rule{
			UniqueID:  fmt.Sprintf("%s:%s:%d", gatewayUID, route.UID, i),
			CreatedAt: route.CreationTimestamp.Unix(),
		}

		for _, m := range rule.Matches {
			translated.Matches = append(translated.Matches, translateMatch(log, m))
		}
		translated.Filters = translateFilters(log, rule.Filters, route.Namespace)

		for _, backendRef := range CollectHTTPRouteBackends(log, route) {
			if backendRef.RuleIndex != i {
				continue
			}
			endpoints, ok := serviceBackends[backendRef.ServiceRef]
			if !ok {
				log.Info("backend service has no ready endpoints, forwarding with an empty endpoint list", "route", route.Namespace+"/"+route.Name, "service", backendRef.ServiceRef)
			}
			translated.Backends = append(translated.Backends, gatewayconfig.Backend{
				Name:      backendRef.ServiceRef.Name,
				Namespace: backendRef.ServiceRef.Namespace,
				Port:      backendRef.Port,
				Weight:    backendRef.Weight,
				Endpoints: endpoints,
			})
		}

		out.Rules = append(out.Rules, translated)
	}

	return out
}

func translatePort(port int32) (uint16, error) {
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("port %d out of uint16 range", port)
	}
	return uint16(port), nil
}

func translateErrorResponses(opt *v1alpha1.ErrorResponses) gatewayconfig.ErrorResponses {
	if opt == nil {
		return gatewayconfig.ErrorResponses{Kind: gatewayconfig.ErrorResponsesEmpty}
	}
	return gatewayconfig.ErrorResponses{
		Kind:         gatewayconfig.ErrorResponsesKind(opt.Kind),
		AuthorityURL: opt.AuthorityURL,
	}
}

func translateClientAddresses(opt *v1alpha1.ClientAddresses) gatewayconfig.ClientAddresses {
	if opt == nil {
		return gatewayconfig.ClientAddresses{Kind: gatewayconfig.ClientAddressesNone}
	}
	return gatewayconfig.ClientAddresses{
		Kind:           gatewayconfig.ClientAddressesKind(opt.Kind),
		HeaderName:     opt.HeaderName,
		TrustedIPs:     opt.TrustedIPs,
		TrustedCIDRs:   opt.TrustedCIDRs,
		TrustedHeaders: opt.TrustedHeaders,
	}
}

func collectStaticResponseDefs(log logr.Logger, routes []*gatewayv1.HTTPRoute, filters *registry.Registry[k8sobj.StaticResponseFilter]) map[string]gatewayconfig.StaticResponseDef {
	out := make(map[string]gatewayconfig.StaticResponseDef)
	if filters == nil {
		return out
	}
	for _, route := range routes {
		for _, rule := range route.Spec.Rules {
			for _, f := range rule.Filters {
				if f.Type != gatewayv1.HTTPRouteFilterExtensionRef || f.ExtensionRef == nil {
					continue
				}
				if string(f.ExtensionRef.Kind) != extensionKindStaticResponse {
					continue
				}
				ref := objref.Ref{Kind: "StaticResponseFilter", Group: v1alpha1.GroupName, Version: "v1alpha1", Namespace: route.Namespace, Name: string(f.ExtensionRef.Name)}
				srf, ok := filters.Get(ref)
				if !ok {
					log.Info("StaticResponseFilter referenced but not found", "ref", ref)
					continue
				}
				key := route.Namespace + "/" + string(f.ExtensionRef.Name)
				def := gatewayconfig.StaticResponseDef{StatusCode: int(srf.Spec.StatusCode)}
				if srf.Spec.Body != nil {
					body := &gatewayconfig.StaticResponseBody{ContentType: srf.Spec.Body.ContentType}
					if srf.Spec.Body.Format == v1alpha1.StaticResponseBodyBinary {
						body.Bytes = srf.Spec.Body.Binary
					} else {
						body.Bytes = []byte(srf.Spec.Body.Text)
					}
					def.Body = body
				}
				out[key] = def
			}
		}
	}
	return out
}

func parseAccessControls(log logr.Logger, gw *gatewayv1.Gateway) map[string]gatewayconfig.AccessControlDef {
	raw, ok := gw.Annotations[AnnotationAccessControls]
	if !ok || raw == "" {
		return nil
	}
	var defs map[string]gatewayconfig.AccessControlDef
	if err := json.Unmarshal([]byte(raw), &defs); err != nil {
		log.Error(err, "failed to parse access-controls annotation", "gateway", gw.Namespace+"/"+gw.Name)
		return nil
	}
	return defs
}

func parseClientAddresses(log logr.Logger, gw *gatewayv1.Gateway) map[string]gatewayconfig.ClientAddresses {
	raw, ok := gw.Annotations[AnnotationClientAddresses]
	if !ok || raw == "" {
		return nil
	}
	var defs map[string]gatewayconfig.ClientAddresses
	if err := json.Unmarshal([]byte(raw), &defs); err != nil {
		log.Error(err, "failed to parse client-addresses annotation", "gateway", gw.Namespace+"/"+gw.Name)
		return nil
	}
	return defs
}
