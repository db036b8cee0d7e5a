// Package controller wires the pure, registry-to-registry pieces
// (internal/filter, internal/transform, internal/status,
// internal/objectwriter) into the running process: one watcher per
// Kubernetes kind, a leader-elected primary/redundant role, and a
// single reconcile task that recomputes and applies everything
// whenever any watched input changes, per SPEC_FULL.md §4.B's
// await_ready/continue_on task shape.
package controller

import (
	"context"
	"net"
	"time"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	crclient "sigs.k8s.io/controller-runtime/pkg/client"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	gatewayclientset "sigs.k8s.io/gateway-api/pkg/client/clientset/versioned"

	"github.com/whitefamily/vale-gateway/internal/filter"
	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
	"github.com/whitefamily/vale-gateway/internal/ipc"
	"github.com/whitefamily/vale-gateway/internal/ipc/ipcpb"
	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/leaderelection"
	"github.com/whitefamily/vale-gateway/internal/metrics"
	"github.com/whitefamily/vale-gateway/internal/objectwriter"
	"github.com/whitefamily/vale-gateway/internal/objref"
	"github.com/whitefamily/vale-gateway/internal/registry"
	"github.com/whitefamily/vale-gateway/internal/signal"
	"github.com/whitefamily/vale-gateway/internal/status"
	"github.com/whitefamily/vale-gateway/internal/task"
	"github.com/whitefamily/vale-gateway/internal/transform"
	"github.com/whitefamily/vale-gateway/internal/watch"
)

// reconcileInterval is the liveness floor: even with no input change,
// the reconcile loop re-asserts desired state this often, matching
// ContinueOn's maxDelay role across the rest of this control plane.
const reconcileInterval = 30 * time.Second

// Config bundles the clients and identity the controller needs to
// watch cluster state and write back objects/status.
type Config struct {
	K8sClient     kubernetes.Interface
	GatewayClient gatewayclientset.Interface
	CRClient      crclient.WithWatch

	InstanceName string // lease name prefix
	PodName      string
	PodNamespace string

	Metrics *metrics.Metrics
	Hub     *ipc.Hub
}

// registries bundles every watched kind's registry + publishing
// signal, so reconcileLoop can subscribe to all of them uniformly.
type registries struct {
	gatewayClasses       *registry.Registry[k8sobj.GatewayClass]
	gateways             *registry.Registry[k8sobj.Gateway]
	httpRoutes           *registry.Registry[k8sobj.HTTPRoute]
	namespaces           *registry.Registry[k8sobj.Namespace]
	gatewayClassParams   *registry.Registry[k8sobj.GatewayClassParameters]
	gatewayParams        *registry.Registry[k8sobj.GatewayParameters]
	staticResponseFilter *registry.Registry[k8sobj.StaticResponseFilter]
	endpointSlices       *registry.Registry[k8sobj.EndpointSlice]

	gatewayClassesSig       *signal.Signal[*registry.Registry[k8sobj.GatewayClass]]
	gatewaysSig             *signal.Signal[*registry.Registry[k8sobj.Gateway]]
	httpRoutesSig           *signal.Signal[*registry.Registry[k8sobj.HTTPRoute]]
	namespacesSig           *signal.Signal[*registry.Registry[k8sobj.Namespace]]
	gatewayClassParamsSig   *signal.Signal[*registry.Registry[k8sobj.GatewayClassParameters]]
	gatewayParamsSig        *signal.Signal[*registry.Registry[k8sobj.GatewayParameters]]
	staticResponseFilterSig *signal.Signal[*registry.Registry[k8sobj.StaticResponseFilter]]
	endpointSlicesSig       *signal.Signal[*registry.Registry[k8sobj.EndpointSlice]]
}

func newRegistries() *registries {
	return &registries{
		gatewayClasses:          registry.New[k8sobj.GatewayClass](),
		gateways:                registry.New[k8sobj.Gateway](),
		httpRoutes:              registry.New[k8sobj.HTTPRoute](),
		namespaces:              registry.New[k8sobj.Namespace](),
		gatewayClassParams:      registry.New[k8sobj.GatewayClassParameters](),
		gatewayParams:           registry.New[k8sobj.GatewayParameters](),
		staticResponseFilter:    registry.New[k8sobj.StaticResponseFilter](),
		endpointSlices:          registry.New[k8sobj.EndpointSlice](),
		gatewayClassesSig:       signal.New[*registry.Registry[k8sobj.GatewayClass]](),
		gatewaysSig:             signal.New[*registry.Registry[k8sobj.Gateway]](),
		httpRoutesSig:           signal.New[*registry.Registry[k8sobj.HTTPRoute]](),
		namespacesSig:           signal.New[*registry.Registry[k8sobj.Namespace]](),
		gatewayClassParamsSig:   signal.New[*registry.Registry[k8sobj.GatewayClassParameters]](),
		gatewayParamsSig:        signal.New[*registry.Registry[k8sobj.GatewayParameters]](),
		staticResponseFilterSig: signal.New[*registry.Registry[k8sobj.StaticResponseFilter]](),
		endpointSlicesSig:       signal.New[*registry.Registry[k8sobj.EndpointSlice]](),
	}
}

// Run starts every watcher, leader election, and the reconcile loop,
// blocking until ctx is cancelled.
func Run(ctx context.Context, log logr.Logger, cfg Config) {
	b := task.NewBuilder(log)
	regs := newRegistries()

	b.Go(ctx, "watch-gatewayclasses", func(ctx context.Context) {
		watch.Run(ctx, log, "gatewayclasses", watch.GatewayClassSource{Client: cfg.GatewayClient}, regs.gatewayClasses, regs.gatewayClassesSig)
	})
	b.Go(ctx, "watch-gateways", func(ctx context.Context) {
		watch.Run(ctx, log, "gateways", watch.GatewaySource{Client: cfg.GatewayClient}, regs.gateways, regs.gatewaysSig)
	})
	b.Go(ctx, "watch-httproutes", func(ctx context.Context) {
		watch.Run(ctx, log, "httproutes", watch.HTTPRouteSource{Client: cfg.GatewayClient}, regs.httpRoutes, regs.httpRoutesSig)
	})
	b.Go(ctx, "watch-namespaces", func(ctx context.Context) {
		watch.Run(ctx, log, "namespaces", watch.NamespaceSource{Client: cfg.K8sClient}, regs.namespaces, regs.namespacesSig)
	})
	b.Go(ctx, "watch-gatewayclassparameters", func(ctx context.Context) {
		watch.Run(ctx, log, "gatewayclassparameters", watch.GatewayClassParametersSource{Client: cfg.CRClient}, regs.gatewayClassParams, regs.gatewayClassParamsSig)
	})
	b.Go(ctx, "watch-gatewayparameters", func(ctx context.Context) {
		watch.Run(ctx, log, "gatewayparameters", watch.GatewayParametersSource{Client: cfg.CRClient}, regs.gatewayParams, regs.gatewayParamsSig)
	})
	b.Go(ctx, "watch-staticresponsefilters", func(ctx context.Context) {
		watch.Run(ctx, log, "staticresponsefilters", watch.StaticResponseFilterSource{Client: cfg.CRClient}, regs.staticResponseFilter, regs.staticResponseFilterSig)
	})
	b.Go(ctx, "watch-endpointslices", func(ctx context.Context) {
		watch.Run(ctx, log, "endpointslices", watch.EndpointSliceSource{Client: cfg.K8sClient}, regs.endpointSlices, regs.endpointSlicesSig)
	})

	role := signal.New[leaderelection.InstanceRole]()
	primaryIP := signal.New[net.IP]()
	b.Go(ctx, "leader-election", func(ctx context.Context) {
		err := leaderelection.Run(ctx, log, leaderelection.Config{
			Client:       cfg.K8sClient,
			Namespace:    cfg.PodNamespace,
			InstanceName: cfg.InstanceName,
			PodName:      cfg.PodName,
		}, role)
		if err != nil {
			log.Error(err, "leader election exited")
		}
	})
	b.Go(ctx, "watch-primary-pod-ip", func(ctx context.Context) {
		leaderelection.WatchPrimaryPodIP(ctx, log, cfg.K8sClient, role, primaryIP)
	})

	b.Go(ctx, "reconcile", func(ctx context.Context) {
		reconcileLoop(ctx, log, cfg, regs, role, primaryIP)
	})

	<-ctx.Done()
	b.Wait()
}

// reconcileLoop recomputes derived state and, while this replica is
// primary, writes it back, each time any watched input changes or
// reconcileInterval elapses, whichever comes first.
func reconcileLoop(ctx context.Context, log logr.Logger, cfg Config, regs *registries, role *signal.Signal[leaderelection.InstanceRole], primaryIP *signal.Signal[net.IP]) {
	classesRecv := regs.gatewayClassesSig.NewReceiver()
	gatewaysRecv := regs.gatewaysSig.NewReceiver()
	routesRecv := regs.httpRoutesSig.NewReceiver()
	namespacesRecv := regs.namespacesSig.NewReceiver()
	classParamsRecv := regs.gatewayClassParamsSig.NewReceiver()
	gwParamsRecv := regs.gatewayParamsSig.NewReceiver()
	filtersRecv := regs.staticResponseFilterSig.NewReceiver()
	slicesRecv := regs.endpointSlicesSig.NewReceiver()
	roleRecv := role.NewReceiver()
	primaryIPRecv := primaryIP.NewReceiver()

	sources := []task.Source{classesRecv, gatewaysRecv, routesRecv, namespacesRecv, classParamsRecv, gwParamsRecv, filtersRecv, slicesRecv, roleRecv, primaryIPRecv}

	for {
		classes, classesOK := classesRecv.Get()
		gateways, gatewaysOK := gatewaysRecv.Get()
		routes, routesOK := routesRecv.Get()
		namespaces, namespacesOK := namespacesRecv.Get()
		classParams, classParamsOK := classParamsRecv.Get()
		gwParams, gwParamsOK := gwParamsRecv.Get()
		filters, filtersOK := filtersRecv.Get()
		slices, slicesOK := slicesRecv.Get()
		instanceRole, _ := roleRecv.Get()
		pIP, _ := primaryIPRecv.Get()

		if classesOK && gatewaysOK && routesOK && namespacesOK && classParamsOK && gwParamsOK && filtersOK && slicesOK {
			reconcileOnce(ctx, log, cfg, reconcileInputs{
				gatewayClasses:       classes,
				gateways:             gateways,
				httpRoutes:           routes,
				namespaces:           namespaces,
				gatewayClassParams:   classParams,
				gatewayParams:        gwParams,
				staticResponseFilter: filters,
				endpointSlices:       slices,
				role:                 instanceRole,
				primaryIP:            pIP,
			})
		} else {
			log.V(1).Info("reconcile inputs not all ready yet, stalling")
		}

		if cfg.Metrics != nil {
			cfg.Metrics.SetPrimary(instanceRole.IsPrimary())
		}

		if err := task.ContinueOn(ctx, reconcileInterval, sources...); err != nil {
			return
		}
	}
}

type reconcileInputs struct {
	gatewayClasses       *registry.Registry[k8sobj.GatewayClass]
	gateways             *registry.Registry[k8sobj.Gateway]
	httpRoutes           *registry.Registry[k8sobj.HTTPRoute]
	namespaces           *registry.Registry[k8sobj.Namespace]
	gatewayClassParams   *registry.Registry[k8sobj.GatewayClassParameters]
	gatewayParams        *registry.Registry[k8sobj.GatewayParameters]
	staticResponseFilter *registry.Registry[k8sobj.StaticResponseFilter]
	endpointSlices       *registry.Registry[k8sobj.EndpointSlice]
	role                 leaderelection.InstanceRole
	primaryIP            net.IP
}

func reconcileOnce(ctx context.Context, log logr.Logger, cfg Config, in reconcileInputs) {
	class, ok := filter.SelectGatewayClass(log, in.gatewayClasses)
	if !ok {
		return
	}
	classResult := filter.ResolveGatewayClassParameters(class, in.gatewayClassParams)

	attachments := filter.FilterHTTPRoutes(log, in.httpRoutes, in.gateways, in.namespaces)

	byGateway := transform.CollectHTTPRoutesByGateway(attachments)

	backendsByRoute := make(map[objref.Ref][]transform.RouteBackendRef)
	for _, routesForGW := range byGateway {
		for _, r := range routesForGW {
			backendsByRoute[k8sobj.HTTPRoute{HTTPRoute: r}.Ref()] = transform.CollectHTTPRouteBackends(log, r)
		}
	}
	referenced := transform.ReferencedServices(backendsByRoute)
	serviceBackends := transform.CollectServiceBackends(referenced, in.endpointSlices)

	instances := transform.CollectGatewayInstances(log, in.gateways, classResult.Parameters, in.gatewayParams, baselineDeployment(), baselineService())

	configs := transform.GenerateGatewayConfigurations(log, in.gateways, transform.SynthesisInputs{
		PrimaryIP:             in.primaryIP,
		GatewayInstances:      instances,
		HTTPRoutesByGateway:   byGateway,
		ServiceBackends:       serviceBackends,
		StaticResponseFilters: in.staticResponseFilter,
	})

	if !in.role.IsPrimary() {
		return
	}

	syncGatewayClassStatus(ctx, log, cfg, class, classResult)
	syncGatewayObjects(ctx, log, cfg, in.gateways, instances, configs)
	syncGatewayStatuses(ctx, log, cfg, in.gateways, attachments, configs, in.primaryIP)
	syncHTTPRouteStatuses(ctx, log, cfg, attachments, referenced)
	syncStaticResponseFilterStatuses(ctx, log, cfg, in.staticResponseFilter, attachments)
	publishInvalidations(cfg, configs)
}

func syncGatewayClassStatus(ctx context.Context, log logr.Logger, cfg Config, class *gatewayv1.GatewayClass, result filter.GatewayClassParametersResult) {
	if err := status.SyncGatewayClassStatus(ctx, cfg.GatewayClient, class.Name, result); err != nil {
		log.Error(err, "syncing GatewayClass status", "name", class.Name)
	}
}

func syncGatewayObjects(ctx context.Context, log logr.Logger, cfg Config, gateways *registry.Registry[k8sobj.Gateway], instances map[objref.Ref]transform.GatewayInstance, configs map[objref.Ref]gatewayconfig.GatewayConfiguration) {
	for _, gw := range gateways.List() {
		ref := gw.Ref()
		instance, ok := instances[ref]
		if !ok {
			continue
		}
		cfgDoc, ok := configs[ref]
		if !ok {
			continue
		}

		cm, err := objectwriter.BuildConfigMap(gw.Namespace, gw.Name, cfgDoc)
		if err != nil {
			log.Error(err, "building ConfigMap", "gateway", ref)
			continue
		}
		deployment := objectwriter.BuildDeployment(gw.Namespace, gw.Name, instance)
		service := objectwriter.BuildService(gw.Namespace, gw.Name, instance)

		actions := []objectwriter.Action{
			objectwriter.NewUpsert(objectwriter.ConfigMapRef(gw.Namespace, gw.Name), cm),
			objectwriter.NewUpsert(objectwriter.DeploymentRef(gw.Namespace, gw.Name), deployment),
			objectwriter.NewUpsert(objectwriter.ServiceRef(gw.Namespace, gw.Name), service),
		}
		if err := objectwriter.Sync(ctx, log, cfg.CRClient, actions); err != nil {
			log.Error(err, "syncing gateway objects", "gateway", ref)
			if cfg.Metrics != nil {
				cfg.Metrics.RecordObjectWrite(metrics.OutcomeFailure)
			}
			continue
		}
		if cfg.Metrics != nil {
			cfg.Metrics.RecordObjectWrite(metrics.OutcomeSuccess)
		}
	}
}

func syncGatewayStatuses(ctx context.Context, log logr.Logger, cfg Config, gateways *registry.Registry[k8sobj.Gateway], attachments []filter.RouteAttachment, configs map[objref.Ref]gatewayconfig.GatewayConfiguration, primaryIP net.IP) {
	attachedCounts := attachedRouteCountsByGateway(attachments)

	primaryIPStr := ""
	if primaryIP != nil {
		primaryIPStr = primaryIP.String()
	}

	for _, gw := range gateways.List() {
		ref := gw.Ref()
		_, synthesized := configs[ref]

		svc, err := getService(ctx, cfg.CRClient, gw.Namespace, gw.Name)
		var lbIPs []string
		if err == nil {
			lbIPs = loadBalancerIPs(svc)
		}

		in := status.GatewayInput{
			Synthesized:     synthesized,
			LoadBalancerIPs: lbIPs,
			PrimaryIP:       primaryIPStr,
			AttachedRoutes:  attachedCounts[ref],
		}
		if err := status.SyncGatewayStatus(ctx, cfg.GatewayClient, gw.Namespace, gw.Name, in); err != nil {
			log.Error(err, "syncing Gateway status", "gateway", ref)
		}
	}
}

func attachedRouteCountsByGateway(attachments []filter.RouteAttachment) map[objref.Ref]map[gatewayv1.SectionName]int32 {
	out := make(map[objref.Ref]map[gatewayv1.SectionName]int32)
	for _, a := range attachments {
		for _, p := range a.Parents {
			if !p.Accepted {
				continue
			}
			if out[p.GatewayRef] == nil {
				out[p.GatewayRef] = make(map[gatewayv1.SectionName]int32)
			}
			var sectionName gatewayv1.SectionName
			if p.ParentRef.SectionName != nil {
				sectionName = *p.ParentRef.SectionName
			}
			out[p.GatewayRef][sectionName]++
		}
	}
	return out
}

func syncHTTPRouteStatuses(ctx context.Context, log logr.Logger, cfg Config, attachments []filter.RouteAttachment, referenced map[objref.Ref]bool) {
	for _, a := range attachments {
		resolvedRefs := allBackendsResolved(a.Route, referenced)
		ref := k8sobj.HTTPRoute{HTTPRoute: a.Route}.Ref()
		if err := status.SyncHTTPRouteStatus(ctx, cfg.GatewayClient, a.Route.Namespace, a.Route.Name, filter.ControllerName, a, resolvedRefs); err != nil {
			log.Error(err, "syncing HTTPRoute status", "route", ref)
		}
	}
}

func allBackendsResolved(route *gatewayv1.HTTPRoute, referenced map[objref.Ref]bool) bool {
	for _, rule := range route.Spec.Rules {
		for _, br := range rule.BackendRefs {
			ref := objref.Ref{Kind: "Service", Version: "v1", Namespace: route.Namespace, Name: string(br.Name)}
			if br.Namespace != nil {
				ref.Namespace = string(*br.Namespace)
			}
			if !referenced[ref] {
				return false
			}
		}
	}
	return true
}

func syncStaticResponseFilterStatuses(ctx context.Context, log logr.Logger, cfg Config, filters *registry.Registry[k8sobj.StaticResponseFilter], attachments []filter.RouteAttachment) {
	counts := status.CountStaticResponseAttachments(routeFiltersFor(attachments))
	for _, f := range filters.List() {
		key := f.Namespace + "/" + f.Name
		if err := status.SyncStaticResponseFilterStatus(ctx, cfg.CRClient, f.Namespace, f.Name, counts[key]); err != nil {
			log.Error(err, "syncing StaticResponseFilter status", "filter", key)
		}
	}
}

func routeFiltersFor(attachments []filter.RouteAttachment) []status.HTTPRouteFilters {
	out := make([]status.HTTPRouteFilters, 0, len(attachments))
	for _, a := range attachments {
		var ruleFilters [][]status.ExtensionRef
		for _, rule := range a.Route.Spec.Rules {
			var refs []status.ExtensionRef
			for _, f := range rule.Filters {
				if f.ExtensionRef == nil {
					continue
				}
				refs = append(refs, status.ExtensionRef{Kind: string(f.ExtensionRef.Kind), Name: string(f.ExtensionRef.Name)})
			}
			ruleFilters = append(ruleFilters, refs)
		}
		out = append(out, status.HTTPRouteFilters{Namespace: a.Route.Namespace, RuleFilters: ruleFilters})
	}
	return out
}

func publishInvalidations(cfg Config, configs map[objref.Ref]gatewayconfig.GatewayConfiguration) {
	if cfg.Hub == nil {
		return
	}
	for ref := range configs {
		cfg.Hub.Publish(&ipcpb.Invalidation{GatewayName: ref.Name, GatewayNamespace: ref.Namespace})
	}
}

func getService(ctx context.Context, c crclient.Client, namespace, gatewayName string) (*corev1.Service, error) {
	var svc corev1.Service
	err := c.Get(ctx, crclient.ObjectKey{Namespace: namespace, Name: gatewayName}, &svc)
	return &svc, err
}

func loadBalancerIPs(svc *corev1.Service) []string {
	var ips []string
	for _, ing := range svc.Status.LoadBalancer.Ingress {
		if ing.IP != "" {
			ips = append(ips, ing.IP)
		}
	}
	return ips
}
