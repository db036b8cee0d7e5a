package transform

import (
	"github.com/go-logr/logr"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/objref"
	"github.com/whitefamily/vale-gateway/internal/paramsmerge"
	"github.com/whitefamily/vale-gateway/internal/registry"
)

const (
	gatewayParametersGroup = v1alpha1.GroupName
	gatewayParametersKind  = "GatewayParameters"
)

// GatewayInstance is collectGatewayInstances' per-gateway output: the
// Deployment/Service spec fragments and gateway options the data-plane
// object writer and the configuration synthesizer both consume.
type GatewayInstance struct {
	GatewayRef      objref.Ref
	Deployment      *appsv1.DeploymentSpec
	Service         *corev1.ServiceSpec
	ImagePullPolicy corev1.PullPolicy
	Options         v1alpha1.GatewayOptions
}

// CollectGatewayInstances implements collectGatewayInstances: for each
// Gateway, resolve its own GatewayParameters (via
// spec.infrastructure.parametersRef, namespace-scoped) and merge it
// over the cluster-wide GatewayClassParameters under
// gateway-overrides-class precedence, then strategic-merge the
// resulting Deployment/Service fragments onto the baseline templates
// this system ships.
func CollectGatewayInstances(
	log logr.Logger,
	gateways *registry.Registry[k8sobj.Gateway],
	classParams *v1alpha1.GatewayClassParameters,
	gwParams *registry.Registry[k8sobj.GatewayParameters],
	baseDeployment *appsv1.DeploymentSpec,
	baseService *corev1.ServiceSpec,
) map[objref.Ref]GatewayInstance {
	out := make(map[objref.Ref]GatewayInstance)

	var classDeployment v1alpha1.DeploymentSpec
	var classOptions v1alpha1.GatewayOptions
	if classParams != nil {
		classDeployment = classParams.Spec.Deployment
		classOptions = classParams.Spec.Gateway
	}

	for _, gw := range gateways.List() {
		gwRef := gw.Ref()

		var override *v1alpha1.GatewayParameters
		if ref := gatewayParametersRef(gw.Gateway); ref != nil {
			found, ok := gwParams.Get(objref.Ref{Kind: gatewayParametersKind, Group: gatewayParametersGroup, Version: "v1alpha1", Namespace: gw.Namespace, Name: string(ref.Name)})
			if !ok {
				log.Info("Gateway references GatewayParameters that does not exist", "gateway", gwRef, "parameters", ref.Name)
			} else {
				override = found.GatewayParameters
			}
		}

		var gwDeployment v1alpha1.DeploymentSpec
		var gwOptions v1alpha1.GatewayOptions
		var serviceOverride *corev1.ServiceSpec
		if override != nil {
			gwDeployment = override.Spec.Deployment
			gwOptions = override.Spec.Gateway
			serviceOverride = override.Spec.Service
		}

		deploymentFragment := paramsmerge.MergeDeploymentSpec(classDeployment, gwDeployment)
		deploymentFragment.Image = paramsmerge.DefaultedImage(deploymentFragment.Image)
		options := paramsmerge.MergeGatewayOptions(classOptions, gwOptions)

		deployment, err := paramsmerge.ApplyDeploymentSpec(baseDeployment.DeepCopy(), deploymentFragment)
		if err != nil {
			log.Error(err, "failed to merge Deployment spec fragment", "gateway", gwRef)
			deployment = baseDeployment.DeepCopy()
		}

		service, err := paramsmerge.ApplyServiceSpec(baseService.DeepCopy(), serviceOverride)
		if err != nil {
			log.Error(err, "failed to merge Service spec fragment", "gateway", gwRef)
			service = baseService.DeepCopy()
		}

		pullPolicy := deploymentFragment.ImagePullPolicy
		if pullPolicy == "" {
			pullPolicy = corev1.PullIfNotPresent
		}

		out[gwRef] = GatewayInstance{
			GatewayRef:      gwRef,
			Deployment:      deployment,
			Service:         service,
			ImagePullPolicy: pullPolicy,
			Options:         options,
		}
	}

	return out
}

func gatewayParametersRef(gw *gatewayv1.Gateway) *gatewayv1.LocalParametersReference {
	if gw.Spec.Infrastructure == nil {
		return nil
	}
	return gw.Spec.Infrastructure.ParametersRef
}
