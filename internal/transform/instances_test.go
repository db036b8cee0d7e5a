package transform

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/registry"
)

func int32p(i int32) *int32 { return &i }

func TestCollectGatewayInstances_UsesClassDefaultsWhenNoGatewayParameters(t *testing.T) {
	gw := &gatewayv1.Gateway{ObjectMeta: metav1.ObjectMeta{Name: "gw1", Namespace: "ns1"}}
	gateways := registry.New[k8sobj.Gateway]()
	gateways.Insert(k8sobj.Gateway{Gateway: gw})

	classParams := &v1alpha1.GatewayClassParameters{
		Spec: v1alpha1.GatewayClassParametersSpec{
			Deployment: v1alpha1.DeploymentSpec{Replicas: int32p(3)},
		},
	}
	gwParams := registry.New[k8sobj.GatewayParameters]()

	base := &appsv1.DeploymentSpec{Replicas: int32p(1)}
	baseSvc := &corev1.ServiceSpec{}

	out := CollectGatewayInstances(logr.Discard(), gateways, classParams, gwParams, base, baseSvc)
	require.Contains(t, out, gateways.List()[0].Ref())
	instance := out[gateways.List()[0].Ref()]
	require.NotNil(t, instance.Deployment.Replicas)
	assert.Equal(t, int32(3), *instance.Deployment.Replicas)
	assert.Equal(t, corev1.PullIfNotPresent, instance.ImagePullPolicy)
}

func TestCollectGatewayInstances_GatewayOverridesWinOverClass(t *testing.T) {
	gw := &gatewayv1.Gateway{
		ObjectMeta: metav1.ObjectMeta{Name: "gw1", Namespace: "ns1"},
		Spec: gatewayv1.GatewaySpec{
			Infrastructure: &gatewayv1.GatewayInfrastructure{
				ParametersRef: &gatewayv1.LocalParametersReference{Name: "override"},
			},
		},
	}
	gateways := registry.New[k8sobj.Gateway]()
	gateways.Insert(k8sobj.Gateway{Gateway: gw})

	classParams := &v1alpha1.GatewayClassParameters{
		Spec: v1alpha1.GatewayClassParametersSpec{Deployment: v1alpha1.DeploymentSpec{Replicas: int32p(3)}},
	}

	gwParams := registry.New[k8sobj.GatewayParameters]()
	override := &v1alpha1.GatewayParameters{
		ObjectMeta: metav1.ObjectMeta{Name: "override", Namespace: "ns1"},
		Spec:       v1alpha1.GatewayParametersSpec{Deployment: v1alpha1.DeploymentSpec{Replicas: int32p(7)}},
	}
	gwParams.Insert(k8sobj.GatewayParameters{GatewayParameters: override})

	base := &appsv1.DeploymentSpec{Replicas: int32p(1)}
	baseSvc := &corev1.ServiceSpec{}

	out := CollectGatewayInstances(logr.Discard(), gateways, classParams, gwParams, base, baseSvc)
	instance := out[gateways.List()[0].Ref()]
	require.NotNil(t, instance.Deployment.Replicas)
	assert.Equal(t, int32(7), *instance.Deployment.Replicas)
}

func TestCollectGatewayInstances_MissingGatewayParametersFallsBackToClass(t *testing.T) {
	gw := &gatewayv1.Gateway{
		ObjectMeta: metav1.ObjectMeta{Name: "gw1", Namespace: "ns1"},
		Spec: gatewayv1.GatewaySpec{
			Infrastructure: &gatewayv1.GatewayInfrastructure{
				ParametersRef: &gatewayv1.LocalParametersReference{Name: "missing"},
			},
		},
	}
	gateways := registry.New[k8sobj.Gateway]()
	gateways.Insert(k8sobj.Gateway{Gateway: gw})

	classParams := &v1alpha1.GatewayClassParameters{
		Spec: v1alpha1.GatewayClassParametersSpec{Deployment: v1alpha1.DeploymentSpec{Replicas: int32p(3)}},
	}
	gwParams := registry.New[k8sobj.GatewayParameters]()

	base := &appsv1.DeploymentSpec{Replicas: int32p(1)}
	baseSvc := &corev1.ServiceSpec{}

	out := CollectGatewayInstances(logr.Discard(), gateways, classParams, gwParams, base, baseSvc)
	instance := out[gateways.List()[0].Ref()]
	require.NotNil(t, instance.Deployment.Replicas)
	assert.Equal(t, int32(3), *instance.Deployment.Replicas)
}
