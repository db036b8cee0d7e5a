package objectwriter

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/whitefamily/vale-gateway/internal/transform"
)

// BuildService assembles the data-plane Service for one gateway,
// selecting the pods BuildDeployment labels. Grounded on the teacher's
// gatekeeper.service constructor, generalized to this module's merged
// ServiceSpec fragment instead of a fixed listener-port derivation.
func BuildService(namespace, gatewayName string, instance transform.GatewayInstance) *corev1.Service {
	labels := Labels(gatewayName)

	spec := instance.Service.DeepCopy()
	spec.Selector = labels

	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      gatewayName,
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: *spec,
	}
}
