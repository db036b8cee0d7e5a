package objectwriter

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/whitefamily/vale-gateway/internal/transform"
)

// DeploymentContainerName is the single container every data-plane
// Deployment this system writes carries.
const DeploymentContainerName = "vale-gateway-proxy"

// BuildDeployment assembles the data-plane Deployment for one gateway
// from its merged instance spec, mounting the ConfigMap this system
// also writes. Grounded on the teacher's gatekeeper.deployment
// constructor, generalized from one fixed consul-dataplane container
// to this module's own image/pull-policy/mount set.
func BuildDeployment(namespace, gatewayName string, instance transform.GatewayInstance) *appsv1.Deployment {
	labels := Labels(gatewayName)

	spec := instance.Deployment.DeepCopy()
	spec.Selector = &metav1.LabelSelector{MatchLabels: labels}
	spec.Template.ObjectMeta.Labels = labels

	container := primaryContainer(spec)
	container.Name = DeploymentContainerName
	container.ImagePullPolicy = instance.ImagePullPolicy
	container.VolumeMounts = append(container.VolumeMounts, corev1.VolumeMount{
		Name:      "config",
		MountPath: "/etc/vale-gateway",
		ReadOnly:  true,
	})
	setPrimaryContainer(spec, container)

	spec.Template.Spec.Volumes = append(spec.Template.Spec.Volumes, corev1.Volume{
		Name: "config",
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: ConfigMapName(gatewayName)},
			},
		},
	})

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      gatewayName,
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: *spec,
	}
}

// primaryContainer returns the pod template's first container,
// creating an empty one if the merged fragment didn't carry any --
// the strategic-merge base always ships exactly one.
func primaryContainer(spec *appsv1.DeploymentSpec) corev1.Container {
	if len(spec.Template.Spec.Containers) == 0 {
		return corev1.Container{}
	}
	return spec.Template.Spec.Containers[0]
}

func setPrimaryContainer(spec *appsv1.DeploymentSpec, c corev1.Container) {
	if len(spec.Template.Spec.Containers) == 0 {
		spec.Template.Spec.Containers = []corev1.Container{c}
		return
	}
	spec.Template.Spec.Containers[0] = c
}
