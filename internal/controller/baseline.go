package controller

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// baselineDeployment is the DeploymentSpec every gateway's merged
// GatewayClassParameters/GatewayParameters fragment strategic-merges
// on top of. It carries just enough to be a valid PodSpec on its own;
// BuildDeployment fills in the container name, image and ConfigMap
// mount afterward.
func baselineDeployment() *appsv1.DeploymentSpec {
	replicas := int32(1)
	return &appsv1.DeploymentSpec{
		Replicas: &replicas,
		Template: corev1.PodTemplateSpec{
			Spec: corev1.PodSpec{
				Containers: []corev1.Container{{}},
			},
		},
	}
}

// baselineService is the ServiceSpec every gateway's merged
// spec.service override strategic-merges on top of. It carries no
// ports of its own, and nothing derives ports from the gateway's
// listeners: the resulting Service has exactly the ports the
// spec.service override supplies.
func baselineService() *corev1.ServiceSpec {
	return &corev1.ServiceSpec{
		Type: corev1.ServiceTypeClusterIP,
	}
}
