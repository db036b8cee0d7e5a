// Package paramsmerge implements the two distinct merge semantics
// SPEC_FULL.md §4.F/§9 call for when combining GatewayClassParameters
// (cluster default) with GatewayParameters (namespace override):
// plain field-precedence for this module's own lightweight option
// types, and Kubernetes strategic-merge-patch semantics when the
// override carries a real Deployment/Service spec fragment.
package paramsmerge

import (
	"encoding/json"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/strategicpatch"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
)

// DefaultImageRepository/DefaultImageTag back SPEC_FULL.md §4.F's
// "defaults vale-gateway:latest" when neither parameter object names
// an image.
const (
	DefaultImageRepository = "vale-gateway"
	DefaultImageTag        = "latest"
)

// MergeGatewayOptions applies gateway-overrides-class precedence to the
// GatewayOptions fragment: any field the GatewayParameters object sets
// wins, otherwise the GatewayClassParameters value carries through.
func MergeGatewayOptions(class, gw v1alpha1.GatewayOptions) v1alpha1.GatewayOptions {
	out := class
	if gw.LogLevel != "" {
		out.LogLevel = gw.LogLevel
	}
	if gw.ErrorResponses != nil {
		out.ErrorResponses = gw.ErrorResponses
	}
	if gw.ClientAddresses != nil {
		out.ClientAddresses = gw.ClientAddresses
	}
	return out
}

// MergeDeploymentSpec applies gateway-overrides-class precedence,
// field by field, to the lightweight DeploymentSpec fragment (not the
// real appsv1.DeploymentSpec -- that merge happens in ApplyDeploymentSpec
// below, once this function has decided the effective fragment).
func MergeDeploymentSpec(class, gw v1alpha1.DeploymentSpec) v1alpha1.DeploymentSpec {
	out := class
	if gw.Replicas != nil {
		out.Replicas = gw.Replicas
	}
	if gw.Strategy != nil {
		out.Strategy = gw.Strategy
	}
	if gw.ImagePullPolicy != "" {
		out.ImagePullPolicy = gw.ImagePullPolicy
	}
	if gw.Image.Repository != "" {
		out.Image.Repository = gw.Image.Repository
	}
	if gw.Image.Tag != "" {
		out.Image.Tag = gw.Image.Tag
	}
	return out
}

// DefaultedImage fills in the repository/tag SPEC_FULL.md §4.F names as
// the fallback image when the merged DeploymentSpec fragment leaves
// either blank.
func DefaultedImage(spec v1alpha1.ImageSpec) v1alpha1.ImageSpec {
	if spec.Repository == "" {
		spec.Repository = DefaultImageRepository
	}
	if spec.Tag == "" {
		spec.Tag = DefaultImageTag
	}
	return spec
}

// ApplyDeploymentSpec strategic-merges the top-level fields of an
// effective DeploymentSpec fragment (replicas, rollout strategy) onto a
// base appsv1.DeploymentSpec, the identical PATCH semantics
// internal/objectwriter applies against the live cluster object.
func ApplyDeploymentSpec(base *appsv1.DeploymentSpec, fragment v1alpha1.DeploymentSpec) (*appsv1.DeploymentSpec, error) {
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}

	patch := map[string]interface{}{}
	if fragment.Replicas != nil {
		patch["replicas"] = *fragment.Replicas
	}
	if fragment.Strategy != nil {
		strategy := map[string]interface{}{}
		if fragment.Strategy.Type != "" {
			strategy["type"] = fragment.Strategy.Type
		}
		if fragment.Strategy.Type == string(appsv1.RollingUpdateDeploymentStrategyType) {
			rolling := map[string]interface{}{}
			if fragment.Strategy.MaxUnavailable != "" {
				rolling["maxUnavailable"] = fragment.Strategy.MaxUnavailable
			}
			if fragment.Strategy.MaxSurge != "" {
				rolling["maxSurge"] = fragment.Strategy.MaxSurge
			}
			if len(rolling) > 0 {
				strategy["rollingUpdate"] = rolling
			}
		}
		patch["strategy"] = strategy
	}

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}

	merged, err := strategicpatch.StrategicMergePatch(baseJSON, patchJSON, &appsv1.DeploymentSpec{})
	if err != nil {
		return nil, err
	}

	var out appsv1.DeploymentSpec
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplyServiceSpec strategic-merges an operator-declared ServiceSpec
// override (already a real corev1.ServiceSpec, unlike the Deployment
// fragment) onto the base Service spec this module generates.
func ApplyServiceSpec(base *corev1.ServiceSpec, override *corev1.ServiceSpec) (*corev1.ServiceSpec, error) {
	if override == nil {
		return base, nil
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	patchJSON, err := json.Marshal(override)
	if err != nil {
		return nil, err
	}

	merged, err := strategicpatch.StrategicMergePatch(baseJSON, patchJSON, &corev1.ServiceSpec{})
	if err != nil {
		return nil, err
	}

	var out corev1.ServiceSpec
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
