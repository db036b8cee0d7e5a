// Package v1alpha1 contains the API Schema definitions for the
// vale-gateway.whitefamily.in v1alpha1 API group: the parameter CRDs a
// GatewayClass/Gateway can reference to customize the Deployment/Service
// this system synthesizes, and the StaticResponseFilter extensionRef
// filter type.
//
// +kubebuilder:object:generate=true
package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// LogLevel is the data-plane/control-plane log verbosity.
// +kubebuilder:validation:Enum=Debug;Info;Warn;Error
type LogLevel string

const (
	LogLevelDebug LogLevel = "Debug"
	LogLevelInfo  LogLevel = "Info"
	LogLevelWarn  LogLevel = "Warn"
	LogLevelError LogLevel = "Error"
)

// ErrorResponsesKind mirrors internal/gatewayconfig.ErrorResponsesKind
// at the API surface.
// +kubebuilder:validation:Enum=Empty;HTML;ProblemDetail
type ErrorResponsesKind string

const (
	ErrorResponsesEmpty         ErrorResponsesKind = "Empty"
	ErrorResponsesHTML          ErrorResponsesKind = "HTML"
	ErrorResponsesProblemDetail ErrorResponsesKind = "ProblemDetail"
)

// ErrorResponses configures the data plane's self-generated error pages.
type ErrorResponses struct {
	Kind         ErrorResponsesKind `json:"kind,omitempty"`
	AuthorityURL string             `json:"authorityUrl,omitempty"`
}

// ClientAddressesKind mirrors internal/gatewayconfig.ClientAddressesKind.
// +kubebuilder:validation:Enum=None;Header;Proxies
type ClientAddressesKind string

const (
	ClientAddressesNone    ClientAddressesKind = "None"
	ClientAddressesHeader  ClientAddressesKind = "Header"
	ClientAddressesProxies ClientAddressesKind = "Proxies"
)

// ClientAddresses configures client-IP extraction.
type ClientAddresses struct {
	Kind           ClientAddressesKind `json:"kind,omitempty"`
	HeaderName     string              `json:"headerName,omitempty"`
	TrustedIPs     []string            `json:"trustedIPs,omitempty"`
	TrustedCIDRs   []string            `json:"trustedCIDRs,omitempty"`
	TrustedHeaders []string            `json:"trustedHeaders,omitempty"`
}

// ImageSpec names the data-plane container image to deploy.
type ImageSpec struct {
	Repository string `json:"repository,omitempty"`
	Tag        string `json:"tag,omitempty"`
}

// DeploymentSpec is the subset of Deployment-shaping fields exposed to
// operators; it is merged into a real appsv1.DeploymentSpec fragment by
// internal/paramsmerge, not round-tripped as one itself, so it can carry
// its own defaulting rules independent of Kubernetes' own zero-value
// semantics.
type DeploymentSpec struct {
	Replicas        *int32             `json:"replicas,omitempty"`
	Strategy        *appsv1DeploymentStrategy `json:"strategy,omitempty"`
	ImagePullPolicy corev1.PullPolicy  `json:"imagePullPolicy,omitempty"`
	Image           ImageSpec          `json:"image,omitempty"`
}

// appsv1DeploymentStrategy avoids importing appsv1 into this lightweight
// package just for one nested type; it is structurally identical to
// appsv1.DeploymentStrategy and converted at the paramsmerge boundary.
type appsv1DeploymentStrategy struct {
	Type          string `json:"type,omitempty"`
	MaxUnavailable string `json:"maxUnavailable,omitempty"`
	MaxSurge       string `json:"maxSurge,omitempty"`
}

// GatewayOptions is the shared gateway-behavior fragment present on
// both GatewayClassParameters (cluster default) and GatewayParameters
// (namespace override).
type GatewayOptions struct {
	LogLevel         LogLevel          `json:"logLevel,omitempty"`
	ErrorResponses   *ErrorResponses   `json:"errorResponses,omitempty"`
	ClientAddresses  *ClientAddresses  `json:"clientAddresses,omitempty"`
}

// GatewayClassParametersSpec is the cluster-scoped default parameter
// set referenced from a GatewayClass.spec.parametersRef.
type GatewayClassParametersSpec struct {
	Deployment DeploymentSpec `json:"deployment,omitempty"`
	Gateway    GatewayOptions `json:"gateway,omitempty"`
}

// GatewayClassParametersStatus mirrors the standard conditions contract.
type GatewayClassParametersStatus struct {
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// GatewayClassParameters is the cluster-scoped parameter CRD, per
// SPEC_FULL.md §6.
//
// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster
// +kubebuilder:subresource:status
type GatewayClassParameters struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   GatewayClassParametersSpec   `json:"spec,omitempty"`
	Status GatewayClassParametersStatus `json:"status,omitempty"`
}

// GatewayClassParametersList is a list of GatewayClassParameters.
//
// +kubebuilder:object:root=true
type GatewayClassParametersList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []GatewayClassParameters `json:"items"`
}

// GatewayParametersSpec is the namespaced override parameter set
// referenced from a Gateway's spec.infrastructure.parametersRef (or an
// equivalent annotation, depending on Gateway API version).
type GatewayParametersSpec struct {
	Deployment DeploymentSpec  `json:"deployment,omitempty"`
	Gateway    GatewayOptions  `json:"gateway,omitempty"`
	Service    *corev1.ServiceSpec `json:"service,omitempty"`
}

// GatewayParametersStatus mirrors the standard conditions contract.
type GatewayParametersStatus struct {
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// GatewayParameters is the namespaced parameter CRD, per
// SPEC_FULL.md §6.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
type GatewayParameters struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   GatewayParametersSpec   `json:"spec,omitempty"`
	Status GatewayParametersStatus `json:"status,omitempty"`
}

// GatewayParametersList is a list of GatewayParameters.
//
// +kubebuilder:object:root=true
type GatewayParametersList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []GatewayParameters `json:"items"`
}

// StaticResponseBodyFormat tags how StaticResponseSpec.Body.Text or
// .Binary should be interpreted.
// +kubebuilder:validation:Enum=Text;Binary
type StaticResponseBodyFormat string

const (
	StaticResponseBodyText   StaticResponseBodyFormat = "Text"
	StaticResponseBodyBinary StaticResponseBodyFormat = "Binary"
)

// StaticResponseBody is the literal response body of a
// StaticResponseFilter, in one of two wire encodings.
type StaticResponseBody struct {
	Format      StaticResponseBodyFormat `json:"format"`
	ContentType string                   `json:"contentType,omitempty"`
	Text        string                   `json:"text,omitempty"`
	// Binary is base64-encoded; json.Marshal/Unmarshal of []byte already
	// does this, so the field carries the decoded bytes in Go.
	Binary []byte `json:"binary,omitempty"`
}

// StaticResponseFilterSpec is the body of a StaticResponseFilter,
// referenced from an HTTPRoute rule's filter.extensionRef.
type StaticResponseFilterSpec struct {
	StatusCode uint16               `json:"statusCode"`
	Body       *StaticResponseBody  `json:"body,omitempty"`
}

// StaticResponseFilterStatus reports the Accepted/Ready/Attached
// conditions of SPEC_FULL.md §4.G.
type StaticResponseFilterStatus struct {
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// StaticResponseFilter is the namespaced extensionRef filter CRD, per
// SPEC_FULL.md §6.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
type StaticResponseFilter struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   StaticResponseFilterSpec   `json:"spec,omitempty"`
	Status StaticResponseFilterStatus `json:"status,omitempty"`
}

// StaticResponseFilterList is a list of StaticResponseFilter.
//
// +kubebuilder:object:root=true
type StaticResponseFilterList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []StaticResponseFilter `json:"items"`
}
