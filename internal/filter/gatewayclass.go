// Package filter implements the pure, registry-to-registry narrowing
// functions of SPEC_FULL.md §4.E: no I/O, no mutation, just "which of
// these objects does this control plane actually care about."
package filter

import (
	"github.com/go-logr/logr"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/objref"
	"github.com/whitefamily/vale-gateway/internal/registry"
)

// ControllerName is this system's Gateway API controller identifier,
// the value filterGatewayClass matches against
// GatewayClass.spec.controllerName.
const ControllerName = "vale-gateway.whitefamily.in/controller"

// parametersGroup/parametersKind are the group+kind a
// GatewayClass.spec.parametersRef must name for it to resolve to this
// module's own GatewayClassParameters CRD.
const (
	parametersGroup = "vale-gateway.whitefamily.in"
	parametersKind  = "GatewayClassParameters"
)

// SelectGatewayClass implements filterGatewayClass: exactly one
// GatewayClass in the registry may carry this system's controllerName.
// Zero or more than one match is logged and reported as "no selection",
// which is by design meant to stall every downstream task -- there is
// nothing coherent to synthesize without exactly one GatewayClass.
func SelectGatewayClass(log logr.Logger, classes *registry.Registry[k8sobj.GatewayClass]) (*gatewayv1.GatewayClass, bool) {
	var matches []*gatewayv1.GatewayClass
	for _, c := range classes.List() {
		if string(c.Spec.ControllerName) == ControllerName {
			matches = append(matches, c.GatewayClass)
		}
	}

	switch len(matches) {
	case 0:
		log.Info("no GatewayClass claims this controller, stalling", "controllerName", ControllerName)
		return nil, false
	case 1:
		return matches[0], true
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.Name)
		}
		log.Info("multiple GatewayClasses claim this controller, stalling", "controllerName", ControllerName, "candidates", names)
		return nil, false
	}
}

// ParametersState tags the outcome of resolving a GatewayClass's
// parametersRef.
type ParametersState int

const (
	NoRef ParametersState = iota
	InvalidRef
	NotFound
	Linked
)

func (s ParametersState) String() string {
	switch s {
	case NoRef:
		return "NoRef"
	case InvalidRef:
		return "InvalidRef"
	case NotFound:
		return "NotFound"
	case Linked:
		return "Linked"
	default:
		return "Unknown"
	}
}

// GatewayClassParametersResult is the tagged value filterGatewayClassParameters
// produces.
type GatewayClassParametersResult struct {
	State      ParametersState
	Parameters *v1alpha1.GatewayClassParameters
}

// ResolveGatewayClassParameters implements filterGatewayClassParameters.
func ResolveGatewayClassParameters(class *gatewayv1.GatewayClass, params *registry.Registry[k8sobj.GatewayClassParameters]) GatewayClassParametersResult {
	ref := class.Spec.ParametersRef
	if ref == nil {
		return GatewayClassParametersResult{State: NoRef}
	}
	if string(ref.Group) != parametersGroup || string(ref.Kind) != parametersKind {
		return GatewayClassParametersResult{State: InvalidRef}
	}

	found, ok := params.Get(objref.Ref{Kind: parametersKind, Group: parametersGroup, Version: "v1alpha1", Name: string(ref.Name)})
	if !ok {
		return GatewayClassParametersResult{State: NotFound}
	}
	return GatewayClassParametersResult{State: Linked, Parameters: found.GatewayClassParameters}
}
