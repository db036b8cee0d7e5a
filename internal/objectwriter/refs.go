package objectwriter

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8stypes "k8s.io/apimachinery/pkg/types"
	crclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/whitefamily/vale-gateway/internal/objref"
)

const strategicMergePatchType = k8stypes.StrategicMergePatchType

// Kind name constants matching objref.Ref.Kind for the three object
// kinds this package writes.
const (
	KindConfigMap  = "ConfigMap"
	KindDeployment = "Deployment"
	KindService    = "Service"
)

// RefFor builds the objref.Ref identity for a managed object, keyed
// the same way every other registry in this module keys its objects.
func RefFor(kind, group, version, namespace, name string) objref.Ref {
	return objref.Ref{Kind: kind, Group: group, Version: version, Namespace: namespace, Name: name}
}

// ConfigMapRef/DeploymentRef/ServiceRef are the three refs BuildConfigMap/
// BuildDeployment/BuildService produce, used both to tag desired Upsert
// actions and to recognize observed objects during a diff.
func ConfigMapRef(namespace, gatewayName string) objref.Ref {
	return RefFor(KindConfigMap, "", "v1", namespace, ConfigMapName(gatewayName))
}

func DeploymentRef(namespace, gatewayName string) objref.Ref {
	return RefFor(KindDeployment, "apps", "v1", namespace, gatewayName)
}

func ServiceRef(namespace, gatewayName string) objref.Ref {
	return RefFor(KindService, "", "v1", namespace, gatewayName)
}

// objectForRef returns an empty typed object carrying ref's namespace
// and name, the shape crclient.Client.Delete needs when all the caller
// has is a ref (e.g. an object that disappeared from the desired set).
func objectForRef(ref objref.Ref) (crclient.Object, error) {
	meta := metav1.ObjectMeta{Namespace: ref.Namespace, Name: ref.Name}
	switch ref.Kind {
	case KindConfigMap:
		return &corev1.ConfigMap{ObjectMeta: meta}, nil
	case KindDeployment:
		return &appsv1.Deployment{ObjectMeta: meta}, nil
	case KindService:
		return &corev1.Service{ObjectMeta: meta}, nil
	default:
		return nil, fmt.Errorf("objectwriter: unrecognized managed kind %q", ref.Kind)
	}
}
