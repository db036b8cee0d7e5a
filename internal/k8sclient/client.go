// Package k8sclient builds the three client handles every binary in
// this module needs against a live cluster: the core `kubernetes.Interface`,
// the upstream Gateway API `gatewayclientset.Interface`, and a
// controller-runtime `crclient.WithWatch` for this module's own
// un-generated CRDs. Grounded on
// consul-k8s/control-plane/subcommand/fetch-server-region/command.go's
// in-cluster-config-with-kubeconfig-fallback pattern, generalized from
// one clientset to the three this module's components share.
package k8sclient

import (
	"fmt"

	k8sruntime "k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/kubernetes"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	crclient "sigs.k8s.io/controller-runtime/pkg/client"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	gatewayclientset "sigs.k8s.io/gateway-api/pkg/client/clientset/versioned"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
)

// Clients bundles every client handle a binary in this module needs.
type Clients struct {
	Config        *rest.Config
	K8sClient     kubernetes.Interface
	GatewayClient gatewayclientset.Interface
	CRClient      crclient.WithWatch
}

// Scheme registers every API group this module's controller-runtime
// client touches: built-in kinds, upstream Gateway API kinds, and this
// module's own CRDs.
func Scheme() *k8sruntime.Scheme {
	s := k8sruntime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(s))
	utilruntime.Must(gatewayv1.AddToScheme(s))
	utilruntime.Must(v1alpha1.AddToScheme(s))
	return s
}

// Load resolves a *rest.Config the way every teacher command does:
// in-cluster first, falling back to kubeconfigPath (or the
// recommended default file if empty) for local development, then
// builds all three client handles from it.
func Load(kubeconfigPath string) (*Clients, error) {
	cfg, err := loadConfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}

	k8sClient, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("k8sclient: building core clientset: %w", err)
	}

	gwClient, err := gatewayclientset.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("k8sclient: building gateway-api clientset: %w", err)
	}

	crClient, err := crclient.NewWithWatch(cfg, crclient.Options{Scheme: Scheme()})
	if err != nil {
		return nil, fmt.Errorf("k8sclient: building controller-runtime client: %w", err)
	}

	return &Clients{
		Config:        cfg,
		K8sClient:     k8sClient,
		GatewayClient: gwClient,
		CRClient:      crClient,
	}, nil
}

func loadConfig(kubeconfigPath string) (*rest.Config, error) {
	if cfg, err := rest.InClusterConfig(); err == nil {
		return cfg, nil
	}

	path := kubeconfigPath
	if path == "" {
		path = clientcmd.RecommendedHomeFile
	}
	cfg, err := clientcmd.BuildConfigFromFlags("", path)
	if err != nil {
		return nil, fmt.Errorf("k8sclient: loading kubeconfig %s: %w", path, err)
	}
	return cfg, nil
}
