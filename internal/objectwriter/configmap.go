package objectwriter

import (
	"fmt"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
	"github.com/whitefamily/vale-gateway/internal/template"
)

// ConfigMapKey is the data key the data plane's file watcher reads,
// per SPEC_FULL.md §4.I ("the authoritative configuration is the
// ConfigMap mount").
const ConfigMapKey = "gateway-config.yaml"

// configMapBody is the small Helm-style wrapper template the rendered
// YAML is embedded into -- the one place internal/template's
// indent/nindent functions actually get exercised, matching how the
// teacher's charts embed a rendered block into a ConfigMap's data.
const configMapBody = `# generated by vale-gateway -- do not edit
{{ .Config | indent 0 }}
`

// ConfigMapName is {gatewayName}-config, per SPEC_FULL.md §4.G.
func ConfigMapName(gatewayName string) string {
	return gatewayName + "-config"
}

// BuildConfigMap renders cfg to YAML and wraps it in the ConfigMap this
// system mounts into the data-plane Deployment.
func BuildConfigMap(namespace, gatewayName string, cfg gatewayconfig.GatewayConfiguration) (*corev1.ConfigMap, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal GatewayConfiguration: %w", err)
	}

	rendered, err := template.Render("configmap", configMapBody, map[string]string{"Config": string(raw)})
	if err != nil {
		return nil, fmt.Errorf("render ConfigMap body: %w", err)
	}

	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ConfigMapName(gatewayName),
			Namespace: namespace,
			Labels:    Labels(gatewayName),
		},
		Data: map[string]string{
			ConfigMapKey: rendered,
		},
	}, nil
}
