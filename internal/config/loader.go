// Package config is the data plane's local view of its
// ConfigMap-mounted GatewayConfiguration file: load it once at
// startup, then watch it for changes and push each successfully
// parsed reload to subscribers. Grounded on
// ChrisforCrystal-mas-apigateway/control-plane/pkg/config/watcher.go's
// Watcher, generalized from its single global config.yaml to this
// module's per-gateway GatewayConfiguration document.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

// Load reads and parses the GatewayConfiguration document at path.
func Load(path string) (gatewayconfig.GatewayConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gatewayconfig.GatewayConfiguration{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg gatewayconfig.GatewayConfiguration
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return gatewayconfig.GatewayConfiguration{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
