package gatewayconfig

import "fmt"

// Validate checks the cross-field invariants of SPEC_FULL.md §3.3:
// rule uniqueId values are unique, every ref-kind filter resolves
// against the filter-definition table, and rules don't declare both
// URLRewrite and RequestRedirect (SPEC_FULL.md §9: "reject at
// synthesis").
func (c *GatewayConfiguration) Validate() error {
	seen := make(map[string]struct{})
	for _, rwr := range c.AllRules() {
		if rwr.Rule.UniqueID == "" {
			continue // rules with a missing UID are skipped at synthesis, not validated here
		}
		if _, dup := seen[rwr.Rule.UniqueID]; dup {
			return fmt.Errorf("gatewayconfig: duplicate rule uniqueId %q", rwr.Rule.UniqueID)
		}
		seen[rwr.Rule.UniqueID] = struct{}{}

		hasRedirect, hasRewrite := false, false
		for _, f := range rwr.Rule.Filters {
			switch f.Kind {
			case FilterRequestRedirect:
				hasRedirect = true
			case FilterURLRewrite:
				hasRewrite = true
			case FilterStaticResponseRef:
				if _, ok := c.FilterDefinitions.StaticResponses[f.RefKey]; !ok {
					return fmt.Errorf("gatewayconfig: rule %s references undefined static response %q", rwr.Rule.UniqueID, f.RefKey)
				}
			case FilterAccessControlRef:
				if _, ok := c.FilterDefinitions.AccessControls[f.RefKey]; !ok {
					return fmt.Errorf("gatewayconfig: rule %s references undefined access control %q", rwr.Rule.UniqueID, f.RefKey)
				}
			case FilterClientAddressesRef:
				if _, ok := c.FilterDefinitions.ClientAddresses[f.RefKey]; !ok {
					return fmt.Errorf("gatewayconfig: rule %s references undefined client addresses %q", rwr.Rule.UniqueID, f.RefKey)
				}
			}
		}
		if hasRedirect && hasRewrite {
			return fmt.Errorf("gatewayconfig: rule %s declares both RequestRedirect and URLRewrite", rwr.Rule.UniqueID)
		}

		for _, backend := range rwr.Rule.Backends {
			for _, ep := range backend.Endpoints {
				if _, ok := ParseIP(ep.IP); !ok {
					return fmt.Errorf("gatewayconfig: rule %s backend %s has unparseable endpoint %q", rwr.Rule.UniqueID, backend.Name, ep.IP)
				}
			}
		}
	}
	return nil
}
