package filterchain

import "github.com/whitefamily/vale-gateway/internal/gatewayconfig"

// applyHeaderModifier mutates h in place following the remove -> set ->
// add order SPEC_FULL.md §4.I requires, so a filter that both removes
// and re-sets the same header name behaves predictably.
func applyHeaderModifier(h headerWriter, mod *gatewayconfig.HeaderModifier) {
	if mod == nil {
		return
	}
	for _, name := range mod.Remove {
		h.Del(name)
	}
	for _, kv := range mod.Set {
		h.Set(kv.Name, kv.Value)
	}
	for _, kv := range mod.Add {
		h.Add(kv.Name, kv.Value)
	}
}

// headerWriter is satisfied by http.Header; named so tests can supply a
// fake without importing net/http.
type headerWriter interface {
	Del(string)
	Set(string, string)
	Add(string, string)
}
