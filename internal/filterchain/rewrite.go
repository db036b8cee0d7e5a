package filterchain

import (
	"regexp"
	"strings"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

var multiSlash = regexp.MustCompile(`/{2,}`)

// rewritePath applies pr to the request's original path, returning the
// unchanged path for PathRewriteNone. ReplacePrefixMatch splices the
// rewrite value in place of matchedPrefix -- the prefix the router
// actually matched, not pr's own notion of a prefix -- per
// SPEC_FULL.md §4.I, and the two halves are joined without ever
// producing a doubled slash.
func rewritePath(original string, pr gatewayconfig.PathRewrite, matchedPrefix *string) string {
	switch pr.Kind {
	case gatewayconfig.PathRewriteFullPath:
		return pr.Value
	case gatewayconfig.PathRewritePrefixMatch:
		prefix := ""
		if matchedPrefix != nil {
			prefix = *matchedPrefix
		}
		rest := strings.TrimPrefix(original, prefix)
		joined := pr.Value + rest
		return collapseSlashes(joined)
	default:
		return original
	}
}

func collapseSlashes(path string) string {
	collapsed := multiSlash.ReplaceAllString(path, "/")
	if !strings.HasPrefix(collapsed, "/") {
		collapsed = "/" + collapsed
	}
	return collapsed
}
