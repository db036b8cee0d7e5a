// Package router implements the compiled HTTP route matcher of
// SPEC_FULL.md §4.H: given a configuration, build a flat scored rule
// list; given a request, pick the best match with Gateway API
// precedence.
package router

import (
	"strings"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

// score is the lexicographic tuple of SPEC_FULL.md §4.H, minimized:
// lower is a better (more specific) match. Every field is a rank, not
// a count that happens to sort correctly, except prefixLength,
// headerCountNeg and queryCountNeg, which hold negated lengths/counts
// so "more specified" sorts lower.
type score struct {
	hostSpecificity  int // 0=exact, 1=suffix, 2=absent
	pathSpecificity  int // 0=exact, 1=prefix, 2=regex
	prefixLength     int // for prefix matches, negated length (longer wins, i.e. sorts lower)
	methodAbsent     int // 0=method specified, 1=absent (presence outranks absence)
	headerCountNeg   int // -count: more header matches sorts lower
	queryCountNeg    int // -count: more query matches sorts lower
	createdAt        int64
}

// less reports whether a scores strictly better (more specific) than
// b. Ties fall through field by field in the order SPEC_FULL.md §4.H
// lists them, with creation timestamp as the final tiebreaker.
func (a score) less(b score) bool {
	if a.hostSpecificity != b.hostSpecificity {
		return a.hostSpecificity < b.hostSpecificity
	}
	if a.pathSpecificity != b.pathSpecificity {
		return a.pathSpecificity < b.pathSpecificity
	}
	if a.prefixLength != b.prefixLength {
		return a.prefixLength < b.prefixLength
	}
	if a.methodAbsent != b.methodAbsent {
		return a.methodAbsent < b.methodAbsent
	}
	if a.headerCountNeg != b.headerCountNeg {
		return a.headerCountNeg < b.headerCountNeg
	}
	if a.queryCountNeg != b.queryCountNeg {
		return a.queryCountNeg < b.queryCountNeg
	}
	return a.createdAt < b.createdAt
}

func hostSpecificity(hm gatewayconfig.HostMatch) int {
	switch hm.Kind {
	case gatewayconfig.HostMatchExact:
		return 0
	case gatewayconfig.HostMatchSuffix:
		return 1
	default:
		return 2
	}
}

func pathSpecificity(pm gatewayconfig.PathMatch) (specificity int, negPrefixLen int) {
	switch pm.Kind {
	case gatewayconfig.PathMatchExact:
		return 0, 0
	case gatewayconfig.PathMatchPrefix:
		return 1, -len(pm.Value)
	default:
		return 2, 0
	}
}

func scoreFor(hostMatch gatewayconfig.HostMatch, m gatewayconfig.Match, createdAt int64) score {
	pathSpec, negLen := pathSpecificity(m.Path)
	methodAbsent := 1
	if m.Method != "" {
		methodAbsent = 0
	}
	return score{
		hostSpecificity: hostSpecificity(hostMatch),
		pathSpecificity: pathSpec,
		prefixLength:    negLen,
		methodAbsent:    methodAbsent,
		headerCountNeg:  -len(m.Headers),
		queryCountNeg:   -len(m.QueryParams),
		createdAt:       createdAt,
	}
}

// hostMatches reports whether requestHost matches hm, per SPEC_FULL.md
// §4.H: case-insensitive (both sides are case-folded here, so the
// caller need not lowercase requestHost), suffix matchers compare
// with a stored leading dot so "evil-example.com" cannot match the
// wildcard for "example.com".
func hostMatches(hm gatewayconfig.HostMatch, requestHost string) bool {
	switch hm.Kind {
	case gatewayconfig.HostMatchAny, "":
		return true
	case gatewayconfig.HostMatchExact:
		return strings.EqualFold(hm.Value, requestHost)
	case gatewayconfig.HostMatchSuffix:
		return strings.HasSuffix(strings.ToLower(requestHost), strings.ToLower(hm.Value))
	default:
		return false
	}
}
