package filterchain

import "github.com/whitefamily/vale-gateway/internal/gatewayconfig"

// StaticResponse is what a StaticResponseRef filter resolves to: a
// literal response the data plane writes without ever contacting an
// upstream.
type StaticResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func resolveStaticResponse(defs gatewayconfig.FilterDefinitions, refKey string) (StaticResponse, bool) {
	def, ok := defs.StaticResponses[refKey]
	if !ok {
		return StaticResponse{}, false
	}
	resp := StaticResponse{StatusCode: def.StatusCode}
	if resp.StatusCode == 0 {
		resp.StatusCode = 200
	}
	if def.Body != nil {
		resp.ContentType = def.Body.ContentType
		resp.Body = def.Body.Bytes
	}
	return resp, true
}
