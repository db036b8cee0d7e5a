package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_DefaultFallsBackOnEmptyString(t *testing.T) {
	out, err := Render("t", `{{ .Value | default "fallback" }}`, map[string]string{"Value": ""})
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)
}

func TestRender_DefaultKeepsNonEmptyValue(t *testing.T) {
	out, err := Render("t", `{{ .Value | default "fallback" }}`, map[string]string{"Value": "set"})
	require.NoError(t, err)
	assert.Equal(t, "set", out)
}

func TestRender_IndentPrefixesEveryLine(t *testing.T) {
	out, err := Render("t", `{{ indent 2 .Value }}`, map[string]string{"Value": "a\nb"})
	require.NoError(t, err)
	assert.Equal(t, "  a\n  b", out)
}

func TestRender_NindentAddsLeadingNewline(t *testing.T) {
	out, err := Render("t", `config: {{ nindent 2 .Value }}`, map[string]string{"Value": "a\nb"})
	require.NoError(t, err)
	assert.Equal(t, "config: \n  a\n  b", out)
}

func TestRender_QuoteEscapesAndWraps(t *testing.T) {
	out, err := Render("t", `{{ quote .Value }}`, map[string]string{"Value": `has "quotes"`})
	require.NoError(t, err)
	assert.Equal(t, `"has \"quotes\""`, out)
}

func TestRender_InvalidTemplateSyntaxReturnsError(t *testing.T) {
	_, err := Render("t", `{{ .Value`, nil)
	assert.Error(t, err)
}

func TestRender_MissingFieldReturnsError(t *testing.T) {
	_, err := Render("t", `{{ .Missing.Deep }}`, map[string]string{})
	assert.Error(t, err)
}
