package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
)

func TestComputeStaticResponseFilterStatus_ValidSpecIsAccepted(t *testing.T) {
	f := &v1alpha1.StaticResponseFilter{
		ObjectMeta: metav1.ObjectMeta{Generation: 1},
		Spec:       v1alpha1.StaticResponseFilterSpec{StatusCode: 404},
	}

	modified := ComputeStaticResponseFilterStatus(f, 2)

	assert.True(t, modified)
	var accepted, ready, attached *metav1.Condition
	for i := range f.Status.Conditions {
		switch f.Status.Conditions[i].Type {
		case ConditionTypeAccepted:
			accepted = &f.Status.Conditions[i]
		case ConditionTypeReady:
			ready = &f.Status.Conditions[i]
		case ConditionTypeAttached:
			attached = &f.Status.Conditions[i]
		}
	}
	if assert.NotNil(t, accepted) {
		assert.Equal(t, metav1.ConditionTrue, accepted.Status)
	}
	if assert.NotNil(t, ready) {
		assert.Equal(t, metav1.ConditionTrue, ready.Status)
	}
	if assert.NotNil(t, attached) {
		assert.Equal(t, metav1.ConditionTrue, attached.Status)
		assert.Equal(t, "referenced by multiple HTTPRoute rules", attached.Message)
	}
}

func TestComputeStaticResponseFilterStatus_StatusCodeOutOfRangeRejected(t *testing.T) {
	f := &v1alpha1.StaticResponseFilter{Spec: v1alpha1.StaticResponseFilterSpec{StatusCode: 700}}

	ComputeStaticResponseFilterStatus(f, 0)

	for _, c := range f.Status.Conditions {
		if c.Type == ConditionTypeAccepted {
			assert.Equal(t, metav1.ConditionFalse, c.Status)
			assert.Equal(t, "InvalidStatusCode", c.Reason)
		}
	}
}

func TestComputeStaticResponseFilterStatus_TextFormatWithEmptyTextRejected(t *testing.T) {
	f := &v1alpha1.StaticResponseFilter{Spec: v1alpha1.StaticResponseFilterSpec{
		StatusCode: 200,
		Body:       &v1alpha1.StaticResponseBody{Format: v1alpha1.StaticResponseBodyText},
	}}

	ComputeStaticResponseFilterStatus(f, 0)

	for _, c := range f.Status.Conditions {
		if c.Type == ConditionTypeAccepted {
			assert.Equal(t, metav1.ConditionFalse, c.Status)
			assert.Equal(t, "IncoherentBody", c.Reason)
		}
	}
}

func TestComputeStaticResponseFilterStatus_BinaryFormatWithTextBodyRejected(t *testing.T) {
	f := &v1alpha1.StaticResponseFilter{Spec: v1alpha1.StaticResponseFilterSpec{
		StatusCode: 200,
		Body:       &v1alpha1.StaticResponseBody{Format: v1alpha1.StaticResponseBodyBinary, Text: "oops"},
	}}

	ComputeStaticResponseFilterStatus(f, 0)

	for _, c := range f.Status.Conditions {
		if c.Type == ConditionTypeAccepted {
			assert.Equal(t, metav1.ConditionFalse, c.Status)
		}
	}
}

func TestComputeStaticResponseFilterStatus_ZeroAttachmentsSetsAttachedFalse(t *testing.T) {
	f := &v1alpha1.StaticResponseFilter{Spec: v1alpha1.StaticResponseFilterSpec{StatusCode: 200}}

	ComputeStaticResponseFilterStatus(f, 0)

	for _, c := range f.Status.Conditions {
		if c.Type == ConditionTypeAttached {
			assert.Equal(t, metav1.ConditionFalse, c.Status)
			assert.Equal(t, "referenced by no HTTPRoute rule", c.Message)
		}
	}
}

func TestComputeStaticResponseFilterStatus_NoChangeReportsUnmodified(t *testing.T) {
	f := &v1alpha1.StaticResponseFilter{Spec: v1alpha1.StaticResponseFilterSpec{StatusCode: 200}}

	ComputeStaticResponseFilterStatus(f, 1)
	modified := ComputeStaticResponseFilterStatus(f, 1)

	assert.False(t, modified)
}

func TestCountStaticResponseAttachments_TalliesByNamespacedName(t *testing.T) {
	routes := []HTTPRouteFilters{
		{
			Namespace: "team-a",
			RuleFilters: [][]ExtensionRef{
				{{Kind: "StaticResponseFilter", Name: "maintenance"}},
				{{Kind: "StaticResponseFilter", Name: "maintenance"}, {Kind: "RequestHeaderModifier", Name: "ignored"}},
			},
		},
		{
			Namespace:   "team-b",
			RuleFilters: [][]ExtensionRef{{{Kind: "StaticResponseFilter", Name: "maintenance"}}},
		},
	}

	counts := CountStaticResponseAttachments(routes)

	assert.Equal(t, 2, counts["team-a/maintenance"])
	assert.Equal(t, 1, counts["team-b/maintenance"])
	assert.Equal(t, 0, counts["team-a/other"])
}
