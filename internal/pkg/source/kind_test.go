package source

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPressKindFromString(t *testing.T) {
	for i, tc := range []struct {
		input    string
		expected PressKind
		err      bool
	}{
		{input: "grasp", expected: PressGrasp},
		{input: "Menu", expected: PressMenu},
		{input: "", expected: PressNone},
		{input: "trigger", expected: PressNone, err: true},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			p, err := PressKindFromString(tc.input)
			assert.Equal(t, tc.expected, p)
			assert.Equal(t, tc.err, err != nil)
		})
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindOther, KindHand, KindController, KindVoice} {
		parsed, err := KindFromString(k.String())
		assert.Equal(t, nil, err)
		assert.Equal(t, k, parsed)
	}
	for _, h := range []Handedness{HandednessUnknown, HandednessLeft, HandednessRight} {
		parsed, err := HandednessFromString(h.String())
		assert.Equal(t, nil, err)
		assert.Equal(t, h, parsed)
	}
}

func TestCapabilityFlagString(t *testing.T) {
	assert.Equal(t, "None", CapabilityFlag(0).String())
	assert.Equal(t, "Thumbstick|Grasp", (Grasp | Thumbstick).String())
	assert.Equal(t, []CapabilityFlag{PointerPosition, Menu}, (Menu | PointerPosition).List())
}
