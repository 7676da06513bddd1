package source

import "fmt"

// ID identifies a connected source for as long as the connection lasts.
type ID uint32

type Kind int

const (
	KindOther Kind = iota
	KindHand
	KindController
	KindVoice
)

func (k Kind) String() string {
	switch k {
	case KindHand:
		return "Hand"
	case KindController:
		return "Controller"
	case KindVoice:
		return "Voice"
	default:
		return "Other"
	}
}

// KindFromString is the inverse of Kind.String, lowercase names are accepted as well
func KindFromString(s string) (Kind, error) {
	switch s {
	case "Hand", "hand":
		return KindHand, nil
	case "Controller", "controller":
		return KindController, nil
	case "Voice", "voice":
		return KindVoice, nil
	case "Other", "other", "":
		return KindOther, nil
	}
	return KindOther, fmt.Errorf("unknown source kind: \"%s\"", s)
}

type Handedness int

const (
	HandednessUnknown Handedness = iota
	HandednessLeft
	HandednessRight
)

func (h Handedness) String() string {
	switch h {
	case HandednessLeft:
		return "Left"
	case HandednessRight:
		return "Right"
	default:
		return "Unknown"
	}
}

func HandednessFromString(s string) (Handedness, error) {
	switch s {
	case "Left", "left":
		return HandednessLeft, nil
	case "Right", "right":
		return HandednessRight, nil
	case "Unknown", "unknown", "":
		return HandednessUnknown, nil
	}
	return HandednessUnknown, fmt.Errorf("unknown handedness: \"%s\"", s)
}

// PressKind tells which physical control caused a down/up or position notification
type PressKind int

const (
	PressNone PressKind = iota
	PressSelect
	PressMenu
	PressGrasp
	PressTouchpad
	PressThumbstick
)

func (p PressKind) String() string {
	switch p {
	case PressSelect:
		return "Select"
	case PressMenu:
		return "Menu"
	case PressGrasp:
		return "Grasp"
	case PressTouchpad:
		return "Touchpad"
	case PressThumbstick:
		return "Thumbstick"
	default:
		return "None"
	}
}

func PressKindFromString(s string) (PressKind, error) {
	switch s {
	case "select", "Select":
		return PressSelect, nil
	case "menu", "Menu":
		return PressMenu, nil
	case "grasp", "Grasp":
		return PressGrasp, nil
	case "touchpad", "Touchpad":
		return PressTouchpad, nil
	case "thumbstick", "Thumbstick":
		return PressThumbstick, nil
	case "none", "None", "":
		return PressNone, nil
	}
	return PressNone, fmt.Errorf("unknown press kind: \"%s\"", s)
}
