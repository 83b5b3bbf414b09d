package gate

import "strings"

// accessBits assigns one bit of the access value to each named action.
var accessBits = map[Action]uint{
	ActionView:   1 << 0,
	ActionCreate: 1 << 1,
	ActionUpdate: 1 << 2,
	ActionDelete: 1 << 3,
}

// BuildAccess ORs the bits of the given actions into an access value.
// Unknown actions contribute nothing.
func BuildAccess(actions ...Action) uint {
	var value uint
	for _, a := range actions {
		value |= accessBits[a]
	}
	return value
}

// AccessManager evaluates the access value stored on a single profile binding.
// Bits that do not belong to a named action are kept in Value but never match.
type AccessManager struct {
	value uint
}

// NewAccessManager wraps an access value.
func NewAccessManager(value uint) AccessManager {
	return AccessManager{value: value}
}

// Can reports whether the bit of action is set.
func (m AccessManager) Can(action Action) bool {
	bit, ok := accessBits[action]
	if !ok {
		return false
	}
	return m.value&bit != 0
}

// Value returns the raw access value.
func (m AccessManager) Value() uint { return m.value }

// Actions returns the granted named actions in bit order.
func (m AccessManager) Actions() []Action {
	granted := make([]Action, 0, len(Actions))
	for _, a := range Actions {
		if m.Can(a) {
			granted = append(granted, a)
		}
	}
	return granted
}

func (m AccessManager) String() string {
	granted := m.Actions()
	if len(granted) == 0 {
		return "none"
	}
	parts := make([]string, len(granted))
	for i, a := range granted {
		parts[i] = string(a)
	}
	return strings.Join(parts, "|")
}
