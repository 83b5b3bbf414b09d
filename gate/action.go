package gate

import "strings"

// Action describes the kind of operation a profile may perform on a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists the named actions in bit order.
var Actions = []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete}

// ParseAction maps user input ("VIEW", " create ") to a named action.
func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := accessBits[a]; ok {
		return a, true
	}
	return "", false
}

// ParseActions parses a list of actions, reporting the first unknown entry.
func ParseActions(values []string) ([]Action, string, bool) {
	actions := make([]Action, 0, len(values))
	for _, v := range values {
		a, ok := ParseAction(v)
		if !ok {
			return nil, v, false
		}
		actions = append(actions, a)
	}
	return actions, "", true
}
