package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diewo77/go-profiles/gate"
)

// parseGrants turns flags like "admin.address=view,create" into an access map.
// A code without actions ("admin.order=") is bound with no access.
func parseGrants(values []string) (map[string][]gate.Action, error) {
	access := make(map[string][]gate.Action, len(values))
	for _, raw := range values {
		code, list, ok := strings.Cut(raw, "=")
		code = strings.TrimSpace(code)
		if !ok || code == "" {
			return nil, fmt.Errorf("invalid grant %q: expected code=action[,action]", raw)
		}
		var names []string
		if strings.TrimSpace(list) != "" {
			names = strings.Split(list, ",")
		}
		actions, bad, ok := gate.ParseActions(names)
		if !ok {
			return nil, fmt.Errorf("invalid grant %q: unknown action %q", raw, bad)
		}
		access[code] = append(access[code], actions...)
	}
	return access, nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
