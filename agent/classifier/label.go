package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

type modelLabel struct {
	Route string `json:"route"`
}

// parseLabel accepts either a bare label or a {"route": "..."} object.
func parseLabel(raw string) (contractx.Route, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.Trim(text, "`\n ")

	if strings.HasPrefix(text, "{") {
		var out modelLabel
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return "", fmt.Errorf("%w: decode route label: %v", contractx.ErrSchemaViolation, err)
		}
		text = out.Route
	}
	return validateLabel(text)
}

func validateLabel(label string) (contractx.Route, error) {
	route := contractx.Route(strings.ToLower(strings.Trim(strings.TrimSpace(label), `"'.`)))
	if !route.Valid() {
		return "", fmt.Errorf("%w: unsupported route=%q", contractx.ErrSchemaViolation, label)
	}
	return route, nil
}
