package normalize

import "fmt"

// Error reports a successful backend response that lacks a field the client
// cannot do without.
type Error struct {
	Endpoint string
	Field    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s response: missing %s", e.Endpoint, e.Field)
}
