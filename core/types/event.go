package types

// Event represents a typed event emitted by the boost ledger during state
// transitions.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
