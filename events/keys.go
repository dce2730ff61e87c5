// events/keys.go
package events

// Routing keys / envelope keys for the hub event bus.
// Every envelope on the bus is {key, event} JSON.

type CustomerEventKey struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id,omitempty"`
}

type OrganizationEventKey struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

type SolanaNftEventKey struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`
}

type PolygonNftEventKey struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`
}

// TreasuryEventKey is the outbound key. It is always a projection of the
// inbound key down to {id, user_id, project_id} so downstream state machines
// can correlate replies to their own requests.
type TreasuryEventKey struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`
}
