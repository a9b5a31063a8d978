package club

import "time"

// Club is a mutable aggregate. Members carries set semantics: an email
// appears at most once, enforced by the store's conditional append, never
// by overwriting the whole list.
type Club struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	FeeMinorUnits int64     `json:"feeMinorUnits"`
	ManagerEmail  string    `json:"managerEmail,omitempty"`
	Members       []string  `json:"members"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Update captures the mutable scalar fields. Members is deliberately
// absent: the member set is only ever touched through AddMember.
type Update struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	FeeMinorUnits int64  `json:"feeMinorUnits"`
	ManagerEmail  string `json:"managerEmail"`
}
