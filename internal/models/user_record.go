package models

import "time"

// UserRecord is the cached negotiation state for one phone number. One
// record per phone, owned exclusively by the store; writes are
// last-write-wins per key.
type UserRecord struct {
	Phone       string             `json:"phone" bson:"phone"`
	Document    string             `json:"document" bson:"document"`
	Name        string             `json:"name,omitempty" bson:"name,omitempty"`
	Credores    *CredoresResponse  `json:"credores,omitempty" bson:"credores,omitempty"`
	Dividas     []Divida           `json:"dividas,omitempty" bson:"dividas,omitempty"`
	Simulacao   *SimulacaoResponse `json:"simulacao,omitempty" bson:"simulacao,omitempty"`
	Acordos     []Acordo           `json:"acordos,omitempty" bson:"acordos,omitempty"`
	StatusTag   StatusTag          `json:"status_tag" bson:"status_tag"`
	ErrorDetail string             `json:"error_detail,omitempty" bson:"error_detail,omitempty"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Blocked reports whether automation must stop for this user until an
// operator or a fresh sync overwrites the tag.
func (r *UserRecord) Blocked() bool {
	return r.StatusTag.IsEscalation()
}

// HasAgreement reports whether a prior sync found an active agreement,
// which routes the user to the second-copy flow.
func (r *UserRecord) HasAgreement() bool {
	return len(r.Acordos) > 0
}
