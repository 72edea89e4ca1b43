package model

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadClosed    LeadStatus = "closed"
	LeadLost      LeadStatus = "lost"
)

// Valid reports whether s is a known lead status
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadClosed, LeadLost:
		return true
	}
	return false
}

// Lead is a prospective client captured from a campaign or a form
type Lead struct {
	ID               string     `json:"id" bson:"_id"`
	OwnerID          string     `json:"ownerId" bson:"ownerId"`
	Name             string     `json:"name" bson:"name"`
	Email            string     `json:"email" bson:"email"`
	Phone            string     `json:"phone" bson:"phone"`
	Source           string     `json:"source" bson:"source"` // "facebook", "instagram", "website", ...
	Status           LeadStatus `json:"status" bson:"status"`
	PropertyInterest string     `json:"propertyInterest" bson:"propertyInterest"`
	Budget           int        `json:"budget" bson:"budget"`
	LastResponseAt   *time.Time `json:"lastResponseAt,omitempty" bson:"lastResponseAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" bson:"createdAt"`
}
