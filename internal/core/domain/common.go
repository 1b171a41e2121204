package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// CreatedAt is immutable once set; for client-owned records it anchors the
// one-hour mutation window.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}
