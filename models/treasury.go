// models/treasury.go
package models

import "time"

// Treasury is our internal record of a custody vault.
// One row per vault account at the custody provider — never deleted.
type Treasury struct {
	ID             string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	VaultID        string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"vault_id"` // opaque id assigned by custody provider
	OrganizationID string    `gorm:"type:uuid;index" json:"organization_id"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

// ProjectTreasury links a project to exactly one treasury.
// Table name: project_treasuries
type ProjectTreasury struct {
	ID         string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	ProjectID  string    `gorm:"type:uuid;not null;index" json:"project_id"`
	TreasuryID string    `gorm:"type:uuid;not null;uniqueIndex" json:"treasury_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`

	Treasury *Treasury `gorm:"foreignKey:TreasuryID" json:"treasury,omitempty"`
}

// CustomerTreasury links a customer to exactly one treasury,
// also carrying the project the customer belongs to.
type CustomerTreasury struct {
	ID         string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	CustomerID string    `gorm:"type:uuid;not null;index" json:"customer_id"`
	ProjectID  string    `gorm:"type:uuid;not null;index" json:"project_id"`
	TreasuryID string    `gorm:"type:uuid;not null;uniqueIndex" json:"treasury_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`

	Treasury *Treasury `gorm:"foreignKey:TreasuryID" json:"treasury,omitempty"`
}
