package model

import "time"

// Company is the tenant root. The recorded creator is its owning principal.
type Company struct {
	ID              string `gorm:"primaryKey;uuid;not null"`
	Name            string `gorm:"not null"`
	CreatedByUserID string `gorm:"uuid;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Company) TableName() string {
	return "companies"
}

// Establishment is a site of a company. Documents hang off establishments.
type Establishment struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	CompanyID string `gorm:"uuid;not null;index"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Establishment) TableName() string {
	return "establishments"
}

// Employee links a portal user to exactly one (company, establishment) pair.
// The link alone grants read access to that establishment's documents,
// independent of role capabilities.
type Employee struct {
	ID              string  `gorm:"primaryKey;uuid;not null"`
	CompanyID       string  `gorm:"uuid;not null;index"`
	EstablishmentID string  `gorm:"uuid;not null;index"`
	PortalUserID    *string `gorm:"uuid;index"`
	FirstName       string
	LastName        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Employee) TableName() string {
	return "employees"
}

// PrincipalCapability is one permission tag granted to a principal. Rows are
// managed by the identity service; this side only reads them.
type PrincipalCapability struct {
	PrincipalID string `gorm:"primaryKey;uuid;not null"`
	Capability  string `gorm:"primaryKey;not null"`
	CreatedAt   time.Time
}

func (PrincipalCapability) TableName() string {
	return "principal_capabilities"
}
