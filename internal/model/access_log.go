package model

import "time"

// AccessLogEntry records who did what to which document. Writes are best
// effort and never block the primary operation.
type AccessLogEntry struct {
	ID          string  `gorm:"primaryKey;uuid;not null"`
	PrincipalID string  `gorm:"uuid;not null;index"`
	DocumentID  string  `gorm:"uuid;not null;index"`
	VersionID   *string `gorm:"uuid"`
	Action      string  `gorm:"not null"`
	AccessLevel string  `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index"`
}

func (AccessLogEntry) TableName() string {
	return "access_log"
}
