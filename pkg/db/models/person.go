package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// Person is an authenticated participant. Role never changes after creation.
type Person struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID *uuid.UUID       `gorm:"column:organization_id;type:uuid"`
	FirstName      string           `gorm:"column:first_name;not null"`
	LastName       string           `gorm:"column:last_name;not null"`
	Email          string           `gorm:"column:email;not null;uniqueIndex"`
	Role           enums.PersonRole `gorm:"column:role;type:person_role_enum;not null"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Person) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DisplayName joins first and last name, falling back to the email.
func (p Person) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

func (Person) TableName() string {
	return "persons"
}
