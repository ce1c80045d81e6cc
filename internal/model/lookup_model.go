package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Lookup struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind       string         `gorm:"type:varchar(32);not null;index"`
	Query      string         `gorm:"type:text;not null"`
	VehicleId  int            `gorm:"index"`
	Status     string         `gorm:"type:varchar(32);not null"`
	RetryCount int            `gorm:"not null;default:0"`
	Result     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (Lookup) TableName() string {
	return "lookups"
}
