package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Restaurant struct {
	Id        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string           `gorm:"type:varchar(255);not null;index"`
	Cuisine   string           `gorm:"type:varchar(255);index"`
	Area      string           `gorm:"type:varchar(255);index"`
	Rating    float64          `gorm:"type:numeric(3,1)"`
	Cost      int              // price for two, in rupees
	Url       string           `gorm:"type:text"`
	Tags      datatypes.JSON   `gorm:"type:jsonb"` // free-form attributes from the source dataset
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}
