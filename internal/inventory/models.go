package inventory

import "time"

const (
	StatusAvailable   = "available"
	StatusIssued      = "issued"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

const (
	CategoryMicrocontroller = "microcontroller"
	CategorySensor          = "sensor"
	CategoryActuator        = "actuator"
	CategoryDisplay         = "display"
	CategoryCommunication   = "communication"
	CategoryPower           = "power"
	CategoryConnector       = "connector"
	CategoryOther           = "other"
)

var Categories = []string{
	CategoryMicrocontroller,
	CategorySensor,
	CategoryActuator,
	CategoryDisplay,
	CategoryCommunication,
	CategoryPower,
	CategoryConnector,
	CategoryOther,
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusIssued, StatusMaintenance, StatusRetired:
		return true
	}
	return false
}

// Component is a stocked hardware item. AvailableQuantity only moves through
// the lending transitions; Status is informational.
type Component struct {
	ID                uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string         `gorm:"type:varchar(200);index;not null" json:"name"`
	Description       string         `gorm:"type:text" json:"description"`
	Category          string         `gorm:"type:varchar(32);index;not null" json:"category"`
	TotalQuantity     int            `gorm:"not null" json:"total_quantity"`
	AvailableQuantity int            `gorm:"not null" json:"available_quantity"`
	Status            string         `gorm:"type:varchar(16);index;not null;default:'available'" json:"status"`
	Location          string         `gorm:"type:varchar(100)" json:"location"`
	Specifications    map[string]any `gorm:"type:text;serializer:json" json:"specifications,omitempty"`
	ImageURL          string         `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	Tags              []string       `gorm:"type:text;serializer:json" json:"tags"`
	CreatedBy         uint64         `gorm:"index" json:"created_by"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (Component) TableName() string { return "components" }
