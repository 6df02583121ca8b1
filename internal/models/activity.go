package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog records a workflow action for audit purposes. Metadata holds
// action-specific detail such as the status edge taken.
type ActivityLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ActorID   uint           `gorm:"not null;index" json:"actor_id"`
	Action    string         `gorm:"size:64;not null" json:"action"`
	Entity    string         `gorm:"size:32;not null" json:"entity"`
	EntityID  uint           `gorm:"not null" json:"entity_id"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}
