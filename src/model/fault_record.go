package model

import (
	"time"

	"github.com/google/uuid"
)

// FaultRecord is a log record kept for auditing after it was written to the
// logging backend.
type FaultRecord struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	TraceID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"trace_id"`

	Level   string `gorm:"size:20;index" json:"level"` // debug ... emergency
	Message string `gorm:"type:text" json:"message"`

	// Origin of the fault after attribution
	File string `gorm:"size:512" json:"file,omitempty"`
	Line int    `json:"line,omitempty"`

	Code  int    `gorm:"index" json:"code"`
	Class string `gorm:"size:200" json:"class,omitempty"`
	Trace string `gorm:"type:text" json:"trace,omitempty"`

	// Serialized log context as a JSON object of strings
	Context string `gorm:"type:text" json:"context,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
