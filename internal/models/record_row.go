package models

import (
	"gorm.io/datatypes"
)

// RecordRow is the database form of one collection entry: the patient ID
// and the stored payload as a JSON document.
type RecordRow struct {
	ID      string         `gorm:"primaryKey;size:64"`
	Payload datatypes.JSON `gorm:"not null"`
}

func (RecordRow) TableName() string {
	return "patient_records"
}
