package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON wraps gorm.io/datatypes.JSON so each dialect gets a column type it
// supports. MSSQL has no json type.
type JSON struct {
	datatypes.JSON
}

// NewJSON wraps raw JSON bytes.
func NewJSON(raw []byte) JSON {
	return JSON{JSON: datatypes.JSON(raw)}
}

// Value promotes the embedded JSON's Value method
func (j JSON) Value() (driver.Value, error) {
	if len(j.JSON) == 0 {
		return nil, nil
	}
	return j.JSON.Value()
}

// Scan promotes the embedded JSON's Scan method
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		j.JSON = nil
		return nil
	}
	return j.JSON.Scan(value)
}

// GormDBDataType picks the column type per driver.
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
