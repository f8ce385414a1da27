package model

import "time"

// Feature is a named geometry as stored by either backend. Geometry holds the
// GeoJSON text of the geometry object. CreatedAt and UpdatedAt stay nil on
// backends that do not track them.
type Feature struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	Geometry    string     `db:"geometry"`
	CreatedAt   *time.Time `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}
