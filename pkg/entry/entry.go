// Package entry defines the cataloged stream record.
package entry

import (
	"errors"
	"strings"
	"time"
)

// DisplayLayout is the layout used for the dateTime display string.
const DisplayLayout = "2006-01-02 3:04 PM"

var (
	ErrMissingLink        = errors.New("entry: link is required")
	ErrMissingDescription = errors.New("entry: description is required")
)

// Field names, as persisted. They double as sort keys.
const (
	FieldLink        = "link"
	FieldDescription = "description"
	FieldDateTime    = "dateTime"
	FieldCity        = "city"
	FieldState       = "state"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
)

// Fields lists the persisted field names in column order.
var Fields = []string{
	FieldLink,
	FieldDescription,
	FieldDateTime,
	FieldCity,
	FieldState,
	FieldLatitude,
	FieldLongitude,
}

// Entry is one cataloged stream. Entries are values and are never mutated
// after they are handed to a store.
type Entry struct {
	Link        string     `json:"link"`
	Description string     `json:"description"`
	DateTime    string     `json:"dateTime"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	Latitude    string     `json:"latitude,omitempty"`
	Longitude   string     `json:"longitude,omitempty"`
	Created     *Timestamp `json:"created,omitempty"`
}

// New builds an entry stamped with the given creation time.
func New(link, description string, at time.Time) Entry {
	return Entry{
		Link:        strings.TrimSpace(link),
		Description: strings.TrimSpace(description),
		DateTime:    at.Local().Format(DisplayLayout),
		Created:     &Timestamp{Time: at},
	}
}

// Validate checks the mandatory fields.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Link) == "" {
		return ErrMissingLink
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrMissingDescription
	}
	return nil
}

// HasCoordinates reports whether both latitude and longitude are set.
func (e Entry) HasCoordinates() bool {
	return e.Latitude != "" && e.Longitude != ""
}

// Field returns the string value for a persisted field name. Unknown names
// and missing values are "".
func (e Entry) Field(name string) string {
	switch name {
	case FieldLink:
		return e.Link
	case FieldDescription:
		return e.Description
	case FieldDateTime:
		return e.DateTime
	case FieldCity:
		return e.City
	case FieldState:
		return e.State
	case FieldLatitude:
		return e.Latitude
	case FieldLongitude:
		return e.Longitude
	}
	return ""
}

// Values returns every field value in column order.
func (e Entry) Values() []string {
	out := make([]string, 0, len(Fields)+1)
	for _, f := range Fields {
		out = append(out, e.Field(f))
	}
	if e.Created != nil && !e.Created.IsZero() {
		out = append(out, e.Created.String())
	}
	return out
}

// Row returns the table columns: description, link, dateTime, city, state,
// latitude, longitude.
func (e Entry) Row() []string {
	return []string{e.Description, e.Link, e.DateTime, e.City, e.State, e.Latitude, e.Longitude}
}

// When returns the best known creation time: the canonical timestamp when
// present, otherwise the parsed display string.
func (e Entry) When() (time.Time, bool) {
	if e.Created != nil && !e.Created.IsZero() {
		return e.Created.Time, true
	}
	return ParseDisplay(e.DateTime)
}

func (e Entry) String() string {
	return e.Description + " <" + e.Link + ">"
}

// Clone returns a copy that shares no pointers with e.
func (e Entry) Clone() Entry {
	if e.Created != nil {
		ts := *e.Created
		e.Created = &ts
	}
	return e
}

// Equal compares all persisted fields.
func (e Entry) Equal(o Entry) bool {
	for _, f := range Fields {
		if e.Field(f) != o.Field(f) {
			return false
		}
	}
	switch {
	case e.Created == nil && o.Created == nil:
		return true
	case e.Created == nil || o.Created == nil:
		return false
	default:
		return e.Created.Equal(o.Created.Time)
	}
}
