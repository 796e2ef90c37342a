package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AssetStatus enumerates the lifecycle states an asset can be registered with.
type AssetStatus string

const (
	StatusAvailable      AssetStatus = "available"
	StatusAssigned       AssetStatus = "assigned"
	StatusInRepair       AssetStatus = "in_repair"
	StatusDecommissioned AssetStatus = "decommissioned"
)

// Valid reports whether the status is one the inventory service accepts.
func (s AssetStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusInRepair, StatusDecommissioned:
		return true
	default:
		return false
	}
}

// Coordinates is a device position captured at scan time.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// String renders the pair the way the inventory service stores it: "lat, lon".
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// MarshalJSON writes the coordinates as their "lat, lon" string.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON parses the "lat, lon" string form.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("coordinates must be a string: %w", err)
	}
	parsed, err := ParseCoordinates(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCoordinates reads a "lat, lon" string.
func ParseCoordinates(raw string) (Coordinates, error) {
	latText, lonText, ok := strings.Cut(raw, ",")
	if !ok {
		return Coordinates{}, fmt.Errorf("parse coordinates %q: missing separator", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse latitude %q: %w", latText, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse longitude %q: %w", lonText, err)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

// CaptureDraft is the asset record being assembled during a capture session.
// Code is written only by a scan, Image only by the media attacher and
// Coordinates only by enrichment.
type CaptureDraft struct {
	Name             string       `json:"name"`
	CategoryID       string       `json:"category_id"`
	EmployeeID       string       `json:"employee_id"`
	Description      string       `json:"description"`
	Code             string       `json:"code"`
	SerialNumber     string       `json:"serial_number"`
	Status           AssetStatus  `json:"status"`
	PurchaseDate     string       `json:"purchase_date"`
	WarrantyDate     string       `json:"warranty_date"`
	DecommissionDate string       `json:"decommission_date"`
	Image            *string      `json:"image"`
	Coordinates      *Coordinates `json:"coordinates"`
}

// NewCaptureDraft returns a draft with every field at its default.
func NewCaptureDraft() CaptureDraft {
	return CaptureDraft{Status: StatusAvailable}
}

// Clone returns a deep copy so callers never share the pointer fields.
func (d CaptureDraft) Clone() CaptureDraft {
	out := d
	if d.Image != nil {
		image := *d.Image
		out.Image = &image
	}
	if d.Coordinates != nil {
		coords := *d.Coordinates
		out.Coordinates = &coords
	}
	return out
}

// DraftEdit carries a manual edit of the user-editable fields. Nil fields are
// left untouched.
type DraftEdit struct {
	Name             *string      `json:"name,omitempty"`
	CategoryID       *string      `json:"category_id,omitempty"`
	EmployeeID       *string      `json:"employee_id,omitempty"`
	Description      *string      `json:"description,omitempty"`
	SerialNumber     *string      `json:"serial_number,omitempty"`
	Status           *AssetStatus `json:"status,omitempty"`
	PurchaseDate     *string      `json:"purchase_date,omitempty"`
	WarrantyDate     *string      `json:"warranty_date,omitempty"`
	DecommissionDate *string      `json:"decommission_date,omitempty"`
}

// Apply writes the non-nil fields of the edit onto the draft.
func (e DraftEdit) Apply(d *CaptureDraft) {
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&d.Name, e.Name)
	assign(&d.CategoryID, e.CategoryID)
	assign(&d.EmployeeID, e.EmployeeID)
	assign(&d.Description, e.Description)
	assign(&d.SerialNumber, e.SerialNumber)
	assign(&d.PurchaseDate, e.PurchaseDate)
	assign(&d.WarrantyDate, e.WarrantyDate)
	assign(&d.DecommissionDate, e.DecommissionDate)
	if e.Status != nil {
		d.Status = *e.Status
	}
}
