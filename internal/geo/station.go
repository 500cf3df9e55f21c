// Package geo handles TripPlanner station features and their GeoJSON form.
package geo

import "math"

// Station types known to the TripPlanner charts.
const (
	TypeLaunch      = "launch"
	TypeDestination = "destination"
	TypeCurrent     = "current"
	TypeTide        = "tide"
)

// KnownType reports whether t is one of the station types the charts render.
func KnownType(t string) bool {
	switch t {
	case TypeLaunch, TypeDestination, TypeCurrent, TypeTide:
		return true
	}
	return false
}

// Label holds the display metadata persisted between imports.
// X and Y are NaN when no offset was set.
type Label struct {
	X       float64
	Y       float64
	Callout bool
}

// NoLabel returns the label assigned to stations without prior metadata.
func NoLabel() Label {
	return Label{X: math.NaN(), Y: math.NaN()}
}

// HasOffset reports whether both label offsets are set.
func (l Label) HasOffset() bool {
	return !math.IsNaN(l.X) && !math.IsNaN(l.Y)
}

// Station is a single map point.
type Station struct {
	SID        string
	Title      string
	ChartTitle string
	Type       string
	Lon        float64
	Lat        float64
	Label      Label
}

// LabelRecord is the subset of a previously exported feature used for joins.
type LabelRecord struct {
	SID   string
	Label Label
}
