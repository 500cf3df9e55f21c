package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidCoordinate is returned for coordinates that are not WGS84 degrees.
var ErrInvalidCoordinate = eris.New("invalid coordinate")

// ParseLonLat parses decimal degree strings into a WGS84 position.
//
// Longitude must be within [-180, 180] and latitude within [-90, 90].
func ParseLonLat(lonStr, latStr string) (lon, lat float64, err error) {
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(ErrInvalidCoordinate, "longitude %q", lonStr)
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(ErrInvalidCoordinate, "latitude %q", latStr)
	}

	if !ValidLonLat(lon, lat) {
		return 0, 0, eris.Wrapf(ErrInvalidCoordinate, "position %s,%s out of range", lonStr, latStr)
	}

	return lon, lat, nil
}

// ValidLonLat reports whether lon/lat are finite and within WGS84 bounds.
func ValidLonLat(lon, lat float64) bool {
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return false
	}

	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}
