// Package geo provides hierarchical spatial cell utilities used for
// geographic proximity boosting in feed ranking.
package geo

import "strings"

// DefaultPrecision is the default geohash precision for user and item cells.
// A precision of 8 characters resolves to roughly a city block, which is
// fine-grained enough for the proximity boost tiers without storing exact
// coordinates.
const DefaultPrecision = 8

// validGeohashChars is a lookup map for valid base32 characters used in geohashes.
// Geohash uses a custom base32 alphabet excluding 'a', 'i', 'l', and 'o'.
var validGeohashChars = map[rune]bool{
	'0': true, '1': true, '2': true, '3': true, '4': true,
	'5': true, '6': true, '7': true, '8': true, '9': true,
	'b': true, 'c': true, 'd': true, 'e': true, 'f': true,
	'g': true, 'h': true, 'j': true, 'k': true, 'm': true,
	'n': true, 'p': true, 'q': true, 'r': true, 's': true,
	't': true, 'u': true, 'v': true, 'w': true, 'x': true,
	'y': true, 'z': true,
}

// base32 is the geohash base32 alphabet.
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// Encode encodes latitude and longitude into a geohash cell identifier with
// the specified precision. Uses the standard geohash algorithm with base32
// encoding. Longer shared prefixes between two cells mean closer locations,
// which is what ProximityBoost exploits.
func Encode(lat, lng float64, precision int) string {
	if precision < 1 {
		precision = DefaultPrecision
	}

	latRange := [2]float64{-90.0, 90.0}
	lngRange := [2]float64{-180.0, 180.0}

	var cell strings.Builder
	cell.Grow(precision)

	bits := 0
	var ch uint

	even := true
	for cell.Len() < precision {
		if even {
			// Longitude
			mid := (lngRange[0] + lngRange[1]) / 2
			if lng > mid {
				ch |= (1 << (4 - bits))
				lngRange[0] = mid
			} else {
				lngRange[1] = mid
			}
		} else {
			// Latitude
			mid := (latRange[0] + latRange[1]) / 2
			if lat > mid {
				ch |= (1 << (4 - bits))
				latRange[0] = mid
			} else {
				latRange[1] = mid
			}
		}

		even = !even
		bits++

		if bits == 5 {
			cell.WriteByte(base32[ch])
			bits = 0
			ch = 0
		}
	}

	return cell.String()
}

// ValidCell reports whether the input is a non-empty string of valid geohash
// characters after lowercasing.
func ValidCell(cell string) bool {
	if cell == "" {
		return false
	}
	for _, c := range strings.ToLower(cell) {
		if !validGeohashChars[c] {
			return false
		}
	}
	return true
}

// SharedPrefixLen returns the number of leading characters two cell
// identifiers have in common, after lowercasing. Invalid or empty cells
// share nothing.
func SharedPrefixLen(a, b string) int {
	if !ValidCell(a) || !ValidCell(b) {
		return 0
	}

	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	n := len(la)
	if len(lb) < n {
		n = len(lb)
	}

	for i := 0; i < n; i++ {
		if la[i] != lb[i] {
			return i
		}
	}
	return n
}

// Proximity boost multipliers by shared-prefix length. An 8-character
// shared prefix is roughly same-neighborhood; 2 characters is roughly
// same-region. Cells with no overlap get no boost.
const (
	boostNeighborhood = 1.5  // >= 8 shared characters
	boostDistrict     = 1.3  // >= 6 shared characters
	boostCity         = 1.15 // >= 4 shared characters
	boostRegion       = 1.05 // >= 2 shared characters
	boostNone         = 1.0
)

// ProximityBoost returns a 1.0-1.5 multiplier based on how many leading
// characters the viewer's cell and the item's cell share. Absent or invalid
// cells yield 1.0 (no boost), never an error.
func ProximityBoost(viewerCell, itemCell string) float64 {
	shared := SharedPrefixLen(viewerCell, itemCell)

	switch {
	case shared >= 8:
		return boostNeighborhood
	case shared >= 6:
		return boostDistrict
	case shared >= 4:
		return boostCity
	case shared >= 2:
		return boostRegion
	default:
		return boostNone
	}
}
