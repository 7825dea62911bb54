package spatial

import (
	"strings"
)

// Base32 alphabet of geohash cells
const geohashBase32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// MaxGeohashPrecision is the longest geohash Geohash produces
const MaxGeohashPrecision = 12

// Geohash encodes p into a geohash of precision characters (1-12).
// Bits alternate between longitude and latitude, longitude first.
func Geohash(p Point, precision int) string {
	precision = max(1, min(MaxGeohashPrecision, precision))

	lat := [2]float64{-90, 90}
	lon := [2]float64{-180, 180}

	var sb strings.Builder
	sb.Grow(precision)

	even := true
	for sb.Len() < precision {
		ch := 0
		for bit := 4; bit >= 0; bit-- {
			if even {
				ch |= bisect(&lon, p.Lon) << bit
			} else {
				ch |= bisect(&lat, p.Lat) << bit
			}
			even = !even
		}
		sb.WriteByte(geohashBase32[ch])
	}

	return sb.String()
}

// bisect halves r around v and returns 1 when v lies in the upper half
func bisect(r *[2]float64, v float64) int {
	mid := (r[0] + r[1]) / 2
	if v > mid {
		r[0] = mid
		return 1
	}
	r[1] = mid
	return 0
}

// IsGeohash reports whether s is a non-empty geohash of at most 12 characters
func IsGeohash(s string) bool {
	if s == "" || len(s) > MaxGeohashPrecision {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(geohashBase32, s[i]) < 0 {
			return false
		}
	}
	return true
}
