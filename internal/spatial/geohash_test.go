package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeohash(t *testing.T) {
	assert.Equal(t, "ezs42", Geohash(Point{Lat: 42.6, Lon: -5.6}, 5))
	assert.Equal(t, "u4pruydqqvj", Geohash(Point{Lat: 57.64911, Lon: 10.40744}, 11))

	// Precision is clamped to 1-12
	assert.Len(t, Geohash(Point{Lat: 42.6, Lon: -5.6}, 0), 1)
	assert.Len(t, Geohash(Point{Lat: 42.6, Lon: -5.6}, 20), MaxGeohashPrecision)

	// Longer hashes extend shorter ones
	assert.Equal(t, "ezs4", Geohash(Point{Lat: 42.6, Lon: -5.6}, 4))
}

func TestIsGeohash(t *testing.T) {
	assert.True(t, IsGeohash("c20"))
	assert.False(t, IsGeohash(""))
	assert.False(t, IsGeohash("abc"))  // 'a' is not in the alphabet
	assert.False(t, IsGeohash("C20"))  // upper case
	assert.False(t, IsGeohash("0123456789bcd"))
}
