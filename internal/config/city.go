package config

import (
	"strings"

	"github.com/paulmach/orb"
)

// City is a known city and the area the map opens on.
type City struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

var cities = map[string]City{
	"RM": {Code: "RM", Name: "Roma", South: 41.8, West: 12.4, North: 42.0, East: 12.6},
	"MI": {Code: "MI", Name: "Milano", South: 45.352097, West: 8.980637, North: 45.590120, East: 9.385071},
	"PD": {Code: "PD", Name: "Padova", South: 45.364979, West: 11.825855, North: 45.445488, East: 11.925435},
	"BO": {Code: "BO", Name: "Bologna", South: 44.45, West: 11.25, North: 44.55, East: 11.40},
}

// LookupCity returns the city with the given code, case-insensitively.
func LookupCity(code string) (City, bool) {
	c, ok := cities[strings.ToUpper(code)]
	return c, ok
}

// Bound returns the city area as an orb bound.
func (c City) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{c.West, c.South}, Max: orb.Point{c.East, c.North}}
}

// HomeCity returns the configured city.
func (c Config) HomeCity() (City, bool) {
	return LookupCity(c.City)
}
