// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package geo implements the distance model: great-circle distance, bearing,
// travel-time estimates and proximity scoring with configurable decay curves.
package geo

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/tripsense/internal/models"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6_371_000.0

// Average urban travel speeds in km/h.
const (
	WalkingSpeedKmh = 5.0
	CyclingSpeedKmh = 15.0
	DrivingSpeedKmh = 30.0
)

// TravelMode is a recommended way of getting somewhere.
type TravelMode string

const (
	TravelWalk    TravelMode = "walk"
	TravelCycle   TravelMode = "cycle"
	TravelTransit TravelMode = "transit"
	TravelDrive   TravelMode = "drive"
)

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Distance returns the haversine distance between two points in meters.
func Distance(a, b models.Coordinates) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// Bearing returns the initial compass bearing from a to b in degrees [0, 360).
func Bearing(a, b models.Coordinates) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180.0 / math.Pi
	return math.Mod(deg+360.0, 360.0)
}

func travelTime(meters, speedKmh float64) time.Duration {
	if meters <= 0 {
		return 0
	}
	hours := (meters / 1000.0) / speedKmh
	return time.Duration(hours * float64(time.Hour)).Round(time.Second)
}

// WalkingTime estimates the walking time for a distance.
func WalkingTime(meters float64) time.Duration {
	return travelTime(meters, WalkingSpeedKmh)
}

// CyclingTime estimates the cycling time for a distance.
func CyclingTime(meters float64) time.Duration {
	return travelTime(meters, CyclingSpeedKmh)
}

// DrivingTime estimates the urban driving time for a distance.
func DrivingTime(meters float64) time.Duration {
	return travelTime(meters, DrivingSpeedKmh)
}

// RecommendTravelMode picks a travel mode by distance band.
func RecommendTravelMode(meters float64) TravelMode {
	switch {
	case meters <= 1200:
		return TravelWalk
	case meters <= 4000:
		return TravelCycle
	case meters <= 10000:
		return TravelTransit
	default:
		return TravelDrive
	}
}

// Describe renders a distance the way the app shows it to travellers.
func Describe(meters float64) string {
	if meters < 0 {
		return ""
	}
	if meters < 150 {
		return fmt.Sprintf("Just %dm away", int(math.Round(meters)))
	}
	if RecommendTravelMode(meters) == TravelWalk {
		minutes := int(math.Ceil(WalkingTime(meters).Minutes()))
		return fmt.Sprintf("%d min walk", minutes)
	}
	return fmt.Sprintf("%.1f km away", meters/1000.0)
}
