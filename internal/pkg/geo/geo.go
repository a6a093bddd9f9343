package geo

import (
	"math"
)

const earthRadiusMeters = 6371000

// Distance 计算两个经纬度坐标间的球面距离（米），Haversine 公式
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Geofence 以某个点为圆心、radius 米为半径的地理围栏
type Geofence struct {
	latitude  float64
	longitude float64
	radius    float64
}

func NewGeofence(latitude, longitude, radiusMeters float64) *Geofence {
	return &Geofence{
		latitude:  latitude,
		longitude: longitude,
		radius:    radiusMeters,
	}
}

// Contains 坐标是否落在围栏内
func (g *Geofence) Contains(lat, lng float64) bool {
	return Distance(g.latitude, g.longitude, lat, lng) <= g.radius
}
