package postgres

import (
	"ingestion-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 5

// pointGeohash считает укороченный геохэш точки. Аналитика группирует
// объекты по этой колонке вместо пары raw-координат.
func pointGeohash(p domain.GeoPoint) string {
	return geohash.Encode(p.Latitude, p.Longitude)[:geohashPrecision]
}
