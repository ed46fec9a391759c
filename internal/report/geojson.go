package report

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// MapLayer renders the drop-off points as a GeoJSON feature collection.
// Rows without drop-off coordinates are left out.
func MapLayer(rows []Row) *geojson.FeatureCollection {
	features := make([]*geojson.Feature, 0, len(rows))
	for _, row := range rows {
		if !row.Located {
			continue
		}
		point := geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{row.Lon, row.Lat})
		props := map[string]any{
			"claim_id":     row.ClaimID,
			"client_id":    row.ClientID,
			"status":       row.Status.String(),
			"courier_name": row.CourierName,
			"store_name":   row.StoreName,
			"route_id":     row.RouteID,
			"proof":        row.Proof,
			"cutoff":       row.Cutoff,
		}
		if km, ok := row.Distance(); ok {
			props["distance_km"] = km
		}
		if row.CashCollected != "" {
			props["cash_collected"] = row.CashCollected
		}
		features = append(features, &geojson.Feature{
			ID:         row.ClaimID,
			Geometry:   point,
			Properties: props,
		})
	}
	return &geojson.FeatureCollection{Features: features}
}
