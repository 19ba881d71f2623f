package derive

import (
	"log/slog"
	"math"

	"parkspotter-admin/internal/entities"
	"parkspotter-admin/internal/metrics"
)

type Marker struct {
	OwnerID   int     `json:"owner_id"`
	Label     string  `json:"label"`
	Address   string  `json:"address"`
	Area      string  `json:"area"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func validCoord(v *float64, limit float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && math.Abs(*v) <= limit
}

// Markers keeps owners with both coordinates present and in range. Each excluded owner is logged
// once at warn level.
func Markers(owners []entities.ParkOwner, log *slog.Logger) []Marker {
	if log == nil {
		log = slog.Default()
	}
	out := make([]Marker, 0, len(owners))
	for _, o := range owners {
		if !validCoord(o.Latitude, 90) || !validCoord(o.Longitude, 180) {
			log.Warn("invalid coordinates for park owner", slog.Int("owner_id", o.ID), slog.String("name", o.Name()))
			metrics.SkippedRecords.WithLabelValues("marker").Inc()
			continue
		}
		out = append(out, Marker{
			OwnerID:   o.ID,
			Label:     o.Name(),
			Address:   o.Address,
			Area:      o.Area,
			Latitude:  *o.Latitude,
			Longitude: *o.Longitude,
		})
	}
	return out
}
