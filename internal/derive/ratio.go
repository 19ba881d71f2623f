package derive

import (
	"strings"

	"parkspotter-admin/internal/entities"
	"parkspotter-admin/internal/utils"
)

type AreaShare struct {
	Area    string  `json:"area"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

const UnknownArea = "Unknown"

type DivisionRatio struct {
	Shares      []AreaShare `json:"shares"`
	MaxDivision string      `json:"max_division"`
	Total       int         `json:"total"`
}

// Percentages returns area → percent.
func (d DivisionRatio) Percentages() map[string]float64 {
	out := make(map[string]float64, len(d.Shares))
	for _, s := range d.Shares {
		out[s.Area] = s.Percent
	}
	return out
}

// Divisions counts owners per area in first-seen order. Percentages are rounded to 2 decimals.
// MaxDivision is the first area reaching the highest count. Owners without an area are counted
// under UnknownArea, so Total is always len(owners).
func Divisions(owners []entities.ParkOwner) DivisionRatio {
	index := map[string]int{}
	var res DivisionRatio
	for _, o := range owners {
		area := strings.TrimSpace(o.Area)
		if area == "" {
			area = UnknownArea
		}
		i, ok := index[area]
		if !ok {
			i = len(res.Shares)
			index[area] = i
			res.Shares = append(res.Shares, AreaShare{Area: area})
		}
		res.Shares[i].Count++
		res.Total++
	}
	max := 0
	for i := range res.Shares {
		res.Shares[i].Percent = utils.RoundFloat(float64(res.Shares[i].Count)*100/float64(res.Total), 2)
		if res.Shares[i].Count > max {
			max = res.Shares[i].Count
			res.MaxDivision = res.Shares[i].Area
		}
	}
	return res
}

// Growth is the percentage change from previous to current, 0 when previous is 0.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return utils.RoundFloat((current-previous)/previous*100, 2)
}
