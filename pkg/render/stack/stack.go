package stack

import (
	"maps"
	"slices"
)

// Band is one category's vertical extent at a single x value.
type Band struct {
	Category string  `json:"category"`
	Y0       float64 `json:"y0"`
	Y1       float64 `json:"y1"`
}

// Height returns the band thickness, which equals the category's count.
func (b Band) Height() float64 { return b.Y1 - b.Y0 }

// Point is the stack at a single x value.
type Point struct {
	Year  int    `json:"year"`
	Bands []Band `json:"bands"`
}

// Top returns the upper edge of the stack, 0 for a point without bands.
func (p Point) Top() float64 {
	if len(p.Bands) == 0 {
		return 0
	}
	return p.Bands[len(p.Bands)-1].Y1
}

// Band returns the band for category.
func (p Point) Band(category string) (Band, bool) {
	for _, b := range p.Bands {
		if b.Category == category {
			return b, true
		}
	}
	return Band{}, false
}

// Stack builds stacked points from counts keyed by year and category.
// Points are returned in ascending year order; only years present in counts
// appear. Categories not listed in order are ignored.
func Stack(counts map[int]map[string]float64, order []string) []Point {
	years := slices.Sorted(maps.Keys(counts))
	points := make([]Point, 0, len(years))
	for _, year := range years {
		row := counts[year]
		bands := make([]Band, len(order))
		var y float64
		for k, cat := range order {
			c := row[cat]
			bands[k] = Band{Category: cat, Y0: y, Y1: y + c}
			y += c
		}
		points = append(points, Point{Year: year, Bands: bands})
	}
	return points
}

// MaxY returns the maximum stack top over all points, 0 when empty.
func MaxY(points []Point) float64 {
	var max float64
	for _, p := range points {
		if t := p.Top(); t > max {
			max = t
		}
	}
	return max
}

// XExtent returns the smallest and largest year. ok is false for no points.
func XExtent(points []Point) (min, max int, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	min, max = points[0].Year, points[0].Year
	for _, p := range points[1:] {
		if p.Year < min {
			min = p.Year
		}
		if p.Year > max {
			max = p.Year
		}
	}
	return min, max, true
}

// Total is a category's count summed over a range of years.
type Total struct {
	Category string  `json:"category"`
	Count    float64 `json:"count"`
}

// Totals sums each category's counts over the points whose year lies in
// [from, to], returned in band order.
func Totals(points []Point, from, to int) []Total {
	var out []Total
	index := map[string]int{}
	for _, p := range points {
		if p.Year < from || p.Year > to {
			continue
		}
		for _, b := range p.Bands {
			i, ok := index[b.Category]
			if !ok {
				i = len(out)
				index[b.Category] = i
				out = append(out, Total{Category: b.Category})
			}
			out[i].Count += b.Height()
		}
	}
	return out
}
