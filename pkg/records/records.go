// Package records defines the incident record consumed by the crashviz core
// and the cleaning rules applied before a record reaches it.
//
// A [Record] is one cleaned input row: a year, a cause, a location, a
// fatality count and whether anybody survived. Sources (CSV files, MongoDB
// collections) deliver [RawRow] values which [Parse] either turns into a
// Record or rejects with a [Rejection]. Rejected rows never reach the
// aggregation pipeline.
//
// # Category Order
//
// [Categories] fixes the cause order for a dataset: causes sorted by record
// count descending, ties broken by first-seen order. The stacked series and
// the legend both use this order so that stack position and color agree.
package records

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// UnknownCause is the cause value that upstream cleaning rejects.
const UnknownCause = "Unknown"

// Record is a single cleaned incident.
type Record struct {
	Year         int    `json:"year" bson:"year"`
	Cause        string `json:"cause" bson:"cause"`
	Location     string `json:"location" bson:"location"`
	Fatalities   int    `json:"fatalities" bson:"fatalities"`
	HasSurvivors bool   `json:"has_survivors" bson:"has_survivors"`
}

// RawRow is an uncleaned row as read from a tabular source.
// Empty strings mark missing fields.
type RawRow struct {
	Year       string
	Cause      string
	Location   string
	Fatalities string
	Survivors  string
	Line       int // 1-based source line, 0 when unknown
}

// Rejection explains why a raw row was dropped.
type Rejection struct {
	Line   int    `json:"line,omitempty"`
	Reason string `json:"reason"`
}

// causeAliases collapses cause spellings that describe the same category.
var causeAliases = map[string]string{
	"Terrorism act, Hijacking, Sabotage": "Terrorism",
	"Hijacking":                          "Terrorism",
}

// NormalizeCause applies the static cause normalization rules.
func NormalizeCause(cause string) string {
	cause = strings.TrimSpace(cause)
	if alias, ok := causeAliases[cause]; ok {
		return alias
	}
	return cause
}

// Parse validates and converts a raw row. The boolean is false when the row
// is rejected; the Rejection then says why.
func Parse(raw RawRow) (Record, Rejection, bool) {
	reject := func(reason string) (Record, Rejection, bool) {
		return Record{}, Rejection{Line: raw.Line, Reason: reason}, false
	}

	yearStr := strings.TrimSpace(raw.Year)
	cause := NormalizeCause(raw.Cause)
	location := strings.TrimSpace(raw.Location)
	fatStr := strings.TrimSpace(raw.Fatalities)
	survStr := strings.TrimSpace(raw.Survivors)

	switch {
	case yearStr == "":
		return reject("missing year")
	case cause == "":
		return reject("missing cause")
	case location == "":
		return reject("missing location")
	case fatStr == "":
		return reject("missing fatalities")
	case survStr == "":
		return reject("missing survivors")
	}

	year, ok := ParseYear(yearStr)
	if !ok {
		return reject("unparsable year " + strconv.Quote(yearStr))
	}
	if cause == UnknownCause {
		return reject("unknown cause")
	}
	fatalities, err := strconv.Atoi(fatStr)
	if err != nil {
		return reject("unparsable fatalities " + strconv.Quote(fatStr))
	}
	if fatalities < 0 {
		return reject("negative fatalities")
	}
	survivors, ok := parseBool(survStr)
	if !ok {
		return reject("unparsable survivors flag " + strconv.Quote(survStr))
	}

	return Record{
		Year:         year,
		Cause:        cause,
		Location:     location,
		Fatalities:   fatalities,
		HasSurvivors: survivors,
	}, Rejection{}, true
}

// ParseYear extracts a year from a bare year ("1998"), an ISO date
// ("1998-07-14") or a US date ("07/14/1998").
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "/"):
		parts := strings.Split(s, "/")
		s = parts[len(parts)-1]
	case strings.Count(s, "-") == 2:
		s = s[:strings.Index(s, "-")]
	}
	if len(s) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1", "t":
		return true, true
	case "false", "no", "n", "0", "f":
		return false, true
	}
	return false, false
}

// CategoryCount is a cause together with its record count.
type CategoryCount struct {
	Cause string `json:"cause"`
	Count int    `json:"count"`
}

// Categories returns the fixed category order of a dataset: causes sorted by
// record count descending, ties broken by first-seen order.
func Categories(recs []Record) []string {
	counts := CountCategories(recs)
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Cause
	}
	return out
}

// CountCategories returns causes with their counts in category order.
func CountCategories(recs []Record) []CategoryCount {
	index := make(map[string]int)
	var counts []CategoryCount
	for _, r := range recs {
		i, ok := index[r.Cause]
		if !ok {
			i = len(counts)
			index[r.Cause] = i
			counts = append(counts, CategoryCount{Cause: r.Cause})
		}
		counts[i].Count++
	}
	// Stable sort keeps first-seen order among equal counts.
	slices.SortStableFunc(counts, func(a, b CategoryCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return counts
}

// Filter returns the records whose cause equals cause.
func Filter(recs []Record, cause string) []Record {
	var out []Record
	for _, r := range recs {
		if r.Cause == cause {
			out = append(out, r)
		}
	}
	return out
}
