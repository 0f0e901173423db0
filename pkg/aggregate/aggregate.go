package aggregate

import (
	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/hierarchy"
	"github.com/matzehuels/crashviz/pkg/observability"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/render/stack"
)

// Survivor bucket labels.
const (
	SurvivorsLabel   = "Survivors"
	NoSurvivorsLabel = "No survivors"
)

// AggregateRootName names the root of the aggregate hierarchy.
const AggregateRootName = "All causes"

// Pipeline builds chart structures and reports lookups to its hooks.
// The zero value uses the globally registered aggregation hooks.
type Pipeline struct {
	Hooks observability.AggregationHooks
}

// New returns a pipeline reporting to hooks.
func New(hooks observability.AggregationHooks) *Pipeline {
	return &Pipeline{Hooks: hooks}
}

func (p *Pipeline) hooks() observability.AggregationHooks {
	if p == nil || p.Hooks == nil {
		return observability.Aggregation()
	}
	return p.Hooks
}

// BuildSeries counts records per year and cause and stacks the counts in
// categories order. Causes not in categories are ignored; years without
// records are absent.
func BuildSeries(recs []records.Record, categories []string) []stack.Point {
	counts := make(map[int]map[string]float64)
	for _, r := range recs {
		row, ok := counts[r.Year]
		if !ok {
			row = make(map[string]float64)
			counts[r.Year] = row
		}
		row[r.Cause]++
	}
	return stack.Stack(counts, categories)
}

// BuildAggregateHierarchy groups records by cause, in category order, and
// then by survivor bucket.
func BuildAggregateHierarchy(recs []records.Record) *hierarchy.Node {
	byCause := make(map[string][]records.Record)
	for _, r := range recs {
		byCause[r.Cause] = append(byCause[r.Cause], r)
	}
	var causes []*hierarchy.Node
	for _, cause := range records.Categories(recs) {
		causes = append(causes, hierarchy.Branch(cause, survivorBuckets(byCause[cause])...))
	}
	return hierarchy.Branch(AggregateRootName, causes...)
}

// BuildDetailHierarchy groups the records of one cause by location, in
// first-seen order, and then by survivor bucket. It returns a NOT_FOUND
// error when no record has the cause.
func BuildDetailHierarchy(recs []records.Record, cause string) (*hierarchy.Node, error) {
	return (*Pipeline)(nil).BuildDetailHierarchy(recs, cause)
}

// BuildDetailHierarchy is like the package-level function but reports
// lookups without data to p's hooks.
func (p *Pipeline) BuildDetailHierarchy(recs []records.Record, cause string) (*hierarchy.Node, error) {
	var order []string
	byLocation := make(map[string][]records.Record)
	for _, r := range recs {
		if r.Cause != cause {
			continue
		}
		if _, ok := byLocation[r.Location]; !ok {
			order = append(order, r.Location)
		}
		byLocation[r.Location] = append(byLocation[r.Location], r)
	}
	if len(order) == 0 {
		p.hooks().OnDetailNotFound(cause)
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "no location data available for %s", cause)
	}
	locations := make([]*hierarchy.Node, 0, len(order))
	for _, loc := range order {
		locations = append(locations, hierarchy.Branch(loc, survivorBuckets(byLocation[loc])...))
	}
	return hierarchy.Branch(cause, locations...), nil
}

// survivorBuckets splits recs into the survivor leaves, omitting empty ones.
func survivorBuckets(recs []records.Record) []*hierarchy.Node {
	var with, without, withFat, withoutFat int
	for _, r := range recs {
		if r.HasSurvivors {
			with++
			withFat += r.Fatalities
		} else {
			without++
			withoutFat += r.Fatalities
		}
	}
	var out []*hierarchy.Node
	if with > 0 {
		out = append(out, hierarchy.Leaf(SurvivorsLabel, float64(with), withFat))
	}
	if without > 0 {
		out = append(out, hierarchy.Leaf(NoSurvivorsLabel, float64(without), withoutFat))
	}
	return out
}
