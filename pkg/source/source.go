// Package source loads incident records from external stores.
//
// Adapters read uncleaned rows, pass each through [records.Parse] and
// report rejected rows to the registered aggregation hooks. Subpackages
// provide the adapters:
//
//   - csvsource: CSV files with a header row
//   - mongosource: documents in a MongoDB collection
package source

import (
	"context"
	"time"

	"github.com/matzehuels/crashviz/pkg/observability"
	"github.com/matzehuels/crashviz/pkg/records"
)

// Source loads cleaned records.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Load reads all records. Malformed rows are rejected, not errors.
	Load(ctx context.Context) (*Result, error)
}

// Result is the outcome of a Load.
type Result struct {
	Records  []records.Record
	Rejected []records.Rejection
}

// Collector accumulates parsed rows for one source.
type Collector struct {
	source string
	result Result
}

// NewCollector returns a collector for the named source.
func NewCollector(source string) *Collector {
	return &Collector{source: source}
}

// Add parses raw and keeps the record or the rejection.
func (c *Collector) Add(raw records.RawRow) {
	rec, rej, ok := records.Parse(raw)
	if !ok {
		c.Reject(rej)
		return
	}
	c.result.Records = append(c.result.Records, rec)
}

// Reject records a row dropped before parsing.
func (c *Collector) Reject(rej records.Rejection) {
	c.result.Rejected = append(c.result.Rejected, rej)
	observability.Aggregation().OnRecordRejected(c.source, rej.Line, rej.Reason)
}

// Result returns what was collected so far.
func (c *Collector) Result() *Result {
	r := c.result
	return &r
}

// Load runs src.Load and reports the outcome to the pipeline hooks.
func Load(ctx context.Context, src Source) (*Result, error) {
	start := time.Now()
	res, err := src.Load(ctx)
	n, rejected := 0, 0
	if res != nil {
		n, rejected = len(res.Records), len(res.Rejected)
	}
	observability.Pipeline().OnLoadComplete(ctx, src.Name(), n, rejected, time.Since(start), err)
	return res, err
}
