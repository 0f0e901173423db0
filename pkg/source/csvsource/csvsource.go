// Package csvsource reads incident records from CSV.
//
// The first row is a header. Column names are matched case-insensitively
// after trimming, and these aliases are accepted:
//
//	year        year, date
//	cause       cause, summary_cause, category
//	location    location, country, place
//	fatalities  fatalities, deaths
//	survivors   survivors, has_survivors
//	aboard      aboard
//
// When there is no survivors column but an aboard column exists, a row has
// survivors when aboard exceeds fatalities. Extra columns are ignored.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/source"
)

var aliases = map[string]string{
	"year":          "year",
	"date":          "year",
	"cause":         "cause",
	"summary_cause": "cause",
	"category":      "cause",
	"location":      "location",
	"country":       "location",
	"place":         "location",
	"fatalities":    "fatalities",
	"deaths":        "fatalities",
	"survivors":     "survivors",
	"has_survivors": "survivors",
	"aboard":        "aboard",
}

var required = []string{"year", "cause", "location", "fatalities"}

// Source reads a CSV file.
type Source struct {
	path  string
	comma rune
}

// Option configures a Source.
type Option func(*Source)

// WithComma sets the field delimiter. The default is ','.
func WithComma(r rune) Option {
	return func(s *Source) { s.comma = r }
}

// New returns a source reading the file at path.
func New(path string, opts ...Option) *Source {
	s := &Source{path: path, comma: ','}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the base name of the file.
func (s *Source) Name() string { return filepath.Base(s.path) }

// Load reads and cleans every row of the file.
func (s *Source) Load(ctx context.Context) (*source.Result, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	return Read(ctx, f, s.Name(), s.comma)
}

// Read cleans CSV rows from r. name labels rejections in hooks.
func Read(ctx context.Context, r io.Reader, name string, comma rune) (*source.Result, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "%s: empty file", name)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "%s: read header", name)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "%s", name)
	}

	c := source.NewCollector(name)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			c.Reject(records.Rejection{Line: perr.Line, Reason: perr.Err.Error()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)
		c.Add(cols.raw(row, line))
	}
	return c.Result(), nil
}

// columns maps canonical field names to column indexes.
type columns map[string]int

func mapHeader(header []string) (columns, error) {
	cols := columns{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if canon, ok := aliases[key]; ok {
			if _, dup := cols[canon]; !dup {
				cols[canon] = i
			}
		}
	}
	var missing []string
	for _, f := range required {
		if _, ok := cols[f]; !ok {
			missing = append(missing, f)
		}
	}
	_, hasSurv := cols["survivors"]
	_, hasAboard := cols["aboard"]
	if !hasSurv && !hasAboard {
		missing = append(missing, "survivors")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columns) get(row []string, field string) string {
	i, ok := c[field]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (c columns) raw(row []string, line int) records.RawRow {
	raw := records.RawRow{
		Year:       c.get(row, "year"),
		Cause:      c.get(row, "cause"),
		Location:   c.get(row, "location"),
		Fatalities: c.get(row, "fatalities"),
		Survivors:  c.get(row, "survivors"),
		Line:       line,
	}
	if strings.TrimSpace(raw.Survivors) == "" {
		raw.Survivors = survivorsFromAboard(c.get(row, "aboard"), raw.Fatalities)
	}
	return raw
}

// survivorsFromAboard derives the survivors flag, or "" when either count
// is unusable.
func survivorsFromAboard(aboard, fatalities string) string {
	a, err1 := strconv.Atoi(strings.TrimSpace(aboard))
	f, err2 := strconv.Atoi(strings.TrimSpace(fatalities))
	if err1 != nil || err2 != nil {
		return ""
	}
	return strconv.FormatBool(a > f)
}

var _ source.Source = (*Source)(nil)
