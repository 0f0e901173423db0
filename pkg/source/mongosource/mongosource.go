// Package mongosource reads incident records from a MongoDB collection.
//
// Documents carry the same fields as the CSV source (year or date, cause,
// location, fatalities, survivors or aboard). Field values may be strings,
// numbers, booleans or BSON dates; everything is converted to the raw row
// form and cleaned by records.Parse, so a malformed document is rejected
// rather than failing the load.
package mongosource

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/source"
)

// Config locates the collection.
type Config struct {
	URI        string        `toml:"uri"`
	Database   string        `toml:"database"`
	Collection string        `toml:"collection"`
	Timeout    time.Duration `toml:"timeout"`
}

// Source reads one collection.
type Source struct {
	coll   *mongo.Collection
	filter bson.D
	client *mongo.Client // set when the source owns the connection
}

// New returns a source reading coll. The caller keeps ownership of the
// client.
func New(coll *mongo.Collection) *Source {
	return &Source{coll: coll, filter: bson.D{}}
}

// Connect dials cfg.URI and returns a source owning the connection.
// Close releases it.
func Connect(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "mongo source needs database and collection")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "connect %s", redact(cfg.URI))
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "ping %s", redact(cfg.URI))
	}
	s := New(client.Database(cfg.Database).Collection(cfg.Collection))
	s.client = client
	return s, nil
}

// WithFilter restricts the documents read.
func (s *Source) WithFilter(filter bson.D) *Source {
	s.filter = filter
	return s
}

// Name returns "mongo:<db>.<collection>".
func (s *Source) Name() string {
	return fmt.Sprintf("mongo:%s.%s", s.coll.Database().Name(), s.coll.Name())
}

// Load reads all matching documents.
func (s *Source) Load(ctx context.Context) (*source.Result, error) {
	cur, err := s.coll.Find(ctx, s.filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "query %s", s.Name())
	}
	defer cur.Close(ctx)

	c := source.NewCollector(s.Name())
	n := 0
	for cur.Next(ctx) {
		n++
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			c.Reject(records.Rejection{Line: n, Reason: "undecodable document: " + err.Error()})
			continue
		}
		c.Add(RawRow(doc, n))
	}
	if err := cur.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "read %s", s.Name())
	}
	return c.Result(), nil
}

// Close disconnects an owned client.
func (s *Source) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// RawRow converts a document to a raw row. n is its 1-based position.
func RawRow(doc bson.M, n int) records.RawRow {
	raw := records.RawRow{
		Year:       first(doc, "year", "date"),
		Cause:      first(doc, "cause", "summary_cause", "category"),
		Location:   first(doc, "location", "country", "place"),
		Fatalities: first(doc, "fatalities", "deaths"),
		Survivors:  first(doc, "has_survivors", "survivors", "hasSurvivors"),
		Line:       n,
	}
	if raw.Survivors == "" {
		a, err1 := strconv.Atoi(first(doc, "aboard"))
		f, err2 := strconv.Atoi(raw.Fatalities)
		if err1 == nil && err2 == nil {
			raw.Survivors = strconv.FormatBool(a > f)
		}
	}
	return raw
}

func first(doc bson.M, keys ...string) string {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case primitive.DateTime:
		return v.Time().UTC().Format("2006-01-02")
	case time.Time:
		return v.UTC().Format("2006-01-02")
	}
	return ""
}

// redact hides credentials in a connection string.
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return uri
}

var _ source.Source = (*Source)(nil)
