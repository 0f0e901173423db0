package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/observability"
	"github.com/matzehuels/crashviz/pkg/records"
)

const sample = `year,cause,location,fatalities,survivors
2000,Weather,Alaska,5,false
2001,Hijacking,New York,92,no
,Weather,Alaska,1,true
2003,Unknown,Texas,0,true
2004,Mechanical,Texas,-1,true
2005,Mechanical,Texas,3,yes
`

func TestRead(t *testing.T) {
	res, err := Read(context.Background(), strings.NewReader(sample), "test.csv", ',')
	if err != nil {
		t.Fatal(err)
	}

	want := []records.Record{
		{Year: 2000, Cause: "Weather", Location: "Alaska", Fatalities: 5},
		{Year: 2001, Cause: "Terrorism", Location: "New York", Fatalities: 92},
		{Year: 2005, Cause: "Mechanical", Location: "Texas", Fatalities: 3, HasSurvivors: true},
	}
	if len(res.Records) != len(want) {
		t.Fatalf("Records = %+v, want %+v", res.Records, want)
	}
	for i := range want {
		if res.Records[i] != want[i] {
			t.Errorf("Records[%d] = %+v, want %+v", i, res.Records[i], want[i])
		}
	}

	wantLines := []int{4, 5, 6}
	if len(res.Rejected) != len(wantLines) {
		t.Fatalf("Rejected = %+v", res.Rejected)
	}
	for i, line := range wantLines {
		if res.Rejected[i].Line != line {
			t.Errorf("Rejected[%d].Line = %d, want %d", i, res.Rejected[i].Line, line)
		}
	}
}

func TestReadAliasesAndAboard(t *testing.T) {
	in := "\ufeffDate, Location ,Summary Cause,Aboard,Fatalities,Operator\n" +
		"07/14/1998,Peru,Weather,10,4,X\n" +
		"1999-01-02,Chile,Weather,3,3,Y\n" +
		"2000,Chile,Weather,,3,Z\n"
	res, err := Read(context.Background(), strings.NewReader(in), "crashes.csv", ',')
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("Records = %+v", res.Records)
	}
	if r := res.Records[0]; r.Year != 1998 || r.Location != "Peru" || !r.HasSurvivors {
		t.Errorf("Records[0] = %+v", r)
	}
	if r := res.Records[1]; r.Year != 1999 || r.HasSurvivors {
		t.Errorf("Records[1] = %+v", r)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Reason != "missing survivors" {
		t.Errorf("Rejected = %+v", res.Rejected)
	}
}

func TestReadSemicolon(t *testing.T) {
	in := "year;cause;location;fatalities;survivors\n2000;Weather;Alaska;1;true\n"
	res, err := Read(context.Background(), strings.NewReader(in), "x", ';')
	if err != nil || len(res.Records) != 1 {
		t.Fatalf("Read = %+v, %v", res, err)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing columns", "year,cause\n2000,Weather\n"},
		{"no survivor info", "year,cause,location,fatalities\n2000,Weather,Alaska,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(context.Background(), strings.NewReader(tt.in), "x", ',')
			if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

type rejectionRecorder struct {
	observability.NoopAggregationHooks
	reasons []string
}

func (r *rejectionRecorder) OnRecordRejected(_ string, _ int, reason string) {
	r.reasons = append(r.reasons, reason)
}

func TestReadReportsRejections(t *testing.T) {
	defer observability.Reset()
	rec := &rejectionRecorder{}
	observability.SetAggregationHooks(rec)

	if _, err := Read(context.Background(), strings.NewReader(sample), "test.csv", ','); err != nil {
		t.Fatal(err)
	}
	want := []string{"missing year", "unknown cause", "negative fatalities"}
	if strings.Join(rec.reasons, "|") != strings.Join(want, "|") {
		t.Errorf("reasons = %q, want %q", rec.reasons, want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.csv")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	src := New(path)
	if src.Name() != "incidents.csv" {
		t.Errorf("Name() = %q", src.Name())
	}
	res, err := src.Load(context.Background())
	if err != nil || len(res.Records) != 3 {
		t.Fatalf("Load = %v, %v", res, err)
	}

	_, err = New(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Read(ctx, strings.NewReader(sample), "x", ','); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
