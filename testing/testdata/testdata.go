package testdata

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(basepath, rel)
}

// Source_Astana8 is a tiny hand-made source in the layout of the Astana hackathon dataset:
// trips 100 (4 points), 200 (1 point) and 300 (3 points), speeds in m/s.
var Source_Astana8 = "./astana_8.csv"

// Header is the column layout of the Astana hackathon dataset.
const Header = "randomized_id,lat,lng,alt,spd,azm"

// Row is one source row, with speed in raw (m/s) units.
type Row struct {
	TripID   string
	Lat, Lng float64
	Alt      float64
	SpeedMps float64
	Bearing  float64
}

func (r Row) CSV() string {
	return fmt.Sprintf("%s,%v,%v,%v,%v,%v", r.TripID, r.Lat, r.Lng, r.Alt, r.SpeedMps, r.Bearing)
}

func (r Row) JSON() string {
	return fmt.Sprintf(`{"randomized_id":%q,"lat":%v,"lng":%v,"alt":%v,"spd":%v,"azm":%v}`,
		r.TripID, r.Lat, r.Lng, r.Alt, r.SpeedMps, r.Bearing)
}

// CSV renders rows under the standard header.
func CSV(rows ...Row) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, Header)
	for _, r := range rows {
		lines = append(lines, r.CSV())
	}
	return strings.Join(lines, "\n") + "\n"
}

// NDJSON renders rows as JSON lines.
func NDJSON(rows ...Row) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.JSON())
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteSource writes content to name in a fresh temporary directory and returns its path.
func WriteSource(tb testing.TB, name, content string) string {
	tb.Helper()
	p := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0600); err != nil {
		tb.Fatal(err)
	}
	return p
}
