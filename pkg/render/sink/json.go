package sink

import (
	"github.com/matzehuels/crashviz/pkg/chart"
)

// RenderJSON encodes c in the chart wire format.
func RenderJSON(c *chart.Chart) ([]byte, error) {
	return chart.Marshal(c)
}
