package shape

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/shapefit/harmonics"
)

// AxisNames labels the tables of a descriptor.
var AxisNames = [3]string{"x", "y", "z"}

// Descriptor is one coefficient table per Cartesian axis, all of the same degree.
type Descriptor [3]*harmonics.CoefficientTable

// Degree returns the shared maximum degree.
func (d Descriptor) Degree() int {
	return d[0].Degree()
}

// Evaluate returns the point the descriptor assigns to (theta, phi).
func (d Descriptor) Evaluate(theta, phi float64) r3.Vector {
	return r3.Vector{
		X: d[0].Evaluate(theta, phi),
		Y: d[1].Evaluate(theta, phi),
		Z: d[2].Evaluate(theta, phi),
	}
}

// Power sums the per degree power spectra of the three axes.
func (d Descriptor) Power() []float64 {
	out := make([]float64, d.Degree()+1)
	for _, t := range d {
		for n, p := range t.Power() {
			out[n] += p
		}
	}
	return out
}

// String prints every coefficient with one column per axis.
func (d Descriptor) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"n", "m", AxisNames[0], AxisNames[1], AxisNames[2]})
	for n := 0; n <= d.Degree(); n++ {
		for m := -n; m <= n; m++ {
			t.AppendRow([]interface{}{
				n,
				m,
				fmt.Sprintf("%.6g", d[0].At(n, m)),
				fmt.Sprintf("%.6g", d[1].At(n, m)),
				fmt.Sprintf("%.6g", d[2].At(n, m)),
			})
		}
	}
	return t.Render()
}

// PowerString prints the power spectrum with one row per degree.
func (d Descriptor) PowerString() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Degree", "Power"})
	for n, p := range d.Power() {
		t.AppendRow([]interface{}{n, fmt.Sprintf("%.6g", p)})
	}
	return t.Render()
}
