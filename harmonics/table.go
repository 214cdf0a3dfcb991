package harmonics

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/shapefit/utils"
)

// Index returns the flat position of (n, m) in a coefficient table.
func Index(n, m int) int {
	return n*n + n + m
}

// NumCoefficients returns (degree+1)², the number of basis members up to degree.
func NumCoefficients(degree int) int {
	return utils.SquareInt(degree + 1)
}

// CoefficientTable holds one real coefficient per (n, m) for 0 <= n <= degree. It is not
// modified after creation.
type CoefficientTable struct {
	degree       int
	coefficients []float64
	samples      int
}

// NewCoefficientTable wraps coefficients laid out in Index order.
func NewCoefficientTable(degree int, coefficients []float64) (*CoefficientTable, error) {
	if degree < 0 {
		return nil, utils.NewInvalidArgumentError("degree %d must not be negative", degree)
	}
	if len(coefficients) != NumCoefficients(degree) {
		return nil, utils.NewInvalidArgumentError(
			"degree %d needs %d coefficients but got %d", degree, NumCoefficients(degree), len(coefficients))
	}
	c := make([]float64, len(coefficients))
	copy(c, coefficients)
	return &CoefficientTable{degree: degree, coefficients: c, samples: len(c)}, nil
}

// Degree returns the maximum degree L of the table.
func (ct *CoefficientTable) Degree() int {
	return ct.degree
}

// Len returns the number of coefficients, (L+1)².
func (ct *CoefficientTable) Len() int {
	return len(ct.coefficients)
}

// At returns the coefficient for (n, m), or 0 when (n, m) lies outside the table.
func (ct *CoefficientTable) At(n, m int) float64 {
	if n < 0 || n > ct.degree || utils.AbsInt(m) > n {
		return 0
	}
	return ct.coefficients[Index(n, m)]
}

// Coefficients returns a copy of the coefficients in Index order.
func (ct *CoefficientTable) Coefficients() []float64 {
	c := make([]float64, len(ct.coefficients))
	copy(c, ct.coefficients)
	return c
}

// Samples returns how many samples the table was fit to.
func (ct *CoefficientTable) Samples() int {
	return ct.samples
}

// Underdetermined reports whether the table was fit with fewer samples than coefficients,
// in which case it holds the minimum norm solution.
func (ct *CoefficientTable) Underdetermined() bool {
	return ct.samples < len(ct.coefficients)
}

// Warning returns a non-fatal diagnostic matching utils.ErrUnderdeterminedFit when the table
// is underdetermined, and nil otherwise.
func (ct *CoefficientTable) Warning() error {
	if !ct.Underdetermined() {
		return nil
	}
	return utils.NewUnderdeterminedFitError(ct.samples, len(ct.coefficients))
}

// Evaluate sums c(n, m)·RealBasis(n, m, theta, phi) over the table.
func (ct *CoefficientTable) Evaluate(theta, phi float64) float64 {
	row := make([]float64, len(ct.coefficients))
	basisRow(row, ct.degree, theta, phi)
	return floats.Dot(ct.coefficients, row)
}

// Power returns Σ_m c(n, m)² for every degree n. Under rotation the coefficients of a degree
// mix among themselves, so the spectrum is a rotation invariant summary.
func (ct *CoefficientTable) Power() []float64 {
	power := make([]float64, ct.degree+1)
	for n := 0; n <= ct.degree; n++ {
		band := ct.coefficients[Index(n, -n) : Index(n, n)+1]
		power[n] = floats.Dot(band, band)
	}
	return power
}

// String prints a table of every coefficient with columns of degree, order and value.
func (ct *CoefficientTable) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"n", "m", "Coefficient"})
	for n := 0; n <= ct.degree; n++ {
		for m := -n; m <= n; m++ {
			t.AppendRow([]interface{}{n, m, fmt.Sprintf("%.6g", ct.At(n, m))})
		}
	}
	return t.Render()
}
