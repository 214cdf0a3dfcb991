package harmonics

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/shapefit/ellipsoid"
	"go.viam.com/shapefit/utils"
)

// DesignMatrix returns the N×(L+1)² matrix whose row i holds every real basis member up to
// degree evaluated at angles[i], with U as the polar angle and V as the azimuth.
func DesignMatrix(angles []ellipsoid.Angle, degree int) *mat.Dense {
	cols := NumCoefficients(degree)
	data := make([]float64, len(angles)*cols)
	for i, a := range angles {
		basisRow(data[i*cols:(i+1)*cols], degree, a.U, a.V)
	}
	return mat.NewDense(len(angles), cols, data)
}

// FitCoefficients finds the least squares coefficients up to degree that best reproduce
// values at angles. With fewer samples than coefficients the minimum norm solution is
// returned and the table reports it through Underdetermined and Warning.
func FitCoefficients(angles []ellipsoid.Angle, values []float64, degree int) (*CoefficientTable, error) {
	if degree < 0 {
		return nil, utils.NewInvalidArgumentError("degree %d must not be negative", degree)
	}
	if len(angles) != len(values) {
		return nil, utils.NewInvalidArgumentError("%d angles but %d values", len(angles), len(values))
	}
	if len(angles) == 0 {
		return nil, utils.NewInsufficientPointsError("harmonic fit", 0, 1)
	}
	design := DesignMatrix(angles, degree)
	b := mat.NewVecDense(len(values), append([]float64(nil), values...))
	solution, err := solve(design, b)
	if err != nil {
		return nil, err
	}
	coefficients := solution.RawVector().Data
	if !lo.EveryBy(coefficients, utils.IsFinite) {
		return nil, utils.NewNumericInstabilityError("harmonic fit", errors.New("non-finite coefficient"))
	}
	ct, err := NewCoefficientTable(degree, coefficients)
	if err != nil {
		return nil, err
	}
	ct.samples = len(angles)
	return ct, nil
}

// solve uses QR for tall or square systems and LQ for wide ones.
func solve(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	rows, cols := a.Dims()
	var x mat.VecDense
	if rows >= cols {
		var qr mat.QR
		qr.Factorize(a)
		if err := qr.SolveVecTo(&x, false, b); err != nil {
			return nil, utils.NewDegenerateFitError("harmonic fit", err)
		}
		return &x, nil
	}
	var lq mat.LQ
	lq.Factorize(a)
	if err := lq.SolveVecTo(&x, false, b); err != nil {
		return nil, utils.NewDegenerateFitError("harmonic fit", err)
	}
	return &x, nil
}
