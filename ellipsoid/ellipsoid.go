// Package ellipsoid fits a best-fit ellipsoid to a point cloud and maps points between
// Cartesian space and the ellipsoid-adapted angles (U, V).
package ellipsoid

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/shapefit/pointcloud"
	"go.viam.com/shapefit/spatialmath"
	"go.viam.com/shapefit/utils"
)

// MinFitPoints is the number of points needed to determine the nine quadric terms.
const MinFitPoints = 9

// eigenTolerance bounds how small an eigenvalue may be, relative to the largest one, before
// its axis is considered unbounded.
const eigenTolerance = 1e-12

// Ellipsoid is the result of a fit. It is not modified after Fit returns it.
type Ellipsoid struct {
	Center r3.Vector
	// Axes are the semi-axis lengths, largest first. Axes[i] lies along column i of
	// Orientation.
	Axes        [3]float64
	Orientation *spatialmath.RotationMatrix
	// Coefficients of x², y², z², xy, xz, yz, x, y, z and the constant -1.
	Coefficients [10]float64
}

// Fit estimates the quadric best matching pc in the least squares sense and decomposes it
// into center, semi-axes and principal directions.
func Fit(pc pointcloud.Cloud) (*Ellipsoid, error) {
	if pc.Size() < MinFitPoints {
		return nil, utils.NewInsufficientPointsError("ellipsoid fit", pc.Size(), MinFitPoints)
	}
	terms, err := fitQuadric(pc)
	if err != nil {
		return nil, err
	}
	var coefficients [10]float64
	copy(coefficients[:], terms)
	coefficients[9] = -1

	quadric := quadricMatrix(coefficients)
	center, err := quadricCenter(quadric)
	if err != nil {
		return nil, err
	}

	// translate the quadric so its center moves to the origin
	offset := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		center.X, center.Y, center.Z, 1,
	})
	var translated mat.Dense
	translated.Product(offset, quadric, offset.T())

	scale := -translated.At(3, 3)
	if scale == 0 || !utils.IsFinite(scale) {
		return nil, utils.NewDegenerateFitError("ellipsoid fit", errors.Errorf("translated constant term %g", -scale))
	}
	shape := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			shape.SetSym(i, j, (translated.At(i, j)+translated.At(j, i))/2/scale)
		}
	}

	var eigen mat.EigenSym
	if ok := eigen.Factorize(shape, true); !ok {
		return nil, utils.NewDegenerateFitError("ellipsoid fit", errors.New("eigen decomposition did not converge"))
	}
	// Eigenvalues are in ascending order, so the longest axis comes first.
	values := eigen.Values(nil)
	var vectors mat.Dense
	eigen.VectorsTo(&vectors)

	largest := 0.
	for _, v := range values {
		largest = math.Max(largest, math.Abs(v))
	}
	var axes [3]float64
	for i, v := range values {
		if math.Abs(v) <= eigenTolerance*largest {
			return nil, utils.NewInvalidGeometryError(i, v)
		}
		axes[i] = math.Sqrt(1 / math.Abs(v))
		if !utils.IsFinite(axes[i]) || axes[i] <= 0 {
			return nil, utils.NewInvalidGeometryError(i, v)
		}
	}
	orientation, err := spatialmath.NewRotationMatrixFromDense(&vectors)
	if err != nil {
		return nil, err
	}
	return &Ellipsoid{
		Center:       center,
		Axes:         axes,
		Orientation:  orientation,
		Coefficients: coefficients,
	}, nil
}

// fitQuadric solves the normal equations of the design rows [x², y², z², xy, xz, yz, x, y, z]
// against a column of ones.
func fitQuadric(pc pointcloud.Cloud) ([]float64, error) {
	design := mat.NewDense(pc.Size(), 9, nil)
	pc.Iterate(0, 0, func(i int, p r3.Vector) bool {
		design.SetRow(i, []float64{p.X * p.X, p.Y * p.Y, p.Z * p.Z, p.X * p.Y, p.X * p.Z, p.Y * p.Z, p.X, p.Y, p.Z})
		return true
	})
	ones := make([]float64, pc.Size())
	for i := range ones {
		ones[i] = 1
	}

	var normal mat.Dense
	normal.Mul(design.T(), design)
	var rhs mat.VecDense
	rhs.MulVec(design.T(), mat.NewVecDense(len(ones), ones))

	var qr mat.QR
	qr.Factorize(&normal)
	var solution mat.VecDense
	if err := qr.SolveVecTo(&solution, false, &rhs); err != nil {
		return nil, utils.NewDegenerateFitError("ellipsoid fit", err)
	}
	terms := make([]float64, 9)
	for i := range terms {
		terms[i] = solution.AtVec(i)
		if !utils.IsFinite(terms[i]) {
			return nil, utils.NewDegenerateFitError("ellipsoid fit", errors.Errorf("term %d is %g", i, terms[i]))
		}
	}
	return terms, nil
}

// quadricMatrix lays the coefficients out as the symmetric 4x4 matrix Q with xᵀQx = 0 for
// homogeneous points x on the surface.
func quadricMatrix(c [10]float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		c[0], c[3] / 2, c[4] / 2, c[6] / 2,
		c[3] / 2, c[1], c[5] / 2, c[7] / 2,
		c[4] / 2, c[5] / 2, c[2], c[8] / 2,
		c[6] / 2, c[7] / 2, c[8] / 2, c[9],
	})
}

func quadricCenter(quadric *mat.Dense) (r3.Vector, error) {
	block := quadric.Slice(0, 3, 0, 3)
	ofs := mat.NewVecDense(3, []float64{-quadric.At(0, 3), -quadric.At(1, 3), -quadric.At(2, 3)})
	var center mat.VecDense
	if err := center.SolveVec(block, ofs); err != nil {
		return r3.Vector{}, utils.NewDegenerateFitError("ellipsoid center", err)
	}
	return r3.Vector{X: center.AtVec(0), Y: center.AtVec(1), Z: center.AtVec(2)}, nil
}

// AxisVectors returns the principal axes scaled by their semi-axis lengths.
func (e *Ellipsoid) AxisVectors() [3]r3.Vector {
	var out [3]r3.Vector
	for i := range out {
		out[i] = e.Orientation.Col(i).Mul(e.Axes[i])
	}
	return out
}

// Residuals returns the algebraic distance of every point from the fitted quadric. Points
// on the surface give 0; inside is negative.
func (e *Ellipsoid) Residuals(pc pointcloud.Cloud) []float64 {
	c := e.Coefficients
	out := make([]float64, pc.Size())
	pc.Iterate(0, 0, func(i int, p r3.Vector) bool {
		out[i] = c[0]*p.X*p.X + c[1]*p.Y*p.Y + c[2]*p.Z*p.Z +
			c[3]*p.X*p.Y + c[4]*p.X*p.Z + c[5]*p.Y*p.Z +
			c[6]*p.X + c[7]*p.Y + c[8]*p.Z + c[9]
		return true
	})
	return out
}

// Volume returns 4/3·π·abc.
func (e *Ellipsoid) Volume() float64 {
	return 4. / 3. * math.Pi * e.Axes[0] * e.Axes[1] * e.Axes[2]
}

// thomsenExponent keeps the Knud Thomsen area approximation within about 1% of the exact value.
const thomsenExponent = 1.6075

// SurfaceArea returns the Knud Thomsen approximation of the surface area.
func (e *Ellipsoid) SurfaceArea() float64 {
	ap := math.Pow(e.Axes[0], thomsenExponent)
	bp := math.Pow(e.Axes[1], thomsenExponent)
	cp := math.Pow(e.Axes[2], thomsenExponent)
	return 4 * math.Pi * math.Pow((ap*bp+ap*cp+bp*cp)/3, 1/thomsenExponent)
}

// Quaternion returns the orientation as a unit quaternion.
func (e *Ellipsoid) Quaternion() quat.Number {
	return e.Orientation.Quaternion()
}

// String prints a table with the center and each principal axis.
func (e *Ellipsoid) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"", "X", "Y", "Z", "Length"})
	t.AppendRow([]interface{}{
		"center",
		fmt.Sprintf("%.4f", e.Center.X),
		fmt.Sprintf("%.4f", e.Center.Y),
		fmt.Sprintf("%.4f", e.Center.Z),
		"",
	})
	for i := 0; i < 3; i++ {
		dir := e.Orientation.Col(i)
		t.AppendRow([]interface{}{
			fmt.Sprintf("axis %d", i),
			fmt.Sprintf("%.4f", dir.X),
			fmt.Sprintf("%.4f", dir.Y),
			fmt.Sprintf("%.4f", dir.Z),
			fmt.Sprintf("%.4f", e.Axes[i]),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "volume", fmt.Sprintf("%.4f", e.Volume())})
	return t.Render()
}
