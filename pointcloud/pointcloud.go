// Package pointcloud defines the ordered point cloud that flows through shape fitting.
//
// Unlike a scanned cloud, order here is kept so that every stage can line its output up
// with its input index for index.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
)

// MetaData is data about what's stored in the point cloud.
type MetaData struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData returns an empty bounding box ready to be merged into.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge grows the bounds to include v.
func (meta *MetaData) Merge(v r3.Vector) {
	meta.MinX = math.Min(meta.MinX, v.X)
	meta.MinY = math.Min(meta.MinY, v.Y)
	meta.MinZ = math.Min(meta.MinZ, v.Z)
	meta.MaxX = math.Max(meta.MaxX, v.X)
	meta.MaxY = math.Max(meta.MaxY, v.Y)
	meta.MaxZ = math.Max(meta.MaxZ, v.Z)
}

// Extent returns the size of the bounding box along each axis.
func (meta MetaData) Extent() r3.Vector {
	if meta.MinX > meta.MaxX {
		return r3.Vector{}
	}
	return r3.Vector{X: meta.MaxX - meta.MinX, Y: meta.MaxY - meta.MinY, Z: meta.MaxZ - meta.MinZ}
}

// Cloud is an ordered sequence of points. Duplicates are permitted.
type Cloud []r3.Vector

// NewVector convenience method for creating a vector.
func NewVector(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// Size returns the number of points in the cloud.
func (c Cloud) Size() int {
	return len(c)
}

// At returns the i-th point.
func (c Cloud) At(i int) r3.Vector {
	return c[i]
}

// MetaData returns the bounds of the cloud.
func (c Cloud) MetaData() MetaData {
	meta := NewMetaData()
	for _, p := range c {
		meta.Merge(p)
	}
	return meta
}

// Iterate calls fn for every point in order. If fn returns false, iteration stops.
// numBatches lets you divide up the work. 0 means don't divide;
// myBatch is used iff numBatches > 0 and is which batch you want.
func (c Cloud) Iterate(numBatches, myBatch int, fn func(i int, p r3.Vector) bool) {
	from, to := 0, len(c)
	if numBatches > 0 {
		batchSize := (len(c) + numBatches - 1) / numBatches
		from = myBatch * batchSize
		to = from + batchSize
		if to > len(c) {
			to = len(c)
		}
	}
	for i := from; i < to; i++ {
		if !fn(i, c[i]) {
			return
		}
	}
}

// Centroid returns the mean of all points; an empty cloud has the zero centroid.
func (c Cloud) Centroid() r3.Vector {
	if len(c) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	for _, p := range c {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(c)))
}

// Translate returns a new cloud with offset added to every point.
func (c Cloud) Translate(offset r3.Vector) Cloud {
	return lo.Map(c, func(p r3.Vector, _ int) r3.Vector {
		return p.Add(offset)
	})
}

// Components returns the x, y and z coordinates as separate slices.
func (c Cloud) Components() (xs, ys, zs []float64) {
	xs = lo.Map(c, func(p r3.Vector, _ int) float64 { return p.X })
	ys = lo.Map(c, func(p r3.Vector, _ int) float64 { return p.Y })
	zs = lo.Map(c, func(p r3.Vector, _ int) float64 { return p.Z })
	return xs, ys, zs
}

// FromComponents zips three equal length coordinate slices back into a cloud.
func FromComponents(xs, ys, zs []float64) Cloud {
	return lo.Map(xs, func(x float64, i int) r3.Vector {
		return r3.Vector{X: x, Y: ys[i], Z: zs[i]}
	})
}

// Clone returns a copy of the cloud.
func (c Cloud) Clone() Cloud {
	if c == nil {
		return nil
	}
	out := make(Cloud, len(c))
	copy(out, c)
	return out
}

// Norms returns the distance of every point from origin.
func (c Cloud) Norms(origin r3.Vector) []float64 {
	return lo.Map(c, func(p r3.Vector, _ int) float64 {
		return p.Sub(origin).Norm()
	})
}
