package shape

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"go.uber.org/multierr"

	"go.viam.com/shapefit/pointcloud"
	"go.viam.com/shapefit/utils"
)

// Report summarizes the distances between a cloud and its reconstruction.
type Report struct {
	Mean   float64
	Median float64
	RMS    float64
	Max    float64
	StdDev float64
}

// NewReport compares two clouds of equal size point by point.
func NewReport(input, fitted pointcloud.Cloud) (Report, error) {
	if input.Size() != fitted.Size() {
		return Report{}, utils.NewInvalidArgumentError("cannot compare %d points to %d", input.Size(), fitted.Size())
	}
	if input.Size() == 0 {
		return Report{}, utils.NewInsufficientPointsError("residual report", 0, 1)
	}
	distances := make([]float64, input.Size())
	sumSquares := 0.
	for i := range distances {
		distances[i] = input.At(i).Sub(fitted.At(i)).Norm()
		sumSquares += distances[i] * distances[i]
	}

	mean, err1 := stats.Mean(distances)
	median, err2 := stats.Median(distances)
	maxDist, err3 := stats.Max(distances)
	sd, err4 := stats.StandardDeviation(distances)
	if err := multierr.Combine(err1, err2, err3, err4); err != nil {
		return Report{}, err
	}
	return Report{
		Mean:   mean,
		Median: median,
		RMS:    math.Sqrt(sumSquares / float64(len(distances))),
		Max:    maxDist,
		StdDev: sd,
	}, nil
}

// String prints the report as a one row table.
func (r Report) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Mean", "Median", "RMS", "Max", "Std Dev"})
	t.AppendRow([]interface{}{
		fmt.Sprintf("%.3g", r.Mean),
		fmt.Sprintf("%.3g", r.Median),
		fmt.Sprintf("%.3g", r.RMS),
		fmt.Sprintf("%.3g", r.Max),
		fmt.Sprintf("%.3g", r.StdDev),
	})
	return t.Render()
}
