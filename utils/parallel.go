package utils

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ParallelFactor is the most groups GroupWorkParallel splits work into. Tests may lower it.
var ParallelFactor = parallelFactor(runtime.GOMAXPROCS(0))

func parallelFactor(procs int) int {
	if procs <= 0 {
		return 1
	}
	if procs > 32 {
		return procs / 4
	}
	return procs
}

type (
	// BeforeParallelGroupWorkFunc is told the number of groups before any work starts.
	BeforeParallelGroupWorkFunc func(numGroups int)
	// MemberWorkFunc handles one work number of a group.
	MemberWorkFunc func(memberNum, workNum int)
	// GroupWorkDoneFunc runs once a group has handled all its work numbers.
	GroupWorkDoneFunc func()
	// GroupWorkFunc returns the work a group does for the work numbers in [from, to).
	GroupWorkFunc func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc)
)

// groupRange returns the work numbers owned by group g when total items are split into
// numGroups contiguous groups. The last group takes the remainder.
func groupRange(g, numGroups, total int) (int, int) {
	size := total / numGroups
	from := g * size
	if g == numGroups-1 {
		return from, total
	}
	return from, from + size
}

// GroupWorkParallel splits [0, totalSize) into contiguous groups and runs each group on its
// own goroutine. Every work number goes to exactly one member. Groups stop handing out
// work once ctx is done, and the context error is returned.
func GroupWorkParallel(ctx context.Context, totalSize int, before BeforeParallelGroupWorkFunc, groupWork GroupWorkFunc) error {
	numGroups := ParallelFactor
	if totalSize < numGroups {
		numGroups = totalSize
	}
	numGroups = MaxInt(numGroups, 1)
	if before != nil {
		before(numGroups)
	}

	var wg sync.WaitGroup
	wg.Add(numGroups)
	for g := 0; g < numGroups; g++ {
		from, to := groupRange(g, numGroups, totalSize)
		groupNum := g
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			member, done := groupWork(groupNum, to-from, from, to)
			for workNum := from; member != nil && workNum < to && ctx.Err() == nil; workNum++ {
				member(workNum-from, workNum)
			}
			if done != nil {
				done()
			}
		})
	}
	wg.Wait()
	return ctx.Err()
}

// SimpleFunc is for RunInParallel.
type SimpleFunc func(ctx context.Context) error

// RunInParallel runs every function on its own goroutine and waits for all of them. The first
// failure cancels the context handed to the others. Failures are combined, panics are
// reported as errors, and cancellations caused by an earlier failure are dropped.
func RunInParallel(ctx context.Context, fs []SimpleFunc) (time.Duration, error) {
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		combined error
		wg       sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		if combined == nil || !errors.Is(err, context.Canceled) {
			multierr.AppendInto(&combined, err)
		}
		mu.Unlock()
		cancel()
	}

	wg.Add(len(fs))
	for _, f := range fs {
		go func(f SimpleFunc) {
			defer wg.Done()
			defer func() {
				if thePanic := recover(); thePanic != nil {
					fail(fmt.Errorf("panic running in parallel: %v", thePanic))
				}
			}()
			if err := f(ctx); err != nil {
				fail(err)
			}
		}(f)
	}
	wg.Wait()
	return time.Since(start), combined
}
