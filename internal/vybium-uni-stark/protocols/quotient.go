package protocols

import (
	"fmt"
	"runtime"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
)

// computeQuotientValues evaluates the folded constraint polynomial divided
// by the trace domain's vanishing polynomial over every point of the
// quotient domain.
//
// Points are independent, so the domain is split into row ranges evaluated
// in parallel; each point contributes one quotient value and the ranges are
// joined by plain slice writes, keeping the result independent of the split
// granularity.
func computeQuotientValues(
	a air.Air,
	traceDomain *ArithmeticDomain,
	quotientDomain *ArithmeticDomain,
	mainData *ProverData,
	auxData *ProverData,
	challenges []xfield.XFieldElement,
	alpha xfield.XFieldElement,
) ([]xfield.XFieldElement, error) {
	points := quotientDomain.Elements()
	values := make([]xfield.XFieldElement, len(points))

	var g errgroup.Group
	workers := runtime.NumCPU()
	if workers > len(points) {
		workers = len(points)
	}
	chunk := (len(points) + workers - 1) / workers

	for start := 0; start < len(points); start += chunk {
		end := start + chunk
		if end > len(points) {
			end = len(points)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				point := air.Lift(points[i])
				next := traceDomain.NextPoint(point)

				selectors, err := traceDomain.SelectorsAt(point)
				if err != nil {
					return fmt.Errorf("quotient point %d lies on the trace domain: %w", i, err)
				}

				main := air.Window{Local: mainData.RowAt(point), Next: mainData.RowAt(next)}
				var aux air.Window
				if auxData != nil {
					aux = air.Window{Local: auxData.RowAt(point), Next: auxData.RowAt(next)}
				}

				folder := NewProverFolder(main, aux, challenges, selectors, alpha)
				a.Eval(folder)

				values[i] = folder.Accumulator().Mul(selectors.InvVanishing)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}
