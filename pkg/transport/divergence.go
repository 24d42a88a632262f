package transport

// SinkhornDivergence computes the debiased Sinkhorn divergence (spec.md
// §4.2):
//
//	S_eps(a,b) = OT_eps(a,b,Cab) - 1/2*OT_eps(a,a,Caa) - 1/2*OT_eps(b,b,Cbb)
//
// using cab as the cross cost matrix (a rows, b cols) and caa/cbb as the
// self cost matrices for a-vs-a and b-vs-b. The debiasing terms cancel
// the entropic bias that a plain OT_eps cost carries, so S_eps(a,a) = 0.
func SinkhornDivergence(a, b Distribution, cab, caa, cbb *CostMatrix, cfg SinkhornConfig) (float64, error) {
	rAB, err := Sinkhorn(a, b, cab, cfg)
	if err != nil {
		return 0, err
	}
	rAA, err := Sinkhorn(a, a, caa, cfg)
	if err != nil {
		return 0, err
	}
	rBB, err := Sinkhorn(b, b, cbb, cfg)
	if err != nil {
		return 0, err
	}
	return rAB.Cost - 0.5*rAA.Cost - 0.5*rBB.Cost, nil
}
