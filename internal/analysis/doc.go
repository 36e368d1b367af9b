// Package analysis provides qualitative analysis of low-dimensional systems.
//
// The package includes:
//
//   - [Jacobian]: central-difference linearisation of a planar field
//   - [Eigenvalues] and [Classify]: linear stability of a 2×2 matrix
//   - [FindFixedPoints]: equilibria of a planar system in a search region
//   - [Equilibria]: the same for one- and two-dimensional systems
//   - [Sweep]: equilibria as one parameter varies (bifurcation data)
//   - [LyapunovExponent]: mean separation rate of nearby orbits
//
// # Fixed points
//
// The locator tests the origin and any closed-form candidates first, then
// refines every lattice seed of the region with Newton's method:
//
//	fps := analysis.FindFixedPoints(models.NewLotkaVolterra(), dynamo.DefaultRegion())
//	for _, fp := range fps {
//	    fmt.Println(fp.Location, fp.Type, fp.Stability)
//	}
//
// Every function here is pure and deterministic. Callers that want to reuse
// expensive sweeps own a [SweepCache].
package analysis
