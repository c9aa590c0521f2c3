// Package planner turns fleet tables into an integer program and reads the
// solved program back into a buy, use and sell plan.
//
// A Builder enumerates the decision variables (Buy only in a cohort's
// purchase year, Use per compatible fuel and distance bucket, Sell every
// year), emits the constraint families and accumulates the cost objective
// on a solver.Solver. Extract, Summarize and Audit read the solution through
// the same registries. Planner chains the steps and reports metrics.
package planner
