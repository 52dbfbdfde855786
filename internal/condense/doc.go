// Package condense implements diffusion condensation of point clouds:
// an iterative scheme that repeatedly smooths a cloud with a
// kernel-derived Markov operator while observers track the topological
// changes (component merges, persistent homology) of the contracting
// cloud.
//
// The engine is strictly sequential. Each iteration computes the
// pairwise distance matrix, builds the diffusion operator, dispatches
// every registered callback, and advances the cloud by one diffusion
// step. Callbacks accumulate private state and contribute their output
// to a shared Result map when the run finalizes.
package condense
