// Package aggregate runs the matcher over every unordered pair of named
// sources and folds the per-pair results into a total match count and the
// single globally closest match.
//
// Sources are compared in slice order: for sources s0..sn the pairs are
// (s0,s1), (s0,s2), ..., (s1,s2), ... and ties on distance keep the pair
// that came first.
package aggregate
