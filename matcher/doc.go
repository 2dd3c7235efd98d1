// Package matcher finds pairs of observations from two time-sorted sequences
// that lie within a time window and a distance threshold of each other.
//
// Find walks both sequences with two cursors. The cursor into the second
// sequence only moves forward when it lags the first by more than the window,
// so a later observation of the first sequence can still pair with entries
// already visited by the inner scan. Cost is linear in the combined length
// when matches are sparse and grows toward m*n when many observations fall
// inside one window.
package matcher
