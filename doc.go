// Package nexuspoint finds where and when two or more location histories
// came close to each other.
//
// An Analyzer loads every source (Google Takeout semantic segments, visit
// lists, E7 location records or GTFS-RT vehicle positions), compares every
// pair of sources with a two-pointer sweep bounded by a time window and a
// distance threshold, and reports the globally closest pair together with a
// place name and local times.
package nexuspoint
