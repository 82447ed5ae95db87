// Package tracking holds the trajectory followers: a Ramsete tracker for
// profiled paths from the planner and a Stanley lateral controller for raw
// polylines.
package tracking
