// Package aggregate turns a flat, single-owner list of measurements into the
// derived views used by charts and the dashboard.
//
// Every function here is pure: it never performs I/O, never mutates its
// input and is safe to call concurrently on the same snapshot.
package aggregate
