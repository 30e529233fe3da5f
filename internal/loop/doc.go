// Package loop drives a single creative loop execution: it resolves the
// requested loop from the embedded catalog, hands the request to the engine,
// and folds the engine's event stream into a progress tracker until the loop
// stabilizes or an exit condition fires.
package loop
