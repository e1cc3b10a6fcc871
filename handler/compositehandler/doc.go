// Package compositehandler provides CompositeHandler, which fans a log
// entry out to an ordered list of child handlers, either in parallel
// (via golang.org/x/sync/errgroup) or sequentially, isolating a child's
// failure from both its siblings and the caller.
package compositehandler
