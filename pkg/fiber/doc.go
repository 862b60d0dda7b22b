// Package fiber is an incremental tree-reconciliation engine.
//
// A Root owns one rendered tree. Mount hands it an element tree; the Root
// then expands and diffs that tree one Node at a time inside idle callbacks
// obtained from a host.IdleScheduler, and once the whole work-in-progress
// tree is diffed it commits the resulting effects to the host through a
// host.Adapter in a single pass.
//
// # Nodes and generations
//
// Every tree position is a Node linked as first-child/next-sibling. Each
// render builds a new generation of nodes; a node points at the node that
// held its position in the committed tree (its predecessor) until it is
// committed itself. Diffing is positional only: same kind at the same
// position is an Update reusing the host node, a different kind is a
// Placement plus a Deletion of the predecessor.
//
// # Components and state
//
// Components are render functions with a stable identity:
//
//	var Counter = fiber.Define("Counter", func(ctx *fiber.Ctx, props element.Props) *element.Element {
//	    count, setCount := fiber.UseState(ctx, 0)
//	    return element.Button(
//	        element.OnClick(func() { setCount(func(n int) int { return n + 1 }) }),
//	        element.Textf("clicked %d times", count),
//	    )
//	})
//
// State cells are positional: the i-th UseState call of a render reads the
// i-th cell of the predecessor. Updating a cell re-renders only the
// component that owns it.
//
// # Scheduling
//
// A Root is single-threaded. Mount, ForceRerender, Resume, setters and host
// event handlers must all run on the goroutine that drives the idle
// scheduler (see package idleloop). A new update arriving while a cycle is
// in flight discards the unfinished tree and restarts from the lowest
// common ancestor of both update roots; nothing reaches the host before
// commit, so abandoning a cycle is free.
package fiber
