// Package memhost is an in-memory host tree for the fiber engine.
//
// Host implements host.Adapter and host.Inserter over plain Go structs and
// records every call in an operation log, which makes it the reference host
// for tests and for the demo CLI. Scheduler is a manually stepped
// host.IdleScheduler; Budget and Expired produce deterministic deadlines.
//
//	h := memhost.New()
//	sched := memhost.NewScheduler()
//	root := fiber.NewRoot(h, sched)
//	root.Mount(app, h.Container())
//	sched.RunUntil(root.Pending, memhost.Budget(10), 100)
//	fmt.Println(h.Container().InnerHTML())
package memhost
