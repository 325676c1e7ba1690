// Package registry keeps live signing sessions addressable by handle for
// services that run many sessions at once.
//
// Handles are random UUIDs. The registry holds at most a fixed number of
// sessions and evicts the least recently used one when full. Sessions idle
// for longer than the TTL are dropped on access or by [Registry.Sweep]:
//
//	m, _ := registry.NewMetrics(prometheus.DefaultRegisterer)
//	reg, _ := registry.New(registry.WithTTL(10*time.Minute), registry.WithMetrics(m))
//
//	coord, _ := session.NewNonSigningCoordinator(engine, cfg, pkp, msg, session.WithObserver(m))
//	id := reg.Register(coord)
//
//	// later, from a transport handler
//	coord, err := reg.Get(id)
package registry
