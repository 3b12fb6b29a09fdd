// Package partman provides a partition lease coordinator for a multi-host
// event-stream consumer cluster: a pool of cooperating host processes that
// must collectively subscribe to every partition of an event hub exactly
// once, distribute partitions as evenly as possible, tolerate hosts joining
// and leaving at arbitrary times, and migrate ownership without losing or
// duplicating subscriptions.
//
// The design is modeled on Azure Event Hubs' EventProcessorHost: a
// cooperative lease-based ownership protocol layered over an external
// compare-and-set store, a stateless load-balancing algorithm that steals
// leases unilaterally without oscillating, and a local reconciliation loop
// that maps owned leases to running per-partition workers ("pumps").
//
// # Quick Start
//
//	cfg := partman.DefaultConfig()
//	cfg.HostID = "host-a"
//
//	js, _ := jetstream.New(natsConn)
//	leaseStore, checkpointStore := partman.NewNATSStores(js, cfg)
//	src := source.NewStatic([]string{"p0", "p1", "p2", "p3"})
//	sup := pump.NewSupervisor(myPumpFactory)
//
//	mgr, err := partman.NewManager(&cfg, leaseStore, checkpointStore, src, sup)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := mgr.Initialize(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown ...
//	if err := <-mgr.StopPartitions(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Architecture
//
// Manager runs a single fail-fast initialization phase (provisioning the
// lease and checkpoint stores), then a dedicated goroutine iterates the
// reconciliation loop: renew what is owned, acquire what is expired,
// consider stealing one lease from an overloaded host via balancer.Steal,
// and reconcile the pump set to match, sleeping one lease-renewal interval
// between iterations.
//
// The lease store, checkpoint store, and pump supervisor are external
// collaborators specified only by interface (LeaseStore, CheckpointStore,
// PumpSupervisor); the store and pump packages provide NATS JetStream-backed
// implementations, and source provides two PartitionSource implementations.
package partman
