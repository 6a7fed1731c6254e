package service

import (
	"context"
	"log"
	"sync"
	"time"

	alarmdomain "thermo-guard/internal/features/alarm/domain"
	"thermo-guard/internal/features/coordinator/domain"
	fabricdomain "thermo-guard/internal/features/fabric/domain"
	powerdomain "thermo-guard/internal/features/power/domain"
)

// Coordinator implements domain.Coordinator. Decisions are single-threaded:
// the control loop is the only caller of Evaluate, and the mutex exists only
// so the HTTP status handler can read a consistent snapshot.
type Coordinator struct {
	fabric    fabricdomain.Provider
	power     powerdomain.Provider
	endpoints []powerdomain.HostEndpoint
	metrics   *MetricsCollector

	status domain.Status
	mu     sync.RWMutex
}

// NewCoordinator creates a new coordinator starting in the running state.
func NewCoordinator(
	fabric fabricdomain.Provider,
	power powerdomain.Provider,
	endpoints []powerdomain.HostEndpoint,
	metrics *MetricsCollector,
) *Coordinator {
	if fabric == nil {
		log.Fatal("fabric provider cannot be nil")
	}
	if power == nil {
		log.Fatal("power provider cannot be nil")
	}

	c := &Coordinator{
		fabric:    fabric,
		power:     power,
		endpoints: endpoints,
		metrics:   metrics,
		status: domain.Status{
			State:      domain.ClusterRunning,
			LastSignal: alarmdomain.SignalUnknown,
		},
	}
	c.metrics.RecordState(domain.ClusterRunning)
	return c
}

// SeedFromProbe replaces the assumed running initial state with the real
// fabric power state. Called once before the control loop starts, never
// concurrently with Evaluate.
func (c *Coordinator) SeedFromProbe(ctx context.Context, prober domain.Prober) error {
	allOff, err := prober.AllPoweredOff(ctx, c.endpoints)
	if err != nil {
		return err
	}

	if allOff {
		log.Println("All hosts report powered off, starting in shutdown state")
		c.mu.Lock()
		c.status.State = domain.ClusterShutdown
		c.mu.Unlock()
		c.metrics.RecordState(domain.ClusterShutdown)
	}
	return nil
}

// Evaluate runs one decision step against the latest alarm signal. An
// unknown signal never causes any action in either state; the cluster state
// only changes on a successful full procedure.
func (c *Coordinator) Evaluate(ctx context.Context, signal alarmdomain.Signal) {
	state := c.State()

	c.mu.Lock()
	c.status.LastSignal = signal
	c.status.LastEvaluationTime = time.Now()
	c.status.Ticks++
	c.mu.Unlock()
	c.metrics.RecordTick()

	switch {
	case state == domain.ClusterRunning && signal == alarmdomain.SignalActive:
		log.Println("Temperature alarm detected, shutting down cluster")
		if c.fabric.ShutdownFabric(ctx) {
			c.transition(domain.ClusterRunning, domain.ClusterShutdown)
		} else {
			log.Println("Cluster shutdown failed, will retry on next tick")
			c.recordShutdownFailure()
		}

	case state == domain.ClusterShutdown && signal == alarmdomain.SignalInactive:
		log.Println("Temperature alarm cleared, powering on cluster")
		if c.power.PowerOnFabric(ctx, c.endpoints) {
			c.transition(domain.ClusterShutdown, domain.ClusterRunning)
		} else {
			log.Println("Cluster power-on failed, will retry on next tick")
			c.recordPowerOnFailure()
		}

	default:
		// Unknown signals and already-settled states take no action.
	}
}

// State returns the current cluster state.
func (c *Coordinator) State() domain.ClusterState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status.State
}

// Status returns a snapshot of the coordinator state.
func (c *Coordinator) Status() domain.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Coordinator) transition(from, to domain.ClusterState) {
	log.Printf("Cluster state transition: %s -> %s", from, to)

	c.mu.Lock()
	c.status.State = to
	c.status.LastTransitionTime = time.Now()
	c.mu.Unlock()

	c.metrics.RecordTransition(from, to)
	c.metrics.RecordState(to)
}

func (c *Coordinator) recordShutdownFailure() {
	c.mu.Lock()
	c.status.ShutdownFailures++
	c.mu.Unlock()
	c.metrics.RecordProcedureFailure("shutdown")
}

func (c *Coordinator) recordPowerOnFailure() {
	c.mu.Lock()
	c.status.PowerOnFailures++
	c.mu.Unlock()
	c.metrics.RecordProcedureFailure("power_on")
}
