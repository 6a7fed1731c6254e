package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"thermo-guard/internal/common"
	alarmdomain "thermo-guard/internal/features/alarm/domain"
	"thermo-guard/internal/features/coordinator/domain"
)

// LoopConfig holds the control loop timing policy
type LoopConfig struct {
	// PollInterval is the time between ticks
	PollInterval time.Duration

	// ErrorDelay is the shorter delay used after a tick fails
	// unexpectedly, so a persistent fault degrades to a slow retry loop
	ErrorDelay time.Duration
}

// DefaultLoopConfig returns the default control loop timing policy
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		PollInterval: 60 * time.Second,
		ErrorDelay:   10 * time.Second,
	}
}

// ControlLoop ticks on a fixed interval, feeding alarm signals into the
// coordinator. Everything runs on one goroutine: the next tick's poll does
// not begin until the previous tick's action, including any multi-minute
// shutdown or power-on, has fully resolved.
type ControlLoop struct {
	config      LoopConfig
	alarm       alarmdomain.Provider
	coordinator domain.Coordinator
}

// NewControlLoop creates a new control loop
func NewControlLoop(config LoopConfig, alarm alarmdomain.Provider, coordinator domain.Coordinator) *ControlLoop {
	if alarm == nil {
		log.Fatal("alarm provider cannot be nil")
	}
	if coordinator == nil {
		log.Fatal("coordinator cannot be nil")
	}

	return &ControlLoop{
		config:      config,
		alarm:       alarm,
		coordinator: coordinator,
	}
}

// Run executes ticks until the context is canceled. Cancellation is honored
// between ticks; an in-flight procedure runs to completion. A panicking tick
// is recovered and logged, and the loop continues after a short delay.
func (l *ControlLoop) Run(ctx context.Context) error {
	log.Println("Control loop running")

	for {
		if err := ctx.Err(); err != nil {
			log.Println("Control loop stopped")
			return nil
		}

		delay := l.config.PollInterval
		if err := l.tick(ctx); err != nil {
			if common.IsContextCanceled(err) {
				log.Println("Control loop stopped")
				return nil
			}
			log.Printf("Unexpected error in control loop tick: %v", err)
			delay = l.config.ErrorDelay
		}

		if err := common.Sleep(ctx, delay); err != nil {
			log.Println("Control loop stopped")
			return nil
		}
	}
}

// tick runs one poll-evaluate-act cycle, converting panics into errors so a
// faulty tick cannot take the process down.
func (l *ControlLoop) tick(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panicked: %v", r)
		}
	}()

	signal := l.alarm.Poll(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	l.coordinator.Evaluate(ctx, signal)
	return nil
}
