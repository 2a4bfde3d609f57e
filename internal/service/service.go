package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleetbase/internal/model"
	"fleetbase/pkg/interfaces"
	"fleetbase/pkg/logger"
)

// heartbeatInterval is the fixed reporting cadence. Deliberately not
// configurable and not jittered: reports are independent point-to-point
// exchanges, so concurrent workers need no phase randomization.
const heartbeatInterval = 10 * time.Second

// Service is the control-plane substrate a worker process embeds. It owns
// the authoritative lifecycle state and runs two protocol loops against
// the monitor: the heartbeat reporter and the control listener. Both
// loops, plus the worker body, share the single state field; all writes
// go through the transition methods and every access is mutex-guarded
// because the loops run as separate goroutines.
type Service struct {
	sid string // unique within the fleet, immutable for process lifetime

	mu    sync.Mutex
	state model.ServiceState

	body      Body
	heartbeat interfaces.HeartbeatTransport
	control   interfaces.ControlSubscription

	wg sync.WaitGroup
}

// New creates a service in state init.
func New(sid string, body Body, heartbeat interfaces.HeartbeatTransport, control interfaces.ControlSubscription) *Service {
	return &Service{
		sid:       sid,
		state:     model.StateInit,
		body:      body,
		heartbeat: heartbeat,
		control:   control,
	}
}

// SID returns the worker's fleet identity.
func (s *Service) SID() string {
	return s.sid
}

// SetState records a lifecycle transition. A value outside the enumerated
// set is a configuration bug: the call fails with ErrInvalidState and the
// current state is left untouched. Transitions are otherwise unchecked.
func (s *Service) SetState(state model.ServiceState) error {
	if !state.Valid() {
		logger.Errorf("invalid service state %q, need a member of the ServiceState set", state)
		return fmt.Errorf("%w: %q", model.ErrInvalidState, state)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	logger.Infof("service %s state set to %s", s.sid, state)
	return nil
}

// State returns the current lifecycle state.
func (s *Service) State() model.ServiceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the external representation of the current state. Pure
// read, no side effect.
func (s *Service) Status() string {
	return s.State().String()
}

// Start drives the boot path: starting, then hand-off to Run. It returns
// only when the worker body yields control back.
func (s *Service) Start(ctx context.Context) error {
	if err := s.SetState(model.StateStarting); err != nil {
		return err
	}
	logger.Infof("service %s starting", s.sid)
	return s.Run(ctx)
}

// Stop sets the state straight to stopped. The stopping value is skipped
// on purpose: there is no graceful-drain phase yet.
func (s *Service) Stop() error {
	if err := s.SetState(model.StateStopped); err != nil {
		return err
	}
	logger.Infof("service %s stopped", s.sid)
	return nil
}

// Run admits the worker body. Invoked while already started it is an
// anomaly worth logging but not acting on: state stays started and the
// body is not re-entered. The check and the transition are one critical
// section so a racing restart cannot run the body twice.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.state == model.StateStarted {
		s.mu.Unlock()
		logger.Errorf("tried to run service %s, but state is already %s", s.sid, model.StateStarted)
		return nil
	}
	s.state = model.StateStarted
	s.mu.Unlock()

	logger.Infof("service %s state set to %s", s.sid, model.StateStarted)
	return s.body.Run(ctx)
}

// Heartbeat reports liveness to the monitor forever: build one record
// from the caller-supplied static metadata plus the live sid and state,
// send it, block for the ack, then sleep out the cadence. Failures are
// not retried and not recovered; the loop dies loud and the monitor reads
// the resulting silence as the failure signal.
func (s *Service) Heartbeat(ctx context.Context, infos map[string]interface{}) error {
	for {
		record := model.NewHeartbeatRecord(s.sid, s.State(), infos)
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal heartbeat record: %w", err)
		}

		if err := s.heartbeat.Send(ctx, payload); err != nil {
			return fmt.Errorf("failed to report heartbeat: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(heartbeatInterval):
		}
	}
}

// ControlLoop applies remote commands addressed to this worker. The
// subscription carries every command for the whole fleet; anything with a
// foreign sid is dropped silently, which is how one fan-out channel
// serves many workers. A stop command calls Stop; a start command
// re-enters Run directly, so the starting intermediate only ever appears
// on the boot path. Unknown actions are ignored. Malformed payloads are
// fatal to the loop, matching the fail-fast transport contract.
func (s *Service) ControlLoop(ctx context.Context) error {
	for {
		raw, err := s.control.Receive(ctx)
		if err != nil {
			return fmt.Errorf("failed to receive control message: %w", err)
		}

		var cmd model.ControlCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return fmt.Errorf("failed to decode control message: %w", err)
		}

		if cmd.SID != s.sid {
			continue
		}

		switch cmd.Action {
		case model.ActionStop:
			if err := s.Stop(); err != nil {
				return err
			}
		case model.ActionStart:
			if err := s.Run(ctx); err != nil {
				return err
			}
		}
	}
}

// Serve launches the boot path and the two protocol loops as three
// goroutines. The loops are not individually cancellable; cancelling ctx
// at process shutdown is the only termination path. A loop that dies on a
// transport or protocol error is logged and left dead so the monitor
// notices the silence.
func (s *Service) Serve(ctx context.Context, infos map[string]interface{}) {
	s.wg.Add(3)

	go func() {
		defer s.wg.Done()
		if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("service %s start failed: %v", s.sid, err)
		}
	}()

	go func() {
		defer s.wg.Done()
		if err := s.ControlLoop(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("service %s control listener terminated: %v", s.sid, err)
		}
	}()

	go func() {
		defer s.wg.Done()
		if err := s.Heartbeat(ctx, infos); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("service %s heartbeat reporter terminated: %v", s.sid, err)
		}
	}()
}

// Wait blocks until all three goroutines have exited.
func (s *Service) Wait() {
	s.wg.Wait()
}
