package service

import (
	"context"
	"testing"

	"fleetbase/internal/model"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genValidState() gopter.Gen {
	return gen.OneConstOf(
		model.StateInit, model.StateStarting, model.StateStarted,
		model.StateStopping, model.StateStopped,
	)
}

// TestProperty_SetStateRejectsNonMembers checks that for any string
// outside the enumerated set, SetState fails and leaves the current state
// untouched.
func TestProperty_SetStateRejectsNonMembers(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("non-member values are rejected without a transition", prop.ForAll(
		func(prior model.ServiceState, bogus string) bool {
			if model.ServiceState(bogus).Valid() {
				return true // generated a real member, nothing to check
			}

			svc, _, _ := newTestService(&spyBody{})
			if err := svc.SetState(prior); err != nil {
				return false
			}

			err := svc.SetState(model.ServiceState(bogus))
			return err != nil && svc.State() == prior
		},
		genValidState(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestProperty_StopAlwaysStops checks that Stop lands in stopped from any
// prior state.
func TestProperty_StopAlwaysStops(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("stop is unconditional", prop.ForAll(
		func(prior model.ServiceState) bool {
			svc, _, _ := newTestService(&spyBody{})
			if err := svc.SetState(prior); err != nil {
				return false
			}
			if err := svc.Stop(); err != nil {
				return false
			}
			return svc.State() == model.StateStopped
		},
		genValidState(),
	))

	properties.TestingRun(t)
}

// TestProperty_RunIsIdempotentOnlyWhenStarted checks the admission guard:
// from started the body is never re-entered, from every other state it
// runs exactly once.
func TestProperty_RunIsIdempotentOnlyWhenStarted(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("run guard admits exactly the non-started states", prop.ForAll(
		func(prior model.ServiceState) bool {
			body := &spyBody{}
			svc, _, _ := newTestService(body)
			if err := svc.SetState(prior); err != nil {
				return false
			}

			if err := svc.Run(context.Background()); err != nil {
				return false
			}

			if prior == model.StateStarted {
				return body.Runs() == 0 && svc.State() == model.StateStarted
			}
			return body.Runs() == 1 && svc.State() == model.StateStarted
		},
		genValidState(),
	))

	properties.TestingRun(t)
}
