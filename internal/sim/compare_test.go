package sim

import (
	"testing"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/models"
)

func TestCompareSteppersClosedForm(t *testing.T) {
	sys := models.NewLinearSpiral()
	scores, exact := CompareSteppers(sys, dynamo.State{1, 0}, 5, 0.05,
		[]string{"euler", "rk4"},
		[]integrators.Stepper{integrators.NewEuler(), integrators.NewRK4()})

	if !exact {
		t.Fatal("linear spiral has a closed form")
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[1].Error >= scores[0].Error {
		t.Errorf("rk4 error %g should beat euler error %g", scores[1].Error, scores[0].Error)
	}
	if scores[1].Error > 1e-5 {
		t.Errorf("rk4 error too large: %g", scores[1].Error)
	}
}

func TestCompareSteppersReference(t *testing.T) {
	sys := models.NewVanDerPol()
	scores, exact := CompareSteppers(sys, dynamo.State{0.5, 0}, 2, 0.01,
		[]string{"rk4"}, []integrators.Stepper{integrators.NewRK4()})
	if exact {
		t.Fatal("van der pol has no closed form")
	}
	if scores[0].Error > 1e-6 {
		t.Errorf("rk4 against refined rk4: %g", scores[0].Error)
	}
}
