package experiment

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/models"
)

// Registry maps model and integrator names to constructors.
type Registry struct {
	integrators map[string]func() epi.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() epi.Integrator),
	}

	r.integrators["euler"] = func() epi.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() epi.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() epi.Integrator { return integrators.NewRK45() }

	return r
}

// GetModel builds the compartmental model for a kind name.
func (r *Registry) GetModel(name string, beta, gamma float64) (*models.Compartmental, error) {
	kind, err := models.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return models.New(kind, beta, gamma)
}

func (r *Registry) GetIntegrator(name string) (epi.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	return []string{"euler", "rk4", "rk45"}
}
