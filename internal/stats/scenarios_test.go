package stats_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/models"
)

func simulate(req experiment.Request) *experiment.Response {
	resp, err := experiment.Simulate(context.Background(), req)
	Expect(err).NotTo(HaveOccurred())
	return resp
}

var _ = Describe("SIR epidemic", func() {
	var resp *experiment.Response

	BeforeEach(func() {
		resp = simulate(experiment.Request{
			Model:    models.SIR,
			Initial:  []float64{0.99, 0.01, 0},
			Beta:     0.3,
			Gamma:    0.1,
			Duration: 200,
			Dt:       0.1,
		})
	})

	It("reports R0 = beta/gamma", func() {
		r0 := resp.Stats.Get("r0")
		Expect(r0.Defined).To(BeTrue())
		Expect(r0.Num).To(BeNumerically("~", 3.0, 1e-12))
	})

	It("peaks at roughly 30% infected", func() {
		peak := resp.Stats.Get("peak_infected")
		Expect(peak.Defined).To(BeTrue())
		Expect(peak.Num).To(BeNumerically(">=", 0.25))
		Expect(peak.Num).To(BeNumerically("<=", 0.35))

		peakTime := resp.Stats.Get("peak_time")
		Expect(peakTime.Defined).To(BeTrue())
		Expect(peakTime.Num).To(BeNumerically(">", 0))
	})

	It("infects most of the population by the end", func() {
		finalR := resp.Stats.Get("final_recovered")
		Expect(finalR.Defined).To(BeTrue())
		Expect(finalR.Num).To(BeNumerically(">", 0.9))
	})

	It("computes the herd immunity threshold", func() {
		hit := resp.Stats.Get("herd_immunity_threshold")
		Expect(hit.Defined).To(BeTrue())
		Expect(hit.Num).To(BeNumerically("~", 2.0/3.0, 1e-9))
	})

	It("measures a positive epidemic duration", func() {
		dur := resp.Stats.Get("epidemic_duration")
		Expect(dur.Defined).To(BeTrue())
		Expect(dur.Num).To(BeNumerically(">", 0))
	})

	It("conserves the total fraction along the trajectory", func() {
		Expect(resp.Trajectory.ConservationDrift).To(BeNumerically("<", 1e-3))
	})

	It("accumulates R monotonically", func() {
		recovered := resp.Trajectory.Series(2)
		for i := 1; i < len(recovered); i++ {
			Expect(recovered[i]).To(BeNumerically(">=", recovered[i-1]-1e-12))
		}
	})
})

var _ = Describe("SIR below the epidemic threshold", func() {
	It("marks herd immunity as not applicable for R0 <= 1", func() {
		resp := simulate(experiment.Request{
			Model:    models.SIR,
			Initial:  []float64{0.95, 0.05, 0},
			Beta:     0.08,
			Gamma:    0.1,
			Duration: 200,
			Dt:       0.1,
		})

		Expect(resp.Stats.Get("herd_immunity_threshold").Defined).To(BeFalse())
		Expect(resp.Stats.Get("r0").Defined).To(BeTrue())
	})
})

var _ = Describe("SIS endemic equilibrium", func() {
	var resp *experiment.Response

	BeforeEach(func() {
		resp = simulate(experiment.Request{
			Model:    models.SIS,
			Initial:  []float64{0.99, 0.01},
			Beta:     0.3,
			Gamma:    0.15,
			Duration: 300,
			Dt:       0.1,
		})
	})

	It("reports R0 = 2", func() {
		r0 := resp.Stats.Get("r0")
		Expect(r0.Defined).To(BeTrue())
		Expect(r0.Num).To(BeNumerically("~", 2.0, 1e-12))
	})

	It("predicts I* = 0.5 and converges to it", func() {
		eq := resp.Stats.Get("endemic_equilibrium")
		Expect(eq.Defined).To(BeTrue())
		Expect(eq.Num).To(BeNumerically("~", 0.5, 1e-12))

		finalI := resp.Stats.Get("final_infected")
		Expect(finalI.Defined).To(BeTrue())
		Expect(finalI.Num).To(BeNumerically("~", 0.5, 0.05))
	})

	It("records when the trajectory settles near I*", func() {
		settle := resp.Stats.Get("time_to_equilibrium")
		Expect(settle.Defined).To(BeTrue())
		Expect(settle.Num).To(BeNumerically(">", 0))
		Expect(settle.Num).To(BeNumerically("<", 300))
	})

	It("sees no overshoot when approaching from below", func() {
		overshoot := resp.Stats.Get("overshoot")
		Expect(overshoot.Defined).To(BeTrue())
		Expect(overshoot.Num).To(Equal(0.0))
	})
})

var _ = Describe("SIS below the epidemic threshold", func() {
	It("drives infection to zero for R0 < 1", func() {
		resp := simulate(experiment.Request{
			Model:    models.SIS,
			Initial:  []float64{0.9, 0.1},
			Beta:     0.1,
			Gamma:    0.2,
			Duration: 300,
			Dt:       0.1,
		})

		eq := resp.Stats.Get("endemic_equilibrium")
		Expect(eq.Defined).To(BeTrue())
		Expect(eq.Num).To(Equal(0.0))

		Expect(resp.Stats.Get("final_infected").Num).To(BeNumerically("<", 0.01))
		Expect(resp.Stats.Get("time_to_equilibrium").Defined).To(BeFalse())
	})
})

var _ = Describe("SIS with gamma = 0", func() {
	It("reports R0 as undefined instead of faulting", func() {
		resp := simulate(experiment.Request{
			Model:    models.SIS,
			Initial:  []float64{0.99, 0.01},
			Beta:     0.3,
			Gamma:    0,
			Duration: 100,
			Dt:       0.1,
		})

		Expect(resp.Stats.Get("r0").Defined).To(BeFalse())
		Expect(resp.Stats.Get("endemic_equilibrium").Defined).To(BeFalse())
		Expect(resp.Stats.Get("time_to_equilibrium").Defined).To(BeFalse())

		// gamma=0 degenerates SIS to SI: infection still progresses.
		Expect(resp.Stats.Get("final_infected").Num).To(BeNumerically(">", 0.9))
	})
})

var _ = Describe("SI growth", func() {
	var resp *experiment.Response

	BeforeEach(func() {
		resp = simulate(experiment.Request{
			Model:    models.SI,
			Initial:  []float64{0.99, 0.01},
			Beta:     0.3,
			Duration: 200,
			Dt:       0.1,
		})
	})

	It("eventually infects everyone", func() {
		finalI := resp.Stats.Get("final_infected")
		Expect(finalI.Defined).To(BeTrue())
		Expect(finalI.Num).To(BeNumerically(">", 0.99))
	})

	It("crosses milestones in order", func() {
		half := resp.Stats.Get("time_to_half")
		ninety := resp.Stats.Get("time_to_90pct")
		ninetyNine := resp.Stats.Get("time_to_99pct")

		Expect(half.Defined).To(BeTrue())
		Expect(ninety.Defined).To(BeTrue())
		Expect(ninetyNine.Defined).To(BeTrue())
		Expect(half.Num).To(BeNumerically("<", ninety.Num))
		Expect(ninety.Num).To(BeNumerically("<", ninetyNine.Num))
	})

	It("grows fastest near the logistic midpoint", func() {
		rate := resp.Stats.Get("max_growth_rate")
		Expect(rate.Defined).To(BeTrue())
		// Logistic growth peaks at beta/4.
		Expect(rate.Num).To(BeNumerically("~", 0.075, 0.005))

		at := resp.Stats.Get("max_growth_time")
		Expect(at.Defined).To(BeTrue())

		half := resp.Stats.Get("time_to_half")
		Expect(at.Num).To(BeNumerically("~", half.Num, 1.0))
	})

	It("is monotone: I never decreases, S never increases", func() {
		susceptible := resp.Trajectory.Series(0)
		infected := resp.Trajectory.Series(1)

		for i := 1; i < len(infected); i++ {
			Expect(infected[i]).To(BeNumerically(">=", infected[i-1]-1e-12))
			Expect(susceptible[i]).To(BeNumerically("<=", susceptible[i-1]+1e-12))
		}
	})

	It("never reaches an impossible milestone", func() {
		short := simulate(experiment.Request{
			Model:    models.SI,
			Initial:  []float64{0.99, 0.01},
			Beta:     0.3,
			Duration: 5,
			Dt:       0.1,
		})

		Expect(short.Stats.Get("time_to_99pct").Defined).To(BeFalse())
	})
})
