package stats_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/episim/internal/stats"
)

var _ = Describe("Value", func() {
	It("prints sentinels as n/a", func() {
		Expect(stats.Undefined.String()).To(Equal("n/a"))
		Expect(stats.Defined(0.5).String()).To(Equal("0.5"))
	})

	It("defaults unknown metrics to the sentinel", func() {
		rec := &stats.Record{Metrics: map[string]stats.Value{}}
		Expect(rec.Get("nonexistent").Defined).To(BeFalse())
	})
})
