package monitoring

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
	"github.com/sarchlab/splitbus/tracing"
)

type manualClock struct {
	now sim.VTime
}

func (c *manualClock) CurrentTime() sim.VTime {
	return c.now
}

type tracedDomain struct {
	*sim.HookableBase
}

func (tracedDomain) Name() string {
	return "Core"
}

var _ = Describe("Metrics", func() {
	var (
		clock   *manualClock
		domain  tracedDomain
		metrics *Metrics
	)

	BeforeEach(func() {
		clock = &manualClock{}
		domain = tracedDomain{sim.NewHookableBase()}
		metrics = NewMetrics(clock)
		tracing.CollectTrace(domain, metrics)
	})

	It("should count finished transactions by status", func() {
		tracing.StartTask("1", "", domain, "req_out", "read", nil)
		tracing.StartTask("2", "", domain, "req_out", "read", nil)

		Expect(testutil.ToFloat64(
			metrics.inFlight.WithLabelValues("Core", "req_out"))).To(Equal(2.0))

		clock.now = 60 * sim.NS
		tracing.EndTask("1", domain, bus.ResponseOK)
		tracing.EndTask("2", domain, bus.ResponseAddressError)

		Expect(testutil.ToFloat64(metrics.finished.WithLabelValues(
			"Core", "req_out", "read", "ok"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(metrics.finished.WithLabelValues(
			"Core", "req_out", "read", "address-error"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(
			metrics.inFlight.WithLabelValues("Core", "req_out"))).To(Equal(0.0))
		Expect(testutil.CollectAndCount(metrics.latency)).To(Equal(1))
	})

	It("should ignore tasks it has not seen start", func() {
		tracing.EndTask("9", domain, bus.ResponseOK)

		Expect(testutil.CollectAndCount(metrics.finished)).To(Equal(0))
	})
})
