package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingTicker struct {
	engine Engine
	times  []VTime
	limit  int
}

func (t *countingTicker) Tick() bool {
	t.times = append(t.times, t.engine.CurrentTime())
	return len(t.times) < t.limit
}

var _ = Describe("Ticking Component", func() {
	var (
		engine *SerialEngine
		ticker *countingTicker
		tc     *TickingComponent
	)

	BeforeEach(func() {
		engine = NewSerialEngine()
		ticker = &countingTicker{engine: engine, limit: 3}
		tc = NewTickingComponent("TC", engine, 10*NS, ticker)
	})

	It("should align ticks to the period", func() {
		Expect(tc.ThisTick(0)).To(Equal(VTime(0)))
		Expect(tc.ThisTick(1)).To(Equal(10 * NS))
		Expect(tc.ThisTick(10 * NS)).To(Equal(10 * NS))
		Expect(tc.NextTick(10 * NS)).To(Equal(20 * NS))
		Expect(tc.NextTick(15 * NS)).To(Equal(20 * NS))
	})

	It("should keep ticking while progress is made", func() {
		tc.TickNow()

		Expect(engine.Run()).To(Succeed())

		Expect(ticker.times).To(Equal([]VTime{0, 10 * NS, 20 * NS}))
	})

	It("should not schedule a tick twice", func() {
		tc.TickLater()
		tc.TickLater()
		tc.TickNow()

		Expect(engine.Run()).To(Succeed())

		Expect(ticker.times).To(Equal([]VTime{10 * NS, 20 * NS, 30 * NS}))
	})
})
