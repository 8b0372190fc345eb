package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type namedThing string

func (n namedThing) Name() string {
	return string(n)
}

var _ = Describe("Simulation", func() {
	var sim *Simulation

	BeforeEach(func() {
		sim = NewSimulation()
	})

	It("should register components", func() {
		sim.RegisterComponent(namedThing("B"))
		sim.RegisterComponent(namedThing("A"))

		Expect(sim.GetComponentByName("A")).To(Equal(namedThing("A")))
		Expect(sim.GetComponentByName("B")).To(Equal(namedThing("B")))
		Expect(sim.GetComponentByName("C")).To(BeNil())
		Expect(sim.Components()).To(HaveLen(2))
		Expect(sim.ComponentNames()).To(Equal([]string{"A", "B"}))
	})

	It("should refuse duplicated names", func() {
		sim.RegisterComponent(namedThing("A"))

		Expect(func() { sim.RegisterComponent(namedThing("A")) }).To(Panic())
	})

	It("should keep the engine", func() {
		engine := NewSerialEngine()
		sim.RegisterEngine(engine)

		Expect(sim.GetEngine()).To(BeIdenticalTo(engine))
	})
})
