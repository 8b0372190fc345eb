package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/splitbus/sim"
)

type sampleComponent struct {
	*sim.ComponentBase

	queue    sim.Buffer
	bigQueue sim.Buffer
	unused   sim.Buffer
	Count    int
}

func (c *sampleComponent) Handle(_ sim.Event) error {
	return nil
}

func newSampleComponent() *sampleComponent {
	return &sampleComponent{
		ComponentBase: sim.NewComponentBase("Comp"),
		queue:         sim.NewBuffer("Comp.Queue", 4),
		bigQueue:      sim.NewBuffer("Comp.BigQueue", 0),
		Count:         3,
	}
}

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		engine *sim.SerialEngine
		comp   *sampleComponent
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.Router().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		comp = newSampleComponent()
		m = NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterComponent(comp)
	})

	It("should register components and their buffers", func() {
		Expect(m.components).To(HaveLen(1))
		Expect(m.buffers).To(HaveLen(2))
	})

	It("should list components", func() {
		rec := get("/api/list_components")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`["Comp"]`))
	})

	It("should report the simulated time", func() {
		rec := get("/api/now")

		Expect(rec.Body.String()).To(MatchJSON(`{"now":0,"text":"0s"}`))
	})

	It("should return 404 for unknown components", func() {
		rec := get("/api/component/Nothing")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should sort buffers by how full they are", func() {
		comp.queue.Push(1)
		comp.bigQueue.Push(1)
		comp.bigQueue.Push(2)

		rec := get("/api/hangdetector/buffers")
		var rsp []bufferRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp[0].Buffer).To(Equal("Comp.Queue"))

		rec = get("/api/hangdetector/buffers?sort=level&limit=1")
		rsp = nil
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveLen(1))
		Expect(rsp[0].Buffer).To(Equal("Comp.BigQueue"))
		Expect(rsp[0].Level).To(Equal(2))
	})

	It("should reject unknown sort methods", func() {
		rec := get("/api/hangdetector/buffers?sort=name")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should report progress bars", func() {
		bar := m.CreateProgressBar("Driver", 10)
		bar.IncrementInProgress(3)
		bar.MoveInProgressToFinished(2)

		rec := get("/api/progress")
		var rsp []map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveLen(1))
		Expect(rsp[0]["finished"]).To(BeEquivalentTo(2))
		Expect(rsp[0]["in_progress"]).To(BeEquivalentTo(1))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress").Body.String()).To(MatchJSON(`[]`))
	})

	It("should serve metrics when a gatherer is set", func() {
		Expect(get("/metrics").Code).To(Equal(http.StatusNotFound))

		metrics := NewMetrics(engine)
		m.WithGatherer(metrics.Registry())

		rec := get("/metrics")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
