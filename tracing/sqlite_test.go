package tracing

import (
	"database/sql"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/splitbus/sim"
)

var _ = Describe("SQLiteTracer", func() {
	var (
		clock  *manualClock
		domain *testDomain
		tracer *SQLiteTracer
	)

	BeforeEach(func() {
		clock = &manualClock{}
		domain = newTestDomain("Init")
		path := filepath.Join(GinkgoT().TempDir(), "trace")
		tracer = NewSQLiteTracer(clock, path)
		Expect(tracer.Init()).To(Succeed())
		CollectTrace(domain, tracer)
	})

	It("should refuse to overwrite an existing trace", func() {
		other := NewSQLiteTracer(clock, tracer.Path()[:len(tracer.Path())-len(".sqlite3")])
		Expect(other.Init()).NotTo(Succeed())
	})

	It("should write tasks and steps", func() {
		clock.now = 1 * sim.NS
		StartTask("t1", "", domain, "req_out", "write", nil)
		clock.now = 2 * sim.NS
		AddTaskStep("t1", domain, "request_end")
		clock.now = 3 * sim.NS
		EndTask("t1", domain, nil)

		Expect(tracer.Close()).To(Succeed())

		db, err := sql.Open("sqlite3", tracer.Path())
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		var (
			kind, location string
			start, end     int64
		)
		err = db.QueryRow(
			"SELECT kind, location, start_time, end_time FROM trace WHERE task_id = 't1'",
		).Scan(&kind, &location, &start, &end)
		Expect(err).NotTo(HaveOccurred())
		Expect(kind).To(Equal("req_out"))
		Expect(location).To(Equal("Init"))
		Expect(start).To(Equal(int64(1000)))
		Expect(end).To(Equal(int64(3000)))

		var stepTime int64
		err = db.QueryRow(
			"SELECT time FROM step WHERE task_id = 't1' AND what = 'request_end'",
		).Scan(&stepTime)
		Expect(err).NotTo(HaveOccurred())
		Expect(stepTime).To(Equal(int64(2000)))
	})

	It("should not write unfinished tasks", func() {
		StartTask("t1", "", domain, "req_out", "write", nil)
		Expect(tracer.Close()).To(Succeed())

		db, err := sql.Open("sqlite3", tracer.Path())
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		var n int
		Expect(db.QueryRow("SELECT count(*) FROM trace").Scan(&n)).To(Succeed())
		Expect(n).To(Equal(0))
	})
})
