package dsp

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
	"github.com/sarchlab/splitbus/tracing"
	"go.uber.org/mock/gomock"
)

type callbackEvent struct {
	*sim.EventBase
	f func()
}

type callbackHandler struct{}

func (callbackHandler) Handle(e sim.Event) error {
	e.(callbackEvent).f()
	return nil
}

func at(engine sim.Engine, t sim.VTime, f func()) {
	engine.Schedule(callbackEvent{sim.NewEventBase(t, callbackHandler{}), f})
}

var _ = Describe("Comp", func() {
	var (
		mockCtrl  *gomock.Controller
		engine    *sim.SerialEngine
		initiator *MockBackwardTransport
		pool      *bus.Pool
		dsp       *Comp
	)

	newTrans := func(
		cmd bus.Command,
		addr uint64,
		data []byte,
	) *bus.Transaction {
		t := pool.Allocate()
		t.Acquire()
		t.Command = cmd
		t.Address = addr
		t.SetData(data)
		t.ByteEnable = nil

		return t
	}

	word := func(v uint32) []byte {
		return binary.LittleEndian.AppendUint32(nil, v)
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = sim.NewSerialEngine()
		initiator = NewMockBackwardTransport(mockCtrl)
		pool = bus.NewPool()
		dsp = MakeBuilder().WithEngine(engine).Build("DSP")
		dsp.BindBackward(initiator)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should accept and defer forward calls", func() {
		t := newTrans(bus.CommandWrite, RegOperand1, word(5))

		status, _, _ := dsp.NBTransportFW(t, bus.RequestBegin, 0)

		Expect(status).To(Equal(bus.Accepted))
		Expect(dsp.NumRequests()).To(BeZero())
	})

	It("should end the request and respond after processing", func() {
		t := newTrans(bus.CommandWrite, RegOperand1, word(5))

		endReq := initiator.EXPECT().
			NBTransportBW(t, bus.RequestEnd, sim.NS).
			Do(func(*bus.Transaction, bus.Phase, sim.VTime) {
				Expect(engine.CurrentTime()).To(BeZero())
				Expect(t.RefCount()).To(Equal(2))
			}).
			Return(bus.Accepted, bus.RequestEnd, sim.NS)
		initiator.EXPECT().
			NBTransportBW(t, bus.ResponseBegin, sim.VTime(0)).
			Do(func(*bus.Transaction, bus.Phase, sim.VTime) {
				Expect(engine.CurrentTime()).To(Equal(51 * sim.NS))
				Expect(t.IsResponseOK()).To(BeTrue())
			}).
			Return(bus.Accepted, bus.ResponseBegin, sim.VTime(0)).
			After(endReq)

		at(engine, 0, func() {
			dsp.NBTransportFW(t, bus.RequestBegin, 0)
		})
		at(engine, 60*sim.NS, func() {
			dsp.NBTransportFW(t, bus.ResponseEnd, 0)
		})

		Expect(engine.Run()).To(Succeed())

		Expect(dsp.Regs.Operand1).To(Equal(uint32(5)))
		Expect(dsp.ResponseInProgress()).To(BeFalse())
		Expect(t.RefCount()).To(Equal(1))
	})

	It("should report reads of unknown registers as address errors", func() {
		t := newTrans(bus.CommandRead, 20, make([]byte, 4))

		initiator.EXPECT().
			NBTransportBW(t, bus.RequestEnd, gomock.Any()).
			Return(bus.Accepted, bus.RequestEnd, sim.NS)
		initiator.EXPECT().
			NBTransportBW(t, bus.ResponseBegin, gomock.Any()).
			Return(bus.Accepted, bus.ResponseBegin, sim.VTime(0))

		at(engine, 0, func() {
			dsp.NBTransportFW(t, bus.RequestBegin, 0)
		})

		Expect(engine.Run()).To(Succeed())
		Expect(t.ResponseStatus).To(Equal(bus.ResponseAddressError))
	})

	It("should queue a response while another is in flight", func() {
		t1 := newTrans(bus.CommandWrite, RegOperand1, word(1))
		t2 := newTrans(bus.CommandRead, RegOperand1, make([]byte, 4))

		initiator.EXPECT().
			NBTransportBW(gomock.Any(), bus.RequestEnd, gomock.Any()).
			Return(bus.Accepted, bus.RequestEnd, sim.NS).
			Times(2)
		resp1 := initiator.EXPECT().
			NBTransportBW(t1, bus.ResponseBegin, gomock.Any()).
			Do(func(*bus.Transaction, bus.Phase, sim.VTime) {
				Expect(engine.CurrentTime()).To(Equal(51 * sim.NS))
			}).
			Return(bus.Accepted, bus.ResponseBegin, sim.VTime(0))
		initiator.EXPECT().
			NBTransportBW(t2, bus.ResponseBegin, gomock.Any()).
			Do(func(*bus.Transaction, bus.Phase, sim.VTime) {
				Expect(engine.CurrentTime()).To(Equal(100 * sim.NS))
				Expect(t1.RefCount()).To(Equal(1))
			}).
			Return(bus.Accepted, bus.ResponseBegin, sim.VTime(0)).
			After(resp1)

		at(engine, 0, func() {
			dsp.NBTransportFW(t1, bus.RequestBegin, 0)
		})
		at(engine, 10*sim.NS, func() {
			dsp.NBTransportFW(t2, bus.RequestBegin, 0)
		})
		at(engine, 80*sim.NS, func() {
			Expect(dsp.PendingResponses().Size()).To(Equal(1))
		})
		at(engine, 100*sim.NS, func() {
			dsp.NBTransportFW(t1, bus.ResponseEnd, 0)
		})

		Expect(engine.Run()).To(Succeed())

		Expect(dsp.NumQueued()).To(Equal(uint64(1)))
		Expect(dsp.MaxQueueDepth()).To(Equal(1))
		Expect(binary.LittleEndian.Uint32(t2.Data)).To(Equal(uint32(1)))
		Expect(dsp.ResponseInProgress()).To(BeTrue())
	})

	It("should send queued responses in arrival order", func() {
		trans := make([]*bus.Transaction, 4)
		for i := range trans {
			trans[i] = newTrans(bus.CommandRead, RegOperand1, make([]byte, 4))
		}

		var order []*bus.Transaction

		initiator.EXPECT().
			NBTransportBW(gomock.Any(), bus.RequestEnd, gomock.Any()).
			Return(bus.Accepted, bus.RequestEnd, sim.NS).
			Times(4)
		initiator.EXPECT().
			NBTransportBW(gomock.Any(), bus.ResponseBegin, gomock.Any()).
			Do(func(t *bus.Transaction, _ bus.Phase, _ sim.VTime) {
				order = append(order, t)
			}).
			Return(bus.Accepted, bus.ResponseBegin, sim.VTime(0)).
			Times(4)

		arrivals := []sim.VTime{0, 5 * sim.NS, 6 * sim.NS, 7 * sim.NS}
		for i, arrival := range arrivals {
			t := trans[i]
			at(engine, arrival, func() {
				dsp.NBTransportFW(t, bus.RequestBegin, 0)
			})
			at(engine, sim.VTime(i+2)*100*sim.NS, func() {
				dsp.NBTransportFW(t, bus.ResponseEnd, 0)
			})
		}

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(Equal(trans))
		Expect(dsp.NumQueued()).To(Equal(uint64(3)))
		Expect(dsp.MaxQueueDepth()).To(Equal(3))
		Expect(dsp.ResponseInProgress()).To(BeFalse())
	})

	It("should trace requests from arrival to response end", func() {
		steps := tracing.NewStepCountTracer(tracing.KindIs("req_in"))
		total := tracing.NewTotalTimeTracer(engine, tracing.KindIs("req_in"))
		tracing.CollectTrace(dsp, steps)
		tracing.CollectTrace(dsp, total)

		t1 := newTrans(bus.CommandWrite, RegOperand1, word(1))
		t2 := newTrans(bus.CommandRead, RegOperand1, make([]byte, 4))

		initiator.EXPECT().
			NBTransportBW(gomock.Any(), bus.RequestEnd, gomock.Any()).
			Return(bus.Accepted, bus.RequestEnd, sim.NS).
			Times(2)
		initiator.EXPECT().
			NBTransportBW(t1, bus.ResponseBegin, gomock.Any()).
			Return(bus.Accepted, bus.ResponseBegin, sim.VTime(0))
		initiator.EXPECT().
			NBTransportBW(t2, bus.ResponseBegin, gomock.Any()).
			Return(bus.Completed, bus.ResponseBegin, sim.VTime(0))

		at(engine, 0, func() {
			dsp.NBTransportFW(t1, bus.RequestBegin, 0)
		})
		at(engine, 10*sim.NS, func() {
			dsp.NBTransportFW(t2, bus.RequestBegin, 0)
		})
		at(engine, 100*sim.NS, func() {
			dsp.NBTransportFW(t1, bus.ResponseEnd, 0)
		})

		Expect(engine.Run()).To(Succeed())

		Expect(total.TotalTime()).To(Equal(190 * sim.NS))
		Expect(steps.GetStepCount("queued")).To(Equal(uint64(1)))
	})

	It("should release and send the next response on completed", func() {
		t1 := newTrans(bus.CommandWrite, RegOperand2, word(3))
		t2 := newTrans(bus.CommandRead, RegOperand2, make([]byte, 4))

		initiator.EXPECT().
			NBTransportBW(gomock.Any(), bus.RequestEnd, gomock.Any()).
			Return(bus.Accepted, bus.RequestEnd, sim.NS).
			Times(2)
		initiator.EXPECT().
			NBTransportBW(t1, bus.ResponseBegin, gomock.Any()).
			Return(bus.Completed, bus.ResponseBegin, sim.VTime(0))
		initiator.EXPECT().
			NBTransportBW(t2, bus.ResponseBegin, gomock.Any()).
			Return(bus.Completed, bus.ResponseBegin, sim.VTime(0))

		at(engine, 0, func() {
			dsp.NBTransportFW(t1, bus.RequestBegin, 0)
			dsp.NBTransportFW(t2, bus.RequestBegin, 0)
		})

		Expect(engine.Run()).To(Succeed())

		Expect(dsp.ResponseInProgress()).To(BeFalse())
		Expect(t1.RefCount()).To(Equal(1))
		Expect(t2.RefCount()).To(Equal(1))
	})

	It("should follow an updated response end", func() {
		t := newTrans(bus.CommandRead, RegStatus, make([]byte, 4))

		initiator.EXPECT().
			NBTransportBW(t, bus.RequestEnd, gomock.Any()).
			Return(bus.Accepted, bus.RequestEnd, sim.NS)
		initiator.EXPECT().
			NBTransportBW(t, bus.ResponseBegin, gomock.Any()).
			Return(bus.Updated, bus.ResponseEnd, 2*sim.NS)

		at(engine, 0, func() {
			dsp.NBTransportFW(t, bus.RequestBegin, 0)
		})

		Expect(engine.Run()).To(Succeed())

		Expect(engine.CurrentTime()).To(Equal(53 * sim.NS))
		Expect(dsp.ResponseInProgress()).To(BeFalse())
		Expect(t.RefCount()).To(Equal(1))
	})

	It("should treat a response end that is not in flight as violation", func() {
		t := newTrans(bus.CommandRead, RegStatus, make([]byte, 4))

		at(engine, 0, func() {
			dsp.NBTransportFW(t, bus.ResponseEnd, 0)
		})

		Expect(func() { _ = engine.Run() }).
			To(PanicWith(BeAssignableToTypeOf(&bus.ProtocolError{})))
	})

	It("should treat request end on the forward path as violation", func() {
		t := newTrans(bus.CommandRead, RegStatus, make([]byte, 4))

		at(engine, 0, func() {
			dsp.NBTransportFW(t, bus.RequestEnd, 0)
		})

		Expect(func() { _ = engine.Run() }).To(Panic())
	})

	It("should compute and raise an interrupt", func() {
		irq := NewMockForwardTransport(mockCtrl)
		dsp.InterruptSocket().BindForward(irq)

		irq.EXPECT().
			BTransport(gomock.Any(), sim.VTime(0)).
			DoAndReturn(func(t *bus.Transaction, d sim.VTime) sim.VTime {
				Expect(engine.CurrentTime()).To(Equal(20 * sim.NS))
				Expect(t.Command).To(Equal(bus.CommandWrite))
				Expect(binary.LittleEndian.Uint32(t.Data)).
					To(Equal(uint32(12)))
				return d
			})

		for _, w := range []struct {
			addr uint64
			val  uint32
		}{
			{RegOperand1, 7},
			{RegOperand2, 5},
			{RegCommand, CmdAdd},
		} {
			t := bus.NewTransaction()
			t.Command = bus.CommandWrite
			t.Address = w.addr
			t.SetData(word(w.val))
			dsp.BTransport(t, 0)
			Expect(t.IsResponseOK()).To(BeTrue())
		}

		Expect(dsp.Regs.Status).To(Equal(StatusRun))
		Expect(engine.Run()).To(Succeed())

		Expect(dsp.Regs.Status).To(Equal(StatusComplete))
		Expect(dsp.Regs.Result).To(Equal(uint32(12)))
		Expect(dsp.NumInterrupts()).To(Equal(uint64(1)))
	})

	It("should subtract without an interrupt socket", func() {
		dsp.Regs.Operand1 = 9
		dsp.Regs.Operand2 = 4

		t := bus.NewTransaction()
		t.Command = bus.CommandWrite
		t.Address = RegCommand
		t.SetData(word(CmdSub))
		dsp.BTransport(t, 0)

		Expect(engine.Run()).To(Succeed())
		Expect(dsp.Regs.Result).To(Equal(uint32(5)))
		Expect(dsp.NumInterrupts()).To(BeZero())
	})

	It("should refuse direct access", func() {
		dmi := bus.DMIData{}

		Expect(dsp.GetDirectMemPtr(bus.NewTransaction(), &dmi)).To(BeFalse())
		Expect(dmi.End).To(Equal(uint64(RegisterFileSize - 1)))
	})

	It("should access registers through the debug transport", func() {
		dsp.Regs.Result = 42

		t := bus.NewTransaction()
		t.Command = bus.CommandRead
		t.Address = RegResult
		t.SetData(make([]byte, 4))

		Expect(dsp.TransportDbg(t)).To(Equal(4))
		Expect(binary.LittleEndian.Uint32(t.Data)).To(Equal(uint32(42)))

		t.Address = 3
		Expect(dsp.TransportDbg(t)).To(BeZero())
	})
})
