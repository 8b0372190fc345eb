package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"
)

var _ = Describe("EventLogger", func() {
	var (
		mockCtrl *gomock.Controller
		logger   *logrus.Logger
		records  *test.Hook
		hook     *EventLogger
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		logger, records = test.NewNullLogger()
		logger.SetLevel(logrus.TraceLevel)
		hook = NewEventLogger(logger)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should log events before they are handled", func() {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(5 * NS).AnyTimes()
		evt.EXPECT().Handler().Return(namedHandler{"Engine.Comp"}).AnyTimes()

		hook.Func(HookCtx{Pos: HookPosBeforeEvent, Item: evt})

		Expect(records.Entries).To(HaveLen(1))
		entry := records.LastEntry()
		Expect(entry.Level).To(Equal(logrus.TraceLevel))
		Expect(entry.Data["time"]).To(Equal("5ns"))
		Expect(entry.Data["handler"]).To(Equal("Engine.Comp"))
	})

	It("should ignore other positions", func() {
		evt := NewMockEvent(mockCtrl)

		hook.Func(HookCtx{Pos: HookPosAfterEvent, Item: evt})

		Expect(records.Entries).To(BeEmpty())
	})
})

type namedHandler struct {
	name string
}

func (h namedHandler) Name() string {
	return h.name
}

func (h namedHandler) Handle(Event) error {
	return nil
}
