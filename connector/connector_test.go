package connector_test

import (
	"errors"
	"time"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/finam/connector"
	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/info"
	"github.com/sarchlab/finam/port"
)

func day(d int) fint.Time {
	return fint.NewTime(time.Date(2000, time.January, 1+d, 0, 0, 0, 0, time.UTC))
}

func envAt(d int, v float64) data.Envelope {
	env, err := data.Prepare([]float64{v}, data.NewNoGrid(1, []int{1}), data.Dimensionless, data.Mask{}, day(d))
	Expect(err).ToNot(HaveOccurred())
	return env
}

func fullInfo() info.Info {
	return info.New().
		WithTime(day(0)).
		WithGrid(data.NewNoGrid(1, []int{1})).
		WithUnits(data.Dimensionless)
}

var _ = Describe("Connector", func() {
	var ctrl *gomock.Controller

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	It("should report Connected once every item is done", func() {
		upstream := port.NewOutput("upstream.out", nil)
		Expect(upstream.PushInfo(fullInfo())).To(Succeed())
		Expect(upstream.Push(envAt(0, 1))).To(Succeed())

		in := port.NewInput("in", fullInfo(), nil)
		Expect(in.SetSource(upstream)).To(Succeed())

		out := port.NewOutput("out", nil)

		c := connector.New("model")
		c.RegisterOutput("out", out,
			func() (info.Info, bool) { return fullInfo(), true },
			func() (data.Envelope, bool) { return envAt(0, 2), true })
		c.RegisterInput("in", in, fullInfo(), true, nil, nil)

		status, err := c.TryConnect(day(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(connector.Connected))
	})

	It("should absorb NoData, then finish once upstream data arrives", func() {
		upstream := port.NewOutput("upstream.out", nil)
		Expect(upstream.PushInfo(fullInfo())).To(Succeed())

		in := port.NewInput("in", fullInfo(), nil)
		Expect(in.SetSource(upstream)).To(Succeed())

		var pulled []float64
		c := connector.New("model")
		c.RegisterInput("in", in, fullInfo(), true, nil, func(env data.Envelope) {
			pulled = append(pulled, env.Payload()[0])
		})

		// Pass 1: the info exchange succeeds, the pull does not.
		status, err := c.TryConnect(day(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(connector.Connecting))

		// Pass 2: nothing new can succeed.
		status, err = c.TryConnect(day(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(connector.ConnectingIdle))

		Expect(upstream.Push(envAt(0, 9))).To(Succeed())

		// Pass 3: the pull succeeds and completes the slot.
		status, err = c.TryConnect(day(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(connector.Connected))
		Expect(pulled).To(Equal([]float64{9}))
	})

	It("should never retry an item that already succeeded", func() {
		src := NewMockSource(ctrl)
		src.EXPECT().Chain(gomock.Any()).Return(nil)
		src.EXPECT().Name().Return("src").AnyTimes()
		// Exactly one Negotiate across both passes.
		src.EXPECT().Negotiate(gomock.Any()).Return(fullInfo(), nil).Times(1)

		in := port.NewInput("in", fullInfo(), nil)
		Expect(in.SetSource(src)).To(Succeed())

		c := connector.New("model")
		c.RegisterInput("in", in, fullInfo(), false, nil, nil)

		status, err := c.TryConnect(day(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(connector.Connected))

		status, err = c.TryConnect(day(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(connector.Connected))
	})

	It("should retry pushInfo until the component has one ready", func() {
		out := port.NewOutput("out", nil)
		ready := false

		c := connector.New("model")
		c.RegisterOutput("out", out,
			func() (info.Info, bool) { return fullInfo(), ready },
			nil)

		status, err := c.TryConnect(day(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(connector.ConnectingIdle))

		ready = true
		status, err = c.TryConnect(day(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(connector.Connected))
	})

	It("should notify downstream targets when pushing initial data", func() {
		out := port.NewOutput("out", nil)

		var notified []fint.Time
		rec := &recordingTarget{onUpdate: func(t fint.Time) { notified = append(notified, t) }}
		Expect(out.Chain(rec)).To(Succeed())

		c := connector.New("model")
		c.RegisterOutput("out", out,
			func() (info.Info, bool) { return fullInfo(), true },
			func() (data.Envelope, bool) { return envAt(0, 1), true })

		status, err := c.TryConnect(day(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(connector.Connected))
		Expect(notified).To(HaveLen(1))
		Expect(notified[0].Equal(day(0))).To(BeTrue())
	})

	It("should surface incompatible metadata as a setup error", func() {
		src := NewMockSource(ctrl)
		src.EXPECT().Chain(gomock.Any()).Return(nil)
		src.EXPECT().Name().Return("src").AnyTimes()
		src.EXPECT().Negotiate(gomock.Any()).Return(info.New().WithUnits("m/s"), nil)

		desired := info.New().WithUnits("degC")
		in := port.NewInput("in", desired, nil)
		Expect(in.SetSource(src)).To(Succeed())

		c := connector.New("model")
		c.RegisterInput("in", in, desired, false, nil, nil)

		_, err := c.TryConnect(day(0))
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, finamerr.ErrMetadata)).To(BeTrue())

		var setupErr *finamerr.SetupError
		Expect(errors.As(err, &setupErr)).To(BeTrue())
		Expect(setupErr.Component).To(Equal("model"))
		Expect(setupErr.Slot).To(Equal("in"))
	})
})

// recordingTarget is a trivial port.Target capturing notifications.
type recordingTarget struct {
	onUpdate func(fint.Time)
}

func (r *recordingTarget) Name() string              { return "recorder" }
func (r *recordingTarget) SourceUpdated(t fint.Time) { r.onUpdate(t) }
