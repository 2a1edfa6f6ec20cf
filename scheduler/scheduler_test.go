package scheduler_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/finam/component"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/scheduler"
)

func day(d int) fint.Time {
	return fint.NewTime(time.Date(2000, time.January, 1+d, 0, 0, 0, 0, time.UTC))
}

// steppingMock drives a MockTimeStepper like a real fixed-step component,
// recording every advance into a shared trace.
type steppingMock struct {
	Mock *MockTimeStepper
	time fint.Time
	step fint.Duration
}

func newStepping(ctrl *gomock.Controller, name string, start fint.Time, step fint.Duration, trace *[]string) *steppingMock {
	s := &steppingMock{Mock: NewMockTimeStepper(ctrl), time: start, step: step}
	s.Mock.EXPECT().Name().Return(name).AnyTimes()
	s.Mock.EXPECT().Time().DoAndReturn(func() fint.Time { return s.time }).AnyTimes()
	s.Mock.EXPECT().NextTime().DoAndReturn(func() fint.Time { return s.time.Add(s.step) }).AnyTimes()
	s.Mock.EXPECT().Update().DoAndReturn(func() error {
		s.time = s.time.Add(s.step)
		*trace = append(*trace, fmt.Sprintf("%s@%d", name, dayOf(s.time)))
		return nil
	}).AnyTimes()
	return s
}

func dayOf(t fint.Time) int {
	return int(t.Std().Sub(day(0).Std()).Hours() / 24)
}

var _ = Describe("Scheduler", func() {
	var (
		ctrl  *gomock.Controller
		trace []string
		step  fint.Duration
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		trace = nil
		step = fint.NewDuration(24 * time.Hour)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	runToCompletion := func(s *scheduler.Scheduler) {
		for {
			advanced, err := s.Step()
			Expect(err).ToNot(HaveOccurred())
			if advanced == "" {
				return
			}
		}
	}

	Context("with a linear producer-consumer chain", func() {
		It("should alternate so the consumer never runs ahead of its source", func() {
			producer := newStepping(ctrl, "producer", day(0), step, &trace)
			consumer := newStepping(ctrl, "consumer", day(0), step, &trace)

			graph := scheduler.NewGraph()
			graph.AddEdge("producer", "consumer", false)
			Expect(graph.Validate()).To(Succeed())

			s := scheduler.New(
				[]component.TimeStepper{producer.Mock, consumer.Mock},
				graph, day(3), nil)
			runToCompletion(s)

			Expect(trace).To(Equal([]string{
				"producer@1", "consumer@1",
				"producer@2", "consumer@2",
				"producer@3", "consumer@3",
			}))
		})

		It("should advance a lagging upstream before the selected candidate", func() {
			// The consumer registers first, so it is the tie-broken
			// candidate; the walk must redirect to the producer anyway.
			consumer := newStepping(ctrl, "consumer", day(0), step, &trace)
			producer := newStepping(ctrl, "producer", day(0), step, &trace)

			graph := scheduler.NewGraph()
			graph.AddEdge("producer", "consumer", false)

			s := scheduler.New(
				[]component.TimeStepper{consumer.Mock, producer.Mock},
				graph, day(1), nil)
			runToCompletion(s)

			Expect(trace).To(Equal([]string{"producer@1", "consumer@1"}))
		})

		It("should hold back a fast consumer behind a slow producer", func() {
			producer := newStepping(ctrl, "producer", day(0), fint.NewDuration(48*time.Hour), &trace)
			consumer := newStepping(ctrl, "consumer", day(0), step, &trace)

			graph := scheduler.NewGraph()
			graph.AddEdge("producer", "consumer", false)

			s := scheduler.New(
				[]component.TimeStepper{producer.Mock, consumer.Mock},
				graph, day(4), nil)
			runToCompletion(s)

			// Every consumer advance to t happens only after the producer
			// has reached at least t.
			Expect(trace).To(Equal([]string{
				"producer@2", "consumer@1", "consumer@2",
				"producer@4", "consumer@3", "consumer@4",
			}))
		})
	})

	Context("with cycles", func() {
		It("should reject a cycle with no delay edge", func() {
			graph := scheduler.NewGraph()
			graph.AddEdge("a", "b", false)
			graph.AddEdge("b", "a", false)

			err := graph.Validate()
			Expect(err).To(MatchError(finamerr.ErrCycle))
			Expect(err).To(MatchError(finamerr.ErrSetup))
		})

		It("should accept a cycle carrying a delay edge", func() {
			graph := scheduler.NewGraph()
			graph.AddEdge("a", "b", true)
			graph.AddEdge("b", "a", false)

			Expect(graph.Validate()).To(Succeed())
		})

		It("should advance the delay-decoupled side first", func() {
			a := newStepping(ctrl, "a", day(0), step, &trace)
			b := newStepping(ctrl, "b", day(0), step, &trace)

			graph := scheduler.NewGraph()
			graph.AddEdge("a", "b", true)
			graph.AddEdge("b", "a", false)
			Expect(graph.Validate()).To(Succeed())

			s := scheduler.New(
				[]component.TimeStepper{a.Mock, b.Mock},
				graph, day(2), nil)
			runToCompletion(s)

			Expect(trace).To(Equal([]string{"b@1", "a@1", "b@2", "a@2"}))
		})
	})

	Context("with dead links", func() {
		It("should reject a pull-only upstream feeding a push-only downstream", func() {
			graph := scheduler.NewGraph()
			graph.AddLink("noise.out->sink.in", true, true)

			err := graph.Validate()
			Expect(err).To(MatchError(finamerr.ErrDeadLink))
			Expect(err.Error()).To(ContainSubstring("noise.out->sink.in"))
		})

		It("should accept a link with an active endpoint", func() {
			graph := scheduler.NewGraph()
			graph.AddLink("source.out->sink.in", false, true)

			Expect(graph.Validate()).To(Succeed())
		})
	})

	Context("stopping", func() {
		It("should not advance anything once the stop signal is set", func() {
			c := newStepping(ctrl, "model", day(0), step, &trace)

			stopped := false
			s := scheduler.New([]component.TimeStepper{c.Mock}, scheduler.NewGraph(), day(10), func() bool { return stopped })

			advanced, err := s.Step()
			Expect(err).ToNot(HaveOccurred())
			Expect(advanced).To(Equal("model"))

			stopped = true
			advanced, err = s.Step()
			Expect(err).ToNot(HaveOccurred())
			Expect(advanced).To(BeEmpty())
			Expect(trace).To(HaveLen(1))
		})
	})

	Context("component failures", func() {
		It("should propagate an update error", func() {
			failing := NewMockTimeStepper(ctrl)
			failing.EXPECT().Name().Return("broken").AnyTimes()
			failing.EXPECT().Time().Return(day(0)).AnyTimes()
			failing.EXPECT().NextTime().Return(day(1)).AnyTimes()
			failing.EXPECT().Update().Return(errors.New("model blew up"))

			s := scheduler.New([]component.TimeStepper{failing}, scheduler.NewGraph(), day(1), nil)

			_, err := s.Step()
			Expect(err).To(MatchError(ContainSubstring("model blew up")))
		})
	})
})
