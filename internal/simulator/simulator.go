// Package simulator drives numeric metric states of a composed device
// between configured bounds.
package simulator

import (
	"sync"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/profile"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/cockroachdb/apd/v3"
	"go.uber.org/zap"
)

var arith = apd.BaseContext.WithPrecision(34)

type channel struct {
	metric  profile.SimulatedMetric
	falling bool
}

type Simulator struct {
	mdib     *mdib.Mdib
	channels []*channel
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

func New(m *mdib.Mdib, metrics []profile.SimulatedMetric, interval time.Duration, logger *zap.Logger) *Simulator {
	s := &Simulator{
		mdib:     m,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
	for _, sm := range metrics {
		s.channels = append(s.channels, &channel{metric: sm})
	}
	return s
}

// Start starts the periodic update loop. A simulator without metrics or
// with a non-positive interval stays idle.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || len(s.channels) == 0 || s.interval <= 0 {
		return nil
	}

	s.running = true
	s.stopChan = make(chan struct{})
	s.wg.Add(1)

	go s.loop(s.stopChan)

	s.logger.Info("Simulator started",
		zap.Int("metrics", len(s.channels)),
		zap.Duration("interval", s.interval))

	return nil
}

func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Simulator stopped")
}

func (s *Simulator) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Simulator) loop(stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick moves every simulated metric one step and commits each as a live
// state update. Failures are logged and do not stop the other metrics.
func (s *Simulator) Tick() {
	for _, ch := range s.channels {
		if err := s.advance(ch); err != nil {
			s.logger.Error("Simulation step failed",
				zap.String("handle", ch.metric.Handle),
				zap.Error(err))
		}
	}
}

func (s *Simulator) advance(ch *channel) error {
	_, err := s.mdib.ModifyState(ch.metric.Handle, func(st model.State) error {
		ns, ok := st.(*model.NumericMetricState)
		if !ok {
			return types.InvariantViolation("simulator", "%s is a %s, not a numeric metric state", ch.metric.Handle, st.NodeType())
		}
		var current *apd.Decimal
		if ns.MetricValue != nil && ns.MetricValue.Value != nil {
			current = ns.MetricValue.Value
		}
		next, err := ch.next(current)
		if err != nil {
			return err
		}
		v := pmtypes.NewNumericMetricValue(prop.DecimalText(next))
		at := uint64(s.now().UnixMilli())
		v.DeterminationTime = &at
		ns.MetricValue = v
		return nil
	})
	return err
}

// next returns the value after current, reversing direction at the bounds.
// A missing or out of range current value restarts at Min.
func (ch *channel) next(current *apd.Decimal) (*apd.Decimal, error) {
	m := ch.metric
	if current == nil || current.Cmp(m.Min) < 0 || current.Cmp(m.Max) > 0 {
		ch.falling = false
		return new(apd.Decimal).Set(m.Min), nil
	}
	for attempt := 0; attempt < 2; attempt++ {
		next := new(apd.Decimal)
		var err error
		if ch.falling {
			_, err = arith.Sub(next, current, m.Step)
		} else {
			_, err = arith.Add(next, current, m.Step)
		}
		if err != nil {
			return nil, err
		}
		next.Reduce(next)
		if next.Cmp(m.Min) >= 0 && next.Cmp(m.Max) <= 0 {
			return next, nil
		}
		ch.falling = !ch.falling
	}
	// step wider than the range
	if ch.falling {
		return new(apd.Decimal).Set(m.Max), nil
	}
	return new(apd.Decimal).Set(m.Min), nil
}
