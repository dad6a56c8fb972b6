// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensor

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"
)

// Lifecycle errors. Invalid operation requests never mutate state.
var (
	ErrAlreadyRunning = errors.New("simulation already running")
	ErrNotRunning     = errors.New("simulation not running")
	ErrNoProfile      = errors.New("no sensor profile loaded")
)

// stopTimeout bounds how long Stop waits for the loop goroutine to confirm.
const stopTimeout = 2 * time.Second

// Simulator drives the tick loop for one virtual device. Exactly one
// background goroutine runs per instance; drift and environment state are
// confined to it. Only the snapshot map is shared with readers.
type Simulator struct {
	mu       sync.Mutex // lifecycle: running, stopC, doneC, profile swap
	profile  *SensorProfile
	provider PatternProvider
	rng      *rand.Rand
	running  bool
	stopC    chan struct{}
	doneC    chan struct{}

	valMu  sync.RWMutex
	values map[string]map[string]float64
}

// NewSimulator creates an idle simulator. The profile may be nil; Start
// fails until one is loaded. The random source is seeded from the clock.
func NewSimulator(profile *SensorProfile) *Simulator {
	return NewSimulatorSeeded(profile, time.Now().UnixNano())
}

// NewSimulatorSeeded creates an idle simulator with a deterministic random
// source, so tests can reproduce exact noise, drift and jolt sequences.
func NewSimulatorSeeded(profile *SensorProfile, seed int64) *Simulator {
	return &Simulator{
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
		values:  map[string]map[string]float64{},
	}
}

// SetPatternProvider installs the external pattern strategy. Rejected while
// the simulation is running; the profile and its collaborators are frozen
// for the lifetime of a run.
func (s *Simulator) SetPatternProvider(p PatternProvider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.provider = p
	return nil
}

// LoadProfile replaces the profile. Rejected while running.
func (s *Simulator) LoadProfile(p *SensorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.profile = p
	return nil
}

// Profile returns the currently loaded profile.
func (s *Simulator) Profile() *SensorProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Running reports whether the tick loop is active.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start spawns the tick loop. It fails with ErrAlreadyRunning or
// ErrNoProfile without touching any state.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	if s.profile == nil {
		return ErrNoProfile
	}

	if s.provider == nil && hasExternalPatterns(s.profile) {
		log.Printf("engine: profile uses external patterns but no provider is installed, using built-in patterns")
	}

	s.stopC = make(chan struct{})
	s.doneC = make(chan struct{})
	s.running = true
	go s.loop(s.profile, s.stopC, s.doneC)

	log.Printf("engine: simulation started (%s/%s/%s, %.0f Hz)",
		s.profile.DeviceType, s.profile.ActivityType, s.profile.Position,
		1/tickInterval(s.profile).Seconds())
	return nil
}

// Stop signals the loop to halt at the next tick boundary and waits up to
// stopTimeout for confirmation. Fails with ErrNotRunning when idle.
func (s *Simulator) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	close(s.stopC)
	done := s.doneC
	s.running = false
	s.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopTimeout):
		log.Printf("engine: simulation loop did not stop within %v", stopTimeout)
	}
	log.Println("engine: simulation stopped")
	return nil
}

// CurrentValues returns a deep copy of the most recently committed sensor
// values. Sensors that were never enabled are absent. Readers may observe a
// tick partially applied across sensors; each sensor's axes are committed
// atomically.
func (s *Simulator) CurrentValues() map[string]map[string]float64 {
	s.valMu.RLock()
	defer s.valMu.RUnlock()
	out := make(map[string]map[string]float64, len(s.values))
	for name, axes := range s.values {
		out[name] = copyAxes(axes)
	}
	return out
}

func (s *Simulator) commit(sensorName string, values map[string]float64) {
	s.valMu.Lock()
	s.values[sensorName] = values
	s.valMu.Unlock()
}

func hasExternalPatterns(p *SensorProfile) bool {
	for _, spec := range p.Simulation.Patterns {
		if spec.Type == PatternExternal {
			return true
		}
	}
	return false
}

func tickInterval(p *SensorProfile) time.Duration {
	hz := p.Simulation.UpdateFrequencyHz
	if hz <= 0 {
		hz = defaultUpdateHz
	}
	return time.Duration(float64(time.Second) / hz)
}

// loopState is the per-run mutable state, owned by the loop goroutine.
type loopState struct {
	drift       driftState
	env         EnvironmentState
	envDeadline time.Time
	patternTime float64
	eval        patternEvaluator
}

func (s *Simulator) newLoopState(p *SensorProfile) *loopState {
	return &loopState{
		drift:       newDriftState(p),
		env:         rollEnvironment(s.rng),
		envDeadline: time.Now().Add(rollInterval(s.rng)),
		eval:        patternEvaluator{rng: s.rng, provider: s.provider},
	}
}

func (s *Simulator) loop(p *SensorProfile, stopC <-chan struct{}, doneC chan<- struct{}) {
	defer close(doneC)

	interval := tickInterval(p)
	st := s.newLoopState(p)

	for {
		select {
		case <-stopC:
			return
		default:
		}

		start := time.Now()
		if start.After(st.envDeadline) {
			st.env = rollEnvironment(s.rng)
			st.envDeadline = start.Add(rollInterval(s.rng))
		}

		s.tick(p, st)
		st.patternTime += interval.Seconds()

		// A slow tick eats into its own sleep, never the next tick's.
		if sleep := interval - time.Since(start); sleep > 0 {
			select {
			case <-stopC:
				return
			case <-time.After(sleep):
			}
		}
	}
}

// tick composes one value per axis for every enabled sensor and commits
// them. value = baseline + gauss(0, variance*noise) + pattern + environment
// + drift. No failure mode here is fatal: sparse profiles resolve through
// the default table and pattern provider errors degrade to the built-in
// waveform.
func (s *Simulator) tick(p *SensorProfile, st *loopState) {
	for sensorName, cfg := range p.Sensors {
		if !cfg.Enabled {
			continue
		}
		baseline, variance := resolveSensor(sensorName, cfg)

		var pattern map[string]float64
		if spec, ok := p.Simulation.Patterns[sensorName]; ok {
			pattern = st.eval.offsets(sensorName, spec, st.patternTime)
		}
		envOffsets := environmentContribution(s.rng, sensorName, st.env)

		if p.Simulation.DriftEnabled {
			for axis := range baseline {
				st.drift.step(s.rng, sensorName, axis, p.Simulation.DriftFactor)
			}
		}

		values := make(map[string]float64, len(baseline))
		for axis, base := range baseline {
			noise := s.rng.NormFloat64() * variance[axis] * p.Simulation.NoiseFactor
			values[axis] = base + noise + pattern[axis] + envOffsets[axis] + st.drift.value(sensorName, axis)
		}
		s.commit(sensorName, values)
	}
}
