// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package standby suspends a sun4i SoC to DRAM self-refresh with lowered
// clocks and rails, halts the core until an armed wake source fires, then
// restores everything it changed.
package standby

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/platinasystems/log"
	"github.com/platinasystems/standby/ccu"
	"github.com/platinasystems/standby/dramc"
	"github.com/platinasystems/standby/pmu"
	"github.com/platinasystems/standby/reg"
	"github.com/platinasystems/standby/sun4i"
	"github.com/platinasystems/standby/wakesrc"
	uuid "github.com/satori/go.uuid"
)

var (
	ErrInvalidRequest = errors.New("invalid standby request")
	ErrBusy           = errors.New("standby in progress")
)

type InvariantViolation = reg.InvariantViolation

type Request struct {
	Wake wakesrc.Set
	// TimeoffSeconds arms timer 0 when Wake has TimerOff; zero leaves
	// the timer alone.
	TimeoffSeconds uint32
}

type Result struct {
	ID uuid.UUID
	// Count is the orchestrator's completed cycles including this one.
	Count uint64
	Armed wakesrc.Set
	// Wake is the armed subset seen fired.
	Wake wakesrc.Set
	// Spurious wakes with nothing fired.
	Spurious int
	// Training is the read pipe scan result, non-zero on failure.
	Training uint32
	Slept    time.Duration
	// Faults are the hardware errors met while parked. The cycle
	// completes regardless.
	Faults []error
}

type Config struct {
	Bases     sun4i.Bases
	Plan      ccu.Plan
	PollLimit int
	// PowerSave also turns off the DRAM controller DLLs, retraining
	// them on resume.
	PowerSave bool
	// Debug checks the clock tree after every sequencer step.
	Debug bool
	// OnState, if set, sees every transition.
	OnState func(from, to State)
	Parker  Parker
}

func DefaultConfig() Config {
	return Config{
		Bases:     sun4i.Default,
		Plan:      ccu.DefaultPlan,
		PollLimit: dramc.DefaultPollLimit,
	}
}

type Orchestrator struct {
	cfg   Config
	cpu   CPU
	dram  *dramc.Controller
	wake  *wakesrc.Manager
	seq   *ccu.Sequencer
	busy  int32
	state State
	count uint64

	// held across the parked section
	req     Request
	armed   wakesrc.Set
	saved   ccu.Voltages
	lowered bool
}

// New fills zero Config fields from DefaultConfig.
func New(bus reg.Bus, delay reg.Delay, rails pmu.Provider, cpu CPU,
	cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.Bases == (sun4i.Bases{}) {
		cfg.Bases = def.Bases
	}
	if cfg.Plan == (ccu.Plan{}) {
		cfg.Plan = def.Plan
	}
	if cfg.PollLimit == 0 {
		cfg.PollLimit = def.PollLimit
	}
	if cfg.Parker == nil {
		cfg.Parker = &OSThread{}
	}
	o := &Orchestrator{
		cfg: cfg,
		cpu: cpu,
		dram: dramc.New(bus, delay, dramc.Config{
			Base:      cfg.Bases.DRAMC,
			PollLimit: cfg.PollLimit,
		}),
		wake: wakesrc.New(bus, wakesrc.Config{
			INTC:  cfg.Bases.INTC,
			Timer: cfg.Bases.Timer,
			LRADC: cfg.Bases.LRADC,
		}),
		seq: ccu.New(bus, delay, cfg.Bases.CCU, rails),
	}
	o.seq.OnStep = o.step
	return o
}

func (o *Orchestrator) State() State  { return o.state }
func (o *Orchestrator) Count() uint64 { return o.count }

func (o *Orchestrator) DRAM() *dramc.Controller       { return o.dram }
func (o *Orchestrator) WakeSources() *wakesrc.Manager { return o.wake }
func (o *Orchestrator) Sequencer() *ccu.Sequencer     { return o.seq }

func (o *Orchestrator) advance(to State) {
	from := o.state
	if from.next() != to {
		panic(&InvariantViolation{
			Op:  "standby " + to.String(),
			Why: "from " + from.String(),
		})
	}
	o.state = to
	if o.cfg.Debug {
		log.Print("debug", "standby: ", from, " -> ", to)
	}
	if o.cfg.OnState != nil {
		o.cfg.OnState(from, to)
	}
}

func (o *Orchestrator) step(st ccu.Step) {
	if !o.cfg.Debug {
		return
	}
	log.Print("debug", "standby: ", st)
	if err := o.seq.Topology().Check(); err != nil {
		panic(err)
	}
}

// fault panics on an ordering violation and otherwise logs and keeps
// each joined error.
func (o *Orchestrator) fault(res *Result, err error) {
	if err == nil {
		return
	}
	var iv *InvariantViolation
	if errors.As(err, &iv) {
		panic(iv)
	}
	errs := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	}
	for _, err := range errs {
		log.Print("crit", "standby ", res.ID, ": ", err)
		res.Faults = append(res.Faults, err)
	}
}

// recoverIdle disarms and returns to Idle when an invariant violation
// panics out of a cycle, then repanics. Clocks, rails and DRAM are left
// as they were at the violation.
func (o *Orchestrator) recoverIdle() {
	r := recover()
	if r == nil {
		return
	}
	o.wake.Disarm(o.armed)
	o.armed = 0
	o.lowered = false
	o.state = Idle
	panic(r)
}

// Suspend runs one standby cycle and returns once an armed source has
// fired and the system is restored. Hardware faults met while parked are
// in Result.Faults, not the returned error. An invariant violation
// panics after the wake sources are disarmed and the state is back to
// Idle.
func (o *Orchestrator) Suspend(req Request) (Result, error) {
	if req.Wake.Empty() || !req.Wake.SubsetOf(wakesrc.All) {
		return Result{}, fmt.Errorf("%w: wake %#x", ErrInvalidRequest,
			uint8(req.Wake))
	}
	if req.Wake == wakesrc.Of(wakesrc.TimerOff) && req.TimeoffSeconds == 0 {
		return Result{}, fmt.Errorf("%w: timeoff without seconds",
			ErrInvalidRequest)
	}
	if req.Wake.Has(wakesrc.TimerOff) &&
		req.TimeoffSeconds > wakesrc.MaxTimeoff {
		return Result{}, fmt.Errorf("%w: timeoff %ds exceeds %ds",
			ErrInvalidRequest, req.TimeoffSeconds, wakesrc.MaxTimeoff)
	}
	if !atomic.CompareAndSwapInt32(&o.busy, 0, 1) {
		return Result{}, ErrBusy
	}
	defer atomic.StoreInt32(&o.busy, 0)
	defer o.recoverIdle()

	res := Result{ID: uuid.NewV4()}
	log.Print("info", "standby ", res.ID, ": wake ", req.Wake)

	o.req = req
	o.advance(SavingWakeSources)
	o.armed = o.wake.Arm(req.Wake, req.TimeoffSeconds)
	res.Armed = o.armed
	o.advance(ContextSaved)

	o.cfg.Parker.Park(func() { o.parked(&res) })

	o.advance(ContextRestored)
	o.wake.Disarm(o.armed)
	o.armed = 0
	o.count++
	res.Count = o.count
	o.advance(Idle)

	log.Print("info", "standby ", res.ID, ": woke by ", res.Wake,
		" after ", res.Slept, ", ", len(res.Faults), " faults")
	return res, nil
}

func (o *Orchestrator) parked(res *Result) {
	o.fault(res, o.dram.EnterSelfRefresh())
	if o.cfg.PowerSave {
		o.fault(res, o.dram.PowerSaveEnter())
	}
	o.advance(DRAMSuspended)

	saved, err := o.seq.Down(o.cfg.Plan)
	o.saved = saved
	o.lowered = saved != (ccu.Voltages{})
	o.fault(res, err)
	o.advance(ClocksLowered)

	o.advance(Parked)
	t0 := time.Now()
	for {
		o.wake.ClearKeyPending()
		o.cpu.WaitForInterrupt()
		if res.Wake = o.wake.Fired(o.armed); !res.Wake.Empty() {
			break
		}
		res.Spurious++
	}
	res.Slept = time.Since(t0)

	o.advance(ClocksRestoring)
	if o.lowered {
		o.fault(res, o.seq.Up(o.cfg.Plan, o.saved))
	}
	if o.cfg.PowerSave {
		training, err := o.dram.PowerSaveExit()
		res.Training = training
		o.fault(res, err)
	}
	o.fault(res, o.dram.ExitSelfRefresh())
	o.advance(DRAMResumed)
}
