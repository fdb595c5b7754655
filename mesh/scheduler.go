// MIT License
//
// Copyright (c) 2024-2026 Meshwork Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mesh

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/meshwork-io/meshwork/errors"
	"github.com/meshwork-io/meshwork/log"
)

// scheduler stacks envelopes that will be delivered to actors in the future.
type scheduler struct {
	mu              sync.Mutex
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	logger          log.Logger
	stopTimeout     time.Duration
}

// newScheduler creates an instance of scheduler with the quartz logger off.
func newScheduler(logger log.Logger, stopTimeout time.Duration) *scheduler {
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          logger,
		stopTimeout:     stopTimeout,
	}
}

// Start starts the scheduler.
func (x *scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Info("starting envelopes scheduler...")
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Info("envelopes scheduler started.:)")
}

// Stop stops the scheduler and waits for inflight jobs to wind down.
func (x *scheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.logger.Info("stopping envelopes scheduler...")
	x.mu.Lock()
	defer x.mu.Unlock()
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)

	x.logger.Info("envelopes scheduler stopped...:)")
}

// ScheduleOnce delivers the given task once after the interval has elapsed.
func (x *scheduler) ScheduleOnce(task func() error, interval time.Duration) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	fn := job.NewFunctionJob[bool](
		func(context.Context) (bool, error) {
			err := task()
			return err == nil, err
		},
	)

	detail := quartz.NewJobDetail(fn, quartz.NewJobKey(newJobKey()))
	return x.quartzScheduler.ScheduleJob(detail, quartz.NewRunOnceTrigger(interval))
}

// Schedule delivers the given task repeatedly at the given interval.
func (x *scheduler) Schedule(task func() error, interval time.Duration) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	fn := job.NewFunctionJob[bool](
		func(context.Context) (bool, error) {
			err := task()
			return err == nil, err
		},
	)

	detail := quartz.NewJobDetail(fn, quartz.NewJobKey(newJobKey()))
	return x.quartzScheduler.ScheduleJob(detail, quartz.NewSimpleTrigger(interval))
}

// ScheduleWithCron delivers the given task per the cron expression.
func (x *scheduler) ScheduleWithCron(task func() error, cronExpression string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	fn := job.NewFunctionJob[bool](
		func(context.Context) (bool, error) {
			err := task()
			return err == nil, err
		},
	)

	location := time.Now().Location()
	trigger, err := quartz.NewCronTriggerWithLoc(cronExpression, location)
	if err != nil {
		return err
	}

	detail := quartz.NewJobDetail(fn, quartz.NewJobKey(newJobKey()))
	return x.quartzScheduler.ScheduleJob(detail, trigger)
}

// newJobKey returns a unique job key.
func newJobKey() string {
	return uuid.NewString()
}
