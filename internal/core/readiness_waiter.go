package core

import (
	"context"
	"fmt"
	"time"

	"helmtest/internal/core/domain"
	"helmtest/internal/ports"

	"github.com/chainguard-dev/clog"
	"k8s.io/apimachinery/pkg/util/wait"
)

// ReadinessWaiter blocks until a workload reports the expected number of ready
// pods.
type ReadinessWaiter interface {
	WaitReady(ctx context.Context, target domain.ReadinessTarget, deadline time.Duration) error
}

var _ ReadinessWaiter = (*PodReadinessWaiter)(nil)

// PodReadinessWaiter polls the ready pod count of a label selector.
type PodReadinessWaiter struct {
	counter  ports.PodReadinessCounter
	interval time.Duration
}

func ProvidePodReadinessWaiter(counter ports.PodReadinessCounter, settings *domain.Settings) *PodReadinessWaiter {
	return NewPodReadinessWaiter(counter, settings.PollInterval)
}

func NewPodReadinessWaiter(counter ports.PodReadinessCounter, interval time.Duration) *PodReadinessWaiter {
	if interval <= 0 {
		interval = domain.DefaultPollInterval
	}
	return &PodReadinessWaiter{
		counter:  counter,
		interval: interval,
	}
}

// WaitReady polls until exactly target.ExpectedReplicas pods are ready or the
// deadline elapses. A target of zero replicas is rejected without polling. If
// ctx ends first its error is returned instead of a TimeoutError.
func (w *PodReadinessWaiter) WaitReady(ctx context.Context, target domain.ReadinessTarget, deadline time.Duration) error {
	if target.ExpectedReplicas < 1 {
		return &domain.InvalidTargetError{Workload: target.WorkloadName, Replicas: target.ExpectedReplicas}
	}
	if deadline <= 0 {
		return domain.NewConfigurationError("readiness deadline must be positive, got %s", deadline)
	}

	log := clog.FromContext(ctx).With(
		"workload", target.WorkloadName,
		"selector", target.LabelSelector,
		"expected", target.ExpectedReplicas,
	)
	log.Info("waiting for pods to become ready", "deadline", deadline)

	// The condition runs sequentially, so lastReady needs no locking.
	lastReady := 0
	err := wait.PollUntilContextTimeout(ctx, w.interval, deadline, true,
		func(pollCtx context.Context) (bool, error) {
			ready, err := w.counter.CountReadyPods(pollCtx, target.LabelSelector)
			if err != nil {
				log.Warn("failed to count ready pods", "error", err)
				return false, nil
			}
			if ready != lastReady {
				log.Debug("ready pod count changed", "ready", ready)
			}
			lastReady = ready
			return ready == int(target.ExpectedReplicas), nil
		})
	if err == nil {
		log.Info("workload is ready")
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("waiting for workload %s: %w", target.WorkloadName, ctx.Err())
	}
	if wait.Interrupted(err) {
		return &domain.TimeoutError{
			Workload:  target.WorkloadName,
			Expected:  target.ExpectedReplicas,
			LastReady: lastReady,
			Deadline:  deadline,
		}
	}
	return fmt.Errorf("waiting for workload %s: %w", target.WorkloadName, err)
}
