package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConfigurationError reports bad input detected before any cluster call.
type ConfigurationError struct {
	Reason string
	Err    error
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DeployError reports a failed helm invocation together with its captured output.
type DeployError struct {
	Action   string
	Release  string
	ExitCode int
	Output   string
	Err      error
}

func (e *DeployError) Error() string {
	msg := fmt.Sprintf("helm %s of release %s failed", e.Action, e.Release)
	if e.ExitCode != 0 {
		msg = fmt.Sprintf("%s with exit status %d", msg, e.ExitCode)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg = fmt.Sprintf("%s, output: %s", msg, out)
	}
	return msg
}

func (e *DeployError) Unwrap() error {
	return e.Err
}

// InvalidTargetError reports a readiness target that cannot be waited on.
type InvalidTargetError struct {
	Workload string
	Replicas int32
	Err      error
}

func (e *InvalidTargetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot wait for workload %s: %v", e.Workload, e.Err)
	}
	return fmt.Sprintf("cannot wait for workload %s with %d replicas", e.Workload, e.Replicas)
}

func (e *InvalidTargetError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that readiness was not reached within the deadline.
type TimeoutError struct {
	Workload  string
	Expected  int32
	LastReady int
	Deadline  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf(
		"workload %s not ready after %s: %d of %d pods ready",
		e.Workload,
		e.Deadline,
		e.LastReady,
		e.Expected,
	)
}

func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsDeployError(err error) bool {
	var target *DeployError
	return errors.As(err, &target)
}

func IsInvalidTarget(err error) bool {
	var target *InvalidTargetError
	return errors.As(err, &target)
}

func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}
