package funcleterrors

import "fmt"

type FunctionNotFoundError struct {
	FunctionName string
}

func NewFunctionNotFoundError(name string) error {
	return &FunctionNotFoundError{FunctionName: name}
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("function %s not found", e.FunctionName)
}

type TimeoutError struct {
	FunctionName string
}

func NewTimeoutError(name string) error {
	return &TimeoutError{FunctionName: name}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out for function %s", e.FunctionName)
}

type ConnectionError struct {
	FunctionName string
}

func NewConnectionError(name string) error {
	return &ConnectionError{FunctionName: name}
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to worker for function %s", e.FunctionName)
}

type FunctionInvocationError struct {
	FunctionName string
	StatusCode   int
	Body         string
}

func NewFunctionInvocationError(name string, status int, body string) error {
	return &FunctionInvocationError{FunctionName: name, StatusCode: status, Body: body}
}

func (e *FunctionInvocationError) Error() string {
	return fmt.Sprintf("function %s returned %d: %s", e.FunctionName, e.StatusCode, e.Body)
}

// Health check error
type HealthCheckFailedError struct {
	Target string
	Reason string
}

func NewHealthCheckFailedError(target string, reason string) error {
	return &HealthCheckFailedError{Target: target, Reason: reason}
}

func (e *HealthCheckFailedError) Error() string {
	return fmt.Sprintf("health check failed for %s: reason = %s", e.Target, e.Reason)
}

// Queue errors
type QueueFullError struct {
	QueueName string
	Capacity  int
}

func NewQueueFullError(name string, capacity int) error {
	return &QueueFullError{QueueName: name, Capacity: capacity}
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("queue %s is full: capacity = %d", e.QueueName, e.Capacity)
}

type QueueClosedError struct {
	QueueName string
}

func NewQueueClosedError(name string) error {
	return &QueueClosedError{QueueName: name}
}

func (e *QueueClosedError) Error() string {
	return fmt.Sprintf("queue %s is closed", e.QueueName)
}

// Config errors
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: reason = %s", e.Reason)
}

func NewConfigError(reason string) error {
	return &ConfigError{Reason: reason}
}

// Registry errors
type RegistryLoadError struct {
	Reason string
}

func (e *RegistryLoadError) Error() string {
	return fmt.Sprintf("failed to load registry: reason = %s", e.Reason)
}

func NewRegistryLoadError(reason string) error {
	return &RegistryLoadError{Reason: reason}
}

type RegistrySaveError struct {
	Reason string
}

func (e *RegistrySaveError) Error() string {
	return fmt.Sprintf("failed to save registry: reason = %s", e.Reason)
}

func NewRegistrySaveError(reason string) error {
	return &RegistrySaveError{Reason: reason}
}
