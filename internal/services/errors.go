package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrVideoOpen marks inputs that cannot be opened or decoded.
	ErrVideoOpen = errors.New("video open error")
	// ErrModelUnavailable marks tracking requests with no backing model.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrEmptyTrack marks tracks with zero usable frames after reconciliation.
	ErrEmptyTrack = errors.New("empty track")
	// ErrRemux marks audio reattachment failures.
	ErrRemux = errors.New("remux error")

	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureClass distinguishes the two broad remediation paths a caller has.
type FailureClass string

const (
	// FailureInput means the caller should fix their input media or settings.
	FailureInput FailureClass = "input"
	// FailureEnvironment means the host is missing a tool, model, or codec.
	FailureEnvironment FailureClass = "environment"
)

// Classify maps a pipeline error to the remediation class surfaced to callers.
func Classify(err error) FailureClass {
	switch {
	case errors.Is(err, ErrModelUnavailable),
		errors.Is(err, ErrExternalTool),
		errors.Is(err, ErrConfiguration):
		return FailureEnvironment
	default:
		return FailureInput
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
