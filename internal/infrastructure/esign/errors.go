package esign

import (
	"errors"
	"fmt"
	"strconv"
)

// Step names a stage of the signature workflow
type Step string

const (
	StepCreateTemplate Step = "CreateTemplate"
	StepAttachDocument Step = "AttachDocument"
	StepCreateEnvelope Step = "CreateEnvelope"
	StepSendEnvelope   Step = "SendEnvelope"
)

// Request validation errors, returned before any platform call
var (
	ErrNoDocument    = errors.New("esign: a document is required")
	ErrNoSigners     = errors.New("esign: at least one signer is required")
	ErrInvalidSigner = errors.New("esign: invalid signer")
)

func invalidSigner(index int, reason string) error {
	return fmt.Errorf("%w %d: %s", ErrInvalidSigner, index+1, reason)
}

// SignatureWorkflowError reports the step at which the workflow aborted
type SignatureWorkflowError struct {
	Step Step
	// StatusCode is the platform's HTTP status, 0 for transport failures
	StatusCode int
	// Body is the raw platform response, for logs only
	Body  string
	Cause error
}

func (e *SignatureWorkflowError) Error() string {
	msg := "signature workflow failed at " + string(e.Step)
	if e.StatusCode != 0 {
		msg += " (HTTP " + strconv.Itoa(e.StatusCode) + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SignatureWorkflowError) Unwrap() error {
	return e.Cause
}

// Is matches on step when the target names one
func (e *SignatureWorkflowError) Is(target error) bool {
	t, ok := target.(*SignatureWorkflowError)
	if !ok {
		return false
	}
	return t.Step == "" || t.Step == e.Step
}

// FailedStep returns the step named by err, if err is a SignatureWorkflowError
func FailedStep(err error) (Step, bool) {
	var we *SignatureWorkflowError
	if errors.As(err, &we) {
		return we.Step, true
	}
	return "", false
}
