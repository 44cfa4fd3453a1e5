package service

import (
	"errors"
	"fmt"

	"statement-parser/internal/dto"
)

// ErrorKind tags every failure the extraction pipeline can report.
type ErrorKind string

const (
	KindInputRejected        ErrorKind = "input_rejected"
	KindExtractionFailed     ErrorKind = "extraction_failed"
	KindEmptyContent         ErrorKind = "empty_content"
	KindClassificationFailed ErrorKind = "classification_failed"
	KindResponseMalformed    ErrorKind = "response_malformed"
	KindUnexpected           ErrorKind = "unexpected"
)

// PipelineError is the single error type returned by ExtractionService.
// Reason and Detail are the caller-facing "error" and "message" texts.
type PipelineError struct {
	Kind   ErrorKind
	Reason string
	Detail string
	Err    error
}

func (e *PipelineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Reason, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Reason)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Response renders the error body returned to clients.
func (e *PipelineError) Response() dto.ErrorResponse {
	return dto.ErrorResponse{Error: e.Reason, Message: e.Detail}
}

// AsPipelineError returns err as a *PipelineError, classifying anything else
// as unexpected.
func AsPipelineError(err error) *PipelineError {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return unexpected(err)
}

func inputRejected(reason string) *PipelineError {
	return &PipelineError{Kind: KindInputRejected, Reason: reason}
}

func extractionFailed(err error) *PipelineError {
	return &PipelineError{
		Kind:   KindExtractionFailed,
		Reason: "Failed to extract text from file",
		Detail: err.Error(),
		Err:    err,
	}
}

func emptyContent() *PipelineError {
	return &PipelineError{Kind: KindEmptyContent, Reason: "No text content found in file"}
}

func classificationFailed(err error) *PipelineError {
	return &PipelineError{
		Kind:   KindClassificationFailed,
		Reason: "AI classification failed",
		Detail: err.Error(),
		Err:    err,
	}
}

func malformedJSON(err error) *PipelineError {
	return &PipelineError{
		Kind:   KindResponseMalformed,
		Reason: "Failed to parse AI response",
		Detail: "The AI returned invalid JSON format",
		Err:    err,
	}
}

func notAnArray() *PipelineError {
	return &PipelineError{
		Kind:   KindResponseMalformed,
		Reason: "Invalid AI response format",
		Detail: "Expected array of transactions",
	}
}

func unexpected(err error) *PipelineError {
	detail := "Unknown error occurred"
	if err != nil {
		detail = err.Error()
	}
	return &PipelineError{
		Kind:   KindUnexpected,
		Reason: "Transaction extraction failed",
		Detail: detail,
		Err:    err,
	}
}

// Stage names the format reader that failed.
type Stage string

const (
	StagePDF   Stage = "PDF"
	StageCSV   Stage = "CSV"
	StageExcel Stage = "Excel"
)

// ParseError wraps any failure raised by a format reader, including panics
// recovered from the underlying library.
type ParseError struct {
	Stage Stage
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parsing failed: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
