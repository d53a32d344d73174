package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the stable discriminator carried by every report pipeline error
type ErrorKind string

const (
	KindUnknownReportType ErrorKind = "unknown_report_type"
	KindValidation        ErrorKind = "validation"
	KindDataFetch         ErrorKind = "data_fetch"
	KindTemplateNotFound  ErrorKind = "template_not_found"
	KindRender            ErrorKind = "render"
	KindUnknown           ErrorKind = "unknown"
)

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first pipeline error in err's chain.
func KindOf(err error) ErrorKind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

type UnknownReportTypeError struct {
	ReportType string
}

func (e *UnknownReportTypeError) Error() string {
	return fmt.Sprintf("unknown report type: %q", e.ReportType)
}

func (e *UnknownReportTypeError) Kind() ErrorKind { return KindUnknownReportType }

// ValidationError carries every violation found, not just the first
type ValidationError struct {
	ReportType string
	Errors     []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s report configuration: %s", e.ReportType, strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Kind() ErrorKind { return KindValidation }

type DataFetchError struct {
	Err error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("fetch report data: %v", e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

func (e *DataFetchError) Kind() ErrorKind { return KindDataFetch }

type TemplateNotFoundError struct {
	Template string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %q", e.Template)
}

func (e *TemplateNotFoundError) Kind() ErrorKind { return KindTemplateNotFound }

type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render template %q: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Kind() ErrorKind { return KindRender }
