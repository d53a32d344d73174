// Package validation checks section selections against the catalog.
//
// Dependencies are checked directly, not transitively: selecting a section
// only requires its own listed dependencies to be selected.
package validation

import (
	"fmt"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/catalog"
)

// Validate checks required sections and direct dependencies of every selected section.
func Validate(selected map[string]bool) domain.ValidationResult {
	errs := []string{}

	for _, s := range catalog.Sections() {
		if s.Required && !selected[s.Key] {
			errs = append(errs, fmt.Sprintf("%s is a required section", s.Name))
		}
	}

	for _, s := range catalog.Sections() {
		if !selected[s.Key] {
			continue
		}
		for _, dep := range s.Dependencies {
			if selected[dep] {
				continue
			}
			errs = append(errs, fmt.Sprintf("%s requires %s", s.Name, displayName(dep)))
		}
	}

	return domain.ValidationResult{
		OK:       len(errs) == 0,
		Errors:   errs,
		Warnings: []string{},
	}
}

// ValidateReport extends Validate with the report type's own required sections,
// the output format and the date range.
func ValidateReport(rt domain.ReportTypeDefinition, resolved domain.ResolvedOptions) domain.ValidationResult {
	result := Validate(resolved.Sections)

	for _, key := range rt.RequiredSections {
		s, ok := catalog.Section(key)
		if ok && s.Required {
			// already reported by Validate
			continue
		}
		if !resolved.Sections[key] {
			result.Errors = append(result.Errors, fmt.Sprintf("%s is required for %s", displayName(key), rt.Name))
		}
	}

	if !resolved.Format.IsValid() {
		result.Errors = append(result.Errors, fmt.Sprintf("unsupported format %q", resolved.Format))
	}

	if resolved.DateRange.End.Before(resolved.DateRange.Start) {
		result.Errors = append(result.Errors, "date range end is before its start")
	}

	result.OK = len(result.Errors) == 0
	return result
}

func displayName(key string) string {
	if s, ok := catalog.Section(key); ok {
		return s.Name
	}
	return key
}
