package project

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength   = 200
	maxTagLength    = 50
	defaultCurrency = "USD"
)

// Validate checks a project before it is written and normalizes its
// free-form fields in place.
func Validate(p *Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(p.Name) > maxNameLength {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidInput, maxNameLength)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, p.Status)
	}
	if !p.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, p.Priority)
	}
	if math.IsNaN(p.Progress) || p.Progress < 0 || p.Progress > 100 {
		return fmt.Errorf("%w: progress must be within 0..100", ErrInvalidInput)
	}
	if !nonNegative(p.Budget) || !nonNegative(p.ActualCost) {
		return fmt.Errorf("%w: budget and actual cost must be non-negative", ErrInvalidInput)
	}
	if p.StartDate != nil && p.Deadline != nil && p.Deadline.Before(*p.StartDate) {
		return fmt.Errorf("%w: deadline before start date", ErrInvalidInput)
	}

	currency, err := normalizeCurrency(p.Currency)
	if err != nil {
		return err
	}
	p.Currency = currency

	tags, err := NormalizeTags(p.Tags)
	if err != nil {
		return err
	}
	p.Tags = tags
	return nil
}

// NormalizeTags trims, de-duplicates and sorts tags.
func NormalizeTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > maxTagLength {
			return nil, fmt.Errorf("%w: tag %q longer than %d characters", ErrInvalidInput, tag, maxTagLength)
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out, nil
}

func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return defaultCurrency, nil
	}
	if len(code) != 3 {
		return "", fmt.Errorf("%w: currency must be an ISO 4217 code", ErrInvalidInput)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: currency must be an ISO 4217 code", ErrInvalidInput)
		}
	}
	return code, nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
