package domain

import (
	"fmt"
	"strings"
)

// ProviderKind distinguishes independent professionals from company employees
type ProviderKind string

const (
	ProviderProfessional ProviderKind = "professional"
	ProviderEmployee     ProviderKind = "employee"
)

// IsValid reports whether the kind is known
func (k ProviderKind) IsValid() bool {
	return k == ProviderProfessional || k == ProviderEmployee
}

// ParseProviderKind converts a raw string into a ProviderKind
func ParseProviderKind(s string) (ProviderKind, error) {
	k := ProviderKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: unknown provider kind %q", ErrValidation, s)
	}
	return k, nil
}

// Provider is the party performing the service.
// Employees always carry the company they work for; professionals never do.
type Provider struct {
	Kind      ProviderKind
	ID        string
	CompanyID *string
}

// NewProfessional builds an independent-professional provider
func NewProfessional(id string) Provider {
	return Provider{Kind: ProviderProfessional, ID: id}
}

// NewEmployee builds a company-employee provider
func NewEmployee(id, companyID string) Provider {
	return Provider{Kind: ProviderEmployee, ID: id, CompanyID: &companyID}
}

// Validate checks the variant invariants
func (p Provider) Validate() error {
	if !p.Kind.IsValid() {
		return fmt.Errorf("%w: unknown provider kind %q", ErrValidation, p.Kind)
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: provider id is required", ErrValidation)
	}

	switch p.Kind {
	case ProviderEmployee:
		if p.CompanyID == nil || strings.TrimSpace(*p.CompanyID) == "" {
			return fmt.Errorf("%w: company id is required for employee providers", ErrValidation)
		}
	case ProviderProfessional:
		if p.CompanyID != nil {
			return fmt.Errorf("%w: professional providers cannot belong to a company", ErrValidation)
		}
	}

	return nil
}

// Key returns a stable identity of the provider, e.g. "employee:42"
func (p Provider) Key() string {
	return string(p.Kind) + ":" + p.ID
}

// IsEmployee reports whether the provider is a company employee
func (p Provider) IsEmployee() bool {
	return p.Kind == ProviderEmployee
}
