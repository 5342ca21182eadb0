package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

type UserType string

const (
	UserTypeUCM UserType = "UCM"
	UserTypeOPI UserType = "OPI"
)

func (u UserType) Validate() error {
	switch u {
	case UserTypeUCM, UserTypeOPI:
		return nil
	default:
		return fmt.Errorf("unsupported user type %q", string(u))
	}
}

// Requester holds the contact and billing columns. The tracking core carries
// them through unchanged.
type Requester struct {
	Name                  string
	Email                 string
	Phone                 string
	Organisation          string
	Department            string
	PrincipalInvestigator string
	UserType              UserType
	BillingOrganisation   string
	BillingDepartment     string
	CIF                   string
	FiscalAddress         string
	PostalAddress         string
	AccountingOffice      string
	ManagingBody          string
	ManagingCentre        string
	Project               string
	AccountingNumber      string
}

// Request is one row of the requests table. Stored holds the row it was
// decoded from and is nil for requests that were never written.
type Request struct {
	ID            string
	RowIndex      int
	SubmittedAt   time.Time
	Status        Status
	StatusText    string
	Service       string
	Category      Category
	EstimatedCost float64
	Detail        Detail
	Requester     Requester
	Observations  string
	Stored        []string
}

// Validate checks a request built for creation.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(r.Service) == "" {
		return fmt.Errorf("service is required")
	}
	if err := r.Category.Validate(); err != nil {
		return err
	}
	if err := r.Status.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Requester.Name) == "" {
		return fmt.Errorf("requester name is required")
	}
	if _, err := mail.ParseAddress(r.Requester.Email); err != nil {
		return fmt.Errorf("invalid email %q", r.Requester.Email)
	}
	if err := r.Requester.UserType.Validate(); err != nil {
		return err
	}
	if r.EstimatedCost < 0 {
		return fmt.Errorf("estimated cost cannot be negative")
	}
	switch d := r.Detail.(type) {
	case IrradiationDetail:
		if d.Canisters <= 0 {
			return fmt.Errorf("irradiation requests need a canister count")
		}
	case DosimetryDetail:
		if d.Dosimeters <= 0 || d.Months <= 0 {
			return fmt.Errorf("dosimetry requests need dosimeters and months")
		}
	case CounterDetail:
		if d.Hours < 0 {
			return fmt.Errorf("counter hours cannot be negative")
		}
	}
	if r.Detail != nil && r.Detail.Category() != r.Category && r.Category != CategoryUnclassified {
		return fmt.Errorf("detail for %s does not match category %s", r.Detail.Category(), r.Category)
	}
	return nil
}
