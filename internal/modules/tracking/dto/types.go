package dto

type SummaryInput struct {
	Refresh bool
}

type ReportsInput struct {
	Refresh bool
}

type SummaryOutput struct {
	Total            int
	Pending          int
	InProgress       int
	Completed        int
	Cancelled        int
	Overdue          int
	NeedsAttention   int
	AttentionIDs     []string
	SessionsToday    int
	SessionsThisWeek int
	Issues           int
	Buckets          []StatusCount
}

// StatusCount is one per-status counter with the label and colour to show
// it with.
type StatusCount struct {
	Status string
	Label  string
	Color  string
	Count  int
}

type ReportOutput struct {
	RequestID         string
	Service           string
	Category          string
	Status            string
	StatusLabel       string
	StatusColor       string
	StoredStatus      string
	Percentage        float64
	Completed         float64
	Expected          float64
	Label             string
	SessionsPerformed int
	SessionsPlanned   int
	LastPerformed     string
	NextPlanned       string
	DaysSinceActivity int
	Overdue           bool
	NeedsAttention    bool
}

// AddRequestInput carries a new request. Only the detail fields relevant to
// the service's category are used. A nil EstimatedCost is priced from the
// tariff table.
type AddRequestInput struct {
	Service       string
	Category      string
	UserType      string
	EstimatedCost *float64

	Name                  string
	Email                 string
	Phone                 string
	Organisation          string
	Department            string
	PrincipalInvestigator string
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
	Observations          string

	Canisters         int
	DosePerCanisterGy float64
	Irradiations      int
	Months            int
	Dosimeters        int
	Hours             float64
	WasteDescription  string
}

type RequestOutput struct {
	ID            string
	SubmittedAt   string
	Status        string
	StatusLabel   string
	Service       string
	Category      string
	Requester     string
	Email         string
	UserType      string
	EstimatedCost float64
	Detail        string
}

type UpdateStatusInput struct {
	RequestID string
	Status    string
}

type NormalizeOutput struct {
	Rewritten []string
}

// SessionInput is used for both creation and replacement. ID is ignored on
// creation.
type SessionInput struct {
	ID               string
	RequestID        string
	Date             string
	Kind             string
	Units            float64
	DoseGy           float64
	MonthTag         string
	Dosimeters       int
	Hours            float64
	WasteDescription string
	Notes            string
	Operator         string
	Cost             float64
}

type SessionOutput struct {
	ID               string
	RequestID        string
	Date             string
	Kind             string
	Service          string
	Units            float64
	DoseGy           float64
	MonthTag         string
	Dosimeters       int
	Hours            float64
	WasteDescription string
	Notes            string
	Operator         string
}

type ReindexInput struct{}

type IndexOutput struct {
	Reports int
}
