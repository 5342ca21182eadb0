package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Logical table names used in issues and metric labels. They are independent
// of the sheet titles configured for the store.
const (
	TableRequests = "requests"
	TableSessions = "sessions"
)

const (
	RequestColumns         = 24
	ExtendedSessionColumns = 14
	LegacySessionColumns   = 10
)

type SessionSchema string

const (
	SessionSchemaExtended SessionSchema = "extended"
	SessionSchemaLegacy   SessionSchema = "legacy"
)

// Issue records a stored field that could not be read and was replaced by a
// default while decoding.
type Issue struct {
	Table    string
	RowIndex int
	Field    string
	Raw      string
	Err      error
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s row %d field %s (%q): %v", i.Table, i.RowIndex, i.Field, i.Raw, i.Err)
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02"}

// ParseDate reads the date formats found in stored rows. Only the first token
// is considered so timestamps keep their date part.
func ParseDate(text string) (time.Time, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, fields[0]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", text)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func parseNumber(text string) (float64, error) {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "€"))
	if text == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", text)
	}
	return f, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// rowReader pulls cells out of a row and collects issues for the ones that
// do not parse.
type rowReader struct {
	table  string
	index  int
	row    []string
	issues []Issue
}

func (r *rowReader) text(i int) string {
	if i < 0 || i >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[i])
}

func (r *rowReader) report(field, raw string, err error) {
	r.issues = append(r.issues, Issue{Table: r.table, RowIndex: r.index, Field: field, Raw: raw, Err: err})
}

func (r *rowReader) number(i int, field string) float64 {
	raw := r.text(i)
	f, err := parseNumber(raw)
	if err != nil {
		r.report(field, raw, err)
	}
	return f
}

func (r *rowReader) date(i int, field string) time.Time {
	raw := r.text(i)
	t, err := ParseDate(raw)
	if err != nil {
		r.report(field, raw, err)
	}
	return t
}

// DecodeRequest turns a 24-column row into a Request. It never fails:
// unreadable fields fall back to defaults and are returned as issues.
func DecodeRequest(index int, row []string) (Request, []Issue) {
	r := &rowReader{table: TableRequests, index: index, row: row}

	req := Request{
		ID:            r.text(0),
		RowIndex:      index,
		SubmittedAt:   r.date(1, "date"),
		StatusText:    r.text(2),
		Service:       r.text(3),
		EstimatedCost: r.number(4, "cost"),
		Observations:  r.text(23),
		Stored:        append([]string(nil), row...),
	}
	req.Status = StatusPending
	if req.StatusText != "" {
		status, err := ParseStatus(req.StatusText)
		if err != nil {
			r.report("status", req.StatusText, err)
		}
		req.Status = status
	}
	req.Category = CategoryForService(req.Service)

	detail, problems := ParseDetail(req.Category, r.text(5))
	fields := make([]string, 0, len(problems))
	for field := range problems {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		r.report("detail."+field, r.text(5), problems[field])
	}
	req.Detail = detail

	userType := UserType(strings.ToUpper(r.text(12)))
	if userType == "" {
		userType = UserTypeUCM
	} else if err := userType.Validate(); err != nil {
		r.report("user_type", r.text(12), err)
		userType = UserTypeUCM
	}

	req.Requester = Requester{
		Name:                  r.text(6),
		Email:                 r.text(7),
		Phone:                 r.text(8),
		Organisation:          r.text(9),
		Department:            r.text(10),
		PrincipalInvestigator: r.text(11),
		UserType:              userType,
		BillingOrganisation:   r.text(13),
		BillingDepartment:     r.text(14),
		CIF:                   r.text(15),
		FiscalAddress:         r.text(16),
		PostalAddress:         r.text(17),
		AccountingOffice:      r.text(18),
		ManagingBody:          r.text(19),
		ManagingCentre:        r.text(20),
		Project:               r.text(21),
		AccountingNumber:      r.text(22),
	}
	return req, r.issues
}

// EncodeRequest builds the row for req. A request that was decoded from a
// stored row keeps the stored text of every cell whose value did not change,
// so unreadable or non-canonical cells survive a status update untouched.
func EncodeRequest(req Request) []string {
	row := encodeRequestFields(req)
	if req.Stored == nil {
		return row
	}
	prev, _ := DecodeRequest(req.RowIndex, req.Stored)
	before := encodeRequestFields(prev)
	for i := range row {
		if row[i] != before[i] {
			continue
		}
		if i == 2 && (req.Status != prev.Status || req.StatusText != prev.StatusText) {
			continue
		}
		row[i] = ""
		if i < len(req.Stored) {
			row[i] = req.Stored[i]
		}
	}
	return row
}

func encodeRequestFields(req Request) []string {
	p := req.Requester
	status := req.StatusText
	if status == "" {
		status = req.Status.Label()
	}
	return []string{
		req.ID,
		FormatDate(req.SubmittedAt),
		status,
		req.Service,
		formatNumber(req.EstimatedCost),
		EncodeDetail(req.Detail),
		p.Name,
		p.Email,
		p.Phone,
		p.Organisation,
		p.Department,
		p.PrincipalInvestigator,
		string(p.UserType),
		p.BillingOrganisation,
		p.BillingDepartment,
		p.CIF,
		p.FiscalAddress,
		p.PostalAddress,
		p.AccountingOffice,
		p.ManagingBody,
		p.ManagingCentre,
		p.Project,
		p.AccountingNumber,
		req.Observations,
	}
}

// DecodeSession reads a session row in the given schema.
func DecodeSession(schema SessionSchema, index int, row []string) (Session, []Issue) {
	if schema == SessionSchemaLegacy {
		return decodeLegacySession(index, row)
	}
	r := &rowReader{table: TableSessions, index: index, row: row}
	s := Session{
		ID:               r.text(0),
		RequestID:        r.text(1),
		RowIndex:         index,
		Date:             r.date(2, "date"),
		Service:          r.text(4),
		Requester:        r.text(5),
		Units:            r.number(6, "units"),
		DoseGy:           r.number(7, "dose_gy"),
		MonthTag:         r.text(8),
		Dosimeters:       int(r.number(9, "dosimeters")),
		Hours:            r.number(10, "hours"),
		WasteDescription: r.text(11),
		Notes:            r.text(12),
		Operator:         r.text(13),
	}
	kind, err := ParseSessionKind(r.text(3))
	if err != nil {
		r.report("kind", r.text(3), err)
		s.KindText = r.text(3)
	}
	s.Kind = kind
	return s, r.issues
}

// Legacy rows have no session id; the id is derived from the sheet row and
// is only stable until a row above it is deleted.
func decodeLegacySession(index int, row []string) (Session, []Issue) {
	r := &rowReader{table: TableSessions, index: index, row: row}
	s := Session{
		ID:        fmt.Sprintf("row-%d", index+2),
		RequestID: r.text(0),
		RowIndex:  index,
		Date:      r.date(1, "date"),
		Service:   r.text(2),
		Notes:     r.text(3),
		Cost:      r.number(4, "cost"),
		Units:     r.number(5, "irradiations"),
		DoseGy:    r.number(6, "dose_gy"),
		Hours:     r.number(8, "hours"),
		Kind:      SessionPerformed,
	}
	if months := r.number(7, "months"); months > 0 && !s.Date.IsZero() {
		s.MonthTag = s.Date.Format("2006-01")
	}
	status := strings.ToLower(r.text(9))
	if strings.Contains(status, "planific") || strings.Contains(status, "program") || strings.Contains(status, "planned") {
		s.Kind = SessionPlanned
	}
	return s, r.issues
}

func EncodeSession(schema SessionSchema, s Session) []string {
	if schema == SessionSchemaLegacy {
		months := "0"
		if s.MonthTag != "" {
			months = "1"
		}
		status := "✅ Completado"
		if s.Kind == SessionPlanned {
			status = "📅 Planificada"
		}
		return []string{
			s.RequestID,
			FormatDate(s.Date),
			s.Service,
			s.Notes,
			formatNumber(s.Cost),
			formatNumber(s.Units),
			formatNumber(s.DoseGy),
			months,
			formatNumber(s.Hours),
			status,
		}
	}
	return []string{
		s.ID,
		s.RequestID,
		FormatDate(s.Date),
		sessionKindCell(s),
		s.Service,
		s.Requester,
		formatNumber(s.Units),
		formatNumber(s.DoseGy),
		s.MonthTag,
		strconv.Itoa(s.Dosimeters),
		formatNumber(s.Hours),
		s.WasteDescription,
		s.Notes,
		s.Operator,
	}
}

func sessionKindCell(s Session) string {
	if s.Kind == SessionUnknown {
		return s.KindText
	}
	return s.Kind.Label()
}
