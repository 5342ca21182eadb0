package out

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"irctrack/internal/modules/datastore/domain"
	"irctrack/internal/modules/datastore/dto"
	datastoreout "irctrack/internal/modules/datastore/port/out"
	apperrors "irctrack/internal/platform/errors"
)

// ServiceFactory opens a Sheets API client. It is called lazily, once, on the
// first operation that needs the remote spreadsheet.
type ServiceFactory func(ctx context.Context) (*sheets.Service, error)

// ChainServiceFactory authenticates through chain and builds the client from
// the resolved token source.
func ChainServiceFactory(chain *CredentialChain) ServiceFactory {
	return func(ctx context.Context) (*sheets.Service, error) {
		ts, _, err := chain.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		svc, err := sheets.NewService(ctx, option.WithTokenSource(ts))
		if err != nil {
			return nil, fmt.Errorf("new sheets service: %w", err)
		}
		return svc, nil
	}
}

type SheetsStore struct {
	spreadsheetID string
	factory       ServiceFactory

	mu  sync.Mutex
	svc *sheets.Service
}

func NewSheetsStore(spreadsheetID string, factory ServiceFactory) datastoreout.RemoteStore {
	return &SheetsStore{spreadsheetID: spreadsheetID, factory: factory}
}

func (s *SheetsStore) service(ctx context.Context) (*sheets.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc != nil {
		return s.svc, nil
	}
	if strings.TrimSpace(s.spreadsheetID) == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is not configured", apperrors.ErrInvalidInput)
	}
	svc, err := s.factory(ctx)
	if err != nil {
		return nil, err
	}
	s.svc = svc
	return svc, nil
}

func (s *SheetsStore) Fetch(ctx context.Context, table, rng string) ([]dto.Row, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(s.spreadsheetID, a1(table, rng)).Context(ctx).Do()
	if err != nil {
		return nil, classify("read", table, err)
	}
	rows := make([]dto.Row, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make(dto.Row, len(values))
		for i, v := range values {
			row[i] = cellText(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *SheetsStore) Append(ctx context.Context, table string, row dto.Row) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	_, err = svc.Spreadsheets.Values.Append(s.spreadsheetID, a1(table, "A1"), valueRange(row)).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return classify("append", table, err)
	}
	return nil
}

func (s *SheetsStore) Update(ctx context.Context, table string, index int, row dto.Row) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	if err := s.ensureRow(ctx, svc, "update", table, index); err != nil {
		return err
	}
	target := a1(table, fmt.Sprintf("A%d", domain.SheetRow(index)))
	_, err = svc.Spreadsheets.Values.Update(s.spreadsheetID, target, valueRange(row)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return classify("update", table, err)
	}
	return nil
}

func (s *SheetsStore) Delete(ctx context.Context, table string, index int) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	if err := s.ensureRow(ctx, svc, "delete", table, index); err != nil {
		return err
	}
	sheetID, err := s.sheetID(ctx, svc, table)
	if err != nil {
		return err
	}
	start := int64(domain.SheetRow(index) - 1)
	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
		DeleteDimension: &sheets.DeleteDimensionRequest{Range: &sheets.DimensionRange{
			SheetId:         sheetID,
			Dimension:       "ROWS",
			StartIndex:      start,
			EndIndex:        start + 1,
			ForceSendFields: []string{"SheetId", "StartIndex"},
		}},
	}}}
	if _, err := svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return classify("delete", table, err)
	}
	return nil
}

// Ping checks that the spreadsheet is reachable and returns its title.
func (s *SheetsStore) Ping(ctx context.Context) (string, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return "", err
	}
	resp, err := svc.Spreadsheets.Get(s.spreadsheetID).Fields("properties.title").Context(ctx).Do()
	if err != nil {
		return "", classify("ping", s.spreadsheetID, err)
	}
	if resp.Properties == nil {
		return "", nil
	}
	return resp.Properties.Title, nil
}

func (s *SheetsStore) ensureRow(ctx context.Context, svc *sheets.Service, op, table string, index int) error {
	if index < 0 {
		return apperrors.NewStoreError(op, table, apperrors.KindNotFound, fmt.Errorf("row index %d", index))
	}
	n := domain.SheetRow(index)
	resp, err := svc.Spreadsheets.Values.Get(s.spreadsheetID, a1(table, fmt.Sprintf("A%d:%d", n, n))).Context(ctx).Do()
	if err != nil {
		return classify(op, table, err)
	}
	if len(resp.Values) == 0 {
		return apperrors.NewStoreError(op, table, apperrors.KindNotFound, fmt.Errorf("row %d is empty", n))
	}
	return nil
}

func (s *SheetsStore) sheetID(ctx context.Context, svc *sheets.Service, table string) (int64, error) {
	resp, err := svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, classify("delete", table, err)
	}
	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == table {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, apperrors.NewStoreError("delete", table, apperrors.KindNotFound, fmt.Errorf("no sheet titled %q", table))
}

// classify maps API failures onto the store error taxonomy. A range on a
// missing sheet comes back as 400 "Unable to parse range".
func classify(op, table string, err error) error {
	if errors.Is(err, apperrors.ErrAuthentication) {
		return err
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusNotFound:
			return apperrors.NewStoreError(op, table, apperrors.KindNotFound, err)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return apperrors.NewStoreError(op, table, apperrors.KindPermissionDenied, err)
		case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
			return apperrors.NewStoreError(op, table, apperrors.KindNotFound, err)
		}
	}
	return apperrors.NewStoreError(op, table, apperrors.KindTransient, err)
}

func a1(table, rng string) string {
	name := table
	if strings.ContainsAny(table, " !'-/") {
		name = "'" + strings.ReplaceAll(table, "'", "''") + "'"
	}
	if rng == "" {
		return name
	}
	return name + "!" + rng
}

func valueRange(row dto.Row) *sheets.ValueRange {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	return &sheets.ValueRange{Values: [][]interface{}{values}}
}

func cellText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
