package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irctrack/internal/modules/tracking/domain"
)

func requestRow() []string {
	row := make([]string, domain.RequestColumns)
	row[0] = "IRC-Sol-1a2b3c4"
	row[1] = "2025-02-03"
	row[2] = "🕓 En progreso"
	row[3] = "Irradiación a dosis mayores de 10 Gy"
	row[4] = "52,5"
	row[5] = `{"canisters": 2, "dosis_por_canister_Gy": 25, "irradiaciones": "1"}`
	row[6] = "Ana Ruiz"
	row[7] = "ana@ucm.es"
	row[12] = "opi"
	row[23] = "urgent"
	return row
}

func TestDecodeRequest(t *testing.T) {
	t.Parallel()
	req, issues := domain.DecodeRequest(4, requestRow())
	require.Empty(t, issues)

	assert.Equal(t, "IRC-Sol-1a2b3c4", req.ID)
	assert.Equal(t, 4, req.RowIndex)
	assert.Equal(t, day("2025-02-03"), req.SubmittedAt)
	assert.Equal(t, domain.StatusInProgress, req.Status)
	assert.Equal(t, domain.CategoryIrradiation, req.Category)
	assert.Equal(t, 52.5, req.EstimatedCost)
	assert.Equal(t, domain.IrradiationDetail{Canisters: 2, DosePerCanisterGy: 25, Irradiations: 1}, req.Detail)
	assert.Equal(t, domain.UserTypeOPI, req.Requester.UserType)
	assert.Equal(t, "urgent", req.Observations)
}

func TestDecodeRequestReportsIssues(t *testing.T) {
	t.Parallel()
	row := requestRow()
	row[1] = "yesterday"
	row[2] = "Archivado"
	row[4] = "n/a"
	row[5] = `{"canisters": "many"`

	req, issues := domain.DecodeRequest(0, row)
	fields := make([]string, 0, len(issues))
	for _, issue := range issues {
		assert.Equal(t, domain.TableRequests, issue.Table)
		fields = append(fields, issue.Field)
	}
	assert.ElementsMatch(t, []string{"date", "status", "cost", "detail.json"}, fields)
	assert.True(t, req.SubmittedAt.IsZero())
	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Equal(t, 0.0, req.EstimatedCost)
	assert.Equal(t, domain.IrradiationDetail{}, req.Detail)
}

func TestDecodeShortRowUsesDefaults(t *testing.T) {
	t.Parallel()
	req, issues := domain.DecodeRequest(0, []string{"IRC-Sol-x", "", "", "Trámites regulatorios"})
	assert.Empty(t, issues)
	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Equal(t, domain.UserTypeUCM, req.Requester.UserType)
	assert.Equal(t, domain.CategoryUnclassified, req.Category)
}

func TestRequestRoundTrip(t *testing.T) {
	t.Parallel()
	req, _ := domain.DecodeRequest(0, requestRow())
	row := domain.EncodeRequest(req)
	require.Len(t, row, domain.RequestColumns)
	assert.Equal(t, requestRow(), row)

	again, issues := domain.DecodeRequest(0, row)
	assert.Empty(t, issues)
	assert.Equal(t, req, again)
}

func TestNewRequestEncodesCanonically(t *testing.T) {
	t.Parallel()
	req, _ := domain.DecodeRequest(0, requestRow())
	req.Stored = nil
	row := domain.EncodeRequest(req)
	require.Len(t, row, domain.RequestColumns)
	assert.Equal(t, "🕓 En progreso", row[2])
	assert.Equal(t, "52.5", row[4])
	assert.JSONEq(t, `{"canisters":2,"dosis_por_canister_Gy":25,"irradiaciones":1}`, row[5])
	assert.Equal(t, "OPI", row[12])
}

func TestStatusChangeRewritesOnlyStatusCell(t *testing.T) {
	t.Parallel()
	stored := requestRow()
	stored[1] = "not-a-date"
	stored[2] = "Pendiente"
	stored[4] = "12,5 €x"
	stored[5] = `{"canisters":"diez","tipo_muestra":"agua","numero_muestras":3}`
	stored[12] = ""

	req, issues := domain.DecodeRequest(3, stored)
	require.NotEmpty(t, issues)
	req.Status = domain.StatusInProgress
	req.StatusText = domain.StatusInProgress.Label()

	row := domain.EncodeRequest(req)
	require.Len(t, row, domain.RequestColumns)
	for i := range row {
		if i == 2 {
			continue
		}
		assert.Equal(t, stored[i], row[i], "column %d", i)
	}
	assert.Equal(t, domain.StatusInProgress.Label(), row[2])
}

func TestStatusNormalisationKeepsOtherCells(t *testing.T) {
	t.Parallel()
	stored := requestRow()
	stored[2] = "En proceso"
	req, _ := domain.DecodeRequest(0, stored)
	req.StatusText = req.Status.Label()

	row := domain.EncodeRequest(req)
	assert.Equal(t, "🕓 En progreso", row[2])
	assert.Equal(t, "52,5", row[4])
	assert.Equal(t, "opi", row[12])
}

func TestExtendedSessionRow(t *testing.T) {
	t.Parallel()
	row := []string{"IRC-Ses-1", "IRC-Sol-1", "2025-01-15", "Planificada", "Gestión dosimétrica", "Ana", "0", "0", "2025-01", "5", "0", "", "first month", "op"}
	s, issues := domain.DecodeSession(domain.SessionSchemaExtended, 2, row)
	require.Empty(t, issues)
	assert.Equal(t, domain.SessionPlanned, s.Kind)
	assert.Equal(t, "2025-01", s.MonthTag)
	assert.Equal(t, 5, s.Dosimeters)
	assert.Equal(t, row, domain.EncodeSession(domain.SessionSchemaExtended, s))

	row[3] = "Quizá"
	row[6] = "four"
	s, issues = domain.DecodeSession(domain.SessionSchemaExtended, 2, row)
	assert.Len(t, issues, 2)
	assert.Equal(t, domain.SessionUnknown, s.Kind)
	assert.Equal(t, 0.0, s.Units)
	assert.Equal(t, "Quizá", domain.EncodeSession(domain.SessionSchemaExtended, s)[3])
}

func TestUnknownSessionKindIsNotPerformed(t *testing.T) {
	t.Parallel()
	kind, err := domain.ParseSessionKind("Cancelada")
	require.Error(t, err)
	assert.Equal(t, domain.SessionUnknown, kind)

	kind, err = domain.ParseSessionKind("")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionPerformed, kind)
}

func TestLegacySessionRow(t *testing.T) {
	t.Parallel()
	row := []string{"IRC-Sol-1", "15/01/2025", "Gestión dosimétrica", "notes", "25", "0", "0", "1", "0", "✅ Completado"}
	s, issues := domain.DecodeSession(domain.SessionSchemaLegacy, 0, row)
	require.Empty(t, issues)
	assert.Equal(t, "row-2", s.ID)
	assert.Equal(t, domain.SessionPerformed, s.Kind)
	assert.Equal(t, "2025-01", s.MonthTag)
	assert.Equal(t, 25.0, s.Cost)

	row[9] = "📅 Planificada"
	s, _ = domain.DecodeSession(domain.SessionSchemaLegacy, 0, row)
	assert.Equal(t, domain.SessionPlanned, s.Kind)

	encoded := domain.EncodeSession(domain.SessionSchemaLegacy, s)
	require.Len(t, encoded, domain.LegacySessionColumns)
	assert.Equal(t, "2025-01-15", encoded[1])
	assert.Equal(t, "1", encoded[7])
}

func TestParseStatus(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.Status{
		"⏳ Pendiente":   domain.StatusPending,
		"Pendiente":     domain.StatusPending,
		"🕓 En progreso": domain.StatusInProgress,
		"En proceso":    domain.StatusInProgress,
		"in progress":   domain.StatusInProgress,
		"✅ Completado":  domain.StatusCompleted,
		"completed":     domain.StatusCompleted,
		"❌ Cancelado":   domain.StatusCancelled,
		"  canceled ":   domain.StatusCancelled,
	}
	for text, want := range cases {
		got, err := domain.ParseStatus(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}
	_, err := domain.ParseStatus("Archivado")
	assert.Error(t, err)
}

func TestCategoryForService(t *testing.T) {
	t.Parallel()
	assert.Equal(t, domain.CategoryIrradiation, domain.CategoryForService("Irradiación a dosis menores de 10 Gy"))
	assert.Equal(t, domain.CategoryDosimetry, domain.CategoryForService("Gestión dosimétrica"))
	assert.Equal(t, domain.CategoryCounter, domain.CategoryForService("Contador microBeta > 1h"))
	assert.Equal(t, domain.CategoryWasteManagement, domain.CategoryForService("Gestión/retirada de residuos radiactivos/fuentes huerfanas"))
	assert.Equal(t, domain.CategoryUnclassified, domain.CategoryForService("Gestión de fuentes no encapsuladas"))
}

func TestParseDetailAcceptsAliases(t *testing.T) {
	t.Parallel()
	d, problems := domain.ParseDetail(domain.CategoryIrradiation, `{"units": 4, "dose_gy": "12,5", "irradiations": 2}`)
	assert.Nil(t, problems)
	assert.Equal(t, domain.IrradiationDetail{Canisters: 4, DosePerCanisterGy: 12.5, Irradiations: 2}, d)

	d, problems = domain.ParseDetail(domain.CategoryDosimetry, `{"months": 3, "dosimetros": true}`)
	assert.Contains(t, problems, "dosimeters")
	assert.Equal(t, domain.DosimetryDetail{Months: 3, Extra: map[string]any{"dosimetros": true}}, d)

	d, _ = domain.ParseDetail(domain.CategoryWasteManagement, `{"description": "sealed sources"}`)
	assert.Equal(t, domain.WasteDetail{Description: "sealed sources"}, d)
}

func TestParseDetailKeepsUnmodelledKeys(t *testing.T) {
	t.Parallel()
	blob := `{"canisters":"diez","tipo_muestra":"agua","numero_muestras":3,"irradiaciones":1}`
	d, problems := domain.ParseDetail(domain.CategoryIrradiation, blob)
	assert.Contains(t, problems, "canisters")
	assert.Equal(t, domain.IrradiationDetail{
		Irradiations: 1,
		Extra:        map[string]any{"canisters": "diez", "tipo_muestra": "agua", "numero_muestras": 3.0},
	}, d)

	assert.JSONEq(t,
		`{"canisters":"diez","dosis_por_canister_Gy":0,"irradiaciones":1,"tipo_muestra":"agua","numero_muestras":3}`,
		domain.EncodeDetail(d))
}
