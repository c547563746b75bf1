package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycdocs/constants"
	"kycdocs/internal/common"
	"kycdocs/internal/fields"
	"kycdocs/internal/validate"
)

type fakeAcquirer struct {
	texts     map[string]string
	probeErr  map[string]error
	cropLines []string
}

func (f *fakeAcquirer) Probe(_ context.Context, path string) (int, error) {
	if err := f.probeErr[path]; err != nil {
		return 0, err
	}
	return 1, nil
}

func (f *fakeAcquirer) EmbeddedText(_ context.Context, path string) (string, error) {
	return f.texts[path], nil
}

func (f *fakeAcquirer) RenderPages(_ context.Context, path string, _ int) ([]string, error) {
	return []string{path + ".page-1.png"}, nil
}

func (f *fakeAcquirer) LocateAndCrop(_ context.Context, path string, _ []string) (string, error) {
	if len(f.cropLines) == 0 {
		return "", nil
	}
	return path + ".crop.png", nil
}

type fakeRecognizer struct {
	pageText  map[string]string
	cropLines []string
}

func (f *fakeRecognizer) Recognize(_ context.Context, imagePath string) ([]string, error) {
	if strings.Contains(imagePath, ".crop.") {
		return f.cropLines, nil
	}
	return strings.Split(f.pageText[imagePath], "\n"), nil
}

func (f *fakeRecognizer) RecognizeMany(ctx context.Context, paths []string) (string, error) {
	var parts []string
	for _, p := range paths {
		lines, err := f.Recognize(ctx, p)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n"), nil
}

type fakeDrafter struct {
	drafts map[constants.DocKind]string
	errs   map[constants.DocKind]error
}

func (f *fakeDrafter) Draft(_ context.Context, kind constants.DocKind, _ string) ([]byte, error) {
	if err := f.errs[kind]; err != nil {
		return nil, err
	}
	return []byte(f.drafts[kind]), nil
}

// padText makes an embedded text layer long enough to skip the OCR fallback.
func padText(s string) string {
	return s + "\n" + strings.Repeat("texto de relleno del documento ", 10)
}

func fullSetup() (*fakeAcquirer, *fakeRecognizer, *fakeDrafter, []DocItem) {
	acq := &fakeAcquirer{
		texts: map[string]string{
			"/tmp/rut.pdf": padText("26. Número de Identificación\n1032456789"),
			"/tmp/cert.pdf": padText("BANCOLOMBIA S.A. NIT: 890.903.938-8\n" +
				"Certifica que el titular posee una CUENTA DE AHORROS\n" +
				"N° CUENTA: 12345678901 la cual se encuentra ACTIVA"),
		},
		cropLines: []string{"1032456789"},
	}
	rec := &fakeRecognizer{
		pageText: map[string]string{
			"/tmp/cedula.pdf.page-1.png": "REPÚBLICA DE COLOMBIA\nCÉDULA DE CIUDADANÍA\n1032456789",
		},
		cropLines: []string{"1032456789"},
	}
	drafter := &fakeDrafter{drafts: map[constants.DocKind]string{
		constants.TaxRegistration: `{"tipo_documento":"Cédula de Ciudadanía","numero_identificacion":"1032456789",
			"primer_apellido":"PÉREZ","segundo_apellido":"GÓMEZ","primer_nombre":"JUAN","otros_nombres":null}`,
		constants.NationalID: `{"doc_numero":"1.032.456.789","doc_apellidos":"PÉREZ GÓMEZ","doc_nombres":"JUAN",
			"doc_fecha_nacimiento":"16-OCT-1986","doc_sexo":"M","doc_estatura":"1.75",
			"doc_grupo_sanguineo_rh":"O+","doc_fecha_expedicion":"05-NOV-2004"}`,
		constants.BankCertification: `{"banco_nombre":"BANCOLOMBIA","producto_tipo":"CUENTA DE AHORROS",
			"numero_cuenta":"12345678901","titular_nombre":"JUAN PÉREZ GÓMEZ",
			"titular_num_documento":"1032456789","estado_cuenta":"ACTIVA","fecha_expedicion":"2026-08-20"}`,
	}}
	items := []DocItem{
		{Path: "/tmp/rut.pdf", OriginalName: "RUT_cliente.pdf", ContentType: "application/pdf"},
		{Path: "/tmp/cedula.pdf", OriginalName: "CEDULA_cliente.pdf", ContentType: "application/pdf"},
		{Path: "/tmp/cert.pdf", OriginalName: "CERTIFICACION_BANCARIA.pdf", ContentType: "application/pdf"},
	}
	return acq, rec, drafter, items
}

func TestRunFullCase(t *testing.T) {
	acq, rec, drafter, items := fullSetup()
	p := New(acq, rec, drafter, nil)

	result := p.Run(context.Background(), items)
	require.NotNil(t, result)

	require.NotNil(t, result.TaxRegistration)
	require.NotNil(t, result.TaxRegistration.NumeroIdentificacion)
	assert.Equal(t, "1032456789", *result.TaxRegistration.NumeroIdentificacion)

	require.NotNil(t, result.NationalID)
	require.NotNil(t, result.NationalID.Numero)
	assert.Equal(t, "1032456789", *result.NationalID.Numero)
	require.NotNil(t, result.NationalID.FechaNacimiento)
	assert.Equal(t, "1986-10-16", *result.NationalID.FechaNacimiento)

	require.NotNil(t, result.BankCertification)
	require.NotNil(t, result.BankCertification.BancoNombre)
	assert.Equal(t, "Bancolombia", *result.BankCertification.BancoNombre)

	assert.Len(t, result.Master, len(fields.Master))
	assert.Len(t, result.Uploads, 3)

	// Matching identity numbers land as an INFO on the cross-validation tag.
	var matched bool
	for _, e := range result.Logs {
		if e.Document == constants.CrossValidationTag && e.Severity == validate.SeverityInfo {
			matched = true
		}
	}
	assert.True(t, matched, "expected identity match INFO entry")
	assert.Zero(t, result.Metrics.WarningsPerDocument[constants.CrossValidationTag])

	for _, tag := range []string{"RUT", "CEDULA", "CERTIFICACION_BANCARIA"} {
		require.Contains(t, result.Metrics.SecondsPerDocument, tag)
		require.NotNil(t, result.Metrics.SecondsPerDocument[tag])
		require.Contains(t, result.Metrics.CompletenessPct, tag)
		require.NotNil(t, result.Metrics.CompletenessPct[tag])
		assert.Greater(t, *result.Metrics.CompletenessPct[tag], 0.0)
	}
}

func TestRunPartialCaseKeepsMetricShape(t *testing.T) {
	acq, rec, drafter, _ := fullSetup()
	p := New(acq, rec, drafter, nil)

	items := []DocItem{{Path: "/tmp/rut.pdf", OriginalName: "RUT_cliente.pdf"}}
	result := p.Run(context.Background(), items)

	// The metric maps keep one entry per kind even when only one document was
	// uploaded; absent kinds read as null (or zero warnings), never as a
	// missing key.
	for _, tag := range []string{"RUT", "CEDULA", "CERTIFICACION_BANCARIA"} {
		require.Contains(t, result.Metrics.SecondsPerDocument, tag)
		require.Contains(t, result.Metrics.CompletenessPct, tag)
		require.Contains(t, result.Metrics.WarningsPerDocument, tag)
	}
	require.Contains(t, result.Metrics.WarningsPerDocument, constants.CrossValidationTag)

	require.NotNil(t, result.Metrics.SecondsPerDocument["RUT"])
	assert.Nil(t, result.Metrics.SecondsPerDocument["CEDULA"])
	assert.Nil(t, result.Metrics.SecondsPerDocument["CERTIFICACION_BANCARIA"])
	assert.Nil(t, result.Metrics.CompletenessPct["CEDULA"])
	assert.Nil(t, result.Metrics.CompletenessPct["CERTIFICACION_BANCARIA"])
	assert.Zero(t, result.Metrics.WarningsPerDocument["CEDULA"])
	assert.Zero(t, result.Metrics.WarningsPerDocument["CERTIFICACION_BANCARIA"])
}

func TestRunAcquisitionFailureIsolated(t *testing.T) {
	acq, rec, drafter, items := fullSetup()
	acq.probeErr = map[string]error{
		"/tmp/rut.pdf": common.TagError(common.ErrAcquisition, "unreadable document", errors.New("bad xref")),
	}
	p := New(acq, rec, drafter, nil)

	result := p.Run(context.Background(), items)

	assert.Nil(t, result.TaxRegistration)
	require.NotNil(t, result.NationalID)
	require.NotNil(t, result.BankCertification)

	var rutError bool
	for _, e := range result.Logs {
		if e.Document == "RUT" && e.Severity == validate.SeverityError {
			rutError = true
		}
	}
	assert.True(t, rutError, "expected ERROR entry for the failed document")

	// With the tax record gone, the identity match degrades to a warning.
	var rutWarn bool
	for _, e := range result.Logs {
		if e.Document == "RUT" && e.Severity == validate.SeverityWarning {
			rutWarn = true
		}
	}
	assert.True(t, rutWarn)
}

func TestRunModelFailureYieldsCorrectedRecord(t *testing.T) {
	acq, rec, drafter, items := fullSetup()
	drafter.errs = map[constants.DocKind]error{
		constants.BankCertification: errors.New("status 500"),
	}
	p := New(acq, rec, drafter, nil)

	result := p.Run(context.Background(), items)

	// The record survives the dead model because the regex correctors work
	// off the document text directly.
	require.NotNil(t, result.BankCertification)
	require.NotNil(t, result.BankCertification.BancoNombre)
	assert.Equal(t, "Bancolombia", *result.BankCertification.BancoNombre)
	require.NotNil(t, result.BankCertification.NumeroCuenta)
	assert.Equal(t, "12345678901", *result.BankCertification.NumeroCuenta)
	require.NotNil(t, result.BankCertification.EstadoCuenta)
	assert.Equal(t, "ACTIVA", *result.BankCertification.EstadoCuenta)

	var certError bool
	for _, e := range result.Logs {
		if e.Document == "CERTIFICACION_BANCARIA" && e.Severity == validate.SeverityError {
			certError = true
		}
	}
	assert.True(t, certError)
}

func TestRunClassification(t *testing.T) {
	acq, rec, drafter, _ := fullSetup()
	p := New(acq, rec, drafter, nil)

	items := []DocItem{
		{Path: "/tmp/rut.pdf", OriginalName: "RUT_v1.pdf"},
		{Path: "/tmp/rut2.pdf", OriginalName: "RUT_v2.pdf"},
		{Path: "/tmp/misc.pdf", OriginalName: "foto_vacaciones.pdf"},
	}
	result := p.Run(context.Background(), items)

	require.Len(t, result.Uploads, 3)
	assert.Equal(t, constants.TaxRegistration, result.Uploads[0].DocID)
	assert.Equal(t, constants.TaxRegistration, result.Uploads[1].DocID)
	assert.Equal(t, constants.Unknown, result.Uploads[2].DocID)

	// First upload per kind wins; the duplicate and the stranger get warnings.
	require.NotNil(t, result.TaxRegistration)
	var dupWarn, unknownWarn bool
	for _, e := range result.Logs {
		if e.Severity != validate.SeverityWarning {
			continue
		}
		if strings.Contains(e.Message, "RUT_v2.pdf") {
			dupWarn = true
		}
		if strings.Contains(e.Message, "foto_vacaciones.pdf") {
			unknownWarn = true
		}
	}
	assert.True(t, dupWarn)
	assert.True(t, unknownWarn)
}

func TestRunSuspiciousIdentityUsesRegionOCR(t *testing.T) {
	acq, rec, drafter, items := fullSetup()
	// Model hands back the form barcode instead of the cédula number.
	drafter.drafts[constants.TaxRegistration] = `{"numero_identificacion":"14653010401379260102"}`
	// Remove the labeled pattern so the text strategies cannot answer.
	acq.texts["/tmp/rut.pdf"] = padText("formulario del registro único tributario")
	acq.cropLines = []string{"1032456789"}
	rec.cropLines = []string{"1032456789"}

	p := New(acq, rec, drafter, nil)
	result := p.Run(context.Background(), items)

	require.NotNil(t, result.TaxRegistration)
	require.NotNil(t, result.TaxRegistration.NumeroIdentificacion)
	assert.Equal(t, "1032456789", *result.TaxRegistration.NumeroIdentificacion)
	assert.Equal(t, constants.ProvenanceOCRRegion, result.TaxRegistration.IdentityProvenance)
}
