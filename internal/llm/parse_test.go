package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycdocs/constants"
	"kycdocs/internal/common"
	"kycdocs/internal/extract"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json untouched", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"anonymous fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(StripFences([]byte(tt.in))))
		})
	}
}

func TestDecodeDraftTaxRegistration(t *testing.T) {
	raw := []byte("```json\n" + `{
		"tipo_documento": " Cédula de Ciudadanía ",
		"numero_identificacion": 1032456789,
		"primer_apellido": "PÉREZ",
		"segundo_apellido": null,
		"primer_nombre": "",
		"otros_nombres": "María",
		"campo_inventado": "se descarta"
	}` + "\n```")

	var rec extract.TaxRegistration
	require.NoError(t, DecodeDraft(constants.TaxRegistration, raw, &rec))

	// Strings are trimmed, numbers formatted, nulls and empties stay nil.
	require.NotNil(t, rec.TipoDocumento)
	assert.Equal(t, "Cédula de Ciudadanía", *rec.TipoDocumento)
	require.NotNil(t, rec.NumeroIdentificacion)
	assert.Equal(t, "1032456789", *rec.NumeroIdentificacion)
	assert.Nil(t, rec.SegundoApellido)
	assert.Nil(t, rec.PrimerNombre)
	require.NotNil(t, rec.OtrosNombres)
	assert.Equal(t, "María", *rec.OtrosNombres)
}

func TestDecodeDraftCoercesBooleans(t *testing.T) {
	raw := []byte(`{"doc_numero":"1032456789","doc_huella_indice":true}`)

	var rec extract.NationalID
	require.NoError(t, DecodeDraft(constants.NationalID, raw, &rec))
	require.NotNil(t, rec.HuellaIndice)
	assert.Equal(t, "true", *rec.HuellaIndice)
}

func TestDecodeDraftRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`"solo texto"`, `[1,2,3]`, `no es json`} {
		var rec extract.TaxRegistration
		err := DecodeDraft(constants.TaxRegistration, []byte(raw), &rec)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, common.ErrModelResponse, raw)
	}
}

func TestDecodeDraftRejectsWrongFieldType(t *testing.T) {
	raw := []byte(`{"numero_identificacion":{"valor":"1032456789"}}`)
	var rec extract.TaxRegistration
	err := DecodeDraft(constants.TaxRegistration, raw, &rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrModelResponse)
}

func TestBuildDraftSchemaCoversPromptFields(t *testing.T) {
	for _, kind := range constants.Kinds {
		schema := BuildDraftSchema(kind)
		props, ok := schema["properties"].(map[string]any)
		require.True(t, ok)
		assert.Len(t, props, len(PromptFields(kind)))
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := BuildUserPrompt(constants.TaxRegistration, "TEXTO DEL RUT AQUÍ")
	assert.Contains(t, prompt, "numero_identificacion")
	assert.Contains(t, prompt, "No inventes datos")
	assert.Contains(t, prompt, "TEXTO DEL RUT AQUÍ")

	cedula := BuildUserPrompt(constants.NationalID, "x")
	assert.Contains(t, cedula, "doc_grupo_sanguineo_rh")
	assert.Contains(t, cedula, "CÉDULA DE CIUDADANÍA")

	cert := BuildUserPrompt(constants.BankCertification, "x")
	assert.Contains(t, cert, "estado_cuenta")
	assert.Contains(t, cert, "CERTIFICACIÓN BANCARIA")

	assert.Empty(t, BuildUserPrompt(constants.Unknown, "x"))
}

func TestBuildUserPromptDeterministic(t *testing.T) {
	a := BuildUserPrompt(constants.BankCertification, "mismo texto")
	b := BuildUserPrompt(constants.BankCertification, "mismo texto")
	assert.Equal(t, a, b)
}
