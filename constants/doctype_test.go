package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFilename(t *testing.T) {
	tests := []struct {
		name string
		want DocKind
	}{
		{"RUT_cliente_2026.pdf", TaxRegistration},
		{"rut.pdf", TaxRegistration},
		{"DOC14_formulario.pdf", TaxRegistration},
		{"CEDULA_juan.pdf", NationalID},
		{"ced_escaneada.pdf", NationalID},
		{"DOC12.pdf", NationalID},
		{"DocumentoIdentificacion.pdf", NationalID},
		{"CERTIFICACION_bancolombia.pdf", BankCertification},
		{"carta_BANCARIA.pdf", BankCertification},
		{"DOC16_scotiabank.pdf", BankCertification},
		{"foto_vacaciones.pdf", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFilename(tt.name))
		})
	}
}

func TestClassifyFilenameFirstMatchWins(t *testing.T) {
	// RUT substrings are checked before the cédula's, so a name carrying both
	// resolves to the tax registration.
	assert.Equal(t, TaxRegistration, ClassifyFilename("RUT_y_CEDULA.pdf"))
}

func TestSubjectTags(t *testing.T) {
	assert.Equal(t, "RUT", TaxRegistration.SubjectTag())
	assert.Equal(t, "CEDULA", NationalID.SubjectTag())
	assert.Equal(t, "CERTIFICACION_BANCARIA", BankCertification.SubjectTag())
	assert.Equal(t, "UNKNOWN", Unknown.SubjectTag())
}
