package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const certText = `BANCOLOMBIA S.A.
NIT: 890.903.938-8
Certifica que JUAN PÉREZ GÓMEZ identificado con C.C. 1032456789
es titular de la CUENTA DE AHORROS
N° CUENTA: 123-456789-01
la cual se encuentra ACTIVA a la fecha.
Expedida en Medellín el 20 de agosto de 2026.`

func TestBankNITFromText(t *testing.T) {
	got := bankNITFromText(certText)
	require.NotNil(t, got)
	assert.Equal(t, "890.903.938-8", *got)

	assert.Nil(t, bankNITFromText("carta sin identificación tributaria"))
}

func TestAccountNumberFromText(t *testing.T) {
	t.Run("labeled account with separators", func(t *testing.T) {
		got := accountNumberFromText(certText)
		require.NotNil(t, got)
		assert.Equal(t, "12345678901", *got)
	})

	t.Run("bare cuenta label", func(t *testing.T) {
		got := accountNumberFromText("CUENTA: 0012345678")
		require.NotNil(t, got)
		assert.Equal(t, "0012345678", *got)
	})

	t.Run("too few digits rejected", func(t *testing.T) {
		assert.Nil(t, accountNumberFromText("CUENTA: 12345"))
	})

	t.Run("no label", func(t *testing.T) {
		assert.Nil(t, accountNumberFromText("el número 12345678901 aparece suelto"))
	})
}

func TestAccountStatusFromText(t *testing.T) {
	active := accountStatusFromText("la cuenta se encuentra ACTIVA")
	require.NotNil(t, active)
	assert.Equal(t, "ACTIVA", *active)

	// INACTIVA contains ACTIV, so the inactive check must run first.
	inactive := accountStatusFromText("la cuenta se encuentra INACTIVA")
	require.NotNil(t, inactive)
	assert.Equal(t, "INACTIVA", *inactive)

	assert.Nil(t, accountStatusFromText("sin estado mencionado"))
}

func TestBankNameFromText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"BANCOLOMBIA S.A. certifica", "Bancolombia"},
		{"Banco DAVIVIENDA S.A.", "Davivienda"},
		{"SCOTIABANK COLPATRIA S.A.", "Scotiabank Colpatria"},
		{"scotiabank colpatria s.a.", "Scotiabank Colpatria"},
	}
	for _, tt := range tests {
		got := bankNameFromText(tt.text)
		require.NotNil(t, got, tt.text)
		assert.Equal(t, tt.want, *got)
	}
	assert.Nil(t, bankNameFromText("BANCO DESCONOCIDO DEL SUR"))
}

func TestCorrectBankCertificationBackfillsOnly(t *testing.T) {
	rec := &BankCertification{
		BancoNombre: sp("Banco Popular"), // model value must survive
	}
	CorrectBankCertification(rec, certText)

	assert.Equal(t, sp("Banco Popular"), rec.BancoNombre)
	require.NotNil(t, rec.BancoNIT)
	assert.Equal(t, "890.903.938-8", *rec.BancoNIT)
	require.NotNil(t, rec.NumeroCuenta)
	assert.Equal(t, "12345678901", *rec.NumeroCuenta)
	require.NotNil(t, rec.EstadoCuenta)
	assert.Equal(t, "ACTIVA", *rec.EstadoCuenta)
}

func TestNormalizeBankCertification(t *testing.T) {
	rec := &BankCertification{
		BancoNombre:     sp("  Bancolombia "),
		NumeroCuenta:    sp("123-456789-01"),
		FechaExpedicion: sp("20 de agosto de 2026"),
		FechaApertura:   sp("03/JUL/2019"),
	}
	NormalizeBankCertification(rec)

	assert.Equal(t, sp("Bancolombia"), rec.BancoNombre)
	assert.Equal(t, sp("12345678901"), rec.NumeroCuenta)
	assert.Equal(t, sp("2026-08-20"), rec.FechaExpedicion)
	assert.Equal(t, sp("2019-07-03"), rec.FechaApertura)
}
