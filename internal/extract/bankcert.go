package extract

import (
	"regexp"
	"strings"
)

// Layout-anchored rules for the bank certification letter. Rules only
// backfill fields the model left empty; they never overwrite a model value
// and never fabricate one absent from the source text.

var (
	reBankNIT = regexp.MustCompile(`(?i)\bN\.?I\.?T\.?\s*[:\- ]*([0-9.]{5,15}(?:-[0-9])?)`)

	reAccountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bN[°o]?\.?\s*CUENTA\s*[:\- ]*([0-9\- ]{6,30})`),
		regexp.MustCompile(`(?i)\bCUENTA\s*[:\- ]*([0-9\- ]{6,30})`),
		regexp.MustCompile(`(?i)\bCUENTA\s+DE\s+INVERSI[ÓO]N\s*[:\- ]*([0-9\- ]{6,30})`),
	}
)

// knownBanks maps brand keywords found in the letter body to the bank's
// display name. A name is only filled from this closed list, never invented.
var knownBanks = []struct {
	keyword string
	name    string
}{
	{"BANCOLOMBIA", "Bancolombia"},
	{"DAVIVIENDA", "Davivienda"},
	{"SCOTIABANK", "Scotiabank Colpatria"},
	{"COLPATRIA", "Scotiabank Colpatria"},
}

func bankNITFromText(text string) *string {
	m := reBankNIT.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	return &v
}

func accountNumberFromText(text string) *string {
	for _, re := range reAccountPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			cand := m[1]
			if d := OnlyDigits(&cand); d != nil && len(*d) >= 6 && len(*d) <= 30 {
				return d
			}
		}
	}
	return nil
}

func accountStatusFromText(text string) *string {
	t := strings.ToUpper(text)
	if strings.Contains(t, "INACT") {
		v := "INACTIVA"
		return &v
	}
	if strings.Contains(t, "ACTIV") {
		v := "ACTIVA"
		return &v
	}
	return nil
}

func bankNameFromText(text string) *string {
	t := strings.ToUpper(text)
	for _, b := range knownBanks {
		if strings.Contains(t, b.keyword) {
			name := b.name
			return &name
		}
	}
	return nil
}

// NormalizeBankCertification canonicalizes the draft fields in place.
func NormalizeBankCertification(rec *BankCertification) {
	rec.DocTipo = NormalizeText(rec.DocTipo)
	rec.BancoNombre = NormalizeText(rec.BancoNombre)
	rec.ProductoTipo = NormalizeText(rec.ProductoTipo)
	rec.ProductoNombre = NormalizeText(rec.ProductoNombre)
	rec.TitularNombre = NormalizeText(rec.TitularNombre)
	rec.TitularTipoDocumento = NormalizeText(rec.TitularTipoDocumento)
	rec.CiudadExpedicion = NormalizeText(rec.CiudadExpedicion)

	rec.NumeroCuenta = OnlyDigits(rec.NumeroCuenta)
	rec.TitularNumDocumento = OnlyDigits(rec.TitularNumDocumento)

	rec.FechaApertura = NormalizeDate(rec.FechaApertura)
	rec.FechaExpedicion = NormalizeDate(rec.FechaExpedicion)
}

// CorrectBankCertification backfills missing fields from the source text.
func CorrectBankCertification(rec *BankCertification, text string) {
	if rec.BancoNIT == nil {
		rec.BancoNIT = bankNITFromText(text)
	}
	if rec.NumeroCuenta == nil {
		rec.NumeroCuenta = accountNumberFromText(text)
	}
	if rec.EstadoCuenta == nil {
		rec.EstadoCuenta = accountStatusFromText(text)
	}
	if rec.BancoNombre == nil {
		rec.BancoNombre = bankNameFromText(text)
	}
}
