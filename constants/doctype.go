package constants

import "strings"

// DocKind is the closed set of document categories the pipeline understands.
type DocKind string

const (
	TaxRegistration   DocKind = "DOC14" // RUT (DIAN tax registration form)
	NationalID        DocKind = "DOC12" // cédula de ciudadanía
	BankCertification DocKind = "DOC16" // certificación bancaria
	Unknown           DocKind = "UNKNOWN"
)

// Kinds lists the extractable kinds in their canonical processing order.
var Kinds = []DocKind{TaxRegistration, NationalID, BankCertification}

// classification substrings, checked in order; first match wins.
var kindSubstrings = []struct {
	kind    DocKind
	needles []string
}{
	{TaxRegistration, []string{"RUT", "DOC14"}},
	{NationalID, []string{"CED", "CEDULA", "DOC12", "DOCUMENTOIDENTIFICACION", "DOCU"}},
	{BankCertification, []string{"CERTIFICACION", "BANCARIA", "DOC16"}},
}

// ClassifyFilename infers the document kind from a display name alone.
// No content sniffing happens anywhere in the pipeline.
func ClassifyFilename(name string) DocKind {
	f := strings.ToUpper(name)
	for _, c := range kindSubstrings {
		for _, n := range c.needles {
			if strings.Contains(f, n) {
				return c.kind
			}
		}
	}
	return Unknown
}

// SubjectTag is the label used for this kind in validation logs and metrics.
func (k DocKind) SubjectTag() string {
	switch k {
	case TaxRegistration:
		return "RUT"
	case NationalID:
		return "CEDULA"
	case BankCertification:
		return "CERTIFICACION_BANCARIA"
	default:
		return "UNKNOWN"
	}
}

// CrossValidationTag labels log entries produced by cross-document checks.
const CrossValidationTag = "VALIDACION_CRUZADA"
