package llm

import (
	"fmt"
	"strings"

	"kycdocs/constants"
)

// SystemPrompt is shared by every kind: the model returns bare JSON, nothing else.
const SystemPrompt = "Devuelve SOLO JSON válido. Sin markdown."

// Per-kind field lists as the model must emit them. These mirror the declared
// dictionary fields (minus the forced document-type labels the model is not
// trusted with).
var promptFields = map[constants.DocKind][]string{
	constants.TaxRegistration: {
		"tipo_documento",
		"numero_identificacion",
		"primer_apellido",
		"segundo_apellido",
		"primer_nombre",
		"otros_nombres",
	},
	constants.NationalID: {
		"doc_pais_emisor",
		"doc_tipo_documento",
		"doc_numero",
		"doc_apellidos",
		"doc_nombres",
		"doc_fecha_nacimiento",
		"doc_lugar_nacimiento",
		"doc_sexo",
		"doc_estatura",
		"doc_grupo_sanguineo_rh",
		"doc_fecha_expedicion",
		"doc_lugar_expedicion",
		"doc_registrador",
		"doc_codigo_barras",
		"doc_huella_indice",
		"doc_firma_titular",
	},
	constants.BankCertification: {
		"doc_tipo",
		"banco_nombre",
		"banco_nit",
		"producto_tipo",
		"producto_nombre",
		"numero_cuenta",
		"fecha_apertura",
		"titular_nombre",
		"titular_tipo_documento",
		"titular_num_documento",
		"estado_cuenta",
		"fecha_expedicion",
		"ciudad_expedicion",
	},
}

// PromptFields returns the field names the model is asked for, in order.
func PromptFields(kind constants.DocKind) []string {
	return promptFields[kind]
}

// BuildUserPrompt builds the fixed, kind-specific instruction. The field list
// is enumerated exactly, invented values are forbidden, and the response must
// be strict JSON with no prose or fencing. Deterministic for a given input.
func BuildUserPrompt(kind constants.DocKind, sourceText string) string {
	var b strings.Builder

	switch kind {
	case constants.TaxRegistration:
		b.WriteString("Extrae del siguiente texto (RUT DIAN) ÚNICAMENTE estos campos y devuelve SOLO JSON válido:\n")
		writeFieldList(&b, kind)
		b.WriteString("\nReglas:\n")
		b.WriteString("- Si un campo no aparece, pon null.\n")
		b.WriteString("- No inventes datos.\n")
		b.WriteString("- numero_identificacion debe quedar solo con dígitos (sin espacios ni puntos).\n")
		b.WriteString("- Devuelve únicamente el JSON, sin explicación, sin markdown.\n")
		b.WriteString("\nTEXTO:\n")

	case constants.NationalID:
		b.WriteString("A partir del texto OCR de una CÉDULA DE CIUDADANÍA de Colombia, extrae SOLO estos campos y devuelve SOLO JSON válido:\n")
		writeFieldList(&b, kind)
		b.WriteString("\nReglas:\n")
		b.WriteString("- Si un campo no aparece, pon null.\n")
		b.WriteString("- No inventes datos.\n")
		b.WriteString("- doc_numero debe quedar solo con dígitos (sin puntos ni espacios).\n")
		b.WriteString("- doc_estatura en metros (ej: 1.57) si aparece.\n")
		b.WriteString("- doc_huella_indice y doc_firma_titular deben ser \"Sí\" o \"No\" si puedes inferirlo por palabras como INDICE/HUELLA/FIRMA.\n")
		b.WriteString("- Devuelve únicamente JSON, sin explicación, sin markdown.\n")
		b.WriteString("\nTEXTO_OCR:\n")

	case constants.BankCertification:
		b.WriteString("A partir del texto de una CERTIFICACIÓN BANCARIA (Colombia), extrae SOLO estos campos y devuelve SOLO JSON válido:\n")
		writeFieldList(&b, kind)
		b.WriteString("\nREGLAS:\n")
		b.WriteString("- Si un campo no aparece, pon null.\n")
		b.WriteString("- No inventes datos.\n")
		b.WriteString("- numero_cuenta y titular_num_documento deben quedar SOLO con dígitos (sin puntos ni espacios) si aplica.\n")
		b.WriteString("- doc_tipo: si el documento es certificación bancaria escribe \"Certificación bancaria\"; si no, pon null.\n")
		b.WriteString("- Devuelve SOLO JSON válido, sin texto adicional.\n")
		b.WriteString("\nTEXTO:\n")

	default:
		return ""
	}

	b.WriteString(sourceText)
	return b.String()
}

func writeFieldList(b *strings.Builder, kind constants.DocKind) {
	for _, f := range promptFields[kind] {
		fmt.Fprintf(b, "- %s\n", f)
	}
}
