package fields

import (
	"math"
	"strings"

	"kycdocs/constants"
)

// Entry is one row of the declarative field dictionary: the single source of
// truth for what a complete record looks like and for the shape of the
// consolidated export. The language model can never introduce a column that
// is not declared here.
type Entry struct {
	DocID       string `json:"doc_id"`
	Source      string `json:"Fuente"`
	Category    string `json:"Caracterización variable"`
	Field       string `json:"Nombre de la Variable"`
	Type        string `json:"Tipo_Variable"`
	Description string `json:"Caracterización"`
}

const (
	sourceTaxReg   = "DOC14_RUT_DIAN"
	sourceCedula   = "DOC12_DocumentoIdentificacion"
	sourceBankCert = "DOC16_CertificacionBancaria"
)

// Master is the full dictionary, in declaration order. Row order here is the
// row order of the consolidated table and the export.
var Master = []Entry{
	// RUT (DIAN tax registration)
	{"DOC14", sourceTaxReg, "Identificación personal", "tipo_documento", "texto", "Tipo documento"},
	{"DOC14", sourceTaxReg, "Identificación personal", "numero_identificacion", "texto", "Número de identificación"},
	{"DOC14", sourceTaxReg, "Identificación personal", "primer_apellido", "texto", "Primer apellido"},
	{"DOC14", sourceTaxReg, "Identificación personal", "segundo_apellido", "texto", "Segundo apellido"},
	{"DOC14", sourceTaxReg, "Identificación personal", "primer_nombre", "texto", "Primer nombre"},
	{"DOC14", sourceTaxReg, "Identificación personal", "otros_nombres", "texto", "Otros nombres"},

	// Cédula de ciudadanía
	{"DOC12", sourceCedula, "Identificación del documento", "doc_tipo", "texto", "Tipo (diccionario)"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_pais_emisor", "texto", "País emisor"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_tipo_documento", "texto", "Tipo documento"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_numero", "texto", "Número"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_apellidos", "texto", "Apellidos"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_nombres", "texto", "Nombres"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_fecha_nacimiento", "fecha", "Fecha de nacimiento"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_lugar_nacimiento", "texto", "Lugar de nacimiento"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_sexo", "texto", "Sexo"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_estatura", "texto", "Estatura"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_grupo_sanguineo_rh", "texto", "Grupo sanguíneo y RH"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_fecha_expedicion", "fecha", "Fecha de expedición"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_lugar_expedicion", "texto", "Lugar de expedición"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_registrador", "texto", "Registrador"},
	{"DOC12", sourceCedula, "Datos del documento", "doc_codigo_barras", "texto", "Código de barras"},
	{"DOC12", sourceCedula, "Biométricos (opcional)", "doc_huella_indice", "texto", "Huella índice"},
	{"DOC12", sourceCedula, "Firma (opcional)", "doc_firma_titular", "texto", "Firma titular"},

	// Certificación bancaria
	{"DOC16", sourceBankCert, "Identificación del documento", "doc_tipo", "texto", "Certificación bancaria / Certifica a quien interese que…"},
	{"DOC16", sourceBankCert, "Entidad financiera", "banco_nombre", "texto", "Nombre banco"},
	{"DOC16", sourceBankCert, "Entidad financiera", "banco_nit", "texto", "NIT banco"},
	{"DOC16", sourceBankCert, "Producto", "producto_tipo", "texto", "Tipo producto (Cuenta de ahorro / corriente)"},
	{"DOC16", sourceBankCert, "Producto", "producto_nombre", "texto", "Nombre del producto"},
	{"DOC16", sourceBankCert, "Producto", "numero_cuenta", "texto", "Número de cuenta"},
	{"DOC16", sourceBankCert, "Producto", "fecha_apertura", "fecha", "Fecha de apertura"},
	{"DOC16", sourceBankCert, "Titular", "titular_nombre", "texto", "Nombre del titular"},
	{"DOC16", sourceBankCert, "Titular", "titular_tipo_documento", "texto", "Tipo documento titular"},
	{"DOC16", sourceBankCert, "Titular", "titular_num_documento", "texto", "Número documento titular"},
	{"DOC16", sourceBankCert, "Estado", "estado_cuenta", "texto", "Estado (ACTIVA/INACTIVA)"},
	{"DOC16", sourceBankCert, "Expedición", "fecha_expedicion", "texto", "Fecha de expedición (día/mes/año en texto)"},
	{"DOC16", sourceBankCert, "Expedición", "ciudad_expedicion", "texto", "Ciudad (si está indicada)"},
}

// ExpectedFields returns the declared field names for a kind, in dictionary
// order. Completeness is always computed over this full set.
func ExpectedFields(kind constants.DocKind) []string {
	var out []string
	for _, e := range Master {
		if e.DocID == string(kind) {
			out = append(out, e.Field)
		}
	}
	return out
}

// Completeness returns the percentage of expected fields with a non-empty
// value, rounded to one decimal, or nil when either input is empty.
func Completeness(values map[string]*string, expected []string) *float64 {
	if len(values) == 0 || len(expected) == 0 {
		return nil
	}
	filled := 0
	for _, f := range expected {
		v, ok := values[f]
		if !ok || v == nil {
			continue
		}
		if strings.TrimSpace(*v) == "" {
			continue
		}
		filled++
	}
	pct := math.Round(100*float64(filled)/float64(len(expected))*10) / 10
	return &pct
}
