package fields

import "kycdocs/constants"

// Canonical document-type labels. These two fields are always forced to the
// dictionary's wording in the consolidated output, regardless of what the
// model returned, so a model can never invent the document-type cell.
const (
	CedulaDocTipoLabel   = "Documento de identidad (Cédula de ciudadanía) – imagen anverso/reverso"
	BankCertDocTipoLabel = "Certificación bancaria"

	cedulaDefaultCountry = "República de Colombia"
	cedulaDefaultDocType = "Cédula de ciudadanía"
)

// Row is one consolidated table row: a dictionary entry plus its value.
type Row struct {
	Entry
	Valor *string `json:"Valor"`
}

// EffectiveValues returns the record values as they count toward completeness
// and the consolidated table: forced document-type labels applied, and the
// cédula's country/document-type defaults filled when the scan did not yield
// them. A nil record stays nil.
func EffectiveValues(kind constants.DocKind, values map[string]*string) map[string]*string {
	if values == nil {
		return nil
	}
	out := make(map[string]*string, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	switch kind {
	case constants.NationalID:
		out["doc_tipo"] = ptr(CedulaDocTipoLabel)
		if out["doc_pais_emisor"] == nil {
			out["doc_pais_emisor"] = ptr(cedulaDefaultCountry)
		}
		if out["doc_tipo_documento"] == nil {
			out["doc_tipo_documento"] = ptr(cedulaDefaultDocType)
		}
	case constants.BankCertification:
		out["doc_tipo"] = ptr(BankCertDocTipoLabel)
	}
	return out
}

// Consolidate builds the wide table: exactly one row per dictionary entry, in
// dictionary order. Kinds without a record keep their rows with nil Valor;
// the dictionary, not the input set, determines row existence.
func Consolidate(recordsByKind map[constants.DocKind]map[string]*string) []Row {
	effective := make(map[string]map[string]*string, len(recordsByKind))
	for kind, values := range recordsByKind {
		if values == nil {
			continue
		}
		effective[string(kind)] = EffectiveValues(kind, values)
	}

	rows := make([]Row, 0, len(Master))
	for _, e := range Master {
		row := Row{Entry: e}
		if values, ok := effective[e.DocID]; ok {
			row.Valor = values[e.Field]
		}
		rows = append(rows, row)
	}
	return rows
}

func ptr(s string) *string { return &s }
