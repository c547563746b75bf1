package extract

// Typed records per document kind. Each field is an optional string matching
// one declared dictionary entry; the JSON tags are the wire names the language
// model is instructed to emit, so a draft can be unmarshaled directly and any
// key outside the declared set is discarded by the decoder.

// TaxRegistration holds the fields extracted from a RUT (DIAN form).
type TaxRegistration struct {
	TipoDocumento        *string `json:"tipo_documento"`
	NumeroIdentificacion *string `json:"numero_identificacion"`
	PrimerApellido       *string `json:"primer_apellido"`
	SegundoApellido      *string `json:"segundo_apellido"`
	PrimerNombre         *string `json:"primer_nombre"`
	OtrosNombres         *string `json:"otros_nombres"`

	// IdentityProvenance names the strategy that produced the accepted
	// identity number. It travels with the record but is not a dictionary
	// field, so it never surfaces in the consolidated table.
	IdentityProvenance string `json:"_fuente_numero_identificacion,omitempty"`
}

// Values maps declared field names to their current values.
func (r *TaxRegistration) Values() map[string]*string {
	return map[string]*string{
		"tipo_documento":        r.TipoDocumento,
		"numero_identificacion": r.NumeroIdentificacion,
		"primer_apellido":       r.PrimerApellido,
		"segundo_apellido":      r.SegundoApellido,
		"primer_nombre":         r.PrimerNombre,
		"otros_nombres":         r.OtrosNombres,
	}
}

// NationalID holds the fields read off a cédula de ciudadanía scan.
type NationalID struct {
	PaisEmisor       *string `json:"doc_pais_emisor"`
	TipoDocumento    *string `json:"doc_tipo_documento"`
	Numero           *string `json:"doc_numero"`
	Apellidos        *string `json:"doc_apellidos"`
	Nombres          *string `json:"doc_nombres"`
	FechaNacimiento  *string `json:"doc_fecha_nacimiento"`
	LugarNacimiento  *string `json:"doc_lugar_nacimiento"`
	Sexo             *string `json:"doc_sexo"`
	Estatura         *string `json:"doc_estatura"`
	GrupoSanguineoRH *string `json:"doc_grupo_sanguineo_rh"`
	FechaExpedicion  *string `json:"doc_fecha_expedicion"`
	LugarExpedicion  *string `json:"doc_lugar_expedicion"`
	Registrador      *string `json:"doc_registrador"`
	CodigoBarras     *string `json:"doc_codigo_barras"`
	HuellaIndice     *string `json:"doc_huella_indice"`
	FirmaTitular     *string `json:"doc_firma_titular"`
}

func (r *NationalID) Values() map[string]*string {
	return map[string]*string{
		"doc_pais_emisor":        r.PaisEmisor,
		"doc_tipo_documento":     r.TipoDocumento,
		"doc_numero":             r.Numero,
		"doc_apellidos":          r.Apellidos,
		"doc_nombres":            r.Nombres,
		"doc_fecha_nacimiento":   r.FechaNacimiento,
		"doc_lugar_nacimiento":   r.LugarNacimiento,
		"doc_sexo":               r.Sexo,
		"doc_estatura":           r.Estatura,
		"doc_grupo_sanguineo_rh": r.GrupoSanguineoRH,
		"doc_fecha_expedicion":   r.FechaExpedicion,
		"doc_lugar_expedicion":   r.LugarExpedicion,
		"doc_registrador":        r.Registrador,
		"doc_codigo_barras":      r.CodigoBarras,
		"doc_huella_indice":      r.HuellaIndice,
		"doc_firma_titular":      r.FirmaTitular,
	}
}

// BankCertification holds the fields extracted from a bank certification letter.
type BankCertification struct {
	DocTipo              *string `json:"doc_tipo"`
	BancoNombre          *string `json:"banco_nombre"`
	BancoNIT             *string `json:"banco_nit"`
	ProductoTipo         *string `json:"producto_tipo"`
	ProductoNombre       *string `json:"producto_nombre"`
	NumeroCuenta         *string `json:"numero_cuenta"`
	FechaApertura        *string `json:"fecha_apertura"`
	TitularNombre        *string `json:"titular_nombre"`
	TitularTipoDocumento *string `json:"titular_tipo_documento"`
	TitularNumDocumento  *string `json:"titular_num_documento"`
	EstadoCuenta         *string `json:"estado_cuenta"`
	FechaExpedicion      *string `json:"fecha_expedicion"`
	CiudadExpedicion     *string `json:"ciudad_expedicion"`
}

func (r *BankCertification) Values() map[string]*string {
	return map[string]*string{
		"doc_tipo":               r.DocTipo,
		"banco_nombre":           r.BancoNombre,
		"banco_nit":              r.BancoNIT,
		"producto_tipo":          r.ProductoTipo,
		"producto_nombre":        r.ProductoNombre,
		"numero_cuenta":          r.NumeroCuenta,
		"fecha_apertura":         r.FechaApertura,
		"titular_nombre":         r.TitularNombre,
		"titular_tipo_documento": r.TitularTipoDocumento,
		"titular_num_documento":  r.TitularNumDocumento,
		"estado_cuenta":          r.EstadoCuenta,
		"fecha_expedicion":       r.FechaExpedicion,
		"ciudad_expedicion":      r.CiudadExpedicion,
	}
}
