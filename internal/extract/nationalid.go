package extract

// NormalizeNationalID canonicalizes the cédula draft in place. There is no
// layout corrector for this kind: the card is a photo scan, so the OCR text
// has no stable anchors to pattern-match against.
func NormalizeNationalID(rec *NationalID) {
	rec.PaisEmisor = NormalizeText(rec.PaisEmisor)
	rec.TipoDocumento = NormalizeText(rec.TipoDocumento)
	rec.Numero = OnlyDigits(rec.Numero)
	rec.Apellidos = NormalizeText(rec.Apellidos)
	rec.Nombres = NormalizeText(rec.Nombres)
	rec.FechaNacimiento = NormalizeDate(rec.FechaNacimiento)
	rec.LugarNacimiento = NormalizeText(rec.LugarNacimiento)
	rec.Sexo = NormalizeText(rec.Sexo)
	rec.Estatura = NormalizeText(rec.Estatura)
	rec.GrupoSanguineoRH = NormalizeText(rec.GrupoSanguineoRH)
	rec.FechaExpedicion = NormalizeDate(rec.FechaExpedicion)
	rec.LugarExpedicion = NormalizeText(rec.LugarExpedicion)
	rec.Registrador = NormalizeText(rec.Registrador)
	rec.CodigoBarras = NormalizeText(rec.CodigoBarras)
	rec.HuellaIndice = NormalizeYesNo(rec.HuellaIndice)
	rec.FirmaTitular = NormalizeYesNo(rec.FirmaTitular)
}
