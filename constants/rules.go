package constants

// Business rules carried over from the operational process. They are hardcoded
// policy, not derived values, so they live here as named constants rather than
// literals scattered through the correctors.
const (
	// A Colombian cédula number has 8 to 10 digits; anything else coming out of
	// the model is treated as a misread (barcode, form number, NIT).
	IdentityMinDigits = 8
	IdentityMaxDigits = 10

	// Bank certifications older than this many days are flagged as stale.
	CertificationMaxAgeDays = 30

	// Embedded text shorter than this is considered a scan and routed to OCR.
	MinEmbeddedTextLen = 120

	// Rasterization resolution for full-page OCR; 180dpi ≈ 2.5x screen zoom,
	// tuned for tesseract legibility rather than display.
	RenderDPI = 180

	// Focused crops around an anchor phrase are re-read at high resolution.
	CropDPI = 300
)

// Provenance tags recorded on the extracted record for the identity number,
// naming the strategy that produced the accepted value.
const (
	ProvenanceOCRRegion        = "ocr_region_match"
	ProvenanceTextPattern      = "text_pattern_match"
	ProvenanceModelUnvalidated = "model_unvalidated"
)
