package extract

import (
	"context"
	"log/slog"
	"regexp"
	"sort"

	"kycdocs/constants"
)

// The identity number on a RUT form (field 26) is the single most misread
// field: the model regularly returns the barcode or the form number instead.
// Resolution is an ordered list of named strategies, each tagging the value it
// produced so the final record says where its identity number came from.

var (
	reIdentityLabeled = regexp.MustCompile(`(?i)26\.\s*Número de Identificación\s*[\n: ]+\s*(\d{8,10})`)
	reIdentityLoose   = regexp.MustCompile(`(?i)26\.\s*N[úu]mero de Identificaci[óo]n\s*([0-9\s]{6,20})`)
	reIdentityCedula  = regexp.MustCompile(`(?i)Cédula de Ciudadanía\s*([0-9\s]{6,20})`)
	reDigitRun        = regexp.MustCompile(`\d+`)
)

// identityAnchors are the layout labels searched for when cropping the
// identity-number region off a rendered page.
var identityAnchors = []string{"Número de Identificación", "Numero de Identificacion"}

// RegionReader locates an anchor phrase on a rendered page and returns a
// high-resolution crop around it, or "" when no anchor is found.
type RegionReader interface {
	LocateAndCrop(ctx context.Context, path string, anchors []string) (string, error)
}

// LineRecognizer turns a raster image into text lines.
type LineRecognizer interface {
	Recognize(ctx context.Context, imagePath string) ([]string, error)
}

// IdentityResolver applies the correction policy for the RUT identity number.
type IdentityResolver struct {
	Regions RegionReader
	OCR     LineRecognizer
	Logger  *slog.Logger
}

func NewIdentityResolver(regions RegionReader, ocr LineRecognizer, logger *slog.Logger) *IdentityResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityResolver{Regions: regions, OCR: ocr, Logger: logger}
}

// IdentitySuspicious reports whether a candidate, once digit-filtered, falls
// outside the accepted cédula length bounds.
func IdentitySuspicious(v *string) bool {
	d := OnlyDigits(v)
	if d == nil {
		return true
	}
	n := len(*d)
	return n < constants.IdentityMinDigits || n > constants.IdentityMaxDigits
}

// Resolve returns the accepted identity number and its provenance tag.
// Strategy order: focused OCR re-read of the labeled region (only attempted
// when the model value is suspicious), anchored pattern on the embedded text,
// then the model's own digit-filtered value. A candidate outside the length
// bounds is never emitted: the value becomes nil rather than wrong.
func (r *IdentityResolver) Resolve(ctx context.Context, docPath, embeddedText string, modelValue *string) (*string, string) {
	suspicious := IdentitySuspicious(modelValue)

	if suspicious {
		if v := r.fromRegionOCR(ctx, docPath); v != nil {
			r.Logger.Info("extract.identity.resolved", "strategy", "ocr_region", "digits", len(*v))
			return v, constants.ProvenanceOCRRegion
		}
	}

	if v := identityFromText(embeddedText); v != nil {
		r.Logger.Info("extract.identity.resolved", "strategy", "text_pattern", "digits", len(*v))
		return v, constants.ProvenanceTextPattern
	}

	if !suspicious {
		return OnlyDigits(modelValue), constants.ProvenanceModelUnvalidated
	}
	r.Logger.Warn("extract.identity.unresolved", "model_suspicious", true)
	return nil, constants.ProvenanceModelUnvalidated
}

// fromRegionOCR crops the area next to the identity-number label and re-reads
// it, keeping the longest digit run within bounds.
func (r *IdentityResolver) fromRegionOCR(ctx context.Context, docPath string) *string {
	if r.Regions == nil || r.OCR == nil || docPath == "" {
		return nil
	}
	crop, err := r.Regions.LocateAndCrop(ctx, docPath, identityAnchors)
	if err != nil {
		r.Logger.Warn("extract.identity.crop_failed", "error", err)
		return nil
	}
	if crop == "" {
		return nil
	}
	lines, err := r.OCR.Recognize(ctx, crop)
	if err != nil {
		r.Logger.Warn("extract.identity.region_ocr_failed", "error", err)
		return nil
	}

	var candidates []string
	for _, line := range lines {
		for _, run := range reDigitRun.FindAllString(line, -1) {
			if len(run) >= constants.IdentityMinDigits && len(run) <= constants.IdentityMaxDigits {
				candidates = append(candidates, run)
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })
	return &candidates[0]
}

// identityFromText extracts the identity number from the labeled field in the
// embedded text. The strict labeled pattern wins; the looser patterns only
// count when their digit-filtered capture lands inside the accepted bounds,
// which keeps the form number (field 4) and the NIT (field 5) out.
func identityFromText(text string) *string {
	if m := reIdentityLabeled.FindStringSubmatch(text); m != nil {
		v := m[1]
		return &v
	}
	for _, re := range []*regexp.Regexp{reIdentityLoose, reIdentityCedula} {
		if m := re.FindStringSubmatch(text); m != nil {
			cand := m[1]
			if d := OnlyDigits(&cand); d != nil &&
				len(*d) >= constants.IdentityMinDigits && len(*d) <= constants.IdentityMaxDigits {
				return d
			}
		}
	}
	return nil
}

// NormalizeTaxRegistration canonicalizes the draft's text fields in place.
// The identity number is handled separately by the IdentityResolver.
func NormalizeTaxRegistration(rec *TaxRegistration) {
	rec.TipoDocumento = NormalizeText(rec.TipoDocumento)
	rec.PrimerApellido = NormalizeText(rec.PrimerApellido)
	rec.SegundoApellido = NormalizeText(rec.SegundoApellido)
	rec.PrimerNombre = NormalizeText(rec.PrimerNombre)
	rec.OtrosNombres = NormalizeText(rec.OtrosNombres)
}
