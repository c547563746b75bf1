package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"kycdocs/constants"
	"kycdocs/internal/common"
	"kycdocs/internal/extract"
	"kycdocs/internal/fields"
	"kycdocs/internal/llm"
	"kycdocs/internal/ocr"
	"kycdocs/internal/validate"
)

// DocItem is one uploaded document as the pipeline receives it: a local path
// plus the name it was uploaded under, which drives classification.
type DocItem struct {
	Path         string
	OriginalName string
	ContentType  string
}

// Acquirer is the slice of the acquisition layer the pipeline needs.
type Acquirer interface {
	Probe(ctx context.Context, path string) (int, error)
	EmbeddedText(ctx context.Context, path string) (string, error)
	RenderPages(ctx context.Context, path string, dpi int) ([]string, error)
	LocateAndCrop(ctx context.Context, path string, anchors []string) (string, error)
}

// Recognizer is the slice of the OCR engine the pipeline needs.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) ([]string, error)
	RecognizeMany(ctx context.Context, imagePaths []string) (string, error)
}

// Pipeline runs the full extraction for one case: classify, acquire, draft,
// correct, validate and consolidate. A Pipeline is stateless across runs.
type Pipeline struct {
	acquirer Acquirer
	ocr      Recognizer
	drafter  llm.FieldDrafter
	logger   *slog.Logger
	now      func() time.Time
}

func New(acquirer Acquirer, recognizer Recognizer, drafter llm.FieldDrafter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		acquirer: acquirer,
		ocr:      recognizer,
		drafter:  drafter,
		logger:   logger,
		now:      time.Now,
	}
}

// Metrics summarizes one run per document class.
type Metrics struct {
	SecondsPerDocument  map[string]*float64 `json:"tiempo_por_documento_s"`
	CompletenessPct     map[string]*float64 `json:"completitud_por_documento_pct"`
	WarningsPerDocument map[string]int      `json:"warnings_por_documento"`
}

// UploadSummary is the classification verdict for one uploaded file.
type UploadSummary struct {
	Filename    string            `json:"filename"`
	DocID       constants.DocKind `json:"doc_id"`
	ContentType string            `json:"content_type"`
}

// Result is the complete output of one run. Every document slot may be nil:
// a kind that was not uploaded, or whose acquisition failed, simply has no
// record while its dictionary rows stay present with empty values.
type Result struct {
	TaxRegistration   *extract.TaxRegistration   `json:"rut_data"`
	NationalID        *extract.NationalID        `json:"cc_data"`
	BankCertification *extract.BankCertification `json:"doc16_data"`
	Master            []fields.Row               `json:"df_master"`
	Logs              []validate.Entry           `json:"logs"`
	Metrics           Metrics                    `json:"metricas"`
	Uploads           []UploadSummary            `json:"uploads_resumen"`
}

// Run executes the pipeline over one case's documents. It never returns an
// error: every failure is scoped to the document kind that caused it and
// recorded in the validation log, and the run always produces a full Result.
func (p *Pipeline) Run(ctx context.Context, items []DocItem) *Result {
	runStart := p.now()
	vlog := validate.NewLog(p.now)

	byKind := make(map[constants.DocKind]DocItem)
	uploads := make([]UploadSummary, 0, len(items))
	for _, item := range items {
		kind := constants.ClassifyFilename(item.OriginalName)
		uploads = append(uploads, UploadSummary{
			Filename:    item.OriginalName,
			DocID:       kind,
			ContentType: item.ContentType,
		})
		if kind == constants.Unknown {
			vlog.Append(kind.SubjectTag(), validate.SeverityWarning,
				fmt.Sprintf("El archivo %q no coincide con ningún tipo de documento conocido.", item.OriginalName))
			continue
		}
		if _, taken := byKind[kind]; taken {
			vlog.Append(kind.SubjectTag(), validate.SeverityWarning,
				fmt.Sprintf("Documento duplicado para %s: se ignora %q.", kind.SubjectTag(), item.OriginalName))
			continue
		}
		byKind[kind] = item
	}

	// Every kind gets its metric entries up front: a kind that was never
	// uploaded reads as null, not as a missing key.
	seconds := make(map[string]*float64, len(constants.Kinds))
	completeness := make(map[string]*float64, len(constants.Kinds))
	for _, kind := range constants.Kinds {
		seconds[kind.SubjectTag()] = nil
		completeness[kind.SubjectTag()] = nil
	}
	result := &Result{Uploads: uploads}

	if item, ok := byKind[constants.TaxRegistration]; ok {
		result.TaxRegistration = timed(p, constants.TaxRegistration, seconds, vlog, func() (*extract.TaxRegistration, error) {
			return p.processTaxRegistration(ctx, item, vlog)
		})
	}
	if item, ok := byKind[constants.NationalID]; ok {
		result.NationalID = timed(p, constants.NationalID, seconds, vlog, func() (*extract.NationalID, error) {
			return p.processNationalID(ctx, item, vlog)
		})
	}
	if item, ok := byKind[constants.BankCertification]; ok {
		result.BankCertification = timed(p, constants.BankCertification, seconds, vlog, func() (*extract.BankCertification, error) {
			return p.processBankCertification(ctx, item, vlog)
		})
	}

	p.runValidations(vlog, result)

	recordsByKind := make(map[constants.DocKind]map[string]*string)
	if result.TaxRegistration != nil {
		recordsByKind[constants.TaxRegistration] = result.TaxRegistration.Values()
	}
	if result.NationalID != nil {
		recordsByKind[constants.NationalID] = result.NationalID.Values()
	}
	if result.BankCertification != nil {
		recordsByKind[constants.BankCertification] = result.BankCertification.Values()
	}
	for _, kind := range constants.Kinds {
		values, ok := recordsByKind[kind]
		if !ok {
			continue
		}
		completeness[kind.SubjectTag()] = fields.Completeness(
			fields.EffectiveValues(kind, values), fields.ExpectedFields(kind))
	}

	warnings := make(map[string]int, len(constants.Kinds)+1)
	for _, kind := range constants.Kinds {
		warnings[kind.SubjectTag()] = vlog.WarningCount(kind.SubjectTag())
	}
	warnings[constants.CrossValidationTag] = vlog.WarningCount(constants.CrossValidationTag)

	result.Master = fields.Consolidate(recordsByKind)
	result.Logs = vlog.Entries()
	result.Metrics = Metrics{
		SecondsPerDocument:  seconds,
		CompletenessPct:     completeness,
		WarningsPerDocument: warnings,
	}

	p.logger.Info("pipeline.run.done",
		"uploads", len(items),
		"kinds", len(byKind),
		"log_entries", len(result.Logs),
		"elapsed_ms", p.now().Sub(runStart).Milliseconds(),
	)
	return result
}

// timed wraps one kind's processing with wall-clock accounting and converts an
// escaping error into a validation ERROR, leaving that kind without a record.
func timed[T any](p *Pipeline, kind constants.DocKind, seconds map[string]*float64, vlog *validate.Log, fn func() (*T, error)) *T {
	start := p.now()
	rec, err := fn()
	elapsed := math.Round(p.now().Sub(start).Seconds()*1000) / 1000
	seconds[kind.SubjectTag()] = &elapsed

	if err != nil {
		p.logger.Error("pipeline.document.failed", "kind", kind, "error", err)
		vlog.Append(kind.SubjectTag(), validate.SeverityError,
			fmt.Sprintf("Error procesando el documento: %v", err))
		return nil
	}
	return rec
}

// sourceText pulls the document's text layer, falling back to full-page OCR
// when the layer is too thin to be a real text PDF (scanned uploads).
func (p *Pipeline) sourceText(ctx context.Context, item DocItem) (string, error) {
	if _, err := p.acquirer.Probe(ctx, item.Path); err != nil {
		return "", err
	}
	text, err := p.acquirer.EmbeddedText(ctx, item.Path)
	if err != nil {
		return "", err
	}
	text = ocr.CleanText(text)
	if len(text) >= constants.MinEmbeddedTextLen {
		return text, nil
	}

	p.logger.Info("pipeline.text_layer_thin", "file", item.OriginalName, "chars", len(text))
	pages, err := p.acquirer.RenderPages(ctx, item.Path, constants.RenderDPI)
	if err != nil {
		return "", err
	}
	raw, err := p.ocr.RecognizeMany(ctx, pages)
	if err != nil {
		return "", common.TagError(common.ErrAcquisition, "page OCR failed", err)
	}
	return ocr.CleanText(raw), nil
}

// draft asks the model for a field draft and decodes it into rec. A model or
// decode failure is downgraded to an ERROR log entry plus an empty draft so
// the deterministic correctors still get their chance.
func (p *Pipeline) draft(ctx context.Context, kind constants.DocKind, text string, rec any, vlog *validate.Log) {
	raw, err := p.drafter.Draft(ctx, kind, text)
	if err == nil {
		err = llm.DecodeDraft(kind, raw, rec)
	}
	if err != nil {
		p.logger.Error("pipeline.draft.failed", "kind", kind, "error", err)
		vlog.Append(kind.SubjectTag(), validate.SeverityError,
			fmt.Sprintf("El modelo no produjo un borrador utilizable: %v", err))
	}
}

func (p *Pipeline) processTaxRegistration(ctx context.Context, item DocItem, vlog *validate.Log) (*extract.TaxRegistration, error) {
	text, err := p.sourceText(ctx, item)
	if err != nil {
		return nil, err
	}

	rec := &extract.TaxRegistration{}
	p.draft(ctx, constants.TaxRegistration, text, rec, vlog)
	extract.NormalizeTaxRegistration(rec)

	resolver := extract.NewIdentityResolver(p.acquirer, p.ocr, p.logger)
	id, provenance := resolver.Resolve(ctx, item.Path, text, rec.NumeroIdentificacion)
	rec.NumeroIdentificacion = id
	rec.IdentityProvenance = provenance

	return rec, nil
}

func (p *Pipeline) processNationalID(ctx context.Context, item DocItem, vlog *validate.Log) (*extract.NationalID, error) {
	if _, err := p.acquirer.Probe(ctx, item.Path); err != nil {
		return nil, err
	}
	// Cédulas are scans; the text layer is not worth probing.
	pages, err := p.acquirer.RenderPages(ctx, item.Path, constants.RenderDPI)
	if err != nil {
		return nil, err
	}
	raw, err := p.ocr.RecognizeMany(ctx, pages)
	if err != nil {
		return nil, common.TagError(common.ErrAcquisition, "page OCR failed", err)
	}
	text := ocr.CleanText(raw)

	rec := &extract.NationalID{}
	p.draft(ctx, constants.NationalID, text, rec, vlog)
	extract.NormalizeNationalID(rec)
	return rec, nil
}

func (p *Pipeline) processBankCertification(ctx context.Context, item DocItem, vlog *validate.Log) (*extract.BankCertification, error) {
	text, err := p.sourceText(ctx, item)
	if err != nil {
		return nil, err
	}

	rec := &extract.BankCertification{}
	p.draft(ctx, constants.BankCertification, text, rec, vlog)
	extract.NormalizeBankCertification(rec)
	extract.CorrectBankCertification(rec, text)
	return rec, nil
}

// runValidations applies the cross-document checks in a fixed order so the
// log reads the same way run after run.
func (p *Pipeline) runValidations(vlog *validate.Log, result *Result) {
	if result.NationalID != nil {
		validate.CheckNationalIDPresent(vlog, result.NationalID.Numero)
	}
	if result.BankCertification != nil {
		validate.CheckCertificationRecency(vlog, result.BankCertification.FechaExpedicion,
			p.now(), constants.CertificationMaxAgeDays)
	}
	if result.TaxRegistration != nil && result.NationalID != nil {
		validate.CheckIdentityMatch(vlog, result.TaxRegistration.NumeroIdentificacion, result.NationalID.Numero)
	}
}
