package validate

import (
	"fmt"
	"time"

	"kycdocs/constants"
	"kycdocs/internal/extract"
)

// Severity of a validation log entry.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Entry is one validation finding. Entries are append-only for the lifetime
// of a pipeline run; insertion order is the temporal order of checks.
type Entry struct {
	Timestamp string   `json:"timestamp"`
	Document  string   `json:"documento"`
	Severity  Severity `json:"tipo"`
	Message   string   `json:"mensaje"`
}

// Log collects validation entries for one pipeline run. The clock is
// injectable so recency checks and timestamps are deterministic in tests.
type Log struct {
	entries []Entry
	now     func() time.Time
}

func NewLog(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Append records one finding.
func (l *Log) Append(document string, severity Severity, message string) {
	l.entries = append(l.entries, Entry{
		Timestamp: l.now().Format("2006-01-02 15:04:05"),
		Document:  document,
		Severity:  severity,
		Message:   message,
	})
}

// Entries returns the findings in insertion order.
func (l *Log) Entries() []Entry {
	return l.entries
}

// WarningCount returns how many WARNING entries carry the given subject tag.
func (l *Log) WarningCount(document string) int {
	n := 0
	for _, e := range l.entries {
		if e.Severity == SeverityWarning && e.Document == document {
			n++
		}
	}
	return n
}

// CheckNationalIDPresent warns when the cédula scan produced no usable
// identity number.
func CheckNationalIDPresent(log *Log, cedulaNumero *string) {
	if extract.OnlyDigits(cedulaNumero) == nil {
		log.Append(constants.NationalID.SubjectTag(), SeverityWarning,
			"El campo doc_numero de la cédula está vacío o no fue detectado correctamente.")
	}
}

// CheckCertificationRecency parses the certification's expedition date (ISO
// required at this point in the pipeline) and compares it against now. Older
// than the threshold is a WARNING, inside the window an INFO, and an
// unparseable date an ERROR, never a crash.
func CheckCertificationRecency(log *Log, fechaExpedicion *string, now time.Time, maxAgeDays int) {
	tag := constants.BankCertification.SubjectTag()
	if fechaExpedicion == nil || *fechaExpedicion == "" {
		log.Append(tag, SeverityWarning,
			"No se encontró fecha de expedición en la certificación bancaria.")
		return
	}
	issued, err := time.Parse("2006-01-02", *fechaExpedicion)
	if err != nil {
		log.Append(tag, SeverityError,
			fmt.Sprintf("Error al procesar fecha de expedición: %v", err))
		return
	}
	days := int(now.Sub(issued).Hours() / 24)
	if days > maxAgeDays {
		log.Append(tag, SeverityWarning,
			fmt.Sprintf("La certificación bancaria tiene %d días de expedición (mayor a %d días).", days, maxAgeDays))
	} else {
		log.Append(tag, SeverityInfo,
			fmt.Sprintf("La certificación bancaria fue expedida hace %d días (vigente).", days))
	}
}

// CheckIdentityMatch compares the digit-only identity numbers of the tax
// registration and the cédula. A missing side is warned about and the
// comparison itself is skipped.
func CheckIdentityMatch(log *Log, taxIdentity, cedulaNumero *string) {
	rutID := extract.OnlyDigits(taxIdentity)
	ccID := extract.OnlyDigits(cedulaNumero)

	if rutID == nil {
		log.Append(constants.TaxRegistration.SubjectTag(), SeverityWarning,
			"El RUT no tiene número de identificación extraído.")
		return
	}
	if ccID == nil {
		log.Append(constants.NationalID.SubjectTag(), SeverityWarning,
			"La cédula no tiene número de identificación extraído.")
		return
	}

	if *rutID != *ccID {
		log.Append(constants.CrossValidationTag, SeverityWarning,
			fmt.Sprintf("El número de identificación del RUT (%s) NO coincide con el de la cédula (%s).", *rutID, *ccID))
	} else {
		log.Append(constants.CrossValidationTag, SeverityInfo,
			"El número de identificación del RUT coincide con el de la cédula.")
	}
}
