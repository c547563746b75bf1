package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pure per-field canonicalization. None of these functions fail: unparseable
// input either becomes nil (digits, text, yes/no) or passes through unchanged
// (dates), so normalization can never invent an invalid value.

var (
	reNonDigit = regexp.MustCompile(`\D`)
	reISODate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reMonthAbb = regexp.MustCompile(`(\d{1,2})[-/ ]([A-Z]{3})[-/ ](\d{4})`)
	reNumeric  = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})`)
	reSpanish  = regexp.MustCompile(`(\d{1,2})\s*(?:DE\s*)?([A-ZÁÉÍÓÚÑ]+)\s*(?:DE\s*)?(\d{4})`)
)

var monthAbbrev = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var monthSpanish = map[string]int{
	"ENERO": 1, "FEBRERO": 2, "MARZO": 3, "ABRIL": 4, "MAYO": 5, "JUNIO": 6,
	"JULIO": 7, "AGOSTO": 8, "SEPTIEMBRE": 9, "SETIEMBRE": 9, "OCTUBRE": 10,
	"NOVIEMBRE": 11, "DICIEMBRE": 12,
}

// OnlyDigits strips every non-digit character; nil when nothing is left.
func OnlyDigits(v *string) *string {
	if v == nil {
		return nil
	}
	d := reNonDigit.ReplaceAllString(*v, "")
	if d == "" {
		return nil
	}
	return &d
}

// NormalizeText trims whitespace; nil when empty after trimming.
func NormalizeText(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeDate canonicalizes a date string to YYYY-MM-DD when one of the
// known regional formats matches, in order: already-ISO, dd-MMM-yyyy with
// 3-letter month abbreviations, numeric dd-mm-yy[yy] (2-digit years are
// assumed 2000s), and Spanish long form "5 de febrero de 2026". Anything else
// is returned unchanged.
func NormalizeDate(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	up := strings.ToUpper(s)

	if reISODate.MatchString(up) {
		return &up
	}

	if m := reMonthAbb.FindStringSubmatch(up); m != nil {
		if mon, ok := monthAbbrev[m[2]]; ok {
			dd, _ := strconv.Atoi(m[1])
			yyyy, _ := strconv.Atoi(m[3])
			out := fmt.Sprintf("%04d-%02d-%02d", yyyy, mon, dd)
			return &out
		}
	}

	if m := reNumeric.FindStringSubmatch(up); m != nil {
		dd, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		yyyy, _ := strconv.Atoi(m[3])
		if yyyy < 100 {
			yyyy += 2000
		}
		out := fmt.Sprintf("%04d-%02d-%02d", yyyy, mm, dd)
		return &out
	}

	if m := reSpanish.FindStringSubmatch(up); m != nil {
		if mon, ok := monthSpanish[m[2]]; ok {
			dd, _ := strconv.Atoi(m[1])
			yyyy, _ := strconv.Atoi(m[3])
			out := fmt.Sprintf("%04d-%02d-%02d", yyyy, mon, dd)
			return &out
		}
	}

	return &s
}

// NormalizeYesNo maps affirmative/negative tokens to the canonical labels
// "Sí"/"No"; anything else becomes nil.
func NormalizeYesNo(v *string) *string {
	if v == nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(*v)) {
	case "si", "sí", "s", "yes", "true", "1":
		out := "Sí"
		return &out
	case "no", "n", "false", "0":
		out := "No"
		return &out
	}
	return nil
}
