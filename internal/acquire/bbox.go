package acquire

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// pdftotext -bbox emits XHTML with per-word geometry in PDF points. We only
// need enough of it to find an anchor phrase and its bounding box.

type bboxPage struct {
	Width  float64    `xml:"width,attr"`
	Height float64    `xml:"height,attr"`
	Words  []bboxWord `xml:"word"`
}

type bboxWord struct {
	XMin float64 `xml:"xMin,attr"`
	YMin float64 `xml:"yMin,attr"`
	XMax float64 `xml:"xMax,attr"`
	YMax float64 `xml:"yMax,attr"`
	Text string  `xml:",chardata"`
}

type bboxDocument struct {
	Pages []bboxPage `xml:"body>doc>page"`
}

func parseBBox(data []byte) (*bboxDocument, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	dec.Strict = false
	var doc bboxDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse bbox output: %w", err)
	}
	return &doc, nil
}

// rect is an axis-aligned box in PDF points.
type rect struct {
	x0, y0, x1, y1 float64
}

// findPhrase scans the page's words for a consecutive, case-insensitive match
// of the phrase and returns the bounding box of the matched run.
func (p *bboxPage) findPhrase(phrase string) (rect, bool) {
	want := strings.Fields(strings.ToLower(phrase))
	if len(want) == 0 || len(p.Words) < len(want) {
		return rect{}, false
	}
	for i := 0; i+len(want) <= len(p.Words); i++ {
		matched := true
		for j, w := range want {
			if strings.ToLower(strings.TrimSpace(p.Words[i+j].Text)) != w {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		first, last := p.Words[i], p.Words[i+len(want)-1]
		r := rect{x0: first.XMin, y0: first.YMin, x1: last.XMax, y1: last.YMax}
		for j := 1; j < len(want); j++ {
			w := p.Words[i+j]
			if w.YMin < r.y0 {
				r.y0 = w.YMin
			}
			if w.YMax > r.y1 {
				r.y1 = w.YMax
			}
		}
		return r, true
	}
	return rect{}, false
}
