package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"html/template"
	"io"
	"strings"
)

const wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Paragraph is a run of text with the formatting PDF output keeps
type Paragraph struct {
	Centered bool
	Runs     []Run
}

// Run is a contiguous piece of text in one style
type Run struct {
	Text string
	Bold bool
}

var htmlTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Times New Roman", Times, serif; font-size: 11pt; line-height: 1.4; }
p { margin: 0 0 8pt 0; white-space: pre-wrap; }
p.center { text-align: center; }
</style>
</head>
<body>
{{range .Paragraphs}}<p{{if .Centered}} class="center"{{end}}>{{range .Runs}}{{if .Bold}}<strong>{{.Text}}</strong>{{else}}{{.Text}}{{end}}{{end}}</p>
{{end}}</body>
</html>
`))

// ExtractHTML converts the body of a .docx document into a standalone HTML page.
// Only paragraphs, centering and bold survive; that is enough for a printable copy
// of a SAFE.
func ExtractHTML(docx []byte, title string) (string, error) {
	paragraphs, err := ExtractParagraphs(docx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	data := struct {
		Title      string
		Paragraphs []Paragraph
	}{Title: title, Paragraphs: paragraphs}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodePackagingFailed, "failed to build HTML", err)
	}
	return buf.String(), nil
}

// ExtractParagraphs reads the paragraphs of word/document.xml
func ExtractParagraphs(docx []byte) ([]Paragraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return nil, NewRenderError(ErrCodePackagingFailed, "input is not a valid document container", err)
	}

	for _, f := range zr.File {
		if f.Name != mainDocumentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, NewRenderError(ErrCodePackagingFailed, "failed to open "+mainDocumentPart, err)
		}
		defer rc.Close()
		paragraphs, err := parseParagraphs(rc)
		if err != nil {
			return nil, NewRenderError(ErrCodePackagingFailed, "failed to parse "+mainDocumentPart, err)
		}
		return paragraphs, nil
	}
	return nil, NewRenderError(ErrCodePackagingFailed, "input has no "+mainDocumentPart, nil)
}

func parseParagraphs(r io.Reader) ([]Paragraph, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []Paragraph
		current    *Paragraph
		run        *Run
		inText     bool
		inRunProps bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return paragraphs, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				current = &Paragraph{}
			case "jc":
				if current != nil && attr(t, "val") == "center" {
					current.Centered = true
				}
			case "r":
				run = &Run{}
			case "rPr":
				inRunProps = run != nil
			case "b":
				if inRunProps {
					v := attr(t, "val")
					run.Bold = v == "" || v == "1" || v == "true"
				}
			case "t":
				inText = run != nil
			case "tab":
				if run != nil {
					run.Text += "\t"
				}
			case "br":
				if run != nil {
					run.Text += "\n"
				}
			}
		case xml.CharData:
			if inText {
				run.Text += string(t)
			}
		case xml.EndElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "rPr":
				inRunProps = false
			case "r":
				if current != nil && run != nil && run.Text != "" {
					current.Runs = appendRun(current.Runs, *run)
				}
				run = nil
			case "p":
				if current != nil {
					paragraphs = append(paragraphs, *current)
				}
				current = nil
			}
		}
	}
}

// appendRun merges adjacent runs of the same style
func appendRun(runs []Run, r Run) []Run {
	if n := len(runs); n > 0 && runs[n-1].Bold == r.Bold {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// PlainText joins paragraph text with newlines
func PlainText(paragraphs []Paragraph) string {
	var b strings.Builder
	for i, p := range paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range p.Runs {
			b.WriteString(r.Text)
		}
	}
	return b.String()
}
