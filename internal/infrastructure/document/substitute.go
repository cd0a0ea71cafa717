package document

import (
	"regexp"
	"strings"

	"github.com/safedocs/backend/internal/domain/investment"
)

var (
	paragraphTagPattern = regexp.MustCompile(`<w:p(?:\s[^>]*)?/?>|</w:p>`)
	textRunPattern      = regexp.MustCompile(`(<w:t(?:\s[^>]*)?>)([^<]*)(</w:t>)`)
	placeholderPattern  = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_]*)\}`)
	xmlEscaper          = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
)

const preserveOpenTag = `<w:t xml:space="preserve">`

type textRun struct {
	open, text, close string
	start, end        int // bounds of the whole element within the part
	changed           bool
}

// paragraphRuns collects every text run of a part and groups run indexes by
// their innermost enclosing paragraph. A paragraph nested inside another (text
// boxes, table cells in shapes) owns its runs; the outer paragraph keeps the
// runs before and after the nested block. Runs outside any paragraph are
// returned but belong to no group.
func paragraphRuns(xml string) ([]textRun, [][]int) {
	locs := textRunPattern.FindAllStringSubmatchIndex(xml, -1)
	runs := make([]textRun, len(locs))
	for i, loc := range locs {
		runs[i] = textRun{
			open:  xml[loc[2]:loc[3]],
			text:  xml[loc[4]:loc[5]],
			close: xml[loc[6]:loc[7]],
			start: loc[0],
			end:   loc[1],
		}
	}

	tags := paragraphTagPattern.FindAllStringIndex(xml, -1)
	var groups [][]int
	var open []int // stack of group indexes
	t := 0
	for i := range runs {
		for ; t < len(tags) && tags[t][0] < runs[i].start; t++ {
			tag := xml[tags[t][0]:tags[t][1]]
			switch {
			case strings.HasPrefix(tag, "</"):
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			case strings.HasSuffix(tag, "/>"):
			default:
				groups = append(groups, nil)
				open = append(open, len(groups)-1)
			}
		}
		if len(open) > 0 {
			top := open[len(open)-1]
			groups[top] = append(groups[top], i)
		}
	}
	return runs, groups
}

// substitute replaces placeholders paragraph by paragraph. A word processor may
// store "{investor_name}" as several runs; the text of a paragraph is therefore
// matched as a whole and the replacement lands in the run holding the opening
// brace.
func substitute(xml string, terms investment.FormattedTerms) string {
	if !strings.Contains(xml, "{") {
		return xml
	}

	runs, groups := paragraphRuns(xml)
	changed := false
	for _, g := range groups {
		if replaceInRuns(runs, g, terms) {
			changed = true
		}
	}
	if !changed {
		return xml
	}

	var b strings.Builder
	b.Grow(len(xml))
	prev := 0
	for _, r := range runs {
		b.WriteString(xml[prev:r.start])
		open := r.open
		if r.changed && !strings.Contains(open, "xml:space") {
			open = preserveOpenTag
		}
		b.WriteString(open)
		b.WriteString(r.text)
		b.WriteString(r.close)
		prev = r.end
	}
	b.WriteString(xml[prev:])
	return b.String()
}

// replaceInRuns substitutes the placeholders found in the joined text of the
// runs selected by idx. It reports whether anything was replaced.
func replaceInRuns(runs []textRun, idx []int, terms investment.FormattedTerms) bool {
	if len(idx) == 0 {
		return false
	}

	offsets := make([]int, len(idx)) // start of each run within the joined text
	var joined strings.Builder
	for k, i := range idx {
		offsets[k] = joined.Len()
		joined.WriteString(runs[i].text)
	}

	full := joined.String()
	matches := placeholderPattern.FindAllStringSubmatchIndex(full, -1)
	if len(matches) == 0 {
		return false
	}

	// Right to left, so earlier offsets stay valid.
	for m := len(matches) - 1; m >= 0; m-- {
		start, end := matches[m][0], matches[m][1]
		value := xmlEscaper.Replace(terms.Get(full[matches[m][2]:matches[m][3]]))

		sk, sl := locate(offsets, start)
		ek, el := locate(offsets, end-1)
		el++
		si, ei := idx[sk], idx[ek]

		if si == ei {
			runs[si].text = runs[si].text[:sl] + value + runs[si].text[el:]
			runs[si].changed = true
			continue
		}
		runs[si].text = runs[si].text[:sl] + value
		runs[si].changed = true
		for k := sk + 1; k < ek; k++ {
			runs[idx[k]].text = ""
			runs[idx[k]].changed = true
		}
		runs[ei].text = runs[ei].text[el:]
		runs[ei].changed = true
	}
	return true
}

// locate maps an offset in the joined text to (run position, offset within run)
func locate(offsets []int, pos int) (int, int) {
	i := len(offsets) - 1
	for i > 0 && offsets[i] > pos {
		i--
	}
	return i, pos - offsets[i]
}

func placeholderNames(xml string) []string {
	runs, groups := paragraphRuns(xml)
	var names []string
	for _, g := range groups {
		var joined strings.Builder
		for _, i := range g {
			joined.WriteString(runs[i].text)
		}
		for _, m := range placeholderPattern.FindAllStringSubmatch(joined.String(), -1) {
			names = append(names, m[1])
		}
	}
	return names
}
