package match

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

// SectionStrategy splits text into logical sections and records any section
// containing a keyword as one whole segment. Options' sentence flags do not
// apply here; CaseSensitive does.
type SectionStrategy struct{}

func (SectionStrategy) Name() string { return "section" }

var (
	sectionHeaderRe  = regexp.MustCompile(`(?i)^Section (\d+):\s*(.*)$`)
	sectionKeywordRe = regexp.MustCompile(`(?i)^section (\d+)$`)
)

type section struct {
	text   string
	number int    // from a "Section N:" header, else 0
	title  string // header remainder, else ""
	page   int    // 1-based page the section starts on; 0 when unknown
}

func (SectionStrategy) Match(ref Ref, text string, keywords []string, opts Options) []entity.MatchedSegment {
	if strings.TrimSpace(text) == "" || len(keywords) == 0 {
		return nil
	}

	var out []entity.MatchedSegment
	for _, sec := range splitSections(text) {
		matched := matchedKeywords(sec.text, keywords, opts.CaseSensitive)
		// A keyword like "Section 3" also hits the section whose derived
		// number is 3, even when the literal string is absent from the body.
		if sec.number > 0 {
			for _, k := range keywords {
				if m := sectionKeywordRe.FindStringSubmatch(strings.TrimSpace(k)); m != nil {
					if n, _ := strconv.Atoi(m[1]); n == sec.number && !contains(matched, k) {
						matched = append(matched, k)
					}
				}
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, entity.MatchedSegment{
			ExtractionID:    ref.ExtractionID,
			DocumentID:      ref.DocumentID,
			Text:            sec.text,
			Page:            sec.page,
			SectionNumber:   sec.number,
			SectionTitle:    sec.title,
			MatchedKeywords: strings.Join(matched, ", "),
		})
	}
	return out
}

// isMajorSectionStart reports whether a line opens a new major section:
// either a "Section N:" header or an all-uppercase heading of at least three
// words.
func isMajorSectionStart(line string) bool {
	trimmed := strings.TrimSpace(line)
	if sectionHeaderRe.MatchString(trimmed) {
		return true
	}
	if trimmed != "" && trimmed == strings.ToUpper(trimmed) &&
		trimmed != strings.ToLower(trimmed) && len(strings.Fields(trimmed)) >= 3 {
		return true
	}
	return false
}

// splitSections walks the text line by line. A section break is a major
// section start or two consecutive blank lines followed by content. Form
// feeds (page separators from acquisition) advance the page counter and never
// appear in section text.
func splitSections(text string) []section {
	lines := strings.Split(text, "\n")
	paged := strings.Contains(text, "\f")

	var sections []section
	var cur []string
	page := 1
	curPage := page

	flush := func() {
		body := strings.TrimSpace(strings.Join(cur, "\n"))
		cur = nil
		if body == "" {
			return
		}
		sec := section{text: body, page: curPage}
		if !paged {
			sec.page = 0
		}
		if m := sectionHeaderRe.FindStringSubmatch(strings.SplitN(body, "\n", 2)[0]); m != nil {
			sec.number, _ = strconv.Atoi(m[1])
			sec.title = strings.TrimSpace(m[2])
		}
		sections = append(sections, sec)
	}

	blanks := 0
	for _, raw := range lines {
		if strings.Contains(raw, "\f") {
			page += strings.Count(raw, "\f")
			blanks = 0
			continue
		}
		line := strings.TrimRight(raw, " ")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			blanks++
			cur = append(cur, line)
			continue
		}
		if isMajorSectionStart(line) || blanks >= 2 {
			flush()
			curPage = page
		}
		blanks = 0
		cur = append(cur, line)
	}
	flush()
	return sections
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
