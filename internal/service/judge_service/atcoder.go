package judge_service

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

const defaultAtCoderBaseURL = "https://atcoder.jp"

// AtCoderScraper normalizes AtCoder task pages. Task codes are
// composite: "abc100_a" targets task "a" of contest "abc100".
type AtCoderScraper struct {
	BaseURL string
	Fetcher Fetcher

	logger *logrus.Entry
}

func NewAtCoderScraper(baseURL string, fetcher Fetcher) *AtCoderScraper {
	if fetcher == nil {
		panic("atcoder scraper expects non-nil fetcher")
	}
	if baseURL == "" {
		baseURL = defaultAtCoderBaseURL
	}
	return &AtCoderScraper{
		BaseURL: baseURL,
		Fetcher: fetcher,
		logger:  logrus.WithField("from", "atcoder-scraper"),
	}
}

// SplitAtCoderCode resolves the owning contest of a composite task
// code: everything before the first underscore.
func SplitAtCoderCode(code string) (contestID string, err error) {
	contestID, _, found := strings.Cut(code, "_")
	if !found || contestID == "" {
		return "", fmt.Errorf(
			"%w, atcoder code %q must look like <contest>_<task>",
			xjudge_errors.ErrInvalidRequest,
			code,
		)
	}
	return contestID, nil
}

func (s *AtCoderScraper) Scrape(ctx context.Context, code string) (store.Problem, error) {
	contestID, err := SplitAtCoderCode(code)
	if err != nil {
		return store.Problem{}, err
	}

	problemLink := s.BaseURL + "/contests/" + contestID + "/tasks/" + code
	contestLink := s.BaseURL + "/contests/" + contestID

	doc, err := s.Fetcher.GetDocument(ctx, problemLink)
	if err != nil {
		return store.Problem{}, err
	}

	titleNode := doc.Find(".col-sm-12 .h2").First()
	if titleNode.Length() == 0 {
		s.logger.Warnf("no title node on atcoder task page for code %s", code)
		return store.Problem{}, fmt.Errorf(
			"%w, problem %s not found on atcoder",
			xjudge_errors.ErrNotFound,
			code,
		)
	}
	// own text is "A - Some Title"; drop the task-letter prefix
	title := ownText(titleNode)
	if _, rest, found := strings.Cut(title, " - "); found {
		title = rest
	}

	properties, err := s.extractLimits(doc, code)
	if err != nil {
		return store.Problem{}, err
	}

	sections, err := s.extractSections(doc, code)
	if err != nil {
		return store.Problem{}, err
	}

	return store.Problem{
		Judge:            store.JudgeAtCoder,
		Code:             code,
		Title:            title,
		ProblemLink:      problemLink,
		ContestName:      doc.Find(".contest-title").Text(),
		ContestLink:      contestLink,
		DescriptionRoute: descriptionRoute(store.JudgeAtCoder, code),
		PrependHTML:      atcoderPrependHTML,
		Sections:         sections,
		Properties:       properties,
	}, nil
}

// extractLimits parses "Time Limit: 2 sec / Memory Limit: 1024 MB".
func (s *AtCoderScraper) extractLimits(doc *goquery.Document, code string) ([]store.Property, error) {
	limits := doc.Find(".col-sm-12").Eq(1).Find("p").First().Text()
	timePart, memoryPart, found := strings.Cut(limits, "/")
	if !found {
		s.logger.Warnf("unexpected limits line %q for atcoder code %s", limits, code)
		return nil, fmt.Errorf(
			"%w, atcoder page shape changed for problem %s",
			xjudge_errors.ErrUpstreamUnavailable,
			code,
		)
	}

	timeLimit := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(timePart), "Time Limit:"))
	memoryLimit := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(memoryPart), "Memory Limit:"))

	return []store.Property{
		{Title: "Time Limit", Content: timeLimit},
		{Title: "Memory Limit", Content: memoryLimit},
	}, nil
}

// extractSections walks the english statement parts in document order.
// A "Sample Input" part and the following "Sample Output" part collapse
// into one auto-numbered sample section.
func (s *AtCoderScraper) extractSections(doc *goquery.Document, code string) ([]store.Section, error) {
	parts := doc.Find(".lang-en .part")
	if parts.Length() == 0 {
		return nil, fmt.Errorf(
			"%w, no statement sections found for atcoder problem %s",
			xjudge_errors.ErrNotFound,
			code,
		)
	}

	sections := make([]store.Section, 0, parts.Length())
	sampleCounter := 0
	for i := 0; i < parts.Length(); i++ {
		part := parts.Eq(i)
		title := part.Find("section > h3").Text()
		content := "<section>\n   " + outerHTML(part.Find("section > *:not(h3)")) + "\n</section>"

		if strings.Contains(title, "Sample Input") {
			if i+1 >= parts.Length() {
				return nil, fmt.Errorf(
					"%w, sample input without matching output for atcoder problem %s",
					xjudge_errors.ErrUpstreamUnavailable,
					code,
				)
			}
			output := parts.Eq(i + 1)
			i++

			sampleCounter++
			title = fmt.Sprintf("Sample %d", sampleCounter)
			content = buildSampleTable(
				outerHTML(part.Find("section > pre")),
				outerHTML(output.Find("section > pre")),
				outerHTML(output.Find("section > *:not(h3):not(pre)")),
			)
		}

		sections = append(sections, store.Section{
			Title: title,
			Value: store.Value{Format: "HTML", Content: content},
		})
	}

	return sections, nil
}

func descriptionRoute(judge store.JudgeType, code string) string {
	return "/description/" + string(judge) + "-" + code
}
