package judge_service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

const defaultCodeforcesBaseURL = "https://codeforces.com"

// CodeforcesScraper normalizes Codeforces problemset pages. Codes are
// composite: "1820A" targets problem index "A" of contest 1820.
type CodeforcesScraper struct {
	BaseURL string
	Fetcher Fetcher

	logger *logrus.Entry
}

func NewCodeforcesScraper(baseURL string, fetcher Fetcher) *CodeforcesScraper {
	if fetcher == nil {
		panic("codeforces scraper expects non-nil fetcher")
	}
	if baseURL == "" {
		baseURL = defaultCodeforcesBaseURL
	}
	return &CodeforcesScraper{
		BaseURL: baseURL,
		Fetcher: fetcher,
		logger:  logrus.WithField("from", "codeforces-scraper"),
	}
}

// SplitCodeforcesCode cuts "1820A1" into contest id "1820" and problem
// index "A1".
func SplitCodeforcesCode(code string) (contestID, problemIndex string, err error) {
	cut := len(code)
	for i, r := range code {
		if !unicode.IsDigit(r) {
			cut = i
			break
		}
	}
	contestID, problemIndex = code[:cut], code[cut:]
	if contestID == "" || problemIndex == "" {
		return "", "", fmt.Errorf(
			"%w, codeforces code %q must look like <contest><index>, e.g. 1820A",
			xjudge_errors.ErrInvalidRequest,
			code,
		)
	}
	return contestID, problemIndex, nil
}

func (s *CodeforcesScraper) Scrape(ctx context.Context, code string) (store.Problem, error) {
	contestID, problemIndex, err := SplitCodeforcesCode(code)
	if err != nil {
		return store.Problem{}, err
	}

	problemLink := s.BaseURL + "/problemset/problem/" + contestID + "/" + problemIndex
	contestLink := s.BaseURL + "/contest/" + contestID

	doc, err := s.Fetcher.GetDocument(ctx, problemLink)
	if err != nil {
		return store.Problem{}, err
	}

	statement := doc.Find(".problem-statement")
	if statement.Length() == 0 {
		s.logger.Warnf("no problem statement on codeforces page for code %s", code)
		return store.Problem{}, fmt.Errorf(
			"%w, problem %s not found on codeforces",
			xjudge_errors.ErrNotFound,
			code,
		)
	}

	// title is "A. Some Title"; drop the index prefix
	title := strings.TrimSpace(statement.Find(".header .title").First().Text())
	if _, rest, found := strings.Cut(title, ". "); found {
		title = rest
	}

	properties := extractCodeforcesProperties(statement)
	sections := extractCodeforcesSections(statement)

	return store.Problem{
		Judge:            store.JudgeCodeforces,
		Code:             code,
		Title:            title,
		ProblemLink:      problemLink,
		ContestName:      strings.TrimSpace(doc.Find(".rtable th.left a").First().Text()),
		ContestLink:      contestLink,
		DescriptionRoute: descriptionRoute(store.JudgeCodeforces, code),
		PrependHTML:      codeforcesPrependHTML,
		Sections:         sections,
		Properties:       properties,
	}, nil
}

// extractCodeforcesProperties reads the limit rows of the statement
// header. Each row is "<div class='property-title'>label</div>value".
func extractCodeforcesProperties(statement *goquery.Selection) []store.Property {
	properties := make([]store.Property, 0, 4)
	appendProperty := func(selector, title string) {
		node := statement.Find(selector).First()
		if node.Length() == 0 {
			return
		}
		value := strings.TrimSpace(ownText(node))
		if value == "" {
			value = strings.TrimSpace(strings.TrimPrefix(
				strings.TrimSpace(node.Text()),
				node.Find(".property-title").Text(),
			))
		}
		properties = append(properties, store.Property{Title: title, Content: value})
	}

	appendProperty(".time-limit", "Time Limit")
	appendProperty(".memory-limit", "Memory Limit")
	appendProperty(".input-file", "Input File")
	appendProperty(".output-file", "Output File")
	return properties
}

// extractCodeforcesSections walks the statement blocks in document
// order. The sample-tests block expands into one auto-numbered sample
// section per input/output pair.
func extractCodeforcesSections(statement *goquery.Selection) []store.Section {
	sections := make([]store.Section, 0)

	appendHTMLSection := func(title string, sel *goquery.Selection) {
		sections = append(sections, store.Section{
			Title: title,
			Value: store.Value{
				Format:  "HTML",
				Content: "<section>" + outerHTML(sel.Children().Not(".section-title")) + "</section>",
			},
		})
	}

	statement.Children().Each(func(i int, block *goquery.Selection) {
		switch {
		case block.HasClass("header"):
			// consumed by title/property extraction
		case block.HasClass("sample-tests"):
			inputs := block.Find(".sample-test .input pre")
			outputs := block.Find(".sample-test .output pre")
			pairs := inputs.Length()
			if outputs.Length() < pairs {
				pairs = outputs.Length()
			}
			for sample := 0; sample < pairs; sample++ {
				sections = append(sections, store.Section{
					Title: fmt.Sprintf("Sample %d", sample+1),
					Value: store.Value{
						Format: "HTML",
						Content: buildSampleTable(
							outerHTML(inputs.Eq(sample)),
							outerHTML(outputs.Eq(sample)),
							"",
						),
					},
				})
			}
		default:
			title := strings.TrimSpace(block.Find(".section-title").First().Text())
			if title == "" {
				title = "Statement"
			}
			appendHTMLSection(title, block)
		}
	})

	return sections
}
