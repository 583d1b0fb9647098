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

const defaultSpojBaseURL = "https://www.spoj.com"

// SpojScraper normalizes SPOJ problem pages. SPOJ codes are flat
// ("TEST", "PRIME1"); the statement body is a single block segmented by
// h3 headings rather than pre-built parts.
type SpojScraper struct {
	BaseURL string
	Fetcher Fetcher

	logger *logrus.Entry
}

func NewSpojScraper(baseURL string, fetcher Fetcher) *SpojScraper {
	if fetcher == nil {
		panic("spoj scraper expects non-nil fetcher")
	}
	if baseURL == "" {
		baseURL = defaultSpojBaseURL
	}
	return &SpojScraper{
		BaseURL: baseURL,
		Fetcher: fetcher,
		logger:  logrus.WithField("from", "spoj-scraper"),
	}
}

func (s *SpojScraper) Scrape(ctx context.Context, code string) (store.Problem, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	problemLink := s.BaseURL + "/problems/" + code

	doc, err := s.Fetcher.GetDocument(ctx, problemLink)
	if err != nil {
		return store.Problem{}, err
	}

	// meta rows carry the limits; the Resource row doubles as the
	// contest/source name
	contestName := ""
	properties := make([]store.Property, 0)
	doc.Find("#problem-meta > tbody > tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		title := strings.TrimSpace(cells.Eq(0).Text())
		content := strings.TrimSpace(cells.Eq(1).Text())
		if strings.Contains(title, "Resource") {
			contestName = content
		}
		properties = append(properties, store.Property{Title: title, Content: content})
	})

	rawTitle := doc.Find("#problem-name").Text()
	_, title, found := strings.Cut(rawTitle, "-")
	if !found {
		s.logger.Warnf("unexpected title %q on spoj page for code %s", rawTitle, code)
		return store.Problem{}, fmt.Errorf(
			"%w, problem %s not found on spoj",
			xjudge_errors.ErrNotFound,
			code,
		)
	}
	title = strings.TrimSpace(title)

	body := doc.Find("#problem-body")
	if body.Length() == 0 {
		return store.Problem{}, fmt.Errorf(
			"%w, no statement body found for spoj problem %s",
			xjudge_errors.ErrNotFound,
			code,
		)
	}

	sections := extractSpojSections(body)

	return store.Problem{
		Judge:            store.JudgeSpoj,
		Code:             code,
		Title:            title,
		ProblemLink:      problemLink,
		ContestName:      contestName,
		ContestLink:      "",
		DescriptionRoute: descriptionRoute(store.JudgeSpoj, code),
		PrependHTML:      spojPrependHTML,
		Sections:         sections,
		Properties:       properties,
	}, nil
}

// extractSpojSections groups the statement body into sections split at
// h3 headings. Content before the first heading becomes an untitled
// section. SPOJ examples are a single combined block and are kept
// verbatim.
func extractSpojSections(body *goquery.Selection) []store.Section {
	sections := make([]store.Section, 0)

	appendSection := func(title string, content *strings.Builder) {
		if content.Len() == 0 && title == "" {
			return
		}
		sections = append(sections, store.Section{
			Title: title,
			Value: store.Value{
				Format:  "HTML",
				Content: "<section>" + content.String() + "</section>",
			},
		})
	}

	currentTitle := ""
	var currentContent strings.Builder
	started := false

	body.Children().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "h3" {
			if started {
				appendSection(currentTitle, &currentContent)
			}
			currentTitle = strings.TrimSpace(child.Text())
			currentContent.Reset()
			started = true
			return
		}
		currentContent.WriteString(outerHTML(child))
		started = true
	})
	if started {
		appendSection(currentTitle, &currentContent)
	}

	return sections
}
