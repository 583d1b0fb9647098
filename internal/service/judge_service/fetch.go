package judge_service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

const defaultFetchTimeout = 15 * time.Second

// HTTPFetcher fetches remote judge pages with a bounded timeout. A
// timeout or transport failure is an upstream problem, never a partial
// document.
type HTTPFetcher struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:  http.DefaultClient,
		Timeout: defaultFetchTimeout,
	}
}

// NewSessionFetcher returns a fetcher whose client keeps cookies
// between calls. Submitters need it: the judges tie csrf tokens and
// logins to the session cookie.
func NewSessionFetcher() *HTTPFetcher {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic("cannot create cookie jar: " + err.Error())
	}
	return &HTTPFetcher{
		Client:  &http.Client{Jar: jar},
		Timeout: defaultFetchTimeout,
	}
}

func (f *HTTPFetcher) GetDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		err = fmt.Errorf(
			"%w, failed to create http request for %s: %w",
			xjudge_errors.ErrInternal,
			pageURL,
			err,
		)
		log.Error(err)
		return nil, err
	}

	res, err := f.client().Do(req)
	if err != nil {
		err = fmt.Errorf(
			"%w, failed to get response from %s: %w",
			xjudge_errors.ErrUpstreamUnavailable,
			pageURL,
			err,
		)
		log.Error(err)
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		// a judge-side failure is not the same as a missing page
		sentinel := xjudge_errors.ErrNotFound
		if res.StatusCode >= http.StatusInternalServerError {
			sentinel = xjudge_errors.ErrUpstreamUnavailable
		}
		err = fmt.Errorf(
			"%w, %s responded with status %d",
			sentinel,
			pageURL,
			res.StatusCode,
		)
		log.Warn(err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot parse document from %s: %w",
			xjudge_errors.ErrUpstreamUnavailable,
			pageURL,
			err,
		)
		log.Error(err)
		return nil, err
	}

	return doc, nil
}

// PostForm posts judge-specific form values and parses the response
// body as a document, used by the submission adapters.
func (f *HTTPFetcher) PostForm(
	ctx context.Context,
	pageURL string,
	form url.Values,
) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout())
	defer cancel()

	res, err := postFormWithContext(ctx, f.client(), pageURL, form)
	if err != nil {
		err = fmt.Errorf(
			"%w, failed to post form to %s: %w",
			xjudge_errors.ErrUpstreamUnavailable,
			pageURL,
			err,
		)
		log.Error(err)
		return nil, err
	}
	defer res.Body.Close()

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot parse response from %s: %w",
			xjudge_errors.ErrUpstreamUnavailable,
			pageURL,
			err,
		)
		log.Error(err)
		return nil, err
	}
	return doc, nil
}

func (f *HTTPFetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

func (f *HTTPFetcher) timeout() time.Duration {
	if f.Timeout <= 0 {
		return defaultFetchTimeout
	}
	return f.Timeout
}

func postFormWithContext(
	ctx context.Context,
	client *http.Client,
	pageURL string,
	form url.Values,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		pageURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return client.Do(req)
}
