package pje

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// runQuery drives one full pass over the portal: landing page, search
// form, detail page, pagination. It returns the extracted record, or
// found=false when the portal reports no matching process (which is
// not an error).
func (c *Client) runQuery(ctx context.Context, processNumber string) (*ProcessRecord, bool, error) {
	ctx, span := tracer.Start(ctx, "client:runQuery")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch landing page")
		return nil, false, err
	}
	landing, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse landing page")
		return nil, false, err
	}

	viewState := ViewState(landing)
	actionTrigger := landing.
		Find("[id='"+defaultActionTrigger+"']").
		AttrOr("id", defaultActionTrigger)

	payload := map[string]string{}
	for name, value := range searchFormDefaults {
		payload[name] = value
	}
	payload[processNumberField] = processNumber
	payload["javax.faces.ViewState"] = viewState
	payload[defaultActionTrigger] = actionTrigger

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(payload).
		Post(searchPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit search form")
		return nil, false, err
	}

	body := string(res.Body())
	if !strings.Contains(body, detailMarker) {
		slog.InfoContext(ctx, "no matching process", "process", processNumber)
		return nil, false, nil
	}

	results, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse search results")
		return nil, false, err
	}

	detailUrl, err := c.detailUrl(results)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to locate detail link")
		return nil, false, err
	}
	slog.InfoContext(ctx, "following detail link", "url", detailUrl)

	res, err = c.Http.R().
		SetContext(ctx).
		Get(detailUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch detail page")
		return nil, false, err
	}

	pages, err := c.paginate(ctx, detailUrl, res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pagination failed")
		return nil, false, err
	}

	record, err := ExtractRecord(strings.Join(pages, ""), DefaultExtractorOptions())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return nil, false, err
	}
	return record, true, nil
}

// detailUrl digs the detail page url out of the onclick popup handler
// of the "Ver Detalhes" anchor.
func (c *Client) detailUrl(results *goquery.Document) (string, error) {
	onclick := results.Find("a[title='Ver Detalhes']").AttrOr("onclick", "")
	groups := detailPopupPattern.FindStringSubmatch(onclick)
	if len(groups) < 2 {
		return "", fmt.Errorf("could not find detail link in search results")
	}
	return c.BaseUrl.String() + groups[1], nil
}
