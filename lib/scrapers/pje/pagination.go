package pje

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// pagination carries the state the detail page exposes for advancing
// through result pages. Every advance depends on the view-state token
// produced by the previous response, so page fetches are strictly
// sequential.
type pagination struct {
	totalPages    int
	pageField     string
	formId        string
	ajaxContainer string
	viewState     string
}

// discoverPagination works out the total page count and the form
// plumbing needed to advance pages. Total pages come from the
// result-count caption (ceiling division by the fixed page size); a
// slider control's right endpoint overrides that when present. Neither
// being present means a single page, never an error.
func discoverPagination(doc *goquery.Document) pagination {
	state := pagination{totalPages: 1}

	caption := doc.Find("span.pull-right.text-muted").First().Text()
	if groups := resultCountPattern.FindStringSubmatch(caption); len(groups) >= 2 {
		total, err := strconv.Atoi(groups[1])
		if err == nil {
			state.totalPages = (total + pageSize - 1) / pageSize
		}
	}

	slider := doc.Find("table.rich-inslider").First()
	if slider.Length() > 0 {
		state.pageField = slider.AttrOr("id", "")

		form := slider.Closest("form")
		if form.Length() > 0 {
			state.formId = form.AttrOr("id", "")
			action := form.AttrOr("action", "")
			if groups := ajaxContainerPattern.FindStringSubmatch(action); len(groups) >= 2 {
				state.ajaxContainer = groups[1]
			}
		}

		rightNum := strings.TrimSpace(slider.Find("td.rich-inslider-right-num").First().Text())
		if explicit, err := strconv.Atoi(rightNum); err == nil {
			state.totalPages = explicit
		}
	}

	state.viewState = ViewState(doc)
	return state
}

// paginate gathers every result page of the detail view, first page
// included, in page order. A page whose request fails is skipped so a
// partial record still comes out of a flaky portal.
func (c *Client) paginate(ctx context.Context, detailUrl string, firstPage []byte) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:paginate")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(firstPage))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse detail page")
		return nil, err
	}

	pages := []string{string(firstPage)}
	state := discoverPagination(doc)
	span.SetAttributes(attribute.Int("total_pages", state.totalPages))
	slog.InfoContext(
		ctx, "pagination discovered",
		"total_pages", state.totalPages,
		"page_field", state.pageField,
		"form_id", state.formId,
	)

	if state.totalPages <= 1 || state.pageField == "" || state.formId == "" {
		return pages, nil
	}

	for page := 2; page <= state.totalPages; page++ {
		body, err := c.fetchPage(ctx, detailUrl, doc, &state, page)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch page, skipping", "page", page, "err", err)
			span.AddEvent("page skipped", trace.WithAttributes(attribute.Int("page", page)))
			continue
		}
		pages = append(pages, body)

		doc, err = goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse page, skipping", "page", page, "err", err)
			continue
		}
		// a page that yields no fresh token keeps the previous one
		if token := ViewState(doc); token != "" {
			state.viewState = token
		}
	}

	return pages, nil
}

// fetchPage advances the portal to the given page index and returns
// its body. Partial update fragments are reconciled by pulling the
// refreshed token out of the fragment and re-issuing the page as a
// plain GET.
func (c *Client) fetchPage(ctx context.Context, detailUrl string, current *goquery.Document, state *pagination, page int) (string, error) {
	payload := map[string]string{}
	current.Find("input[type='hidden']").Each(func(_ int, input *goquery.Selection) {
		name, hasName := input.Attr("name")
		value, hasValue := input.Attr("value")
		if hasName && hasValue {
			payload[name] = value
		}
	})

	container := state.ajaxContainer
	if container == "" {
		container = defaultAjaxContainer
	}
	token := state.viewState
	if token == "" {
		token = payload["javax.faces.ViewState"]
	}
	if token == "" {
		token = "j_id5"
	}

	payload["AJAXREQUEST"] = container
	payload["javax.faces.ViewState"] = token
	payload[state.formId] = state.formId
	payload[state.pageField] = strconv.Itoa(page)
	payload["autoScroll"] = ""
	payload["AJAX:EVENTS_COUNT"] = "1"

	postUrl := detailUrl
	action := current.Find("form[id='"+state.formId+"']").AttrOr("action", "")
	if groups := actionUrlPattern.FindStringSubmatch(action); len(groups) >= 2 {
		postUrl = c.BaseUrl.String() + groups[1]
	}
	if !strings.Contains(postUrl, "DetalheProcessoConsultaPublica") {
		postUrl = c.BaseUrl.String() + paginationFallbackPath
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(payload).
		SetHeader("referer", detailUrl).
		SetHeader("x-requested-with", "XMLHttpRequest").
		SetHeader("accept", "application/xml, text/xml, */*; q=0.01").
		SetHeader("faces-request", "partial/ajax").
		Post(postUrl)
	if err != nil {
		return "", err
	}

	body := string(res.Body())
	if !strings.HasPrefix(body, "<?xml") {
		return body, nil
	}

	// partial update fragment: recover the token, then re-request the
	// page as a full document
	if token := viewStateFromFragment(body); token != "" {
		state.viewState = token
	}
	slog.DebugContext(ctx, "reconciling partial update fragment", "page", page)

	pageUrl := detailUrl
	if i := strings.Index(pageUrl, "?"); i >= 0 {
		pageUrl = pageUrl[:i]
	}
	res, err = c.Http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("javax.faces.ViewState", state.viewState).
		Get(pageUrl)
	if err != nil {
		return "", err
	}
	return string(res.Body()), nil
}
