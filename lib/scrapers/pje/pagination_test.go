package pje

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestDiscoverPaginationFromCaption(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<span class="pull-right text-muted">45 resultados</span>
	</body></html>`)

	state := discoverPagination(doc)
	require.Equal(t, 3, state.totalPages)
}

func TestDiscoverPaginationCaptionCeiling(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<span class="pull-right text-muted">16 resultados</span>
	</body></html>`)
	require.Equal(t, 2, discoverPagination(doc).totalPages)
}

func TestDiscoverPaginationSliderOverridesCaption(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<span class="pull-right text-muted">45 resultados</span>
		<form id="j_id134" action="/x.seam?cid=1#{'actionUrl':'/pje/ConsultaPublica/DetalheProcessoConsultaPublica/listView.seam','containerId':'j_id134:j_id458'}">
			<input type="hidden" name="javax.faces.ViewState" value="vs1" />
			<table class="rich-inslider" id="j_id134:scroller">
				<tr>
					<td class="rich-inslider-left-num">1</td>
					<td class="rich-inslider-right-num">5</td>
				</tr>
			</table>
		</form>
	</body></html>`)

	state := discoverPagination(doc)
	require.Equal(t, 5, state.totalPages)
	require.Equal(t, "j_id134:scroller", state.pageField)
	require.Equal(t, "j_id134", state.formId)
	require.Equal(t, "j_id134:j_id458", state.ajaxContainer)
	require.Equal(t, "vs1", state.viewState)
}

func TestDiscoverPaginationDefaultsToSinglePage(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>nothing here</p></body></html>`)
	require.Equal(t, 1, discoverPagination(doc).totalPages)
}

func pagedDetailPage(totalPages int) string {
	return fmt.Sprintf(`<html><body>
		<span class="pull-right text-muted">45 resultados</span>
		<form id="j_id134" action="/x.seam?cid=1#{'actionUrl':'/pje/ConsultaPublica/DetalheProcessoConsultaPublica/listView.seam','containerId':'j_id134:j_id458'}">
			<input type="hidden" name="javax.faces.ViewState" value="vs1" />
			<table class="rich-inslider" id="j_id134:scroller">
				<tr>
					<td class="rich-inslider-left-num">1</td>
					<td class="rich-inslider-right-num">%d</td>
				</tr>
			</table>
		</form>
	</body></html>`, totalPages)
}

func followUpPage(page int, viewState string) string {
	return fmt.Sprintf(`<html><body>
		<span class="currentPage">%d</span>
		<input type="hidden" name="javax.faces.ViewState" value="%s" />
	</body></html>`, page, viewState)
}

func TestPaginateIssuesOneRequestPerRemainingPage(t *testing.T) {
	var posts []string
	mux := http.NewServeMux()
	mux.HandleFunc(paginationFallbackPath, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "j_id134", r.FormValue("j_id134"))
		require.NotEmpty(t, r.FormValue("javax.faces.ViewState"))

		page := r.FormValue("j_id134:scroller")
		posts = append(posts, page)
		fmt.Fprint(w, followUpPage(len(posts)+1, "vs"+page))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	detailUrl := server.URL + paginationFallbackPath + "?ca=abc"
	pages, err := client.paginate(context.Background(), detailUrl, []byte(pagedDetailPage(3)))
	require.NoError(t, err)

	require.Equal(t, []string{"2", "3"}, posts)
	require.Len(t, pages, 3)
	require.Contains(t, pages[1], `class="currentPage">2`)
	require.Contains(t, pages[2], `class="currentPage">3`)
}

func TestPaginateReconcilesPartialUpdateFragment(t *testing.T) {
	fragment := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<partial-response><update id="javax.faces.ViewState"><![CDATA[vs-fresh]]></update></partial-response>`

	var gets int
	mux := http.NewServeMux()
	mux.HandleFunc(paginationFallbackPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprint(w, fragment)
			return
		}
		gets++
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "vs-fresh", r.URL.Query().Get("javax.faces.ViewState"))
		fmt.Fprint(w, followUpPage(2, "vs2"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	detailUrl := server.URL + paginationFallbackPath + "?ca=abc"
	pages, err := client.paginate(context.Background(), detailUrl, []byte(pagedDetailPage(2)))
	require.NoError(t, err)

	require.Equal(t, 1, gets)
	require.Len(t, pages, 2)
	require.Contains(t, pages[1], `class="currentPage">2`)
}

func TestPaginateSkipsFailedPages(t *testing.T) {
	var posts int
	mux := http.NewServeMux()
	mux.HandleFunc(paginationFallbackPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		posts++
		if r.FormValue("j_id134:scroller") == "2" {
			// kill the connection mid-flight to simulate a transport error
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		fmt.Fprint(w, followUpPage(3, "vs3"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	detailUrl := server.URL + paginationFallbackPath
	pages, err := client.paginate(context.Background(), detailUrl, []byte(pagedDetailPage(3)))
	require.NoError(t, err)

	// page 2 is skipped, pagination still terminates after T-1 requests
	require.Equal(t, 2, posts)
	require.Len(t, pages, 2)
	require.Contains(t, pages[1], `class="currentPage">3`)
}
