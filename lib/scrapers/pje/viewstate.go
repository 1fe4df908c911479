package pje

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ViewState pulls the opaque JSF UI-state token out of a rendered
// page. An empty return is not an error: the portal tolerates a blank
// token on a fresh session, so callers just send what they got.
func ViewState(doc *goquery.Document) string {
	return doc.Find("input[name='javax.faces.ViewState']").AttrOr("value", "")
}

// viewStateFromFragment extracts the refreshed token from a partial
// update fragment. The embedded update block is preferred, a raw
// pattern match over the fragment text is the fallback. Both failing
// yields "" and the caller keeps its previous token.
func viewStateFromFragment(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err == nil {
		token := strings.TrimSpace(doc.Find("update[id='javax.faces.ViewState']").Text())
		if token != "" {
			return token
		}
	}

	groups := fragmentViewStatePattern.FindStringSubmatch(fragment)
	if len(groups) >= 2 {
		return groups[1]
	}
	return ""
}
