package pje

import (
	"pjeconsulta-backend/lib/htmlutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractorOptions names the portal element identifiers the extractor
// anchors on. They are configuration rather than literals so the
// extractor can run against synthetic fixtures.
type ExtractorOptions struct {
	ClaimantTableId   string
	RespondentTableId string
	MovementTableMark string
	DocEndpointMarker string
}

func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{
		ClaimantTableId:   "j_id134:processoPartesPoloAtivoResumidoList",
		RespondentTableId: "j_id134:processoPartesPoloPassivoResumidoList",
		MovementTableMark: "processoEvento",
		DocEndpointMarker: docEndpointMarker,
	}
}

// header labels the portal renders -> ProcessRecord fields
const (
	labelNumber           = "Número Processo"
	labelDistributedAt    = "Data da Distribuição"
	labelJudicialClass    = "Classe Judicial"
	labelSubject          = "Assunto"
	labelJurisdiction     = "Jurisdição"
	labelAdjudicatingBody = "Órgão Julgador"
)

// ExtractRecord turns the concatenation of every gathered result page
// into a ProcessRecord. It must run on the full concatenation: header
// fields keep the first occurrence across pages and movement dedup is
// global.
func ExtractRecord(html string, opts ExtractorOptions) (*ProcessRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	props := headerProperties(doc)
	return &ProcessRecord{
		Number:           props[labelNumber],
		DistributedAt:    props[labelDistributedAt],
		JudicialClass:    props[labelJudicialClass],
		Subject:          props[labelSubject],
		Jurisdiction:     props[labelJurisdiction],
		AdjudicatingBody: props[labelAdjudicatingBody],
		Claimants:        parseParties(doc, opts.ClaimantTableId),
		Respondents:      parseParties(doc, opts.RespondentTableId),
		Movements:        parseMovements(doc, opts),
	}, nil
}

// headerProperties maps label -> value over the .propertyView blocks,
// keeping only the first value seen per distinct label.
func headerProperties(doc *goquery.Document) map[string]string {
	props := map[string]string{}
	doc.Find(".propertyView").Each(func(_ int, pv *goquery.Selection) {
		name := pv.Find(".name, .name label").First()
		value := pv.Find(".value").First()
		if name.Length() == 0 || value.Length() == 0 {
			return
		}
		label := htmlutil.CleanText(name.Text())
		if label == "" {
			return
		}
		if _, seen := props[label]; seen {
			return
		}
		props[label] = htmlutil.CleanText(value.Text())
	})
	return props
}

// dataBody returns the tbody holding data rows rather than headers.
// The portal gives it an id ending in ":tb"; failing that, the first
// tbody without a subheader row is taken.
func dataBody(table *goquery.Selection) *goquery.Selection {
	byId := table.Find("tbody[id$=':tb']").First()
	if byId.Length() > 0 {
		return byId
	}
	var found *goquery.Selection
	table.Find("tbody").EachWithBreak(func(_ int, tbody *goquery.Selection) bool {
		if tbody.Find("tr[class*='subheader']").Length() == 0 {
			found = tbody
			return false
		}
		return true
	})
	if found != nil {
		return found
	}
	return table.Find("tbody").First()
}

func parseParties(doc *goquery.Document, tableId string) []Party {
	table := doc.Find("table[id='" + tableId + "']").First()
	if table.Length() == 0 {
		return nil
	}
	tbody := dataBody(table)
	if tbody.Length() == 0 {
		return nil
	}

	var parties []Party
	tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if strings.Contains(tr.AttrOr("class", ""), "subheader") {
			return
		}
		cell := tr.Find("td").First()
		if cell.Length() == 0 {
			return
		}

		block := htmlutil.CleanText(cell.Text())
		if block == "" {
			return
		}
		lower := strings.ToLower(block)
		if strings.HasPrefix(lower, "participante") && strings.Contains(lower, "situação") {
			return
		}
		if bold := cell.Find("span.text-bold").First(); bold.Length() > 0 {
			block = htmlutil.CleanText(bold.Text())
		}

		party := parsePartyLine(block)
		if party.Name == "" || strings.HasPrefix(strings.ToLower(party.Name), "participante") {
			return
		}
		parties = append(parties, party)
	})
	return parties
}

// ordered matcher chain over the heterogeneous party line formats: the
// first matcher to succeed wins.
var partyMatchers = []func(string) (Party, bool){
	matchPartyGrammar,
	matchPartyLoose,
}

func parsePartyLine(block string) Party {
	for _, match := range partyMatchers {
		if party, ok := match(block); ok {
			return party
		}
	}
	return Party{}
}

// matchPartyGrammar applies the primary line grammar:
// name [- registration-code] [- document-id] (role)
func matchPartyGrammar(block string) (Party, bool) {
	groups := partyLinePattern.FindStringSubmatch(block)
	if groups == nil {
		return Party{}, false
	}
	return Party{
		Name:     htmlutil.CleanText(groups[1]),
		Document: htmlutil.CleanText(groups[2]),
		Role:     htmlutil.CleanText(groups[3]),
	}, true
}

// matchPartyLoose independently locates a document id and a trailing
// parenthetical role, then takes the name as whatever remains once
// both fragments are stripped. It always succeeds.
func matchPartyLoose(block string) (Party, bool) {
	document := ""
	if groups := documentIdPattern.FindStringSubmatch(block); groups != nil {
		document = htmlutil.CleanText(groups[1])
	}
	role := ""
	if groups := trailingRolePattern.FindStringSubmatch(block); groups != nil {
		role = htmlutil.CleanText(groups[1])
	}
	name := documentTailPattern.ReplaceAllString(block, "")
	name = parentheticalTailPattern.ReplaceAllString(name, "")
	return Party{
		Name:     htmlutil.CleanText(name),
		Document: document,
		Role:     role,
	}, true
}

type movementKey struct {
	timestamp   string
	description string
	documents   string
}

// parseMovements scans every timeline table across the concatenated
// buffer and deduplicates rows globally by the
// (timestamp, description, documents) triple, first occurrence kept.
func parseMovements(doc *goquery.Document, opts ExtractorOptions) []MovementEvent {
	var movements []MovementEvent
	seen := map[movementKey]bool{}

	doc.Find("table[id*='" + opts.MovementTableMark + "']").Each(func(_ int, table *goquery.Selection) {
		tbody := table.Find("tbody").First()
		if tbody.Length() == 0 {
			return
		}
		tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() == 0 {
				return
			}

			col := htmlutil.CleanText(cells.First().Text())
			timestamp, description := "", col
			if i := strings.Index(col, " - "); i >= 0 {
				timestamp = htmlutil.CleanText(col[:i])
				description = htmlutil.CleanText(col[i+3:])
			}

			documents := ""
			if cells.Length() > 1 {
				documents = extractDocLinks(cells.Eq(1), opts.DocEndpointMarker)
			}

			key := movementKey{timestamp, description, documents}
			if seen[key] {
				return
			}
			seen[key] = true
			movements = append(movements, MovementEvent{
				Timestamp:   timestamp,
				Description: description,
				Documents:   documents,
			})
		})
	})
	return movements
}

// extractDocLinks collects document urls from a timeline cell, reading
// both anchor hrefs and openPopUp onclick handlers. Only urls carrying
// the document endpoint marker qualify; they are normalized and
// deduplicated within the cell. A cell without qualifying links falls
// back to its plain text.
func extractDocLinks(cell *goquery.Selection, endpointMarker string) string {
	var links []string
	seen := map[string]bool{}

	keep := func(raw string) {
		link := htmlutil.NormalizeUrl(raw)
		if link == "" || !strings.Contains(link, endpointMarker) || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	}

	cell.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		href := strings.TrimSpace(anchor.AttrOr("href", ""))
		if href != "" && href != "#" {
			keep(href)
		}
		onclick := anchor.AttrOr("onclick", "")
		if groups := onclickPopupPattern.FindStringSubmatch(onclick); groups != nil {
			keep(groups[1])
		}
	})

	if len(links) == 0 {
		return htmlutil.CleanText(cell.Text())
	}
	return strings.Join(links, "; ")
}
