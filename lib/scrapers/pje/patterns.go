package pje

import "regexp"

// Wire-level constants of the TJMG public consultation portal. These
// must match the remote application bit for bit to interoperate, they
// are not tunable.
const (
	DefaultBaseUrl = "https://pje-consulta-publica.tjmg.jus.br"

	searchPath             = "/pje/ConsultaPublica/listView.seam"
	paginationFallbackPath = "/pje/ConsultaPublica/DetalheProcessoConsultaPublica/listView.seam"

	// marker present in the search response only when the process exists
	detailMarker = "Ver detalhes do processo"

	// only links to this endpoint count as process documents
	docEndpointMarker = "documentoSemLoginHTML.seam"

	// the JSF component id that triggers the search action. the landing
	// page is probed for it, but the id has been stable for years.
	defaultActionTrigger = "fPP:j_id236"

	// ajax container used for page-advance posts when the detail page
	// form does not declare one
	defaultAjaxContainer = "j_id134:j_id458"

	processNumberField = "fPP:numProcesso-inputNumeroProcessoDecoration:numProcesso-inputNumeroProcesso"

	// the portal renders 15 movements per result page
	pageSize = 15
)

// auxiliary fields the search form posts even when empty. the portal
// rejects submissions missing any of them.
var searchFormDefaults = map[string]string{
	"AJAXREQUEST":                                "_viewRoot",
	"_viewRoot":                                  "",
	"inputNumeroProcesso":                        "",
	"mascaraProcessoReferenciaRadio":             "on",
	"fPP:j_id150:processoReferenciaInput":        "",
	"fPP:dnp:nomeParte":                          "",
	"fPP:j_id168:nomeSocial":                     "",
	"fPP:j_id177:alcunha":                        "",
	"fPP:j_id186:nomeAdv":                        "",
	"fPP:j_id195:classeProcessualProcessoHidden": "",
	"tipoMascaraDocumento":                       "on",
	"fPP:dpDec:documentoParte":                   "",
	"fPP:Decoration:numeroOAB":                   "",
	"fPP:Decoration:j_id230":                     "",
	"fPP:Decoration:estadoComboOAB":              "org.jboss.seam.ui.NoSelectionConverter.noSelectionValue",
	"fPP":                                        "fPP",
	"autoScroll":                                 "",
	"AJAX:EVENTS_COUNT":                          "1",
}

// canonical process number of this court:
// 7 digits - 2 digits . 4 digits . 8 . 13 . 4 digits
var canonicalProcessNumber = regexp.MustCompile(`^\d{7}-\d{2}\.\d{4}\.8\.13\.\d{4}$`)

var nonDigits = regexp.MustCompile(`\D`)

var documentIdPattern = regexp.MustCompile(`(?i)(?:CPF|CNPJ)\s*:\s*([\d\./-]+)`)

// primary party line grammar:
// name [- OAB XXnnnnn] [- CPF/CNPJ: doc] (role)
var partyLinePattern = regexp.MustCompile(
	`(?i)^\s*(.+?)(?:\s*-\s*OAB\s+[A-Z]{2}\d+\s*)?(?:-\s*(?:CPF|CNPJ)\s*:\s*([\d\./-]+))?\s*\(\s*([^)]+?)\s*\)\s*$`,
)

// fallback fragments used when the primary grammar does not match
var trailingRolePattern = regexp.MustCompile(`\(([^()]*)\)\s*$`)
var documentTailPattern = regexp.MustCompile(`(?i)-\s*(?:CPF|CNPJ).*`)
var parentheticalTailPattern = regexp.MustCompile(`\(.*?\)\s*$`)

var onclickPopupPattern = regexp.MustCompile(`(?i)openPopUp\([^,]+,\s*'([^']+)'\)`)
var detailPopupPattern = regexp.MustCompile(`openPopUp\('Consulta pública','(.*?)'\)`)

var resultCountPattern = regexp.MustCompile(`(\d+)\s+resultados`)
var ajaxContainerPattern = regexp.MustCompile(`'containerId':'([^']+)'`)
var actionUrlPattern = regexp.MustCompile(`'actionUrl':'([^']+)'`)

// raw fallback for pulling the refreshed token out of a partial update
// fragment when it does not parse as a document
var fragmentViewStatePattern = regexp.MustCompile(`<update id="javax\.faces\.ViewState"><!\[CDATA\[([^\]]+)\]\]>`)
