package pje

// Party is one row of a process party table. Rows are kept in source
// order and never deduplicated, distinct rows are distinct parties
// even when their text is identical.
type Party struct {
	Name     string `json:"nome"`
	Document string `json:"cpf_cnpj"`
	Role     string `json:"tipo"`
}

// MovementEvent is one entry of the process timeline. Timestamp is
// kept exactly as rendered by the portal. Documents carries a
// "; "-joined list of normalized document urls, or the plain cell text
// when the cell has no qualifying links.
type MovementEvent struct {
	Timestamp   string `json:"data_hora"`
	Description string `json:"descricao"`
	Documents   string `json:"documentos"`
}

// ProcessRecord is the normalized form of a public judicial process.
// Header fields take the first occurrence found across all
// concatenated result pages.
type ProcessRecord struct {
	Number           string          `json:"numero_processo"`
	DistributedAt    string          `json:"data_distribuicao"`
	JudicialClass    string          `json:"classe_judicial"`
	Subject          string          `json:"assunto"`
	Jurisdiction     string          `json:"jurisdicao"`
	AdjudicatingBody string          `json:"orgao_julgador"`
	Claimants        []Party         `json:"polo_ativo"`
	Respondents      []Party         `json:"polo_passivo"`
	Movements        []MovementEvent `json:"movimentacoes"`
}

// Telemetry is owned by the retry loop of a single query. It is
// mutated across attempts and attached to the outcome once, then
// discarded. SolvedChallenges and BytesSent are reserved for parity
// with sibling court scrapers and are not updated by this one.
type Telemetry struct {
	Attempts         int     `json:"tentativas"`
	SolvedChallenges int     `json:"captchas_resolvidos"`
	BytesSent        int     `json:"bytes_enviados"`
	TotalSeconds     float64 `json:"tempo_total"`
}

const (
	CodeSuccess             = 0
	CodeRetryBudgetExceeded = 3
	CodeTransportError      = 4
)

const (
	MessageFound         = "Processo encontrado"
	MessageNotFound      = "Nenhum processo encontrado"
	MessageInternalError = "ERRO_SERVIDOR_INTERNO"
)

// QueryOutcome is what a query resolves to on every path, success or
// failure. Code 0 covers both "found" and "legitimately not found",
// the message distinguishes the two. Code 3 means the retry budget was
// exhausted, code 4 an unrecoverable transport or processing error.
type QueryOutcome struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Datetime  string          `json:"datetime"`
	Results   []ProcessRecord `json:"results,omitempty"`
	Telemetry Telemetry       `json:"telemetria"`
}
