package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"pjeconsulta-backend/lib/restyutil"
	"pjeconsulta-backend/lib/scrapers/pje"
	"pjeconsulta-backend/lib/telemetry"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var verbose bool
var asJson bool
var baseUrl string
var timeoutSeconds int

var rootCmd = &cobra.Command{
	Use:   "consulta-cli <processo>",
	Short: "Queries the TJMG public consultation portal for one judicial process.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)
		if verbose {
			pje.SetRestyInstrumentOutput(
				restyutil.NewFilesystemOutput(".dev/resty/pje"),
			)
		}

		tel := &pje.Telemetry{Attempts: 1}
		outcome := pje.Fetch(cmd.Context(), args[0], tel, pje.FetchOptions{
			BaseUrl: baseUrl,
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		})

		if asJson {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(outcome)
		}

		fmt.Printf("%s (code %d, %d attempt(s), %.2fs)\n\n",
			outcome.Message, outcome.Code,
			outcome.Telemetry.Attempts, outcome.Telemetry.TotalSeconds,
		)
		for _, record := range outcome.Results {
			renderRecord(record)
		}
		if outcome.Code != pje.CodeSuccess {
			return fmt.Errorf("query failed with code %d", outcome.Code)
		}
		return nil
	},
}

func renderRecord(record pje.ProcessRecord) {
	header := newTable()
	header.AppendRows([]table.Row{
		{"Número Processo", record.Number},
		{"Data da Distribuição", record.DistributedAt},
		{"Classe Judicial", record.JudicialClass},
		{"Assunto", record.Subject},
		{"Jurisdição", record.Jurisdiction},
		{"Órgão Julgador", record.AdjudicatingBody},
	})
	header.Render()

	parties := newTable()
	parties.AppendHeader(table.Row{"Polo", "Nome", "CPF/CNPJ", "Tipo"})
	for _, p := range record.Claimants {
		parties.AppendRow(table.Row{"Ativo", p.Name, p.Document, p.Role})
	}
	for _, p := range record.Respondents {
		parties.AppendRow(table.Row{"Passivo", p.Name, p.Document, p.Role})
	}
	parties.Render()

	movements := newTable()
	movements.AppendHeader(table.Row{"Data/Hora", "Descrição", "Documentos"})
	for _, m := range record.Movements {
		movements.AppendRow(table.Row{m.Timestamp, m.Description, m.Documents})
	}
	movements.Render()
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func Execute(ctx context.Context) error {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and raw http dumps")
	rootCmd.PersistentFlags().BoolVar(&asJson, "json", false, "print the raw outcome as json")
	rootCmd.PersistentFlags().StringVar(&baseUrl, "base-url", "", "override the portal base url")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0, "per-request timeout in seconds")
	return rootCmd.ExecuteContext(ctx)
}
