package pje

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const headerFixture = `
<div class="propertyView">
	<div class="name"><label>Número Processo</label></div>
	<div class="value">1234567-01.2023.8.13.0001</div>
</div>
<div class="propertyView">
	<div class="name">Data da Distribuição</div>
	<div class="value">01/02/2023</div>
</div>
<div class="propertyView">
	<div class="name">Classe Judicial</div>
	<div class="value">Procedimento Comum Cível</div>
</div>
<div class="propertyView">
	<div class="name">Assunto</div>
	<div class="value">Indenização por Dano Material</div>
</div>
<div class="propertyView">
	<div class="name">Jurisdição</div>
	<div class="value">Belo Horizonte</div>
</div>
<div class="propertyView">
	<div class="name">Órgão Julgador</div>
	<div class="value">1ª Vara Cível da Comarca de Belo Horizonte</div>
</div>`

const partiesFixture = `
<table id="j_id134:processoPartesPoloAtivoResumidoList">
	<tbody id="j_id134:processoPartesPoloAtivoResumidoList:tb">
		<tr class="rich-table-subheader"><td>Polo Ativo</td></tr>
		<tr><td>Participante Situação</td></tr>
		<tr><td><span class="text-bold">John Doe - OAB SP12345 - CPF: 123.456.789-00 (Autor)</span></td></tr>
		<tr><td>João Souza - CPF: 999.888.777-66</td></tr>
		<tr><td>   </td></tr>
	</tbody>
</table>
<table id="j_id134:processoPartesPoloPassivoResumidoList">
	<tbody id="j_id134:processoPartesPoloPassivoResumidoList:tb">
		<tr><td>ACME LTDA - CNPJ: 12.345.678/0001-90 (Réu)</td></tr>
	</tbody>
</table>`

const movementsFixture = `
<table id="j_id134:processoEvento">
	<tbody>
		<tr>
			<td>01/02/2023 09:00 - Juntada de documento</td>
			<td>
				<a href="https://portal:443/pje/ConsultaPublica/DetalheProcessoConsultaPublica/documentoSemLoginHTML.seam?idProcessoDocumento=1">doc</a>
				<a href="#" onclick="openPopUp('documento','https://portal/pje/ConsultaPublica/DetalheProcessoConsultaPublica/documentoSemLoginHTML.seam?idProcessoDocumento=1')">popup</a>
				<a href="https://portal/pje/outroEndpoint.seam?id=9">other</a>
			</td>
		</tr>
		<tr>
			<td>Distribuído por sorteio</td>
			<td>Sem documentos</td>
		</tr>
	</tbody>
</table>`

// second result page repeating the first movement, plus a new one and
// duplicate header blocks with diverging values
const secondPageFixture = `
<div class="propertyView">
	<div class="name">Classe Judicial</div>
	<div class="value">NOT THE FIRST VALUE</div>
</div>
<table id="j_id134:processoEvento">
	<tbody>
		<tr>
			<td>01/02/2023 09:00 - Juntada de documento</td>
			<td>
				<a href="https://portal/pje/ConsultaPublica/DetalheProcessoConsultaPublica/documentoSemLoginHTML.seam?idProcessoDocumento=1">doc</a>
			</td>
		</tr>
		<tr>
			<td>03/03/2023 10:00 - Expedição de certidão</td>
			<td><a href="https://portal/pje/outroEndpoint.seam?id=10">ver certidão</a></td>
		</tr>
	</tbody>
</table>`

func TestExtractRecordHeader(t *testing.T) {
	record, err := ExtractRecord(headerFixture+secondPageFixture, DefaultExtractorOptions())
	require.NoError(t, err)

	require.Equal(t, "1234567-01.2023.8.13.0001", record.Number)
	require.Equal(t, "01/02/2023", record.DistributedAt)
	require.Equal(t, "Procedimento Comum Cível", record.JudicialClass)
	require.Equal(t, "Indenização por Dano Material", record.Subject)
	require.Equal(t, "Belo Horizonte", record.Jurisdiction)
	require.Equal(t, "1ª Vara Cível da Comarca de Belo Horizonte", record.AdjudicatingBody)
}

func TestExtractRecordHeaderFirstOccurrenceWins(t *testing.T) {
	// the duplicate "Classe Judicial" block on the second page must not
	// override the first page's value
	record, err := ExtractRecord(secondPageFixture+headerFixture, DefaultExtractorOptions())
	require.NoError(t, err)
	require.Equal(t, "NOT THE FIRST VALUE", record.JudicialClass)
}

func TestExtractRecordParties(t *testing.T) {
	record, err := ExtractRecord(partiesFixture, DefaultExtractorOptions())
	require.NoError(t, err)

	require.Equal(t, []Party{
		{
			Name:     "John Doe",
			Document: "123.456.789-00",
			Role:     "Autor",
		},
		{
			Name:     "João Souza",
			Document: "999.888.777-66",
			Role:     "",
		},
	}, record.Claimants)

	require.Equal(t, []Party{
		{
			Name:     "ACME LTDA",
			Document: "12.345.678/0001-90",
			Role:     "Réu",
		},
	}, record.Respondents)
}

func TestExtractRecordMovements(t *testing.T) {
	record, err := ExtractRecord(movementsFixture+secondPageFixture, DefaultExtractorOptions())
	require.NoError(t, err)

	want := []MovementEvent{
		{
			Timestamp:   "01/02/2023 09:00",
			Description: "Juntada de documento",
			Documents:   "https://portal/pje/ConsultaPublica/DetalheProcessoConsultaPublica/documentoSemLoginHTML.seam?idProcessoDocumento=1",
		},
		{
			Timestamp:   "",
			Description: "Distribuído por sorteio",
			Documents:   "Sem documentos",
		},
		{
			Timestamp:   "03/03/2023 10:00",
			Description: "Expedição de certidão",
			// no qualifying document link, the plain cell text is kept
			Documents: "ver certidão",
		},
	}
	if diff := cmp.Diff(want, record.Movements); diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractRecordCustomIdentifiers(t *testing.T) {
	fixture := `
<table id="autores">
	<tbody>
		<tr><td>Jane Roe (Autora)</td></tr>
	</tbody>
</table>
<table id="timelineTable">
	<tbody>
		<tr>
			<td>05/05/2024 12:00 - Sentença</td>
			<td><a href="https://portal/docHTML.seam?id=2">doc</a></td>
		</tr>
	</tbody>
</table>`

	record, err := ExtractRecord(fixture, ExtractorOptions{
		ClaimantTableId:   "autores",
		RespondentTableId: "reus",
		MovementTableMark: "timeline",
		DocEndpointMarker: "docHTML.seam",
	})
	require.NoError(t, err)

	require.Equal(t, []Party{{Name: "Jane Roe", Role: "Autora"}}, record.Claimants)
	require.Nil(t, record.Respondents)
	require.Equal(t, []MovementEvent{{
		Timestamp:   "05/05/2024 12:00",
		Description: "Sentença",
		Documents:   "https://portal/docHTML.seam?id=2",
	}}, record.Movements)
}
