package ingest

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/charmap"
)

const teamsCSV = `name,league,region,followers_x,avg_ticket_price,mission_tags,sponsors,owns_stadium
Harbor City FC,MLS,Pacific Northwest,"50,000",42.50,community|youth,"[{""name"":""Acme"",""category"":""finance""}]",true
Bay Rovers,NWSL,West Coast,,,,,
`

func TestDecodeCSV(t *testing.T) {
	teams, err := DecodeCSV(strings.NewReader(teamsCSV), "")
	require.NoError(t, err)
	require.Len(t, teams, 2)

	first := teams[0]
	assert.Equal(t, "Harbor City FC", first.Name)
	assert.Equal(t, "MLS", first.League)
	require.NotNil(t, first.FollowersX)
	assert.Equal(t, int64(50000), *first.FollowersX, "thousands separators stripped")
	require.NotNil(t, first.AvgTicketPrice)
	assert.InDelta(t, 42.5, *first.AvgTicketPrice, 1e-9)
	assert.Equal(t, []string{"community", "youth"}, first.MissionTags)
	require.Len(t, first.Sponsors, 1)
	assert.Equal(t, "Acme", first.Sponsors[0].Name)
	require.NotNil(t, first.OwnsStadium)
	assert.True(t, *first.OwnsStadium)

	// Empty cells leave nullable fields nil, not zero.
	second := teams[1]
	assert.Equal(t, "Bay Rovers", second.Name)
	assert.Nil(t, second.FollowersX)
	assert.Nil(t, second.AvgTicketPrice)
	assert.Nil(t, second.OwnsStadium)
}

func TestDecodeCSVCharset(t *testing.T) {
	// "Ciudad Juárez" in windows-1252.
	raw, err := charmap.Windows1252.NewEncoder().String("name,league,region\nFC Fronterizo,Liga MX,Ciudad Juárez\n")
	require.NoError(t, err)

	teams, err := DecodeCSV(strings.NewReader(raw), "windows-1252")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Ciudad Juárez", teams[0].Region)
}

func TestDecodeCSVUnknownCharset(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("name\nX\n"), "klingon-8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown charset")
}

func TestDecodeCSVUnknownColumnsIgnored(t *testing.T) {
	teams, err := DecodeCSV(strings.NewReader("name,league,scraper_version\nAlpha,NBA,7\n"), "")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Alpha", teams[0].Name)
}

func TestDecodeCSVBadNumber(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("name,followers_x\nAlpha,lots\n"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "followers_x")
}

func TestDecodeJSON(t *testing.T) {
	payload := `[
		{"name": "Harbor City FC", "league": "MLS", "followers_x": 50000,
		 "social_handles": [{"platform": "x", "handle": "harborcityfc"}]},
		{"name": "Bay Rovers", "league": "NWSL"}
	]`
	teams, err := DecodeJSON(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Harbor City FC", teams[0].Name)
	require.Len(t, teams[0].SocialHandles, 1)
	assert.Equal(t, "harborcityfc", teams[0].SocialHandles[0].Handle)
}

func TestDecodeJSONNotArray(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`{"name": "solo"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array")
}

func TestDecodeXLSX(t *testing.T) {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Teams")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, h := range []string{"name", "league", "avg_game_attendance"} {
		header.AddCell().SetString(h)
	}
	row := sheet.AddRow()
	row.AddCell().SetString("Harbor City FC")
	row.AddCell().SetString("MLS")
	row.AddCell().SetString("21500")
	sheet.AddRow() // blank rows are skipped

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	teams, err := DecodeXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Harbor City FC", teams[0].Name)
	require.NotNil(t, teams[0].AvgGameAttendance)
	assert.Equal(t, int64(21500), *teams[0].AvgGameAttendance)
}

func TestDecodeZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	jw, err := zw.Create("teams.json")
	require.NoError(t, err)
	_, err = jw.Write([]byte(`[{"name": "Alpha", "league": "NBA"}]`))
	require.NoError(t, err)

	cw, err := zw.Create("more/teams.csv")
	require.NoError(t, err)
	_, err = cw.Write([]byte("name,league\nBravo,NHL\n"))
	require.NoError(t, err)

	// Unsupported entries are skipped.
	tw, err := zw.Create("README.txt")
	require.NoError(t, err)
	_, err = tw.Write([]byte("notes"))
	require.NoError(t, err)

	require.NoError(t, zw.Close())

	teams, err := DecodeZip(&buf, "")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Alpha", teams[0].Name)
	assert.Equal(t, "Bravo", teams[1].Name)
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	_, err := Decode(strings.NewReader("x"), "teams.parquet", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported artifact")
}
