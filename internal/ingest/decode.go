package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// Decode picks a decoder from the artifact name's extension. ZIP
// archives decode each contained artifact and concatenate the rows.
func Decode(r io.Reader, name, charset string) ([]model.RawTeam, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return DecodeJSON(r)
	case ".csv":
		return DecodeCSV(r, charset)
	case ".xlsx":
		return DecodeXLSX(r)
	case ".zip":
		return DecodeZip(r, charset)
	default:
		return nil, eris.Errorf("ingest: unsupported artifact %q", name)
	}
}

// DecodeJSON streams a JSON array of raw team objects.
func DecodeJSON(r io.Reader) ([]model.RawTeam, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read json token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, eris.New("ingest: expected a json array of teams")
	}

	var teams []model.RawTeam
	for dec.More() {
		var t model.RawTeam
		if err := dec.Decode(&t); err != nil {
			return nil, eris.Wrap(err, "ingest: decode team object")
		}
		teams = append(teams, t)
	}
	return teams, nil
}

// DecodeCSV reads a header-mapped CSV of raw teams. charset names a
// non-UTF-8 source encoding; empty means UTF-8.
func DecodeCSV(r io.Reader, charset string) ([]model.RawTeam, error) {
	if charset != "" {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: unknown charset %q", charset)
		}
		r = enc.NewDecoder().Reader(r)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var teams []model.RawTeam
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: read csv line %d", line)
		}

		var t model.RawTeam
		for i, value := range record {
			if i >= len(header) {
				break
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if err := setField(&t, header[i], value); err != nil {
				return nil, eris.Wrapf(err, "ingest: csv line %d column %s", line, header[i])
			}
		}
		teams = append(teams, t)
	}
	return teams, nil
}

// DecodeXLSX reads the first sheet of a workbook, header row first.
func DecodeXLSX(r io.Reader) ([]model.RawTeam, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read xlsx")
	}

	wb, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(wb.Sheets) == 0 {
		return nil, eris.New("ingest: xlsx has no sheets")
	}

	sheet := wb.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, c := range sheet.Rows[0].Cells {
		header[i] = strings.ToLower(strings.TrimSpace(c.String()))
	}

	var teams []model.RawTeam
	for rowIdx, row := range sheet.Rows[1:] {
		var t model.RawTeam
		empty := true
		for i, c := range row.Cells {
			if i >= len(header) {
				break
			}
			value := strings.TrimSpace(c.String())
			if value == "" {
				continue
			}
			empty = false
			if err := setField(&t, header[i], value); err != nil {
				return nil, eris.Wrapf(err, "ingest: xlsx row %d column %s", rowIdx+2, header[i])
			}
		}
		if !empty {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

// DecodeZip decodes every supported artifact in the archive.
func DecodeZip(r io.Reader, charset string) ([]model.RawTeam, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read zip")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open zip")
	}

	var teams []model.RawTeam
	for _, f := range zr.File {
		ext := strings.ToLower(path.Ext(f.Name))
		if ext != ".json" && ext != ".csv" && ext != ".xlsx" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open zip entry %s", f.Name)
		}
		entry, err := Decode(rc, f.Name, charset)
		rc.Close()
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: zip entry %s", f.Name)
		}
		teams = append(teams, entry...)
	}
	return teams, nil
}

// listSeparator splits multi-value CSV/XLSX cells.
const listSeparator = "|"

// setField assigns one named column value onto a raw team.
func setField(t *model.RawTeam, column, value string) error {
	switch column {
	case "id":
		t.ID = value
	case "name":
		t.Name = value
	case "region":
		t.Region = value
	case "league", "category":
		t.League = value
	case "target_demographic":
		t.TargetDemographic = value
	case "official_url":
		t.OfficialURL = value
	case "logo_url":
		t.LogoURL = value
	case "geo_city":
		t.GeoCity = value
	case "geo_country":
		t.GeoCountry = value
	case "stadium_name":
		t.StadiumName = value
	case "city_population":
		return setInt(&t.CityPopulation, value)
	case "avg_game_attendance":
		return setInt(&t.AvgGameAttendance, value)
	case "family_program_count":
		return setInt(&t.FamilyProgramCount, value)
	case "followers_x":
		return setInt(&t.FollowersX, value)
	case "followers_instagram":
		return setInt(&t.FollowersInstagram, value)
	case "followers_facebook":
		return setInt(&t.FollowersFacebook, value)
	case "followers_tiktok":
		return setInt(&t.FollowersTikTok, value)
	case "subscribers_youtube":
		return setInt(&t.SubscribersYouTube, value)
	case "metro_gdp_millions":
		return setFloat(&t.MetroGDPMillions, value)
	case "avg_ticket_price":
		return setFloat(&t.AvgTicketPrice, value)
	case "franchise_value_millions":
		return setFloat(&t.FranchiseValueMillions, value)
	case "annual_revenue_millions":
		return setFloat(&t.AnnualRevenueMillions, value)
	case "owns_stadium":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return eris.Wrapf(err, "parse bool %q", value)
		}
		t.OwnsStadium = &b
	case "family_program_types":
		t.FamilyProgramTypes = splitList(value)
	case "mission_tags":
		t.MissionTags = splitList(value)
	case "community_programs":
		t.CommunityPrograms = splitList(value)
	case "cause_partnerships":
		t.CausePartnerships = splitList(value)
	case "sponsors":
		// JSON-encoded in tabular sources.
		if err := json.Unmarshal([]byte(value), &t.Sponsors); err != nil {
			return eris.Wrapf(err, "parse sponsors %q", value)
		}
	default:
		// Unknown columns are ignored; scraped artifacts carry extras.
	}
	return nil
}

func setInt(dst **int64, value string) error {
	n, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64)
	if err != nil {
		return eris.Wrapf(err, "parse int %q", value)
	}
	*dst = &n
	return nil
}

func setFloat(dst **float64, value string) error {
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return eris.Wrapf(err, "parse float %q", value)
	}
	*dst = &f
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
