package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

var exportFlags struct {
	format string
	out    string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the processed team corpus to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var teams []model.Team
		offset := 0
		for {
			page, total, err := st.ListTeams(ctx, offset, cfg.Store.ScanPageSize)
			if err != nil {
				return err
			}
			teams = append(teams, page...)
			offset += len(page)
			if len(page) == 0 || offset >= total {
				break
			}
		}

		out := exportFlags.out
		if out == "" {
			out = "teams." + exportFlags.format
		}

		switch exportFlags.format {
		case "json":
			err = exportJSON(teams, out)
		case "csv":
			err = exportCSV(teams, out)
		case "xlsx":
			err = exportXLSX(teams, out)
		default:
			return eris.Errorf("unknown format %q (want xlsx, csv, or json)", exportFlags.format)
		}
		if err != nil {
			return err
		}

		zap.L().Info("export finished",
			zap.String("path", out),
			zap.Int("teams", len(teams)),
		)
		return nil
	},
}

func exportJSON(teams []model.Team, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(teams)
}

var exportHeader = []string{
	"id", "name", "region", "league", "value_tier",
	"digital_reach", "local_reach", "family_friendly", "processed_at",
}

func exportRow(t *model.Team) []string {
	return []string{
		t.ID,
		t.Name,
		t.Region,
		t.League,
		strconv.Itoa(t.ValueTier),
		strconv.FormatFloat(t.DigitalReach, 'f', 4, 64),
		strconv.FormatFloat(t.LocalReach, 'f', 4, 64),
		strconv.FormatFloat(t.FamilyFriendly, 'f', 4, 64),
		t.ProcessedAt.Format("2006-01-02 15:04:05"),
	}
}

func exportCSV(teams []model.Team, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return err
	}
	for i := range teams {
		if err := w.Write(exportRow(&teams[i])); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportXLSX(teams []model.Team, path string) error {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Teams")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().SetString(h)
	}
	for i := range teams {
		row := sheet.AddRow()
		for _, v := range exportRow(&teams[i]) {
			row.AddCell().SetString(v)
		}
	}

	if err := wb.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "xlsx", "output format: xlsx, csv, or json")
	exportCmd.Flags().StringVar(&exportFlags.out, "out", "", "output path (default teams.<format>)")
	rootCmd.AddCommand(exportCmd)
}
