package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pitchside-labs/sponsormatch/internal/match"
	"github.com/pitchside-labs/sponsormatch/internal/model"
	"github.com/pitchside-labs/sponsormatch/internal/present"
)

var searchFlags struct {
	regions      []string
	leagues      []string
	values       []string
	demographics []string
	goals        []string
	budgetMin    float64
	budgetMax    float64
	page         int
	pageSize     int
	format       string
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Score the team corpus against a brand profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("search"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		weights, err := loadWeights()
		if err != nil {
			return err
		}

		req := model.SearchRequest{
			Filters: model.SearchFilters{
				Regions:      searchFlags.regions,
				Leagues:      searchFlags.leagues,
				BrandValues:  searchFlags.values,
				Demographics: searchFlags.demographics,
				Goals:        searchFlags.goals,
			},
			Page:     searchFlags.page,
			PageSize: searchFlags.pageSize,
		}
		if len(args) == 1 {
			req.Query = args[0]
		}
		if cmd.Flags().Changed("budget-min") {
			v := searchFlags.budgetMin
			req.Filters.BudgetMin = &v
		}
		if cmd.Flags().Changed("budget-max") {
			v := searchFlags.budgetMax
			req.Filters.BudgetMax = &v
		}

		searcher := match.NewSearcher(st, newEmbedder(st), weights, cfg.Store.ScanPageSize)
		resp, err := searcher.Search(ctx, req)
		if err != nil {
			return err
		}

		return writeSearchResults(resp, searchFlags.format)
	},
}

// loadWeights resolves the scoring weights: config values, overridden
// by a YAML profile when one is configured.
func loadWeights() (match.Weights, error) {
	if cfg.Match.ProfilePath != "" {
		return match.LoadProfile(cfg.Match.ProfilePath)
	}
	w := match.FromConfig(cfg.Match)
	return w, w.Validate()
}

func writeSearchResults(resp *model.SearchResponse, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)

	case "csv":
		w := csv.NewWriter(os.Stdout)
		if err := w.Write([]string{"rank", "name", "league", "region", "score", "match_pct", "price_min_usd", "price_max_usd"}); err != nil {
			return err
		}
		base := (resp.CurrentPage - 1) * resp.PageSize
		for i, s := range resp.Teams {
			est := present.EstimatePrice(&s.Team)
			record := []string{
				strconv.Itoa(base + i + 1),
				s.Team.Name,
				s.Team.League,
				s.Team.Region,
				strconv.FormatFloat(s.SimilarityScore, 'f', 4, 64),
				strconv.Itoa(present.PercentMatch(s.SimilarityScore)),
				strconv.FormatInt(est.MinUSD, 10),
				strconv.FormatInt(est.MaxUSD, 10),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()

	case "table":
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tNAME\tLEAGUE\tREGION\tMATCH\tEST. PRICE/SEASON")
		base := (resp.CurrentPage - 1) * resp.PageSize
		for i, s := range resp.Teams {
			est := present.EstimatePrice(&s.Team)
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d%%\t$%d - $%d\n",
				base+i+1, s.Team.Name, s.Team.League, s.Team.Region,
				present.PercentMatch(s.SimilarityScore), est.MinUSD, est.MaxUSD)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Printf("\npage %d of %d (%d teams)\n", resp.CurrentPage, resp.TotalPages, resp.TotalCount)
		return nil

	default:
		return eris.Errorf("unknown format %q (want table, csv, or json)", format)
	}
}

func init() {
	f := searchCmd.Flags()
	f.StringSliceVar(&searchFlags.regions, "regions", nil, "target regions")
	f.StringSliceVar(&searchFlags.leagues, "leagues", nil, "league filter (hard gate)")
	f.StringSliceVar(&searchFlags.values, "values", nil, "brand values")
	f.StringSliceVar(&searchFlags.demographics, "demographics", nil, "target demographics")
	f.StringSliceVar(&searchFlags.goals, "goals", nil, "sponsorship goals")
	f.Float64Var(&searchFlags.budgetMin, "budget-min", 0, "minimum budget in USD")
	f.Float64Var(&searchFlags.budgetMax, "budget-max", 0, "maximum budget in USD")
	f.IntVar(&searchFlags.page, "page", 1, "result page")
	f.IntVar(&searchFlags.pageSize, "page-size", 10, "results per page")
	f.StringVar(&searchFlags.format, "format", "table", "output format: table, csv, or json")
	rootCmd.AddCommand(searchCmd)
}
