package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mibig-toxins/models"
	"mibig-toxins/providers/chemspider"
	"mibig-toxins/services"
)

// createOutput öffnet path zum Schreiben; "" oder "-" bedeutet stdout.
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeFile(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	w, closeFn, err := createOutput(cmd, path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func comptoxCommand(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "comptox <comptox.csv> <mibig_dir>",
		Short: "Klassifiziert MIBiG-Verbindungen über InChIKeys einer CompTox-Liste",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			set, err := services.LoadCompTox(args[0])
			if err != nil {
				return err
			}
			logger.Info("CompTox-Liste geladen",
				zap.Int("inchikeys", len(set.InChIKeys)),
				zap.Int("formulas", len(set.Formulas)))

			prompt := chemspider.TerminalPrompt(os.Stdin, cmd.ErrOrStderr())
			resolver := services.NewIdentifierResolver(services.NewResolvers(cfg, logger, prompt), cfg.ResolutionCacheTTL, logger)
			scanner := services.NewScanService(cfg, logger, services.NewClassifier(resolver, logger))

			report, err := scanner.RunStructural(cmd.Context(), args[1], set)
			if err != nil {
				return err
			}
			return writeFile(cmd, output, report.WriteStructuralCSV)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Ausgabedatei (Standard: stdout)")
	return cmd
}

func namesCommand(flags *globalFlags) *cobra.Command {
	var (
		exact    bool
		tierName string
		gapsPath string
	)

	cmd := &cobra.Command{
		Use:   "names <mibig_dir> <output.csv>",
		Short: "Klassifiziert MIBiG-Verbindungen anhand bekannter Toxin-Namen",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			tier, ok := models.ParseNameTier(tierName)
			if !ok {
				return fmt.Errorf("unbekannte Stufe %q (all, high, extended)", tierName)
			}
			mode := services.MatchSubstring
			if exact {
				mode = services.MatchExact
			}

			set := models.NewToxinReferenceSet()
			matcher, err := services.NewNameMatcher(set.Names(tier), mode)
			if err != nil {
				return err
			}

			scanner := services.NewScanService(cfg, logger, nil)
			result, err := scanner.RunByName(args[0], matcher)
			if err != nil {
				return err
			}
			if err := writeFile(cmd, args[1], result.Report.WriteNameCSV); err != nil {
				return err
			}

			if gapsPath != "" {
				gaps := make([]services.GapEntry, 0, len(result.Gaps))
				for _, name := range result.Gaps {
					gaps = append(gaps, services.GapEntry{Name: name, Tier: set.TierOf(name)})
				}
				return writeFile(cmd, gapsPath, func(w io.Writer) error {
					return services.WriteGapCSV(w, gaps)
				})
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&exact, "exact", false, "Nur exakte Namensgleichheit (ohne Groß-/Kleinschreibung)")
	cmd.Flags().StringVar(&tierName, "tier", "all", "Namensliste: all, high oder extended")
	cmd.Flags().StringVar(&gapsPath, "gaps", "", "CSV mit Toxin-Namen ohne Treffer im Korpus")
	return cmd
}

func missingIDsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "missing-ids <mibig_dir> <output.csv>",
		Short: "Listet Verbindungen ohne database_id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags)
			if err != nil {
				return err
			}
			defer logger.Sync()

			records, err := services.LoadCorpus(args[0])
			if err != nil {
				return err
			}
			missing := services.ListMissingCrossReferences(records)
			logger.Info("Verbindungen ohne database_id", zap.Int("records", len(records)), zap.Int("missing", len(missing)))
			return writeFile(cmd, args[1], func(w io.Writer) error {
				return services.WriteMissingIDsCSV(w, missing)
			})
		},
	}
}

func antismashCommand() *cobra.Command {
	var cutoff float64

	cmd := &cobra.Command{
		Use:   "antismash-hits <antismash.json>",
		Short: "Gibt pro Region den besten MIBiG-Treffer eines antiSMASH-Laufs aus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			hits, err := services.ExtractTopHits(f, cutoff)
			if err != nil {
				return err
			}
			return services.WriteTopHitsCSV(cmd.OutOrStdout(), hits)
		},
	}
	cmd.Flags().Float64Var(&cutoff, "cutoff", services.DefaultTopHitCutoff, "Minimaler Score")
	return cmd
}
