// Command graphctl runs the narrative extraction pipeline over a parsed
// document, replays corrections against it, and persists the resulting
// graph — the CLI front-end named in SPEC_FULL §6 "External interfaces".
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/storygraph/corpus/internal/config"
	"github.com/storygraph/corpus/internal/logging"
	"github.com/storygraph/corpus/internal/narrative"
	"github.com/storygraph/corpus/internal/pattern"
	"github.com/storygraph/corpus/internal/pipeline"
	"github.com/storygraph/corpus/internal/schema"
	"github.com/storygraph/corpus/pkg/patternlib"
	"github.com/storygraph/corpus/pkg/store"
)

var (
	version    = "dev"
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "graphctl",
		Short: "Narrative knowledge-graph extraction",
		Long: `graphctl runs the extraction core over a parsed document:
entity promotion, coreference resolution, quote attribution, relation
extraction and normalization, and correction replay, persisting the
result to a JSON-backed graph store.`,
	}
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(correctCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{"version": version})
				return
			}
			fmt.Printf("graphctl %s\n", version)
		},
	}
}

func processCmd() *cobra.Command {
	var (
		storePath   string
		patternsDir string
		llmHintPath string
	)
	cmd := &cobra.Command{
		Use:   "process <parsed-doc.json>",
		Short: "Extract entities and relations from a parsed document and persist them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			p, s, err := buildPipeline(patternsDir, storePath, log)
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := readParseResponse(args[0])
			if err != nil {
				return err
			}

			in := pipeline.Input{Doc: doc}
			if llmHintPath != "" {
				data, err := os.ReadFile(llmHintPath)
				if err != nil {
					return fmt.Errorf("graphctl: read llm hint: %w", err)
				}
				in.LLMHint = string(data)
			}

			existing, err := s.ListCorrections()
			if err != nil {
				return fmt.Errorf("graphctl: list corrections: %w", err)
			}
			in.Corrections = existing

			res, err := p.Process(context.Background(), in)
			if err != nil {
				return err
			}

			if err := persistResult(s, res); err != nil {
				return err
			}

			printStats(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "graph.json", "path to the JSON graph store")
	cmd.Flags().StringVar(&patternsDir, "patterns-dir", "", "directory with dependency_patterns.json / surface_patterns.json")
	cmd.Flags().StringVar(&llmHintPath, "llm-hint", "", "optional raw LLM hint response file")
	return cmd
}

func batchCmd() *cobra.Command {
	var (
		storePath   string
		patternsDir string
	)
	cmd := &cobra.Command{
		Use:   "batch <dir-of-parsed-docs>",
		Short: "Process every parsed document in a directory concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			p, s, err := buildPipeline(patternsDir, storePath, log)
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := os.ReadDir(args[0])
			if err != nil {
				return fmt.Errorf("graphctl: read %s: %w", args[0], err)
			}

			var docs []*schema.ParseResponse
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
					continue
				}
				doc, err := readParseResponse(filepath.Join(args[0], e.Name()))
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}

			cache := store.NewDocCache()
			cache.Hydrate(docs, 1)

			existing, err := s.ListCorrections()
			if err != nil {
				return fmt.Errorf("graphctl: list corrections: %w", err)
			}

			inputs := make([]pipeline.Input, 0, cache.Count())
			for _, doc := range cache.All() {
				inputs = append(inputs, pipeline.Input{Doc: doc, Corrections: existing})
			}

			results, errs := p.RunAll(context.Background(), inputs)
			for i, err := range errs {
				if err != nil {
					log.Error("batch: document failed", logging.Err(err))
					continue
				}
				if err := persistResult(s, results[i]); err != nil {
					return err
				}
				printStats(results[i])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "graph.json", "path to the JSON graph store")
	cmd.Flags().StringVar(&patternsDir, "patterns-dir", "", "directory with dependency_patterns.json / surface_patterns.json")
	return cmd
}

func correctCmd() *cobra.Command {
	var (
		storePath string
		corrType  string
		entityID  string
		after     string
	)
	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Record a correction against the graph store",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(storePath)
			if err != nil {
				return fmt.Errorf("graphctl: open store: %w", err)
			}
			defer s.Close()

			var afterVals map[string]any
			if after != "" {
				if err := json.Unmarshal([]byte(after), &afterVals); err != nil {
					return fmt.Errorf("graphctl: parse --after: %w", err)
				}
			}

			c, err := s.AddCorrection(schema.Correction{
				Type:     schema.CorrectionType(corrType),
				EntityID: entityID,
				After:    afterVals,
			})
			if err != nil {
				return fmt.Errorf("graphctl: add correction: %w", err)
			}

			if jsonOutput {
				printJSON(c)
				return nil
			}
			fmt.Printf("recorded correction %s (%s)\n", c.ID, c.Type)
			return nil
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "graph.json", "path to the JSON graph store")
	cmd.Flags().StringVar(&corrType, "type", "", "correction type (entity_type, canonical_change, entity_reject, relation_remove, relation_edit, relation_add, entity_merge, entity_split)")
	cmd.Flags().StringVar(&entityID, "entity", "", "target entity id")
	cmd.Flags().StringVar(&after, "after", "", "JSON object describing the corrected field(s)")
	return cmd
}

func exportCmd() *cobra.Command {
	var storePath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the full graph store as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(storePath)
			if err != nil {
				return fmt.Errorf("graphctl: open store: %w", err)
			}
			defer s.Close()

			data, err := s.Export()
			if err != nil {
				return fmt.Errorf("graphctl: export: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "graph.json", "path to the JSON graph store")
	return cmd
}

func newLogger() logging.Logger {
	cfg := config.Load()
	return logging.NewLogger(&logging.Config{
		Level:      logging.Level(cfg.LogLevel),
		JSONFormat: cfg.LogFormat == "json",
		Output:     os.Stderr,
	})
}

func buildPipeline(patternsDir, storePath string, log logging.Logger) (*pipeline.Pipeline, *store.JSONFileStore, error) {
	lex, err := narrative.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("graphctl: load narrative lexicon: %w", err)
	}

	var surf *patternlib.Library
	if patternsDir != "" {
		surf, err = patternlib.LoadFamilies(patternsDir, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("graphctl: load pattern library: %w", err)
		}
	}

	s, err := store.Open(storePath)
	if err != nil {
		return nil, nil, fmt.Errorf("graphctl: open store: %w", err)
	}

	patterns := pattern.NewLibrary()
	learned, err := s.ListLearnedPatterns()
	if err != nil {
		return nil, nil, fmt.Errorf("graphctl: list learned patterns: %w", err)
	}
	for _, lp := range learned {
		patterns.Merge(lp)
	}

	cfg := config.Load()
	p := pipeline.New(nil, lex, patterns, surf, cfg, log)
	return p, s, nil
}

func readParseResponse(path string) (*schema.ParseResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphctl: read %s: %w", path, err)
	}
	var doc schema.ParseResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("graphctl: decode %s: %w", path, err)
	}
	return &doc, nil
}

func persistResult(s *store.JSONFileStore, res *pipeline.Result) error {
	for _, e := range res.Entities {
		if err := s.UpsertEntity(e); err != nil {
			return fmt.Errorf("graphctl: persist entity %s: %w", e.ID, err)
		}
	}
	for _, r := range res.Relations {
		if err := s.UpsertRelation(r); err != nil {
			return fmt.Errorf("graphctl: persist relation %s: %w", r.Key(), err)
		}
	}
	return nil
}

func printStats(res *pipeline.Result) {
	if jsonOutput {
		printJSON(res)
		return
	}
	fmt.Printf("doc %s: %d entities, %d relations, %d quotes, %d conflicts, %d violations\n",
		res.DocID, len(res.Entities), len(res.Relations), len(res.Quotes), len(res.Conflicts), len(res.Violations))
	if res.Stats == nil {
		return
	}
	fmt.Printf("  stages: %v\n", res.Stats.StageCounts)
	if len(res.Stats.RejectionReasons) > 0 {
		fmt.Printf("  rejections: %v\n", res.Stats.RejectionReasons)
	}
	fmt.Printf("  dedup ratio: %.2f, type-guard violations: %d\n", res.Stats.DedupRatio, res.Stats.TypeGuardViolations)
	if len(res.Stats.CorefOutcomes) > 0 {
		fmt.Printf("  coref outcomes: %v\n", res.Stats.CorefOutcomes)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
