package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/josephgoksu/factwing/internal/annotate"
	"github.com/josephgoksu/factwing/internal/beam"
	"github.com/josephgoksu/factwing/internal/config"
	"github.com/josephgoksu/factwing/internal/entity"
	"github.com/josephgoksu/factwing/internal/export"
	"github.com/josephgoksu/factwing/internal/graph"
	"github.com/josephgoksu/factwing/internal/pipeline"
	"github.com/josephgoksu/factwing/internal/provider"
	"github.com/josephgoksu/factwing/internal/rank"
	"github.com/josephgoksu/factwing/internal/semantic"
	"github.com/spf13/cobra"
)

var (
	checkClaim       string
	checkContextFile string
	checkExportPaths bool
	checkSummaryOnly bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the evidence engine on a claim and a context document",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkClaim, "claim", "", "the claim text to check (required)")
	checkCmd.Flags().StringVar(&checkContextFile, "context-file", "", "path to the context document (required)")
	checkCmd.Flags().BoolVar(&checkExportPaths, "export-paths", false, "write the beam search path export JSON alongside the graph")
	checkCmd.Flags().BoolVar(&checkSummaryOnly, "summary-only", false, "print only the ranked-sentence summary, not the raw path trace")
	_ = checkCmd.MarkFlagRequired("claim")
	_ = checkCmd.MarkFlagRequired("context-file")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	contextBytes, err := os.ReadFile(checkContextFile)
	if err != nil {
		PrintError("Could not read the context file.", err)
		return err
	}

	cfg := config.GlobalAppConfig

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Provider.TimeoutSeconds)*time.Second)
	defer cancel()

	extractor, closeExtractor, err := buildExtractor(ctx, cfg.Provider)
	if err != nil {
		PrintError("Could not initialize the entity extractor.", err)
		return err
	}
	if closeExtractor != nil {
		defer closeExtractor()
	}

	embedder, closeEmbedder, err := buildEmbedder(ctx, cfg.Provider)
	if err != nil {
		PrintError("Could not initialize the embedder.", err)
		return err
	}
	if closeEmbedder != nil {
		defer closeEmbedder()
	}

	opts := pipeline.Options{
		GraphBuilder: graph.BuilderOptions{
			POSFilterEnabled: cfg.Pipeline.POSFilterEnabled,
			POSFilterTags:    cfg.Pipeline.POSFilterTags,
		},
		Semantic: semantic.BuilderOptions{
			TopK:         cfg.Pipeline.TopK,
			Threshold:    cfg.Pipeline.SimilarityThreshold,
			UseFastIndex: cfg.Pipeline.UseFastIndex,
		},
		Beam: beam.Params{
			BeamWidth:          cfg.Pipeline.BeamWidth,
			MaxDepth:           cfg.Pipeline.MaxDepth,
			MaxPaths:           cfg.Pipeline.MaxPaths,
			StepCost:           beam.StepCost,
			WordOverlapBonus:   beam.WordOverlapBonus,
			EntityHitBonus:     beam.EntityHitBonus,
			SentenceBonus:      beam.SentenceBonus,
			SemanticEdgeWeight: beam.SemanticEdgeWeight,
			DependencyBonus:    beam.DependencyBonus,
			TerminalBonus:      beam.TerminalBonus,
		},
		RankMethod: rank.Method(cfg.Pipeline.RankMethod),
	}

	p := pipeline.New(annotate.NewStubAnnotator("N"), extractor, embedder, opts, nil)

	result, err := p.Run(ctx, checkClaim, string(contextBytes))
	if err != nil {
		PrintError("The evidence engine could not complete.", err)
		return err
	}

	for _, ev := range result.Diagnostics.Events() {
		PrintError(fmt.Sprintf("Warning: %s", ev.Kind), ev.Err)
	}

	doc := export.BuildPathDocument(checkClaim, opts.Beam, result.Paths)
	if !checkSummaryOnly {
		fmt.Println(export.RenderPathSummary(result.Graph, doc))
	}

	if checkExportPaths {
		data, err := export.MarshalPathDocument(doc)
		if err != nil {
			PrintError("Could not serialize the path export.", err)
			return err
		}
		path := export.ResolvePath(cfg.Pipeline.AutoSavePath, time.Now())
		if err := export.WriteAtomic(path, data); err != nil {
			PrintError("Could not write the path export.", err)
			return err
		}
		fmt.Printf("Wrote path export to %s\n", path)
	}

	fmt.Println(export.RenderSentenceSummary(result.Ranks, 10))

	if cfg.Pipeline.AutoSaveGraph {
		gexf, err := result.Graph.ExportGEXF()
		if err != nil {
			PrintError("Could not serialize the graph export.", err)
			return err
		}
		path := export.ResolvePath(cfg.Pipeline.AutoSavePath, time.Now())
		if err := export.WriteAtomic(path, gexf); err != nil {
			PrintError("Could not write the graph export.", err)
			return err
		}
		fmt.Printf("Wrote graph export to %s\n", path)
	}

	return nil
}

func buildExtractor(ctx context.Context, cfg config.ProviderConfig) (entity.Extractor, func(), error) {
	if cfg.APIKey == "" && provider.Name(cfg.Provider) != provider.Ollama {
		// No credentials configured: entity linking is skipped rather than
		// failing the whole run, matching spec.md §7's treatment of an
		// unavailable extractor as recoverable.
		return nil, nil, nil
	}
	chatModel, err := provider.NewChatModel(ctx, provider.Config{
		Provider: provider.Name(cfg.Provider),
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}
	return entity.NewLLMExtractor(chatModel), func() { _ = chatModel.Close() }, nil
}

func buildEmbedder(ctx context.Context, cfg config.ProviderConfig) (semantic.Embedder, func(), error) {
	if provider.Name(cfg.Provider) == provider.Claude {
		// Claude has no embedding component; semantic edges are skipped
		// rather than failing the whole run.
		return nil, nil, nil
	}
	if cfg.APIKey == "" && provider.Name(cfg.Provider) != provider.Ollama {
		return nil, nil, nil
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = cfg.Model
	}
	embedder, err := provider.NewEmbedder(ctx, provider.Config{
		Provider: provider.Name(cfg.Provider),
		Model:    model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}
	return semantic.NewEinoEmbedder(embedder), func() { _ = embedder.Close() }, nil
}
