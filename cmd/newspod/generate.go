package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"news-podcaster/internal/config"
	"news-podcaster/internal/extract"
	"news-podcaster/internal/models"
	"news-podcaster/internal/pipeline"
	"news-podcaster/internal/scriptgen"
	"news-podcaster/internal/tts"
)

type generateOptions struct {
	url        string
	text       string
	pdf        string
	stdin      bool
	title      string
	source     string
	output     string
	scriptOnly bool
}

// newGenerateCommand builds the one-shot mode: article in, MP3 out, no
// server and no database.
func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a single podcast episode from an article",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "article URL")
	cmd.Flags().StringVar(&opts.text, "text", "", "raw article text")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "path to a PDF file")
	cmd.Flags().BoolVar(&opts.stdin, "stdin", false, "read article text from stdin")
	cmd.Flags().StringVar(&opts.title, "title", "", "article title")
	cmd.Flags().StringVar(&opts.source, "source", "", "source name (e.g. NRC, NYT)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output mp3 path (default: output/<timestamp>_<slug>.mp3)")
	cmd.Flags().BoolVar(&opts.scriptOnly, "script-only", false, "print the generated script, skip audio")
	cmd.MarkFlagsOneRequired("url", "text", "pdf", "stdin")
	cmd.MarkFlagsMutuallyExclusive("url", "text", "pdf", "stdin")
	return cmd
}

func runGenerate(opts *generateOptions) error {
	cfg := config.Load()

	var article models.Article
	var err error
	switch {
	case opts.url != "":
		article, err = extract.FromURL(opts.url)
	case opts.pdf != "":
		article, err = extract.FromPDF(opts.pdf)
	case opts.stdin:
		var input []byte
		input, err = io.ReadAll(os.Stdin)
		if err == nil {
			article, err = extract.FromText(string(input), opts.title, opts.source)
		}
	default:
		article, err = extract.FromText(opts.text, opts.title, opts.source)
	}
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if opts.title != "" {
		article.Title = opts.title
	}
	if opts.source != "" {
		article.Source = opts.source
	}

	generator := scriptgen.NewGenerator(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	script, err := generator.Generate(context.Background(), article)
	if err != nil {
		return fmt.Errorf("script generation failed: %w", err)
	}
	log.Info().Int("chars", len(script)).Msg("script generated")

	if opts.scriptOnly {
		fmt.Println(script)
		return nil
	}

	output := opts.output
	if output == "" {
		output = filepath.Join("output", pipeline.AudioFilename(article.Title, time.Now()))
	}

	chain := tts.NewChain(cfg.OutroPath,
		tts.NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoices, cfg.ElevenLabsModel),
		tts.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAITTSVoice, cfg.OpenAITTSModel, cfg.TTSInstructions),
		tts.NewGoogle(cfg.GoogleTTSAPIKey, cfg.GoogleTTSVoices),
	)
	if err := chain.GenerateAudio(context.Background(), script, article.Language, output); err != nil {
		return fmt.Errorf("audio generation failed: %w", err)
	}

	log.Info().Str("file", output).Msg("episode saved")
	return nil
}
