package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opengs/readmegen"
	"github.com/opengs/readmegen/analyzer"
	"github.com/opengs/readmegen/llm"
	"github.com/opengs/readmegen/llm/groq"
	"github.com/opengs/readmegen/llm/ollama"
	"github.com/opengs/readmegen/prompt"
	sourcefs "github.com/opengs/readmegen/source/fs"
	"github.com/opengs/readmegen/storage"
	"github.com/opengs/readmegen/storage/fsjson"
	"github.com/opengs/readmegen/storage/postgres"
)

var generateCMD = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate a README for a local repository",
	Long:  "Walks the repository, analyzes its text files and generates a README.md with an LLM.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		repoPath, err := filepath.Abs(args[0])
		if err != nil {
			return errors.Join(errors.New("bad repository path"), err)
		}
		if info, err := os.Stat(repoPath); err != nil || !info.IsDir() {
			return fmt.Errorf("repository path does not exist or is not a directory: %s", repoPath)
		}

		logger, err := buildLogger(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return errors.Join(errors.New("failed to load env file"), err)
			}
		} else {
			// Default .env is optional
			godotenv.Load()
		}

		completer, err := buildCompleter(cmd)
		if err != nil {
			return err
		}

		repoName := filepath.Base(repoPath)
		includeGlobs, _ := cmd.Flags().GetStringSlice("include")
		excludeGlobs, _ := cmd.Flags().GetStringSlice("exclude")
		src := sourcefs.New(os.DirFS(repoPath), ".", repoName,
			sourcefs.WithIncludeGlobs(includeGlobs),
			sourcefs.WithExcludeGlobs(excludeGlobs),
		)

		store, err := buildStorage(cmd, repoPath)
		if err != nil {
			return err
		}

		parallelism, _ := cmd.Flags().GetUint32("parallelism")
		maxTokens, _ := cmd.Flags().GetInt("max-tokens")
		noDetect, _ := cmd.Flags().GetBool("no-detect")

		options := []readmegen.Option{
			readmegen.WithLogger(logger),
			readmegen.WithDetection(!noDetect),
			readmegen.WithAnalyzer(analyzer.New(
				analyzer.WithParallelism(int(parallelism)),
				analyzer.WithLogger(logger),
			)),
			readmegen.WithPromptBuilder(prompt.New(prompt.WithMaxTokens(maxTokens))),
		}
		if store != nil {
			options = append(options, readmegen.WithStorage(store))
		}

		output, _ := cmd.Flags().GetString("output")
		if !filepath.IsAbs(output) {
			output = filepath.Join(repoPath, output)
		}

		engine := readmegen.New(src, completer, options...)
		if err := engine.Run(cmd.Context(), output); err != nil {
			return err
		}

		fmt.Printf("README generated successfully: %s\n", output)
		return nil
	},
}

func buildLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		config := zap.NewProductionConfig()
		config.DisableStacktrace = true
		return config.Build()
	}
	return zap.NewDevelopment()
}

func buildCompleter(cmd *cobra.Command) (llm.Completer, error) {
	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")

	switch provider {
	case "groq":
		apiKey, _ := cmd.Flags().GetString("api-key")
		if apiKey == "" {
			apiKey = os.Getenv("GROQ_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("groq api key required: use --api-key or set GROQ_API_KEY environment variable")
		}
		if model == "" {
			model = groq.DefaultModel
		}
		return groq.New(model, apiKey), nil

	case "ollama":
		if model == "" {
			model = "llama3"
		}
		ollamaURL, _ := cmd.Flags().GetString("ollama-url")
		var config []ollama.Config
		if ollamaURL != "" {
			config = append(config, ollama.WithBaseURL(ollamaURL))
		}
		return ollama.New(model, config...), nil
	}

	return nil, fmt.Errorf("unsupported llm provider: %s", provider)
}

func buildStorage(cmd *cobra.Command, repoPath string) (storage.Storage, error) {
	if postgresURL, _ := cmd.Flags().GetString("postgres-url"); postgresURL != "" {
		cfg, err := pgx.ParseConfig(postgresURL)
		if err != nil {
			return nil, errors.Join(errors.New("bad postgres url"), err)
		}

		db := stdlib.OpenDB(*cfg)
		store := postgres.New(db)
		if err := store.Install(cmd.Context()); err != nil {
			return nil, errors.Join(errors.New("failed to prepare postgres storage"), err)
		}
		return store, nil
	}

	// The JSON report lands next to the generated README, so it only makes
	// sense for local repositories.
	if repoPath != "" {
		if analysisJSON, _ := cmd.Flags().GetBool("analysis-json"); analysisJSON {
			return fsjson.New(repoPath), nil
		}
	}

	return nil, nil
}

func init() {
	generateCMD.Flags().String("api-key", "", "Groq API key. Falls back to the GROQ_API_KEY environment variable")
	generateCMD.Flags().String("env-file", "", "Load environment variables from this file before reading the API key")
	generateCMD.Flags().StringP("output", "o", "README.md", "Output file name, relative to the repository unless absolute")
	generateCMD.Flags().String("provider", "groq", "LLM provider to use. Possible values are groq, ollama")
	generateCMD.Flags().String("model", "", "Model name. Defaults to a provider specific model")
	generateCMD.Flags().String("ollama-url", "", "Base URL of the Ollama API when the ollama provider is selected")
	generateCMD.Flags().Int("max-tokens", prompt.DefaultMaxTokens, "Token budget for the assembled prompt")
	generateCMD.Flags().StringSlice("include", nil, "Only analyze files matching these glob patterns")
	generateCMD.Flags().StringSlice("exclude", nil, "Skip files matching these glob patterns")
	generateCMD.Flags().Uint32("parallelism", analyzer.DefaultParallelism, "Number of files analyzed at the same time")
	generateCMD.Flags().Bool("no-detect", false, "Skip the AI framework detection step")
	generateCMD.Flags().Bool("analysis-json", true, "Write repository_analysis.json next to the generated README")
	generateCMD.Flags().String("postgres-url", "", "Store generation history in this PostgreSQL database instead of a JSON report")
	generateCMD.Flags().BoolP("verbose", "v", false, "Verbose logging")
}
