package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/opengs/readmegen"
	"github.com/opengs/readmegen/prompt"
	sourcetar "github.com/opengs/readmegen/source/tar"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Start REST API server",
	Long:  "Start REST API server that generates READMEs for uploaded repository archives.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger, err := buildLogger(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		completer, err := buildCompleter(cmd)
		if err != nil {
			return err
		}

		store, err := buildStorage(cmd, "")
		if err != nil {
			return err
		}

		maxTokens, _ := cmd.Flags().GetInt("max-tokens")
		noDetect, _ := cmd.Flags().GetBool("no-detect")

		ginEngine := gin.Default()
		ginEngine.GET("/healthz", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		ginEngine.POST("/readme", func(ctx *gin.Context) {
			repoName := ctx.DefaultQuery("name", "repository")
			src := sourcetar.New(ctx.Request.Body, repoName)

			options := []readmegen.Option{
				readmegen.WithLogger(logger),
				readmegen.WithDetection(!noDetect),
				readmegen.WithPromptBuilder(prompt.New(prompt.WithMaxTokens(maxTokens))),
			}
			if store != nil {
				options = append(options, readmegen.WithStorage(store))
			}

			engine := readmegen.New(src, completer, options...)
			result, err := engine.Generate(ctx.Request.Context())
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, readmegen.ErrEmptyRepository) || errors.Is(err, sourcetar.ErrBadArchive) {
					status = http.StatusBadRequest
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}

			ctx.JSON(http.StatusOK, gin.H{
				"readme":   result.Readme,
				"analysis": result.Analysis.StripContent(),
			})
		})

		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetUint("port")
		if err := ginEngine.Run(fmt.Sprintf("%s:%d", host, port)); err != nil {
			return errors.Join(errors.New("failed to run HTTP server engine"), err)
		}

		return nil
	},
}

func init() {
	serveCMD.Flags().String("host", "0.0.0.0", "Host server will be listening on")
	serveCMD.Flags().Uint("port", 8856, "Port server will be listening on")

	serveCMD.Flags().String("api-key", "", "Groq API key. Falls back to the GROQ_API_KEY environment variable")
	serveCMD.Flags().String("provider", "groq", "LLM provider to use. Possible values are groq, ollama")
	serveCMD.Flags().String("model", "", "Model name. Defaults to a provider specific model")
	serveCMD.Flags().String("ollama-url", "", "Base URL of the Ollama API when the ollama provider is selected")
	serveCMD.Flags().Int("max-tokens", prompt.DefaultMaxTokens, "Token budget for assembled prompts")
	serveCMD.Flags().Bool("no-detect", false, "Skip the AI framework detection step")
	serveCMD.Flags().String("postgres-url", "", "Store generation history in this PostgreSQL database")
	serveCMD.Flags().BoolP("verbose", "v", false, "Verbose logging")
}
