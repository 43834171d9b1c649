// llmclient answers one prompt against the hosted AVOS assistant API,
// falling back to canned responses when the API is unreachable.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/avoschat/llmclient-go/internal/agent"
	"github.com/avoschat/llmclient-go/internal/auth"
	"github.com/avoschat/llmclient-go/internal/config"
	"github.com/avoschat/llmclient-go/internal/llm"
	"github.com/avoschat/llmclient-go/internal/logger"
	"github.com/avoschat/llmclient-go/internal/prompt"
)

// htmlTag strips HTML-like fragments from the answer before it reaches
// stdout, where the caller may embed it in JSON.
var htmlTag = regexp.MustCompile(`<[^>]*>`)

var rootCmd = &cobra.Command{
	Use:   `llmclient "prompt" ["context"] ["system prompt"] ["history json"] ["db data json"]`,
	Short: "Ask the AVOS assistant a question",
	Args:  cobra.RangeArgs(1, 5),
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Warn("failed to load configuration, using defaults", "error", err)
		cfg = config.Default()
	}
	logger.SetLevel(cfg.Log.Level)

	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	req := agent.Request{
		Prompt:       args[0],
		Context:      arg(1),
		SystemPrompt: arg(2),
		HistoryJSON:  arg(3),
	}
	if dbJSON := arg(4); dbJSON != "" {
		var dbData any
		if err := json.Unmarshal([]byte(dbJSON), &dbData); err != nil {
			logger.L.Warn("failed to parse database data, skipping", "error", err)
		} else {
			req.DBData = dbData
		}
	}

	tokens := auth.NewManager(cfg.OAuth)
	newClient := func(ctx context.Context) (llm.Client, error) {
		token, err := tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		return llm.NewAzureClient(cfg.LLM, token), nil
	}

	a := agent.New(newClient, cfg.LLM, prompt.Load(cfg.Prompt.Path))
	answer := a.Respond(cmd.Context(), req)

	fmt.Fprintln(cmd.OutOrStdout(), htmlTag.ReplaceAllString(answer, ""))
	return nil
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
