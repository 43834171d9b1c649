package llm

import (
	"github.com/avoschat/llmclient-go/internal/config"
	"github.com/sashabaranov/go-openai"
)

// NewAzureClient creates a chat-completion client for the Azure-flavored
// endpoint, authorized with a bearer token from the OAuth exchange.
func NewAzureClient(cfg config.LLMConfig, token string) *openai.Client {
	clientConfig := openai.DefaultAzureConfig(token, cfg.BaseURL)
	clientConfig.APIVersion = cfg.APIVersion
	// The gateway expects the plain model name, not an Azure deployment name.
	clientConfig.AzureModelMapperFunc = func(model string) string {
		return model
	}

	return openai.NewClientWithConfig(clientConfig)
}
