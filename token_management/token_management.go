package token_management

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/llmsh-dev/llmsh/constants/lipgloss"
	"github.com/llmsh-dev/llmsh/embed_data"
	"github.com/llmsh-dev/llmsh/token_management/contracts"
)

// tokenManager accumulates session token usage reported by the provider.
type tokenManager struct {
	usedToken       int
	usedInputToken  int
	usedOutputToken int
}

type details struct {
	InputCostPerMillionTokens  float64 `json:"input_cost_per_million_tokens,omitempty"`
	OutputCostPerMillionTokens float64 `json:"output_cost_per_million_tokens,omitempty"`
}

type pricingTable struct {
	ModelDetails map[string]details `json:"models"`
}

// NewTokenManager creates a new token manager
func NewTokenManager() contracts.ITokenManagement {
	return &tokenManager{}
}

// UsedTokens accumulates the token count for the session.
func (tm *tokenManager) UsedTokens(inputToken int, outputToken int) {
	tm.usedInputToken += inputToken
	tm.usedOutputToken += outputToken
	tm.usedToken += inputToken + outputToken
}

func (tm *tokenManager) DisplayTokens(chatModel string) {
	cost := tm.CalculateCost(chatModel, tm.usedInputToken, tm.usedOutputToken)

	tokenInfo := fmt.Sprintf("Token Used: %d - Cost: %.6f $ - Chat Model: %s", tm.usedToken, cost, chatModel)
	fmt.Println(lipgloss.BoxStyle.Render(tokenInfo))
}

func (tm *tokenManager) GetCurrentTokenUsage() (total int, input int, output int) {
	return tm.usedToken, tm.usedInputToken, tm.usedOutputToken
}

func (tm *tokenManager) ClearToken() {
	tm.usedToken = 0
	tm.usedInputToken = 0
	tm.usedOutputToken = 0
}

// CalculateCost looks the model up in the embedded pricing table; unknown
// models cost zero rather than failing the display path.
func (tm *tokenManager) CalculateCost(modelName string, inputToken int, outputToken int) float64 {
	modelDetails, err := getModelDetails(modelName)
	if err != nil {
		return 0
	}

	inputCost := float64(inputToken) * modelDetails.InputCostPerMillionTokens / 1000000.0
	outputCost := float64(outputToken) * modelDetails.OutputCostPerMillionTokens / 1000000.0

	return inputCost + outputCost
}

func getModelDetails(modelName string) (details, error) {
	modelName = strings.ToLower(modelName)

	table := pricingTable{ModelDetails: make(map[string]details)}
	if err := json.Unmarshal(embed_data.ModelDetails, &table); err != nil {
		log.Printf("Error unmarshaling pricing table: %v", err)
		return details{}, err
	}

	model, exists := table.ModelDetails[modelName]
	if !exists {
		return details{}, fmt.Errorf("model details price with name '%s' not found", modelName)
	}

	return model, nil
}
