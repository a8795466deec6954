package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"jewelry-ledger/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

type AgentService interface {
	InterpretDraft(ctx context.Context, text, inventoryCatalog, customerDirectory string) (*core.DraftAgentResponse, error)
}

type Agent struct {
	client *openai.Client
	model  shared.ResponsesModel
}

func NewAgent(apiKey string, opts ...option.RequestOption) *Agent {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Agent{client: &client, model: shared.ResponsesModel(shared.ChatModelGPT4o)}
}

func (a *Agent) InterpretDraft(ctx context.Context, text, inventoryCatalog, customerDirectory string) (*core.DraftAgentResponse, error) {
	prompt := fmt.Sprintf(`You are the billing assistant of a jewelry shop.
Your goal is to turn the shopkeeper's instruction into a bill draft.
Rules:
1. Use ONLY customer ids from the customer directory and ONLY category + serial pairs from the inventory.
2. Bill type is INVOICE only for a completed sale; otherwise ESTIMATE.
3. Amounts and weights must be plain decimal strings without currency symbols (e.g. "1500.00").
4. Leave extra_charge_percentage empty unless the shopkeeper states a rate.
5. If the customer or the items cannot be identified, ask for clarification instead of guessing.
6. Provide a confidence score (0.0-1.0) and explain your reasoning.

Customer directory:
%s
Inventory:
%s
Instruction: %s`, customerDirectory, inventoryCatalog, text)

	schema, err := DraftResponseSchema()
	if err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Model: a.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "bill_draft_response",
					Strict:      param.NewOpt(true),
					Schema:      schema,
					Description: param.NewOpt("A jewelry bill draft or a clarification question"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}
	return parseDraftResponse(resp.OutputText())
}

func parseDraftResponse(content string) (*core.DraftAgentResponse, error) {
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}
	var out core.DraftAgentResponse
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	if out.IsClarificationRequest {
		if out.Clarification == nil || out.Clarification.Message == "" {
			return nil, fmt.Errorf("clarification requested without a message")
		}
		out.Proposal = nil
		return &out, nil
	}
	if out.Proposal == nil {
		return nil, fmt.Errorf("response has neither a proposal nor a clarification")
	}
	out.Proposal.Normalize()
	return &out, nil
}

// DraftResponseSchema returns the strict JSON schema of core.DraftAgentResponse.
func DraftResponseSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	raw, err := json.Marshal(reflector.Reflect(&core.DraftAgentResponse{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	delete(schema, "$schema")
	delete(schema, "$id")
	strictify(schema)
	return schema, nil
}

// strictify rewrites an object schema for structured outputs: every property is
// required, and properties that were optional become nullable.
func strictify(node map[string]any) {
	if items, ok := node["items"].(map[string]any); ok {
		strictify(items)
	}
	props, ok := node["properties"].(map[string]any)
	if !ok {
		return
	}
	required := map[string]bool{}
	if list, ok := node["required"].([]any); ok {
		for _, r := range list {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name, p := range props {
		names = append(names, name)
		sub, ok := p.(map[string]any)
		if !ok {
			continue
		}
		strictify(sub)
		if !required[name] {
			desc := sub["description"]
			delete(sub, "description")
			wrapped := map[string]any{"anyOf": []any{sub, map[string]any{"type": "null"}}}
			if desc != nil {
				wrapped["description"] = desc
			}
			props[name] = wrapped
		}
	}
	slices.Sort(names)
	reqs := make([]any, len(names))
	for i, n := range names {
		reqs[i] = n
	}
	node["required"] = reqs
	node["additionalProperties"] = false
}
