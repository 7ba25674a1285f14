package ocr

import "google.golang.org/genai"

// billPrompt asks the model for a JSON bill without payer or consumers.
const billPrompt = `
You are an expert at extracting information from bills and receipts.
Your task is to analyze the provided image of a bill and extract the following information in JSON format:

Extract a Bill object with the following structure:
- items: A list of items, where each item contains:
  - name: The name of the item (string, non-empty)
  - price: The unit price of the item (number, must be positive)
  - quantity: The quantity ordered (integer, must be positive)
- tax_rate: The tax rate applied to the bill as a decimal (number between 0.0 and 1.0, 0.0 if not found)
- service_charge: The service charge rate as a decimal (number between 0.0 and 1.0, 0.0 if not found)
- amount_paid: The grand total actually payable on the bill, after any discount (number, 0.0 if not found)

Important notes:
- Do NOT include a "paid_by" field
- Do NOT include a "consumed_by" field
- Extract only the items that appear on the bill
- Derive tax_rate and service_charge from the amounts printed on the bill when only amounts are shown
- Return only valid JSON matching the structure above

Please analyze the bill image and extract the information now.
`

// billSchema is the JSON schema of the expected response, for providers
// that support structured output.
var billSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"tax_rate":       map[string]any{"type": "number"},
		"service_charge": map[string]any{"type": "number"},
		"amount_paid":    map[string]any{"type": "number"},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":     map[string]any{"type": "string"},
					"price":    map[string]any{"type": "number"},
					"quantity": map[string]any{"type": "number"},
				},
				"required": []string{"name", "price", "quantity"},
			},
		},
	},
	"required": []string{"tax_rate", "service_charge", "items"},
}

// billResponseSchema is billSchema in Gemini's schema types.
var billResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"tax_rate":       {Type: genai.TypeNumber},
		"service_charge": {Type: genai.TypeNumber},
		"amount_paid":    {Type: genai.TypeNumber},
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString},
					"price":    {Type: genai.TypeNumber},
					"quantity": {Type: genai.TypeInteger},
				},
				Required: []string{"name", "price", "quantity"},
			},
		},
	},
	Required: []string{"tax_rate", "service_charge", "items"},
}
