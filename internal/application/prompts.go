package app

import (
	"encoding/json"

	"vision-ocr/internal/domain/entity"
)

const freeFormSystemPrompt = `You are an AI assistant that recognizes text in images. Images will contain labels, tables, or documents.
Format all responses as valid JSON objects with key-value pairs.
Rules:
1. Response must start with an opening curly brace {
2. Each key-value pair must be properly quoted
3. Response must end with a closing curly brace }
4. No additional text or explanation should be included
5. Extract all visible text from the image`

const freeFormUserPrompt = `Extract all text from this image and format it as JSON with descriptive keys.
{
   "key": "value",
   "key": "value",
   "key": "value",
   ...
}`

const labelSystemPrompt = `You are an AI assistant that extracts text from product labels.
Extract the text exactly as it appears on the label, preserving the original structure.
Do not translate, summarize or correct the text.`

const labelUserPrompt = `Extract the product name, model, buy date and serial number from this label.`

// Параметры сэмплирования. Свободный режим держим почти детерминированным,
// в режиме схемы форму ответа ограничивает сама схема.
var (
	FreeFormSampling = entity.SamplingOptions{Temperature: 0.1, TopP: 0.9, TopK: 40}
	LabelSampling    = entity.SamplingOptions{Temperature: 0.3, TopP: 0.8, TopK: 70}
)

// LabelSchema JSON Schema записи LabelRecord. Её же получает сервис в поле format.
var LabelSchema = json.RawMessage(`{
  "title": "Label",
  "type": "object",
  "properties": {
    "Name": {"title": "Name", "type": "string"},
    "Model": {"title": "Model", "type": "string"},
    "Buy_Date": {"title": "Buy Date", "type": "string"},
    "Serial_Number": {"title": "Serial Number", "type": "string"}
  },
  "required": ["Name", "Model", "Buy_Date", "Serial_Number"]
}`)

// NewFreeFormRequest собирает запрос свободного режима.
func NewFreeFormRequest(model string, payload *entity.PreparedPayload) *entity.InferenceRequest {
	return &entity.InferenceRequest{
		Model:    model,
		Sampling: FreeFormSampling,
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: freeFormSystemPrompt},
			{Role: entity.RoleUser, Content: freeFormUserPrompt, Images: [][]byte{payload.Data}},
		},
	}
}

// NewLabelRequest собирает запрос со схемой LabelRecord.
func NewLabelRequest(model string, payload *entity.PreparedPayload) *entity.InferenceRequest {
	return &entity.InferenceRequest{
		Model:    model,
		Sampling: LabelSampling,
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: labelSystemPrompt},
			{Role: entity.RoleUser, Content: labelUserPrompt, Images: [][]byte{payload.Data}},
		},
		Schema: LabelSchema,
	}
}
