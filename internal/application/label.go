package app

import (
	"bytes"
	"encoding/json"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/ocrerr"
)

var labelSchema = jsonschema.MustCompileString("label.schema.json", string(LabelSchema))

// ParseLabel проверяет ответ по схеме LabelRecord. Починки нет: либо все
// четыре поля строками, либо SchemaValidationError.
func ParseLabel(raw string, logger *slog.Logger) (*entity.LabelRecord, error) {
	content := bytes.TrimSpace([]byte(raw))
	logger.Info("raw structured response", "content", string(content))

	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, ocrerr.NewSchemaValidationError("response is not valid JSON", err)
	}
	if err := labelSchema.Validate(doc); err != nil {
		logger.Warn("label does not match schema", "error", err)
		return nil, ocrerr.NewSchemaValidationError("response does not match label schema", err)
	}

	var record entity.LabelRecord
	if err := json.Unmarshal(content, &record); err != nil {
		return nil, ocrerr.NewSchemaValidationError("decode label", err)
	}
	return &record, nil
}
