package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/ocrerr"
	"vision-ocr/internal/logging"
)

func TestParseLabel_Valid(t *testing.T) {
	raw := `{"Name": "RAZ-145", "Model": "Racerblade 15 3070", "Buy_Date": "12.03.2023", "Serial_Number": "SN-0042"}`

	record, err := ParseLabel(raw, logging.Discard())
	require.NoError(t, err)
	require.Equal(t, &entity.LabelRecord{
		Name:         "RAZ-145",
		Model:        "Racerblade 15 3070",
		BuyDate:      "12.03.2023",
		SerialNumber: "SN-0042",
	}, record)
}

func TestParseLabel_ExtraFieldsIgnored(t *testing.T) {
	raw := `{"Name": "A", "Model": "B", "Buy_Date": "C", "Serial_Number": "D", "Color": "black"}`

	record, err := ParseLabel(raw, logging.Discard())
	require.NoError(t, err)
	require.Equal(t, "D", record.SerialNumber)
}

func TestParseLabel_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing field": `{"Name": "RAZ-145", "Model": "Racerblade", "Buy_Date": "2023"}`,
		"wrong type":    `{"Name": "RAZ-145", "Model": "Racerblade", "Buy_Date": "2023", "Serial_Number": 42}`,
		"not an object": `["RAZ-145"]`,
		"invalid json":  `{"Name": "RAZ-145",`,
		"prose":         `Sorry, I cannot read this label.`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLabel(raw, logging.Discard())
			require.ErrorIs(t, err, ocrerr.ErrSchemaValidation)
		})
	}
}
