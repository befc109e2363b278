package entity

import (
	"bytes"
	"encoding/json"
)

// OCRResult упорядоченный словарь строк. Порядок ключей совпадает с порядком
// извлечения, повторный ключ перезаписывает значение, сохраняя позицию.
type OCRResult struct {
	keys   []string
	values map[string]string
}

// NewOCRResult создаёт пустой результат.
func NewOCRResult() *OCRResult {
	return &OCRResult{values: make(map[string]string)}
}

// Set добавляет или перезаписывает значение.
func (r *OCRResult) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get возвращает значение по ключу.
func (r *OCRResult) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys возвращает ключи в порядке извлечения.
func (r *OCRResult) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len количество пар.
func (r *OCRResult) Len() int {
	return len(r.keys)
}

// Map возвращает копию в виде обычного map.
func (r *OCRResult) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON сериализует объект с сохранением порядка ключей.
func (r *OCRResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LabelRecord данные с этикетки товара. Все поля обязательны.
type LabelRecord struct {
	Name         string `json:"Name"`
	Model        string `json:"Model"`
	BuyDate      string `json:"Buy_Date"`
	SerialNumber string `json:"Serial_Number"`
}

// Fields возвращает поля записи в порядке схемы, удобно для вывода.
func (l LabelRecord) Fields() [][2]string {
	return [][2]string{
		{"Name", l.Name},
		{"Model", l.Model},
		{"Buy_Date", l.BuyDate},
		{"Serial_Number", l.SerialNumber},
	}
}
