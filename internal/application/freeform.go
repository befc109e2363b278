package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/ocrerr"
)

var (
	// от первой { до последней }, через переводы строк
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

	trailingCommaPattern = regexp.MustCompile(`,\s*}`)
)

const blank = " \t\n\f\r"

// ExtractObject возвращает первый фрагмент {...} из ответа модели.
func ExtractObject(raw string) (string, bool) {
	match := objectPattern.FindString(raw)
	return match, match != ""
}

// ParseFreeForm разбирает ответ свободного режима. Сначала строгий разбор,
// при ошибке одна попытка починки через RepairJSON.
func ParseFreeForm(raw string, logger *slog.Logger) (*entity.OCRResult, error) {
	content := strings.TrimSpace(raw)
	logger.Info("raw response content", "content", content)

	extracted, ok := ExtractObject(content)
	if !ok {
		return nil, ocrerr.NewNoStructureError(content)
	}
	logger.Info("extracted JSON string", "json", extracted)

	result, err := DecodeObject(extracted)
	if err == nil {
		return result, nil
	}
	logger.Debug("direct parse failed, repairing", "error", err)

	cleaned := RepairJSON(extracted)
	result, err = DecodeObject(cleaned)
	if err != nil {
		logger.Error("failed to parse cleaned JSON",
			"error", err,
			"raw", content,
			"cleaned", cleaned)
		return nil, ocrerr.NewUnrecoverableError(content, cleaned, err)
	}
	logger.Info("repaired JSON parsed", "cleaned", cleaned, "pairs", result.Len())
	return result, nil
}

// RepairJSON исправляет типичные ошибки модели. Порядок шагов важен:
// каждый следующий рассчитывает на результат предыдущих.
// Уже разбираемый объект возвращается как есть: пробелы внутри кавычек в нём
// считаются данными, а не мусором.
func RepairJSON(s string) string {
	if _, err := DecodeObject(s); err == nil {
		return s
	}
	s = stripTrailingCommas(s)
	s = insertMissingCommas(s)
	s = collapseQuotePadding(s)
	s = stripTrailingProse(s)
	return terminateObject(s)
}

// stringSpan позиции открывающей и закрывающей кавычек строки JSON
type stringSpan struct {
	start, end int
}

// scanStrings находит строки с учётом экранирования. openAt индекс кавычки
// незакрытой строки в конце текста или -1.
func scanStrings(s string) (spans []stringSpan, openAt int) {
	openAt = -1
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if openAt >= 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				spans = append(spans, stringSpan{start: openAt, end: i})
				openAt = -1
			}
			continue
		}
		if c == '"' {
			openAt = i
		}
	}
	return spans, openAt
}

// stripTrailingCommas убирает запятую перед } вне строк.
func stripTrailingCommas(s string) string {
	spans, openAt := scanStrings(s)
	var out strings.Builder
	prev := 0
	for _, sp := range spans {
		out.WriteString(trailingCommaPattern.ReplaceAllString(s[prev:sp.start], "}"))
		out.WriteString(s[sp.start : sp.end+1])
		prev = sp.end + 1
	}
	if openAt >= 0 {
		out.WriteString(trailingCommaPattern.ReplaceAllString(s[prev:openAt], "}"))
		out.WriteString(s[openAt:])
	} else {
		out.WriteString(trailingCommaPattern.ReplaceAllString(s[prev:], "}"))
	}
	return out.String()
}

// insertMissingCommas ставит запятую между значением и следующей строкой,
// если модель склеила пары: {"a": "1" "b": "2"}.
func insertMissingCommas(s string) string {
	type frame struct {
		object    bool
		expectKey bool
	}

	var (
		out        strings.Builder
		pending    strings.Builder // пробелы между токенами
		stack      []frame
		inString   bool
		escaped    bool
		afterValue bool
	)

	flush := func() {
		out.WriteString(pending.String())
		pending.Reset()
	}
	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}
		return &stack[len(stack)-1]
	}

	for _, r := range s {
		if inString {
			out.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
				if f := top(); f != nil && f.object && f.expectKey {
					f.expectKey = false
				} else {
					afterValue = true
				}
			}
			continue
		}

		switch r {
		case ' ', '\t', '\n', '\r':
			pending.WriteRune(r)
			continue
		case '"':
			if afterValue {
				out.WriteByte(',')
				if f := top(); f != nil && f.object {
					f.expectKey = true
				}
			}
			afterValue = false
			inString = true
		case '{':
			stack = append(stack, frame{object: true, expectKey: true})
			afterValue = false
		case '[':
			stack = append(stack, frame{})
			afterValue = false
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			afterValue = true
		case ',':
			if f := top(); f != nil && f.object {
				f.expectKey = true
			}
			afterValue = false
		case ':':
			afterValue = false
		default:
			// числа, true/false/null и прочие голые слова
			afterValue = true
		}
		flush()
		out.WriteRune(r)
	}
	flush()
	return out.String()
}

// collapseQuotePadding убирает пробелы внутри кавычек ключей и значений
// и вокруг двоеточия. Прочие строки не трогает.
func collapseQuotePadding(s string) string {
	spans, _ := scanStrings(s)

	var out strings.Builder
	prev := 0
	prevKey := false
	for _, sp := range spans {
		gap := s[prev:sp.start]
		if prevKey && strings.HasPrefix(strings.TrimLeft(gap, blank), ":") {
			gap = strings.TrimLeft(gap, blank)
		}
		value := strings.HasSuffix(strings.TrimRight(gap, blank), ":")
		if value {
			gap = strings.TrimRight(gap, blank)
		}
		key := strings.HasPrefix(strings.TrimLeft(s[sp.end+1:], blank), ":")

		inner := s[sp.start+1 : sp.end]
		if key || value {
			inner = strings.Trim(inner, blank)
		}
		out.WriteString(gap)
		out.WriteByte('"')
		out.WriteString(inner)
		out.WriteByte('"')

		prev = sp.end + 1
		prevKey = key
	}

	rest := s[prev:]
	if prevKey && strings.HasPrefix(strings.TrimLeft(rest, blank), ":") {
		rest = strings.TrimLeft(rest, blank)
	}
	out.WriteString(rest)
	return out.String()
}

// stripTrailingProse убирает приписку модели перед закрывающей скобкой вместе
// с самой скобкой. Скобку вернёт terminateObject.
func stripTrailingProse(s string) string {
	s = stripQuotedTrailer(s)
	return stripUnquotedTrailer(s)
}

// finalBrace индекс последней }, если после неё только пробелы, иначе -1.
func finalBrace(s string, openAt int) int {
	if openAt >= 0 {
		return -1
	}
	t := strings.TrimRight(s, blank)
	if !strings.HasSuffix(t, "}") {
		return -1
	}
	return len(t) - 1
}

// stripQuotedTrailer "Фраза с точкой." последней строкой перед }. Если перед ней
// двоеточие, это значение и оно остаётся.
func stripQuotedTrailer(s string) string {
	spans, openAt := scanStrings(s)
	f := finalBrace(s, openAt)
	if f < 0 || len(spans) == 0 {
		return s
	}

	last := spans[len(spans)-1]
	if strings.Trim(s[last.end+1:f], blank) != "" || !strings.HasSuffix(s[last.start+1:last.end], ".") {
		return s
	}

	before := strings.TrimRight(s[:last.start], blank)
	before = strings.TrimRight(strings.TrimSuffix(before, ","), blank)
	if before == "" || strings.HasSuffix(before, ":") || strings.HasSuffix(before, ",") {
		return s
	}
	return before
}

// stripUnquotedTrailer текст без кавычек, заканчивающийся точкой, после последнего значения.
func stripUnquotedTrailer(s string) string {
	spans, openAt := scanStrings(s)
	f := finalBrace(s, openAt)
	if f < 0 {
		return s
	}

	p := lastTokenEnd(s, f, spans)
	if p < 0 {
		return s
	}

	tail := strings.Trim(s[p+1:f], blank)
	tail = strings.TrimLeft(strings.TrimPrefix(tail, ","), blank)
	if !strings.HasSuffix(tail, ".") || strings.HasPrefix(tail, ":") || strings.ContainsAny(tail, `"{}[]`) {
		return s
	}
	return s[:p+1]
}

// lastTokenEnd индекс последней закрывающей кавычки, ] или } вне строк до позиции f.
func lastTokenEnd(s string, f int, spans []stringSpan) int {
	p := -1
	next := 0
	for i := 0; i < f; i++ {
		if next < len(spans) && i == spans[next].start {
			i = spans[next].end
			p = i
			next++
			continue
		}
		if s[i] == '}' || s[i] == ']' {
			p = i
		}
	}
	return p
}

// terminateObject закрывает все незакрытые объекты.
func terminateObject(s string) string {
	s = strings.TrimRight(s, " \t\r\n")

	depth := 0
	inString, escaped := false, false
	for _, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	if depth > 0 {
		s += strings.Repeat("}", depth)
	}
	return s
}

// DecodeObject строго разбирает JSON-объект с сохранением порядка ключей.
// Повторный ключ перезаписывает значение. Нестроковые значения сохраняются
// как их JSON-представление, null как пустая строка.
func DecodeObject(text string) (*entity.OCRResult, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	result := entity.NewOCRResult()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		value, err := stringValue(raw)
		if err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		result.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}
	return result, nil
}

func stringValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0:
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '{' || raw[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(raw), nil
	}
}
