package upstream

import (
	"encoding/json"
	"strconv"
)

// MaxTextRunes caps text payloads relayed into a chat message.
const MaxTextRunes = 4000

// Kind tags the outcome of a lookup.
type Kind int

const (
	// KindRecords carries one or more decoded subscriber records.
	KindRecords Kind = iota
	// KindEmpty means upstream answered with nothing for the number.
	KindEmpty
	// KindRawText carries a 200 body that did not parse as JSON.
	KindRawText
	// KindFailure carries a transport or upstream error message.
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindRecords:
		return "records"
	case KindEmpty:
		return "empty"
	case KindRawText:
		return "rawtext"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Record is one subscriber row as upstream reports it. Decoding is lenient:
// scalar values of any JSON type are kept, stringified; nested values and
// rows that are not objects come back as zero Records.
type Record struct {
	ID         string
	IDNumber   string
	Mobile     string
	AltMobile  string
	Name       string
	FatherName string
	Address    string
	Circle     string
}

// Result is the single classification of one upstream response. Handlers
// switch on Kind and never re-inspect the payload. Body keeps the verbatim
// bytes of any 200 response so the raw path can re-render without a second
// decode.
type Result struct {
	Kind    Kind
	Records []Record // KindRecords
	Body    []byte   // any 200 response, verbatim
	Text    string   // KindRawText payload, truncated
	Reason  string   // KindFailure message
}

// classify maps a 200 body onto the Result union. A JSON array becomes
// Records (or Empty when the array is empty); a truthy non-array value
// becomes a single-element Records; falsy values (null, false, 0, "", {})
// become Empty; anything that does not parse is RawText.
func classify(body []byte) Result {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return Result{Kind: KindRawText, Body: body, Text: truncateRunes(string(body), MaxTextRunes)}
	}
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return Result{Kind: KindEmpty, Body: body}
		}
		recs := make([]Record, 0, len(t))
		for _, el := range t {
			recs = append(recs, decodeRecord(el))
		}
		return Result{Kind: KindRecords, Records: recs, Body: body}
	default:
		if truthy(v) {
			return Result{Kind: KindRecords, Records: []Record{decodeRecord(v)}, Body: body}
		}
		return Result{Kind: KindEmpty, Body: body}
	}
}

func decodeRecord(v any) Record {
	m, ok := v.(map[string]any)
	if !ok {
		return Record{}
	}
	return Record{
		ID:         coerce(m["id"]),
		IDNumber:   coerce(m["id_number"]),
		Mobile:     coerce(m["mobile"]),
		AltMobile:  coerce(m["alt_mobile"]),
		Name:       coerce(m["name"]),
		FatherName: coerce(m["father_name"]),
		Address:    coerce(m["address"]),
		Circle:     coerce(m["circle"]),
	}
}

// coerce stringifies a decoded JSON scalar. Integral floats drop the
// fractional part so numeric ids round-trip as plain digit strings.
func coerce(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// truthy reports whether a decoded value counts as data. Null, false,
// numeric zero, "" and {} all mean no records.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// truncateRunes clips s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
