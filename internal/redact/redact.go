// Package redact maps upstream records onto privacy-reduced views that are
// safe to show in a chat.
package redact

import (
	"strings"

	"github.com/eliseohh/leakcheckbot/internal/upstream"
)

// Record is the redacted projection of an upstream record. Field order is
// the legacy output order so the rendered JSON stays byte-compatible.
type Record struct {
	ID         string `json:"id"`
	Mobile     string `json:"mobile"`
	AltMobile  string `json:"alt_mobile"`
	Name       string `json:"name"`
	FatherName string `json:"father_name"`
	Address    string `json:"address"`
	Circle     string `json:"circle"`
	IDNumber   string `json:"id_number"`
}

// Apply redacts one record. Pure and total; missing fields are treated as
// empty strings. The id column falls back to id_number when the record has
// no id of its own.
func Apply(r upstream.Record) Record {
	id := r.ID
	if id == "" {
		id = r.IDNumber
	}
	return Record{
		ID:         redactID(id),
		Mobile:     redactMobile(r.Mobile),
		AltMobile:  redactMobile(r.AltMobile),
		Name:       r.Name,
		FatherName: r.FatherName,
		Address:    redactAddress(r.Address),
		Circle:     r.Circle,
		IDNumber:   redactID(r.IDNumber),
	}
}

// ApplyAll redacts every record, preserving order.
func ApplyAll(rs []upstream.Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = Apply(r)
	}
	return out
}

// redactMobile keeps the last four digits when the number is long enough to
// stay ambiguous and masks everything shorter.
func redactMobile(m string) string {
	if m == "" {
		return ""
	}
	r := []rune(m)
	if len(r) >= 4 {
		return "***-***-" + string(r[len(r)-4:])
	}
	return "***"
}

func redactID(id string) string {
	if id == "" {
		return ""
	}
	r := []rune(id)
	if len(r) > 4 {
		return string(r[0]) + "***" + string(r[len(r)-2:])
	}
	return "***"
}

// redactAddress keeps at most the first 30 runes of the leading segment,
// plus the trailing segment when there is more than one. Segments split on
// ";" or "!".
func redactAddress(addr string) string {
	if addr == "" {
		return "REDACTED"
	}
	var segs []string
	for _, p := range strings.Split(strings.ReplaceAll(addr, ";", "!"), "!") {
		if p = strings.TrimSpace(p); p != "" {
			segs = append(segs, p)
		}
	}
	if len(segs) == 0 {
		return "REDACTED"
	}
	head := segs[0]
	if r := []rune(head); len(r) > 30 {
		head = string(r[:30])
		if len(segs) == 1 {
			return head + "..."
		}
	}
	if len(segs) == 1 {
		return head
	}
	return head + " ... " + segs[len(segs)-1]
}
