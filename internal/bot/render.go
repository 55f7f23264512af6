package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"unicode/utf8"

	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/leakcheckbot/internal/metrics"
	"github.com/eliseohh/leakcheckbot/internal/redact"
	"github.com/eliseohh/leakcheckbot/internal/upstream"
)

// respondFunc delivers one reply. On the consent path it edits the
// "Checking..." status message, elsewhere it sends a fresh one; tele.Context
// exposes both with the same shape.
type respondFunc func(what interface{}, opts ...interface{}) error

// renderCheck turns a lookup result into the user-facing /check reply.
// edit selects whether text replies rewrite the status message.
func (b *Bot) renderCheck(c tele.Context, number string, res upstream.Result, edit bool) error {
	respond := respondFunc(c.Send)
	if edit {
		respond = c.Edit
	}

	switch res.Kind {
	case upstream.KindFailure:
		loggerFrom(c).Error().Str("reason", res.Reason).Msg("upstream lookup failed")
		return respond(res.Reason)

	case upstream.KindRawText:
		return respond("Upstream returned non-json:\n\n" + res.Text)

	case upstream.KindEmpty:
		return respond("Good — no records found for this number.")

	default: // KindRecords
		n := len(res.Records)
		if b.cfg.RedactOutput {
			pretty := marshalPretty(redact.ApplyAll(res.Records))
			return b.deliver(c, respond, pretty, "result-"+number+".json",
				fmt.Sprintf("Found %d record(s). Redacted results:\n\n", n),
				fmt.Sprintf("Found %d record(s). Sent redacted JSON as file.", n))
		}
		pretty, ok := indentBody(res.Body)
		if !ok {
			return respond(truncateRunes(string(res.Body), upstream.MaxTextRunes))
		}
		return b.deliver(c, respond, pretty, number+".json",
			fmt.Sprintf("Found %d record(s). Results:\n\n", n),
			fmt.Sprintf("Found %d record(s). Sent JSON as file.", n))
	}
}

// renderRaw relays the upstream payload for the admin path: prettified when
// it was JSON, bare text otherwise.
func (b *Bot) renderRaw(c tele.Context, number string, res upstream.Result) error {
	switch res.Kind {
	case upstream.KindFailure:
		loggerFrom(c).Error().Str("reason", res.Reason).Msg("upstream lookup failed")
		return c.Send(res.Reason)

	case upstream.KindRawText:
		return c.Send(res.Text)

	default: // KindRecords, KindEmpty: the stored body is valid JSON
		pretty, ok := indentBody(res.Body)
		if !ok {
			return c.Send(truncateRunes(string(res.Body), upstream.MaxTextRunes))
		}
		if utf8.RuneCount(pretty) > upstream.MaxTextRunes {
			metrics.Reply("file")
			return c.Send(jsonDocument(pretty, "raw-"+number+".json"))
		}
		metrics.Reply("inline")
		return c.Send("<pre>"+html.EscapeString(string(pretty))+"</pre>", tele.ModeHTML)
	}
}

// deliver picks inline <pre> rendering or a file upload depending on the
// payload size. Files carry the unescaped JSON bytes; the inline form is
// HTML-escaped for Telegram.
func (b *Bot) deliver(c tele.Context, respond respondFunc, pretty []byte, filename, inlinePrefix, fileNote string) error {
	if utf8.RuneCount(pretty) > upstream.MaxTextRunes {
		if err := c.Send(jsonDocument(pretty, filename)); err != nil {
			return err
		}
		metrics.Reply("file")
		return respond(fileNote)
	}
	metrics.Reply("inline")
	return respond(inlinePrefix+"<pre>"+html.EscapeString(string(pretty))+"</pre>", tele.ModeHTML)
}

func jsonDocument(pretty []byte, filename string) *tele.Document {
	return &tele.Document{
		File:     tele.FromReader(bytes.NewReader(pretty)),
		FileName: filename,
		MIME:     "application/json",
	}
}

// marshalPretty renders v as 2-space-indented JSON without Go's HTML
// escaping, matching the legacy output byte for byte.
func marshalPretty(v interface{}) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// indentBody pretty-prints stored upstream bytes, preserving key order.
func indentBody(body []byte) ([]byte, bool) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
