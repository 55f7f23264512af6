package bot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

func TestRequestLoggerInstallsScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	mw := RequestLogger(zerolog.New(&buf))

	ctx := newMockContext()
	handler := func(c tele.Context) error {
		loggerFrom(c).Info().Msg("inner")
		return nil
	}
	if err := mw(handler)(ctx); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"inner", "request_id", `"chat_id":100`, `"user_id":7`, "update handled", `"ok":true`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestRequestLoggerPropagatesError(t *testing.T) {
	var buf bytes.Buffer
	mw := RequestLogger(zerolog.New(&buf))

	boom := errors.New("boom")
	err := mw(func(c tele.Context) error { return boom })(newMockContext())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if !strings.Contains(buf.String(), `"ok":false`) {
		t.Errorf("completion log missing ok=false:\n%s", buf.String())
	}
}

func TestRecoverConvertsPanic(t *testing.T) {
	mw := Recover()
	ctx := newMockContext()

	err := mw(func(c tele.Context) error { panic("kaboom") })(ctx)
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("err = %v, want panic message", err)
	}
	if msg := lastString(t, ctx.sent); msg != "Something went wrong. Please try again." {
		t.Errorf("msg = %q", msg)
	}
}

func TestRecoverPassesThrough(t *testing.T) {
	mw := Recover()
	ctx := newMockContext()

	if err := mw(func(c tele.Context) error { return nil })(ctx); err != nil {
		t.Fatal(err)
	}
	if len(ctx.sent) != 0 {
		t.Errorf("unexpected replies: %v", ctx.sent)
	}
}

func TestLoggerFromWithoutMiddleware(t *testing.T) {
	l := loggerFrom(newMockContext())
	if l == nil {
		t.Fatal("loggerFrom returned nil")
	}
	l.Info().Msg("must not panic")
}
