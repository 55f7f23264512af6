package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/leakcheckbot/internal/admin"
	"github.com/eliseohh/leakcheckbot/internal/cooldown"
	"github.com/eliseohh/leakcheckbot/internal/metrics"
	"github.com/eliseohh/leakcheckbot/internal/phone"
	"github.com/eliseohh/leakcheckbot/internal/upstream"
)

// Lookuper is the upstream dependency of the router. *upstream.Client
// satisfies it; tests substitute a stub.
type Lookuper interface {
	Lookup(ctx context.Context, number string) upstream.Result
}

// Config selects the pipeline variant the bot runs.
type Config struct {
	Token          string
	PollTimeout    time.Duration
	RequireConsent bool
	RedactOutput   bool
	EnableRawAdmin bool
}

type Bot struct {
	api      *tele.Bot
	cfg      Config
	gate     *cooldown.Gate
	admins   *admin.Gate
	upstream Lookuper
	log      zerolog.Logger
}

// Consent keyboard buttons. The confirm payload carries the validated
// number so no lookup state lives server-side between prompt and click.
var (
	btnConfirm = tele.Btn{Unique: "confirm", Text: "Confirm (this is mine / I have permission)"}
	btnCancel  = tele.Btn{Unique: "cancel", Text: "Cancel"}
)

func New(cfg Config, gate *cooldown.Gate, admins *admin.Gate, up Lookuper, log zerolog.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			if c != nil {
				loggerFrom(c).Error().Err(err).Msg("handler error")
				return
			}
			log.Error().Err(err).Msg("bot error")
		},
	}

	api, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot := &Bot{api: api, cfg: cfg, gate: gate, admins: admins, upstream: up, log: log}
	bot.register()
	return bot, nil
}

func (b *Bot) Start() {
	b.log.Info().
		Str("username", b.api.Me.Username).
		Bool("require_consent", b.cfg.RequireConsent).
		Bool("redact_output", b.cfg.RedactOutput).
		Bool("enable_raw_admin", b.cfg.EnableRawAdmin).
		Msg("bot started")
	b.api.Start()
}

func (b *Bot) Stop() {
	b.api.Stop()
}

func (b *Bot) register() {
	b.api.Use(RequestLogger(b.log), Recover())

	b.api.Handle("/start", b.handleStart)
	b.api.Handle("/check", b.handleCheck)
	if b.cfg.EnableRawAdmin {
		b.api.Handle("/raw", b.handleRaw)
	}

	b.api.Handle(&btnConfirm, b.handleConfirm)
	b.api.Handle(&btnCancel, b.handleCancel)

	// Bare text that looks like a number is treated like /check.
	b.api.Handle(tele.OnText, b.handleText)
}

func (b *Bot) handleStart(c tele.Context) error {
	metrics.Update("start")
	return c.Send("Bot started — made by SK\n\n" +
		"Usage:\n" +
		"/check <10-digit-number>  — run a safe check (asks consent)\n" +
		"/raw <number>             — (admin only) returns raw upstream JSON\n\n" +
		"Only check numbers you own or have permission for.")
}

// handleCheck gates on the cooldown before argument parsing, so even a
// malformed command spends the chat's slot.
func (b *Bot) handleCheck(c tele.Context) error {
	metrics.Update("check")
	if limited, _ := b.gate.Check(c.Chat().ID); limited {
		metrics.RateLimited()
		loggerFrom(c).Warn().Msg("check refused by cooldown")
		return c.Send("Slow down a bit. Try again in a moment.")
	}

	args := strings.Fields(c.Message().Payload)
	if len(args) == 0 {
		return c.Send("Usage: /check 7990127515")
	}
	number, ok := phone.Normalize(args[0])
	if !ok {
		return c.Send("Enter valid 10-digit Indian number (starts with 6-9).")
	}
	return b.checkFlow(c, number)
}

// handleText treats a message that validates as a number like /check and
// nudges everything else toward the command. Invalid text does not spend
// the chat's cooldown slot.
func (b *Bot) handleText(c tele.Context) error {
	metrics.Update("text")
	number, ok := phone.Normalize(c.Text())
	if !ok {
		return c.Send("Send /check <number> or just send a 10-digit Indian number.")
	}
	if limited, _ := b.gate.Check(c.Chat().ID); limited {
		metrics.RateLimited()
		loggerFrom(c).Warn().Msg("check refused by cooldown")
		return c.Send("Slow down a bit. Try again in a moment.")
	}
	return b.checkFlow(c, number)
}

// checkFlow runs after validation and the first cooldown gate. Depending on
// the variant it either asks for consent or calls upstream directly.
func (b *Bot) checkFlow(c tele.Context, number string) error {
	if !b.cfg.RequireConsent {
		if err := c.Send("Checking... (server-side call)"); err != nil {
			return err
		}
		res := b.upstream.Lookup(context.Background(), number)
		return b.renderCheck(c, number, res, false)
	}

	kb := &tele.ReplyMarkup{}
	kb.Inline(kb.Row(
		kb.Data(btnConfirm.Text, btnConfirm.Unique, number),
		kb.Data(btnCancel.Text, btnCancel.Unique),
	))
	prompt := fmt.Sprintf("You're about to check `%s`. Do you confirm this is your number or you have permission?", number)
	return c.Send(prompt, kb, tele.ModeMarkdown)
}

// handleConfirm finishes the consent flow. The number travels in the
// callback payload, so it is validated again and the cooldown is checked a
// second time before the lookup runs.
func (b *Bot) handleConfirm(c tele.Context) error {
	metrics.Update("confirm")
	if err := c.Respond(); err != nil {
		return err
	}

	number, ok := phone.Normalize(c.Data())
	if !ok {
		return c.Edit("Enter valid 10-digit Indian number (starts with 6-9).")
	}
	if limited, wait := b.gate.Check(c.Chat().ID); limited {
		metrics.RateLimited()
		loggerFrom(c).Warn().Msg("confirm refused by cooldown")
		return c.Edit(fmt.Sprintf("Rate limit: try again in %ds.", int64(wait.Seconds())+1))
	}

	if err := c.Edit("Checking... (server-side call)"); err != nil {
		return err
	}
	res := b.upstream.Lookup(context.Background(), number)
	return b.renderCheck(c, number, res, true)
}

func (b *Bot) handleCancel(c tele.Context) error {
	metrics.Update("cancel")
	if err := c.Respond(); err != nil {
		return err
	}
	return c.Edit("Cancelled.")
}

// handleRaw returns the upstream payload untouched. Admin-gated, not
// subject to the cooldown.
func (b *Bot) handleRaw(c tele.Context) error {
	metrics.Update("raw")

	var userID int64
	if s := c.Sender(); s != nil {
		userID = s.ID
	}
	switch verdict := b.admins.Authorize(userID); verdict {
	case admin.DeniedNotConfigured:
		loggerFrom(c).Warn().Stringer("verdict", verdict).Msg("raw denied")
		return c.Send("Admin functionality not configured on server.")
	case admin.DeniedNotAuthorized:
		loggerFrom(c).Warn().Stringer("verdict", verdict).Msg("raw denied")
		return c.Send("You are not authorized to use this command.")
	}

	args := strings.Fields(c.Message().Payload)
	if len(args) == 0 {
		return c.Send("Usage: /raw 7990127515")
	}
	number, ok := phone.Normalize(args[0])
	if !ok {
		return c.Send("Enter valid 10-digit Indian number.")
	}

	if err := c.Send("Fetching raw upstream (admin) ..."); err != nil {
		return err
	}
	res := b.upstream.Lookup(context.Background(), number)
	return b.renderRaw(c, number, res)
}
