package bot

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

// loggerKey stores the update-scoped logger on the telebot context.
const loggerKey = "logger"

// RequestLogger attaches a request-scoped logger to every update and logs
// its completion with latency. Handler errors themselves are logged by the
// bot's OnError hook, so this stays a plain access log.
func RequestLogger(base zerolog.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()

			logger := base.With().
				Str("request_id", uuid.NewString()).
				Int("update_id", c.Update().ID).
				Logger()
			if chat := c.Chat(); chat != nil {
				logger = logger.With().Int64("chat_id", chat.ID).Logger()
			}
			if sender := c.Sender(); sender != nil {
				logger = logger.With().Int64("user_id", sender.ID).Logger()
			}
			c.Set(loggerKey, &logger)

			err := next(c)

			logger.Info().
				Dur("latency", time.Since(start)).
				Bool("ok", err == nil).
				Msg("update handled")
			return err
		}
	}
}

// loggerFrom returns the update-scoped logger installed by RequestLogger,
// or a disabled logger when the middleware did not run.
func loggerFrom(c tele.Context) *zerolog.Logger {
	if l, ok := c.Get(loggerKey).(*zerolog.Logger); ok && l != nil {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}

// Recover converts a handler panic into an error so one bad update cannot
// take the poller down. The chat gets a generic failure note.
func Recover() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					loggerFrom(c).Error().
						Interface("panic", r).
						Bytes("stack", debug.Stack()).
						Msg("handler panic recovered")
					_ = c.Send("Something went wrong. Please try again.")
					err = fmt.Errorf("handler panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}
