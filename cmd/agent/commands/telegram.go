package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrofel/sales-agent/internal/delivery/telegram"
	"github.com/agrofel/sales-agent/pkg/logger"
	"github.com/spf13/cobra"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := setup(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		watchReload(ctx, a.Catalog)

		if strings.TrimSpace(a.Config.TelegramToken) == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
		}

		bot, err := telegram.NewBotHandler(a.Config.TelegramToken, a.Chat)
		if err != nil {
			return err
		}
		logger.Info().Str("bot", bot.GetBotUsername()).Msg("Telegram bot tayyor")

		if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info().Msg("Bot to'xtatildi")
		return nil
	},
}
