package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	"github.com/agrofel/sales-agent/internal/usecase"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := setup(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		return runREPL(ctx, a.Chat, cmd.InOrStdin(), cmd.OutOrStdout(), uuid.New().String())
	},
}

// runREPL reads one message per line until EOF, "/sair" or "/exit".
func runREPL(ctx context.Context, chat usecase.ChatUseCase, in io.Reader, out io.Writer, convID string) error {
	fmt.Fprintln(out, constants.WelcomeMessage)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/sair", "/exit":
			return nil
		case "/reset":
			if err := chat.ClearHistory(ctx, convID); err != nil {
				return err
			}
			fmt.Fprintln(out, "Conversa reiniciada.")
			continue
		}

		reply, err := chat.ProcessMessage(ctx, convID, "terminal", line)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", constants.AgentName, reply.Text)
	}
}
