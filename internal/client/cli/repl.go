package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

func (a *App) prompt() string {
	if a.isLoggedIn() && a.session.Identifier != "" {
		return fmt.Sprintf("mb (%s)> ", a.session.Identifier)
	}
	return "mb> "
}

// Root runs the interactive prompt until exit or EOF.
func (a *App) Root(ctx context.Context) error {
	a.printf("Welcome to microblog CLI (type 'help' for commands)\n")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		a.printf("%s", a.prompt())

		line, err := a.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				a.printf("\n")
				return nil
			}
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			a.printf("Bye!\n")
			return nil
		default:
			if cmdErr := a.dispatch(ctx, parts[0], parts[1:]); cmdErr != nil {
				a.printf("error: %v\n", cmdErr)
			}
		}

		if err != nil {
			return nil
		}
	}
}
