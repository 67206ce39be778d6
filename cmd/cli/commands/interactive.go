package commands

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start a session that keeps config and database open across commands",
		Long: `Start an interactive session where you can schedule, score and compare
repeatedly without reloading the config or reopening the database.
The session ends on 'exit', 'quit' or end of input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			commands := sessionCommands(cmd)

			fmt.Fprintln(out, titleStyle.Render("\nWorkshop session"))
			fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}

				parts := strings.Fields(scanner.Text())
				if len(parts) == 0 {
					continue
				}

				switch parts[0] {
				case "exit", "quit":
					fmt.Fprintln(out, "Bye!")
					return nil
				case "help":
					printSessionHelp(out, commands)
					continue
				}

				target, ok := commands[parts[0]]
				if !ok {
					fmt.Fprintf(out, "%s Unknown command: %s (type 'help' for available commands)\n\n",
						errorStyle.Render("✗"), parts[0])
					continue
				}

				if err := runInSession(target, parts[1:]); err != nil {
					app.Logger.Debug("Session command failed", zap.String("command", parts[0]), zap.Error(err))
					fmt.Fprintf(out, "%s Error: %v\n\n", errorStyle.Render("✗"), err)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		},
	}
}

// sessionCommands returns the siblings a session can run by name
func sessionCommands(cmd *cobra.Command) map[string]*cobra.Command {
	commands := make(map[string]*cobra.Command)
	if cmd.Parent() == nil {
		return commands
	}
	for _, sub := range cmd.Parent().Commands() {
		switch sub.Name() {
		case cmd.Name(), "completion", "help":
			continue
		}
		commands[sub.Name()] = sub
	}
	return commands
}

// runInSession calls a command's RunE directly so the root's PersistentPreRunE
// does not initialise the app a second time
func runInSession(target *cobra.Command, args []string) error {
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := target.ParseFlags(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	args = target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			return err
		}
	}

	if target.RunE != nil {
		return target.RunE(target, args)
	}
	if target.Run != nil {
		target.Run(target, args)
	}
	return nil
}

func printSessionHelp(w io.Writer, commands map[string]*cobra.Command) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintln(w)
	t := newTable("Command", "Description")
	for _, name := range names {
		t.addRow(commands[name].Use, commands[name].Short)
	}
	t.addRow("help", "Show this help message")
	t.addRow("exit, quit", "Leave the session")
	t.render(w)
	fmt.Fprintln(w)
}
