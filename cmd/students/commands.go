package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/students-manager/internal/logger"
	"github.com/aanand-mishra/students-manager/internal/tui"
	"github.com/aanand-mishra/students-manager/internal/types"
	"github.com/aanand-mishra/students-manager/internal/validation"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := a.newStore(a.log)
			if err := st.FetchAll(commandContext(cmd)); err != nil {
				return errors.New(st.State().Error)
			}

			students := st.State().Students
			if len(students) == 0 {
				printf(cmd.OutOrStdout(), "No students found.\n")
				return nil
			}
			printf(cmd.OutOrStdout(), "%s\n", studentTable(students))
			return nil
		},
	}
}

func studentTable(students []types.Student) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "EMAIL", "PHONE", "ADDRESS")
	for _, s := range students {
		t.Row(strconv.FormatInt(s.ID, 10), s.Name, s.Email, s.Phone, s.Address)
	}
	return t.String()
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Print one student as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.client.Get(commandContext(cmd), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, s)
		},
	}
}

// formFlags registers one string flag per form field.
func formFlags(cmd *cobra.Command) map[validation.Field]*string {
	values := make(map[validation.Field]*string, len(validation.Fields))
	for _, f := range validation.Fields {
		values[f] = cmd.Flags().String(string(f), "", "student "+string(f))
	}
	return values
}

func (a *app) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a student",
		Example: `  students add --name Asha --email asha@test.com --phone 555 --address "12 Hill Rd"`,
		Args:    cobra.NoArgs,
	}
	values := formFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		var form validation.Form
		for f, v := range values {
			form = form.Set(f, *v)
		}
		if err := validation.AsError(form); err != nil {
			return err
		}

		s, err := a.client.Create(commandContext(cmd), form.Input())
		if err != nil {
			return err
		}
		printf(cmd.OutOrStdout(), "Created student %d.\n", s.ID)
		return printJSON(cmd, s)
	}
	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a student; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
	}
	values := formFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		current, err := a.client.Get(ctx, id)
		if err != nil {
			return err
		}
		form := validation.FormFromInput(current.Input())
		for f, v := range values {
			if cmd.Flags().Changed(string(f)) {
				form = form.Set(f, *v)
			}
		}
		if err := validation.AsError(form); err != nil {
			return err
		}

		s, err := a.client.Update(ctx, id, form.Input())
		if err != nil {
			return err
		}
		printf(cmd.OutOrStdout(), "Updated student %d.\n", s.ID)
		return printJSON(cmd, s)
	}
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				printf(cmd.OutOrStdout(), "Are you sure you want to delete student %d? [y/N] ", id)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if reply := strings.ToLower(strings.TrimSpace(answer)); reply != "y" && reply != "yes" {
					printf(cmd.OutOrStdout(), "Cancelled.\n")
					return nil
				}
			}

			if err := a.client.Remove(commandContext(cmd), id); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Deleted student %d.\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive student manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Anything below WARN would draw over the screen.
			st := a.newStore(logger.Quiet(cmd.ErrOrStderr()))

			m := tui.New(commandContext(cmd), st)
			defer m.Close()

			_, err := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(commandContext(cmd)),
			).Run()
			return err
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid student id %q", s)
	}
	return id, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
