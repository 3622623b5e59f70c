package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/PrayerPraise/initializers"
	"github.com/PrayerPraise/services"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := services.NewDataService(initializers.Collections, newCalendar())
			doc, err := service.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if out == "." {
				out = service.BackupFileName()
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d prayers and %d praises to %s\n", len(doc.Prayers), len(doc.Praises), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("." for the dated backup name, default stdout)`)
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the journal with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			result, err := services.NewDataService(initializers.Collections, newCalendar()).Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d prayers and %d praises\n", result.Prayers, result.Praises)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase every prayer, praise and setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			if err := services.NewDataService(initializers.Collections, newCalendar()).Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "journal reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newRemindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "List the reminders planned for the coming week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calendar := newCalendar()
			scheduler := services.NewReminderScheduler(initializers.Collections, calendar, nil, nil, initializers.Logger)
			reminders, err := scheduler.Upcoming(cmd.Context())
			if err != nil {
				return err
			}
			if len(reminders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no reminders planned")
				return nil
			}
			for _, r := range reminders {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", calendar.FormatDate(r.Fire_At), r.Title, r.Message)
			}
			return nil
		},
	}
}

func newHashPassphraseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-passphrase <passphrase>",
		Short: "Print the bcrypt hash to put in APP_PASSPHRASE_HASH",
		Args:  cobra.ExactArgs(1),
		// needs no storage
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}
