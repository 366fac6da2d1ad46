package main

import (
	"fmt"
	"strings"
	"time"

	"hub-go/internal/hub"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage reminders",
}

var remindAddCmd = &cobra.Command{
	Use:   "add HH:MM TITLE...",
	Short: "Add a reminder",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := hub.ReminderInput{Time: args[0], Title: strings.Join(args[1:], " ")}
		in.Date, _ = cmd.Flags().GetString("date")
		in.Notes, _ = cmd.Flags().GetString("notes")
		if daily, _ := cmd.Flags().GetBool("daily"); daily {
			in.Repeat = hub.RepeatDaily
		}

		s, err := openSession(cmd, "ReminderAdd")
		if err != nil {
			return err
		}
		defer s.Close()

		r, err := s.Hub().Reminders.Add(s.ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", r.ID)
		return nil
	},
}

var remindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ReminderList")
		if err != nil {
			return err
		}
		defer s.Close()

		rems, err := s.Hub().Reminders.List(s.ctx)
		if err != nil {
			return err
		}
		if len(rems) == 0 {
			fmt.Println("No reminders.")
			return nil
		}
		for _, r := range rems {
			when := r.Time
			switch {
			case r.Repeat == hub.RepeatDaily:
				when = "daily " + r.Time
			case r.Date != "":
				when = r.Date + " " + r.Time
			}
			fmt.Printf("%s %s  %-16s  %s\n", checkbox(r.Enabled), r.ID, when, r.Title)
		}
		return nil
	},
}

var remindToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Enable or disable a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ReminderToggle")
		if err != nil {
			return err
		}
		defer s.Close()

		r, err := s.Hub().Reminders.Toggle(s.ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", checkbox(r.Enabled), r.Title)
		return nil
	},
}

var remindRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ReminderDelete")
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.Hub().Reminders.Delete(s.ctx, args[0])
		if err != nil {
			return err
		}
		printRemoved("reminder", args[0], removed)
		return nil
	},
}

var remindUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show reminders firing soon",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, _ := cmd.Flags().GetDuration("within")

		s, err := openSession(cmd, "ReminderUpcoming")
		if err != nil {
			return err
		}
		defer s.Close()

		due, err := s.Hub().Reminders.Upcoming(s.ctx, time.Now(), window)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Printf("Nothing due in the next %s.\n", window)
			return nil
		}
		for _, d := range due {
			fmt.Printf("%s  %s\n", d.At.Format("Mon 2006-01-02 15:04"), d.Reminder.Title)
		}
		return nil
	},
}

func init() {
	remindCmd.AddCommand(remindAddCmd)
	remindCmd.AddCommand(remindListCmd)
	remindCmd.AddCommand(remindToggleCmd)
	remindCmd.AddCommand(remindRmCmd)
	remindCmd.AddCommand(remindUpcomingCmd)

	remindAddCmd.Flags().StringP("date", "d", "", "Fire on this date (YYYY-MM-DD)")
	remindAddCmd.Flags().String("notes", "", "Notes")
	remindAddCmd.Flags().Bool("daily", false, "Repeat every day")
	remindUpcomingCmd.Flags().Duration("within", 24*time.Hour, "How far ahead to look")
}
