package main

import (
	"fmt"
	"strings"
	"time"

	"hub-go/internal/hub"

	"github.com/spf13/cobra"
)

var calCmd = &cobra.Command{
	Use:   "cal",
	Short: "Manage calendar events",
}

func printEvents(events []hub.CalendarEvent) {
	if len(events) == 0 {
		fmt.Println("No events.")
		return
	}
	for _, ev := range events {
		at := ev.Time
		if at == "" {
			at = "all day"
		}
		fmt.Printf("%s  %-7s  %s  %s\n", ev.Date, at, ev.ID, ev.Title)
	}
}

var calAddCmd = &cobra.Command{
	Use:   "add DATE TITLE...",
	Short: "Add an event, all day unless --time is given",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := hub.EventInput{Date: args[0], Title: strings.Join(args[1:], " ")}
		in.Time, _ = cmd.Flags().GetString("time")
		in.Notes, _ = cmd.Flags().GetString("notes")

		s, err := openSession(cmd, "CalendarAdd")
		if err != nil {
			return err
		}
		defer s.Close()

		ev, err := s.Hub().Calendar.Add(s.ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", ev.ID)
		return nil
	},
}

var calListCmd = &cobra.Command{
	Use:   "list [FROM [TO]]",
	Short: "List events, optionally between two dates",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "CalendarList")
		if err != nil {
			return err
		}
		defer s.Close()

		var events []hub.CalendarEvent
		switch len(args) {
		case 0:
			events, err = s.Hub().Calendar.List(s.ctx)
		case 1:
			to := time.Now().AddDate(1, 0, 0).Format(hub.DateLayout)
			events, err = s.Hub().Calendar.Between(s.ctx, args[0], to)
		default:
			events, err = s.Hub().Calendar.Between(s.ctx, args[0], args[1])
		}
		if err != nil {
			return err
		}
		printEvents(events)
		return nil
	},
}

var calOnCmd = &cobra.Command{
	Use:   "on [DATE]",
	Short: "List the events of one day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().Format(hub.DateLayout)
		if len(args) > 0 {
			date = args[0]
		}

		s, err := openSession(cmd, "CalendarOn")
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.Hub().Calendar.OnDate(s.ctx, date)
		if err != nil {
			return err
		}
		printEvents(events)
		return nil
	},
}

var calEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "CalendarEdit")
		if err != nil {
			return err
		}
		defer s.Close()

		ev, err := s.Hub().Calendar.Get(s.ctx, args[0])
		if err != nil {
			return err
		}
		in := hub.EventInput{Title: ev.Title, Date: ev.Date, Time: ev.Time, Notes: ev.Notes}
		for flag, field := range map[string]*string{"title": &in.Title, "date": &in.Date, "time": &in.Time, "notes": &in.Notes} {
			if cmd.Flags().Changed(flag) {
				*field, _ = cmd.Flags().GetString(flag)
			}
		}

		ev, err = s.Hub().Calendar.Update(s.ctx, ev.ID, in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s\n", ev.ID)
		return nil
	},
}

var calRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "CalendarDelete")
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.Hub().Calendar.Delete(s.ctx, args[0])
		if err != nil {
			return err
		}
		printRemoved("event", args[0], removed)
		return nil
	},
}

func init() {
	calCmd.AddCommand(calAddCmd)
	calCmd.AddCommand(calListCmd)
	calCmd.AddCommand(calOnCmd)
	calCmd.AddCommand(calEditCmd)
	calCmd.AddCommand(calRmCmd)

	calAddCmd.Flags().StringP("time", "t", "", "Start time (HH:MM)")
	calAddCmd.Flags().String("notes", "", "Notes")
	calEditCmd.Flags().String("title", "", "New title")
	calEditCmd.Flags().StringP("date", "d", "", "New date (YYYY-MM-DD)")
	calEditCmd.Flags().StringP("time", "t", "", "New time (HH:MM, empty for all day)")
	calEditCmd.Flags().String("notes", "", "New notes")
}
