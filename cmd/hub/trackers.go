package main

import (
	"fmt"
	"strings"
	"time"

	"hub-go/internal/hub"

	"github.com/spf13/cobra"
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Track sleep",
}

var sleepLogCmd = &cobra.Command{
	Use:   "log BEDTIME WAKETIME",
	Short: "Log a night, e.g. 'hub sleep log 23:15 07:00 --quality 4'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := hub.SleepInput{Bedtime: args[0], WakeTime: args[1]}
		in.Date, _ = cmd.Flags().GetString("date")
		in.Quality, _ = cmd.Flags().GetInt("quality")
		in.Notes, _ = cmd.Flags().GetString("notes")

		s, err := openSession(cmd, "SleepLog")
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.Hub().Sleep.Log(s.ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Logged %s: %s asleep\n", e.Date, formatMinutes(e.Duration()))
		return nil
	},
}

var sleepWeekCmd = &cobra.Command{
	Use:   "week [WEEK]",
	Short: "Show a week of nights, e.g. 2024-W03 (default this week)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		week := hub.WeekID(time.Now())
		if len(args) > 0 {
			week = args[0]
		}

		s, err := openSession(cmd, "SleepWeek")
		if err != nil {
			return err
		}
		defer s.Close()

		nights, err := s.Hub().Sleep.Week(s.ctx, week)
		if err != nil {
			return err
		}
		for _, n := range nights {
			quality := "-"
			if n.Quality > 0 {
				quality = strings.Repeat("*", n.Quality)
			}
			fmt.Printf("%s  %s  %s-%s  %s  %-5s\n", n.Date, n.ID, n.Bedtime, n.WakeTime, formatMinutes(n.Duration()), quality)
		}
		sum := hub.SummarizeWeek(week, nights)
		fmt.Printf("%s: %d night(s), average %s", sum.Week, sum.Nights, formatMinutes(sum.AverageDuration))
		if sum.AverageQuality > 0 {
			fmt.Printf(", quality %.1f", sum.AverageQuality)
		}
		fmt.Println()
		return nil
	},
}

var sleepRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a night",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "SleepDelete")
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.Hub().Sleep.Delete(s.ctx, args[0])
		if err != nil {
			return err
		}
		printRemoved("night", args[0], removed)
		return nil
	},
}

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Track the menstrual cycle",
}

var periodAddCmd = &cobra.Command{
	Use:   "add START [END]",
	Short: "Log a period (dates as YYYY-MM-DD)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		end := ""
		if len(args) > 1 {
			end = args[1]
		}
		notes, _ := cmd.Flags().GetString("notes")

		s, err := openSession(cmd, "PeriodAdd")
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Hub().Periods.Add(s.ctx, args[0], end, notes)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", p.ID)
		return nil
	},
}

var periodEndCmd = &cobra.Command{
	Use:   "end ID DATE",
	Short: "Set the end date of a period",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "PeriodEnd")
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Hub().Periods.End(s.ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s to %s\n", p.ID, p.StartDate, p.EndDate)
		return nil
	},
}

var periodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List periods",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "PeriodList")
		if err != nil {
			return err
		}
		defer s.Close()

		periods, err := s.Hub().Periods.List(s.ctx)
		if err != nil {
			return err
		}
		if len(periods) == 0 {
			fmt.Println("No periods logged.")
			return nil
		}
		for _, p := range periods {
			end := p.EndDate
			if end == "" {
				end = "ongoing"
			}
			fmt.Printf("%s  %s to %-10s  %s\n", p.ID, p.StartDate, end, p.Notes)
		}
		return nil
	},
}

var periodStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cycle averages and the next predicted period",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "PeriodStats")
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.Hub().Periods.Stats(s.ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Periods logged:  %d\n", st.Periods)
		fmt.Printf("Cycle length:    %d days\n", st.AverageCycleLength)
		fmt.Printf("Period length:   %d days\n", st.AveragePeriodLength)
		if st.NextPeriod != "" {
			fmt.Printf("Next period:     %s\n", st.NextPeriod)
		}
		if st.CycleDay > 0 {
			fmt.Printf("Cycle day:       %d\n", st.CycleDay)
		}
		return nil
	},
}

var periodRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "PeriodDelete")
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.Hub().Periods.Delete(s.ctx, args[0])
		if err != nil {
			return err
		}
		printRemoved("period", args[0], removed)
		return nil
	},
}

var pomodoroCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Record pomodoro sessions",
}

var pomodoroRecordCmd = &cobra.Command{
	Use:   "record [KIND]",
	Short: "Record a finished session: focus, short_break or long_break (default: the next phase)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, _ := cmd.Flags().GetInt("minutes")
		abandoned, _ := cmd.Flags().GetBool("abandoned")

		s, err := openSession(cmd, "PomodoroRecord")
		if err != nil {
			return err
		}
		defer s.Close()

		var kind hub.SessionKind
		if len(args) > 0 {
			kind = hub.SessionKind(args[0])
		} else if kind, err = s.Hub().Pomodoro.Next(s.ctx); err != nil {
			return err
		}

		length := minutes
		if length == 0 {
			length = kind.DefaultMinutes()
		}
		started := time.Now().Add(-time.Duration(length) * time.Minute)
		sess, err := s.Hub().Pomodoro.Record(s.ctx, kind, started, minutes, !abandoned)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %d min %s\n", sess.DurationMinutes, sess.Kind)
		return nil
	},
}

var pomodoroNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show which phase comes next",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "PomodoroNext")
		if err != nil {
			return err
		}
		defer s.Close()

		kind, err := s.Hub().Pomodoro.Next(s.ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d min)\n", kind, kind.DefaultMinutes())
		return nil
	},
}

var pomodoroStatsCmd = &cobra.Command{
	Use:   "stats [DATE]",
	Short: "Show the focus work of a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now()
		if len(args) > 0 {
			d, err := time.ParseInLocation(hub.DateLayout, args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", args[0])
			}
			day = d
		}

		s, err := openSession(cmd, "PomodoroStats")
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.Hub().Pomodoro.DailyStats(s.ctx, day)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d session(s), %d focus, %d focus minutes\n", st.Date, st.Sessions, st.FocusSessions, st.FocusMinutes)
		return nil
	},
}

func init() {
	sleepCmd.AddCommand(sleepLogCmd)
	sleepCmd.AddCommand(sleepWeekCmd)
	sleepCmd.AddCommand(sleepRmCmd)
	sleepLogCmd.Flags().StringP("date", "d", "", "Night the sleep started (YYYY-MM-DD, default today)")
	sleepLogCmd.Flags().IntP("quality", "q", 0, "Quality from 1 to 5")
	sleepLogCmd.Flags().String("notes", "", "Notes")

	periodCmd.AddCommand(periodAddCmd)
	periodCmd.AddCommand(periodEndCmd)
	periodCmd.AddCommand(periodListCmd)
	periodCmd.AddCommand(periodStatsCmd)
	periodCmd.AddCommand(periodRmCmd)
	periodAddCmd.Flags().String("notes", "", "Notes")

	pomodoroCmd.AddCommand(pomodoroRecordCmd)
	pomodoroCmd.AddCommand(pomodoroNextCmd)
	pomodoroCmd.AddCommand(pomodoroStatsCmd)
	pomodoroRecordCmd.Flags().IntP("minutes", "m", 0, "Length in minutes (default: the phase's standard length)")
	pomodoroRecordCmd.Flags().Bool("abandoned", false, "The session was stopped early")
}
