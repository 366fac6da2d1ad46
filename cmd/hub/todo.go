package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage the to-do list",
}

var todoAddCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		s, err := openSession(cmd, "TodoAdd")
		if err != nil {
			return err
		}
		defer s.Close()

		task, err := s.Hub().Todos.Add(s.ctx, strings.Join(args, " "), category)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", task.ID)
		return nil
	},
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		pending, _ := cmd.Flags().GetBool("pending")

		s, err := openSession(cmd, "TodoList")
		if err != nil {
			return err
		}
		defer s.Close()

		list := s.Hub().Todos.List
		if pending {
			list = s.Hub().Todos.Pending
		}
		tasks, err := list(s.ctx)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("Nothing to do.")
			return nil
		}
		for _, t := range tasks {
			category := ""
			if t.Category != "" {
				category = fmt.Sprintf("  (%s)", t.Category)
			}
			fmt.Printf("%s %s  %s%s\n", checkbox(t.Completed), t.ID, t.Text, category)
		}
		return nil
	},
}

var todoDoneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Toggle a task between done and pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "TodoToggle")
		if err != nil {
			return err
		}
		defer s.Close()

		task, err := s.Hub().Todos.Toggle(s.ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", checkbox(task.Completed), task.Text)
		return nil
	},
}

var todoEditCmd = &cobra.Command{
	Use:   "edit ID TEXT...",
	Short: "Change the text of a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var category *string
		if cmd.Flags().Changed("category") {
			c, _ := cmd.Flags().GetString("category")
			category = &c
		}

		s, err := openSession(cmd, "TodoEdit")
		if err != nil {
			return err
		}
		defer s.Close()

		task, err := s.Hub().Todos.Edit(s.ctx, args[0], strings.Join(args[1:], " "), category)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s\n", task.ID)
		return nil
	},
}

var todoRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "TodoDelete")
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.Hub().Todos.Delete(s.ctx, args[0])
		if err != nil {
			return err
		}
		printRemoved("task", args[0], removed)
		return nil
	},
}

var todoClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every completed task",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "TodoClear")
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Hub().Todos.ClearCompleted(s.ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %d completed task(s)\n", n)
		return nil
	},
}

func init() {
	todoCmd.AddCommand(todoAddCmd)
	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoDoneCmd)
	todoCmd.AddCommand(todoEditCmd)
	todoCmd.AddCommand(todoRmCmd)
	todoCmd.AddCommand(todoClearCmd)

	todoAddCmd.Flags().StringP("category", "c", "", "Category label")
	todoEditCmd.Flags().StringP("category", "c", "", "New category label (empty clears it)")
	todoListCmd.Flags().BoolP("pending", "p", false, "Only show tasks that are not done")
}
