package main

import (
	"fmt"
	"strings"

	"hub-go/internal/hub"

	"github.com/spf13/cobra"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Manage shopping lists and templates",
}

var shopListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shopping lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopLists")
		if err != nil {
			return err
		}
		defer s.Close()

		lists, err := s.Hub().Shopping.Lists(s.ctx)
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			fmt.Println("No shopping lists.")
			return nil
		}
		for _, l := range lists {
			t := hub.ListTotals(l)
			fmt.Printf("%s  %-20s  %d/%d bought  %.2f left\n", l.ID, l.Name, t.Purchased, t.Items, t.Remaining)
		}
		return nil
	},
}

var shopNewCmd = &cobra.Command{
	Use:   "new NAME...",
	Short: "Create a shopping list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopCreate")
		if err != nil {
			return err
		}
		defer s.Close()

		l, err := s.Hub().Shopping.CreateList(s.ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Created %s\n", l.ID)
		return nil
	},
}

var shopRenameCmd = &cobra.Command{
	Use:   "rename LIST NAME...",
	Short: "Rename a shopping list",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopRename")
		if err != nil {
			return err
		}
		defer s.Close()

		l, err := s.Hub().Shopping.RenameList(s.ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %s to %s\n", l.ID, l.Name)
		return nil
	},
}

var shopRmCmd = &cobra.Command{
	Use:   "rm LIST",
	Short: "Delete a shopping list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopDelete")
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.Hub().Shopping.DeleteList(s.ctx, args[0])
		if err != nil {
			return err
		}
		printRemoved("list", args[0], removed)
		return nil
	},
}

var shopShowCmd = &cobra.Command{
	Use:   "show LIST",
	Short: "Show the items of a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopShow")
		if err != nil {
			return err
		}
		defer s.Close()

		l, err := s.Hub().Shopping.List(s.ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(l.Name)
		for _, it := range l.Items {
			fmt.Printf("  %s %s  %3d x %-20s %8.2f\n", checkbox(it.Purchased), it.ID, it.Quantity, it.Name, float64(it.Quantity)*it.Price)
		}
		t := hub.ListTotals(l)
		fmt.Printf("Total %.2f, remaining %.2f\n", t.Total, t.Remaining)
		return nil
	},
}

var shopAddCmd = &cobra.Command{
	Use:   "add LIST NAME...",
	Short: "Add an item to a list",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := hub.ItemInput{Name: strings.Join(args[1:], " ")}
		in.Quantity, _ = cmd.Flags().GetInt("qty")
		in.Price, _ = cmd.Flags().GetFloat64("price")

		s, err := openSession(cmd, "ShopAddItem")
		if err != nil {
			return err
		}
		defer s.Close()

		it, err := s.Hub().Shopping.AddItem(s.ctx, args[0], in)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", it.ID)
		return nil
	},
}

var shopCheckCmd = &cobra.Command{
	Use:   "check LIST ITEM",
	Short: "Toggle whether an item was bought",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopToggleItem")
		if err != nil {
			return err
		}
		defer s.Close()

		it, err := s.Hub().Shopping.ToggleItem(s.ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", checkbox(it.Purchased), it.Name)
		return nil
	},
}

var shopDropCmd = &cobra.Command{
	Use:   "drop LIST [ITEM]",
	Short: "Remove an item, or every bought item with --bought",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bought, _ := cmd.Flags().GetBool("bought")
		if bought == (len(args) == 2) {
			return fmt.Errorf("give either an ITEM or --bought")
		}

		s, err := openSession(cmd, "ShopRemoveItem")
		if err != nil {
			return err
		}
		defer s.Close()

		if bought {
			n, err := s.Hub().Shopping.ClearPurchased(s.ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d bought item(s)\n", n)
			return nil
		}
		removed, err := s.Hub().Shopping.RemoveItem(s.ctx, args[0], args[1])
		if err != nil {
			return err
		}
		printRemoved("item", args[1], removed)
		return nil
	},
}

var shopTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage shopping templates",
}

var shopTemplateSaveCmd = &cobra.Command{
	Use:   "save LIST [NAME...]",
	Short: "Save the items of a list as a template",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopTemplateSave")
		if err != nil {
			return err
		}
		defer s.Close()

		t, err := s.Hub().Shopping.SaveTemplate(s.ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Saved template %s (%d items)\n", t.ID, len(t.Items))
		return nil
	},
}

var shopTemplateUseCmd = &cobra.Command{
	Use:   "use TEMPLATE [NAME...]",
	Short: "Start a new list from a template",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopTemplateUse")
		if err != nil {
			return err
		}
		defer s.Close()

		l, err := s.Hub().Shopping.CreateFromTemplate(s.ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Created %s\n", l.ID)
		return nil
	},
}

var shopTemplateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopTemplates")
		if err != nil {
			return err
		}
		defer s.Close()

		templates, err := s.Hub().Shopping.Templates(s.ctx)
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Println("No templates.")
			return nil
		}
		for _, t := range templates {
			fmt.Printf("%s  %-20s  %d item(s)\n", t.ID, t.Name, len(t.Items))
		}
		return nil
	},
}

var shopTemplateRmCmd = &cobra.Command{
	Use:   "rm TEMPLATE",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "ShopTemplateDelete")
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.Hub().Shopping.DeleteTemplate(s.ctx, args[0])
		if err != nil {
			return err
		}
		printRemoved("template", args[0], removed)
		return nil
	},
}

func init() {
	shopCmd.AddCommand(shopListCmd)
	shopCmd.AddCommand(shopNewCmd)
	shopCmd.AddCommand(shopRenameCmd)
	shopCmd.AddCommand(shopRmCmd)
	shopCmd.AddCommand(shopShowCmd)
	shopCmd.AddCommand(shopAddCmd)
	shopCmd.AddCommand(shopCheckCmd)
	shopCmd.AddCommand(shopDropCmd)
	shopCmd.AddCommand(shopTemplateCmd)
	shopTemplateCmd.AddCommand(shopTemplateSaveCmd)
	shopTemplateCmd.AddCommand(shopTemplateUseCmd)
	shopTemplateCmd.AddCommand(shopTemplateListCmd)
	shopTemplateCmd.AddCommand(shopTemplateRmCmd)

	shopAddCmd.Flags().IntP("qty", "q", 1, "Quantity")
	shopAddCmd.Flags().Float64P("price", "p", 0, "Price per unit")
	shopDropCmd.Flags().Bool("bought", false, "Remove every bought item")
}
