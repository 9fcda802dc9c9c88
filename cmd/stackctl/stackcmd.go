package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	persisted "github.com/hwh33/stack"
)

var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "operate on a stack of saved pages",
}

func stackPath(name string) string {
	return filepath.Join(cfg.DataDir, name+".stack.log")
}

func openStack(name string) (*persisted.Stack, error) {
	return persisted.NewStack(stackPath(name))
}

var stackAddCmd = &cobra.Command{
	Use:   "add <name> <url> <title> <timestamp>",
	Args:  cobra.ExactArgs(4),
	Short: "save a page to the stack",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack(args[0])
		if err != nil {
			return err
		}
		timestamp, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("parsing timestamp %q: %w", args[3], err)
		}
		if err := s.Add(args[1], args[2], timestamp); err != nil {
			return err
		}
		logger.Info().Str("stack", args[0]).Str("url", args[1]).Msg("saved page")
		return nil
	},
}

var stackDeleteCmd = &cobra.Command{
	Use:   "delete <name> <url>",
	Args:  cobra.ExactArgs(2),
	Short: "remove a saved page (idempotent)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack(args[0])
		if err != nil {
			return err
		}
		if err := s.Delete(args[1]); err != nil {
			return err
		}
		logger.Info().Str("stack", args[0]).Str("url", args[1]).Msg("deleted page")
		return nil
	},
}

var stackListCmd = &cobra.Command{
	Use:   "list <name>",
	Args:  cobra.ExactArgs(1),
	Short: "print saved pages, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack(args[0])
		if err != nil {
			return err
		}
		b, err := json.Marshal(s.AsSortedList())
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	stackCmd.AddCommand(stackAddCmd, stackDeleteCmd, stackListCmd)
}
