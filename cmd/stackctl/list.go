package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	persisted "github.com/hwh33/stack"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "operate on a persisted list",
}

func listPath(name string) string {
	return filepath.Join(cfg.DataDir, name+".list.log")
}

func openList(name string) (*persisted.List, error) {
	l, err := persisted.NewList(listPath(name))
	if err != nil {
		return nil, err
	}
	if cfg.CompactionThreshold > 0 {
		l.SetThreshold(cfg.CompactionThreshold)
	}
	return l, nil
}

func decodeJSONArg(arg string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return nil, fmt.Errorf("decoding %q as JSON: %w", arg, err)
	}
	return v, nil
}

var listLenCmd = &cobra.Command{
	Use:   "len <name>",
	Args:  cobra.ExactArgs(1),
	Short: "print the number of elements in a list",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openList(args[0])
		if err != nil {
			return err
		}
		fmt.Println(l.Len())
		return nil
	},
}

var listGetCmd = &cobra.Command{
	Use:   "get <name> <index>",
	Args:  cobra.ExactArgs(2),
	Short: "print the element at an index",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openList(args[0])
		if err != nil {
			return err
		}
		var idx int
		if _, err := fmt.Sscanf(args[1], "%d", &idx); err != nil {
			return fmt.Errorf("parsing index %q: %w", args[1], err)
		}
		v, err := l.Get(idx)
		if err != nil {
			return err
		}
		return printJSON(v)
	},
}

var listAppendCmd = &cobra.Command{
	Use:   "append <name> <json-value>",
	Args:  cobra.ExactArgs(2),
	Short: "append a JSON value to a list",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openList(args[0])
		if err != nil {
			return err
		}
		v, err := decodeJSONArg(args[1])
		if err != nil {
			return err
		}
		if err := l.Append(v); err != nil {
			return err
		}
		logger.Info().Str("list", args[0]).Int("len", l.Len()).Msg("appended")
		return nil
	},
}

var listPushFrontCmd = &cobra.Command{
	Use:   "push-front <name> <json-value>",
	Args:  cobra.ExactArgs(2),
	Short: "insert a JSON value at the front of a list",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openList(args[0])
		if err != nil {
			return err
		}
		v, err := decodeJSONArg(args[1])
		if err != nil {
			return err
		}
		if err := l.PushFront(v); err != nil {
			return err
		}
		logger.Info().Str("list", args[0]).Int("len", l.Len()).Msg("pushed")
		return nil
	},
}

var listSetCmd = &cobra.Command{
	Use:   "set <name> <index> <json-value>",
	Args:  cobra.ExactArgs(3),
	Short: "replace the element at an index",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openList(args[0])
		if err != nil {
			return err
		}
		var idx int
		if _, err := fmt.Sscanf(args[1], "%d", &idx); err != nil {
			return fmt.Errorf("parsing index %q: %w", args[1], err)
		}
		v, err := decodeJSONArg(args[2])
		if err != nil {
			return err
		}
		if err := l.Set(idx, v); err != nil {
			return err
		}
		logger.Info().Str("list", args[0]).Int("index", idx).Msg("set")
		return nil
	},
}

var listDeleteAtCmd = &cobra.Command{
	Use:   "delete-at <name> <index>",
	Args:  cobra.ExactArgs(2),
	Short: "remove the element at an index",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openList(args[0])
		if err != nil {
			return err
		}
		var idx int
		if _, err := fmt.Sscanf(args[1], "%d", &idx); err != nil {
			return fmt.Errorf("parsing index %q: %w", args[1], err)
		}
		if err := l.DeleteAt(idx); err != nil {
			return err
		}
		logger.Info().Str("list", args[0]).Int("len", l.Len()).Msg("deleted")
		return nil
	},
}

var listRemoveCmd = &cobra.Command{
	Use:   "remove <name> <json-value>",
	Args:  cobra.ExactArgs(2),
	Short: "remove the first element equal to a JSON value",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openList(args[0])
		if err != nil {
			return err
		}
		v, err := decodeJSONArg(args[1])
		if err != nil {
			return err
		}
		if err := l.Remove(v); err != nil {
			return err
		}
		logger.Info().Str("list", args[0]).Int("len", l.Len()).Msg("removed")
		return nil
	},
}

var listPopBackCmd = &cobra.Command{
	Use:   "pop-back <name>",
	Args:  cobra.ExactArgs(1),
	Short: "remove and print the last element",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openList(args[0])
		if err != nil {
			return err
		}
		v, err := l.PopBack()
		if err != nil {
			return err
		}
		return printJSON(v)
	},
}

func init() {
	listCmd.AddCommand(
		listLenCmd,
		listGetCmd,
		listAppendCmd,
		listPushFrontCmd,
		listSetCmd,
		listDeleteAtCmd,
		listRemoveCmd,
		listPopBackCmd,
	)
}

func printJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
