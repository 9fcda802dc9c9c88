package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	persisted "github.com/hwh33/stack"
)

var mapCmd = &cobra.Command{
	Use:   "mapc",
	Short: "operate on a persisted map",
}

func mapPath(name string) string {
	return filepath.Join(cfg.DataDir, name+".map.log")
}

func openMap(name string) (*persisted.Map, error) {
	m, err := persisted.NewMap(mapPath(name))
	if err != nil {
		return nil, err
	}
	if cfg.CompactionThreshold > 0 {
		m.SetThreshold(cfg.CompactionThreshold)
	}
	return m, nil
}

var mapLenCmd = &cobra.Command{
	Use:   "len <name>",
	Args:  cobra.ExactArgs(1),
	Short: "print the number of keys in a map",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openMap(args[0])
		if err != nil {
			return err
		}
		fmt.Println(m.Len())
		return nil
	},
}

var mapGetCmd = &cobra.Command{
	Use:   "get <name> <json-key>",
	Args:  cobra.ExactArgs(2),
	Short: "print the value mapped to a key",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openMap(args[0])
		if err != nil {
			return err
		}
		k, err := decodeJSONArg(args[1])
		if err != nil {
			return err
		}
		v, err := m.Get(k)
		if err != nil {
			return err
		}
		return printJSON(v)
	},
}

var mapSetCmd = &cobra.Command{
	Use:   "set <name> <json-key> <json-value>",
	Args:  cobra.ExactArgs(3),
	Short: "associate a value with a key",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openMap(args[0])
		if err != nil {
			return err
		}
		k, err := decodeJSONArg(args[1])
		if err != nil {
			return err
		}
		v, err := decodeJSONArg(args[2])
		if err != nil {
			return err
		}
		if err := m.Set(k, v); err != nil {
			return err
		}
		logger.Info().Str("map", args[0]).Int("len", m.Len()).Msg("set")
		return nil
	},
}

var mapDeleteCmd = &cobra.Command{
	Use:   "delete <name> <json-key>",
	Args:  cobra.ExactArgs(2),
	Short: "remove a key",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openMap(args[0])
		if err != nil {
			return err
		}
		k, err := decodeJSONArg(args[1])
		if err != nil {
			return err
		}
		if _, err := m.Delete(k); err != nil {
			return err
		}
		logger.Info().Str("map", args[0]).Int("len", m.Len()).Msg("deleted")
		return nil
	},
}

func init() {
	mapCmd.AddCommand(mapLenCmd, mapGetCmd, mapSetCmd, mapDeleteCmd)
}
