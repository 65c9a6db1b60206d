package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdef/pkg/engine"
)

func newViewCommand(root *rootOptions) *cobra.Command {
	var objectPath string
	cmd := &cobra.Command{
		Use:   "view <form>",
		Short: "Render an object read-only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := root.kit()
			if err != nil {
				return err
			}
			form, err := root.form(kit, args[0])
			if err != nil {
				return err
			}
			obj, err := readObject(objectPath)
			if err != nil {
				return err
			}
			out, err := kit.RenderView(cmd.Context(), form, obj)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&objectPath, "object", "", "JSON or YAML file with the object to render")
	return cmd
}

func newEditCommand(root *rootOptions) *cobra.Command {
	var (
		objectPath string
		prefix     string
		creation   bool
	)
	cmd := &cobra.Command{
		Use:   "edit <form>",
		Short: "Render the editable form markup for an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := root.kit()
			if err != nil {
				return err
			}
			form, err := root.form(kit, args[0])
			if err != nil {
				return err
			}
			obj, err := readObject(objectPath)
			if err != nil {
				return err
			}
			view, err := kit.RenderEdit(cmd.Context(), form, obj, engine.Mode{IDPrefix: prefix, Creation: creation})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), view.HTML)
			return err
		},
	}
	cmd.Flags().StringVar(&objectPath, "object", "", "JSON or YAML file with the current values")
	cmd.Flags().StringVar(&prefix, "prefix", "", "prefix for control ids")
	cmd.Flags().BoolVar(&creation, "create", false, "render for a new object (applies hideCreate)")
	return cmd
}
