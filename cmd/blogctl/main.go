package main

import (
	"fmt"
	"io"
	"os"

	"github.com/quillblog/internal/config"
	"github.com/quillblog/internal/db"
	"github.com/quillblog/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type openFunc func() (*gorm.DB, error)

func openFromConfig() (*gorm.DB, error) {
	cfg := config.Load()
	gdb, err := db.Open(cfg.DatabaseDriver, cfg.DatabasePath, cfg.DBLogLevel)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Administer blog author accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCreateUserCmd(open), newDeleteUserCmd(open))
	return root
}

func newCreateUserCmd(open openFunc) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create an author account",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := open()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			user, err := service.NewUserService(gdb).Create(username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "plain text password, stored as a bcrypt hash")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newDeleteUserCmd(open openFunc) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "deleteuser",
		Short: "Delete an author together with their posts and comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := open()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			if err := service.NewUserService(gdb).Delete(username); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %q\n", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func run(args []string, stdout, stderr io.Writer, open openFunc) int {
	root := newRootCmd(open)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "blogctl: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, openFromConfig))
}
