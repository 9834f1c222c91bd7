package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/contests/conf"
	"github.com/programme-lv/contests/problem"
	"github.com/programme-lv/contests/problem/pgcatalog"
	"github.com/spf13/cobra"
)

type problemStore interface {
	UpsertProblem(ctx context.Context, p problem.Problem) error
	ListProblems(ctx context.Context) ([]problem.Problem, error)
}

type openStoreFunc func(ctx context.Context) (problemStore, func(), error)

func openPgCatalog(ctx context.Context) (problemStore, func(), error) {
	_ = godotenv.Load()
	connStr, err := conf.GetPgConnStrFromEnv(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating pg pool: %w", err)
	}
	return pgcatalog.NewPgCatalog(pool), pool.Close, nil
}

func newProblemCmd(open openStoreFunc) *cobra.Command {
	var problemCmd = &cobra.Command{
		Use:   "problem",
		Short: "Manage the problem catalog",
	}

	var id, fullName string
	var maxPoints int
	var upsertCmd = &cobra.Command{
		Use:   "upsert",
		Short: "Create or replace one problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			p := problem.Problem{ID: id, FullName: fullName, MaxPoints: maxPoints}
			if err := store.UpsertProblem(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "upserted %s\n", id)
			return nil
		},
	}
	upsertCmd.Flags().StringVar(&id, "id", "", "problem short id (required)")
	upsertCmd.Flags().StringVar(&fullName, "name", "", "problem full name")
	upsertCmd.Flags().IntVar(&maxPoints, "max-points", 0, "points cap, 0 for none")
	upsertCmd.MarkFlagRequired("id")

	var importCmd = &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Upsert every [[problems]] entry of a TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var file struct {
				Problems []conf.ProblemSeed `toml:"problems"`
			}
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("could not parse %s: %w", args[0], err)
			}

			store, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			for _, seed := range file.Problems {
				if seed.ID == "" {
					return fmt.Errorf("problem without id in %s", args[0])
				}
				p := problem.Problem{ID: seed.ID, FullName: seed.FullName, MaxPoints: seed.MaxPoints}
				if err := store.UpsertProblem(cmd.Context(), p); err != nil {
					return fmt.Errorf("failed to upsert %s: %w", seed.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d problems\n", len(file.Problems))
			return nil
		},
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			problems, err := store.ListProblems(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMAX POINTS")
			for _, p := range problems {
				fmt.Fprintf(w, "%s\t%s\t%d\n", p.ID, p.FullName, p.MaxPoints)
			}
			return w.Flush()
		},
	}

	problemCmd.AddCommand(upsertCmd, importCmd, listCmd)
	return problemCmd
}
