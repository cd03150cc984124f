package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/graph"
)

// versionsCommand creates the "versions" command.
func (c *CLI) versionsCommand() *cobra.Command {
	var snapshots bool
	cmd := &cobra.Command{
		Use:   "versions group:artifact [prefix]",
		Short: "List the available versions of an artifact",
		Example: `  mvnresolve versions junit:junit
  mvnresolve versions junit:junit 4.13`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ga, err := artifact.ParseGA(args[0])
			if err != nil {
				return err
			}
			var prefix string
			if len(args) == 2 {
				prefix = args[1]
			}

			eng, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			versions, err := eng.AllVersions(cmd.Context(), ga.GroupID, ga.ArtifactID, prefix, snapshots)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				printInfo(cmd.ErrOrStderr(), "No versions of %s found", ga.GA())
				return nil
			}
			for _, v := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&snapshots, "snapshots", false, "list snapshot versions from snapshot repositories instead of releases")
	return cmd
}

// fetchCommand creates the "fetch" command.
func (c *CLI) fetchCommand() *cobra.Command {
	var repositories []string
	cmd := &cobra.Command{
		Use:     "fetch group:artifact[:extension[:classifier]]:version",
		Short:   "Download one artifact into the local repository",
		Example: `  mvnresolve fetch org.slf4j:slf4j-api:2.0.9`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := parseConcrete(args[0])
			if err != nil {
				return err
			}
			extra, err := parseRepositories(repositories)
			if err != nil {
				return err
			}

			eng, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			a, err := eng.ResolveArtifact(cmd.Context(), coord, extra...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.File)
			printDetail(cmd.ErrOrStderr(), "from %s", a.Repository)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&repositories, "repository", "r", nil, "extra repository as id=url (repeatable)")
	return cmd
}

// treeCommand creates the "tree" command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		opts      resolveOpts
		conflicts bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "tree coordinate",
		Short: "Print the dependency tree of an artifact",
		Example: `  mvnresolve tree org.apache.commons:commons-text:1.11.0
  mvnresolve tree com.example:app:1.0 --only compile,runtime -x commons-logging:commons-logging`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(args[0])
			if err != nil {
				return err
			}
			eng, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			stop := startSpinner(cmd.Context(), cmd.ErrOrStderr(), "Collecting "+req.root.Coordinate.String())
			root, err := eng.CollectDependencies(cmd.Context(), req.root, req.managed, req.filter, req.extra...)
			stop()
			if err != nil {
				return err
			}
			if asJSON {
				return graph.WriteJSON(cmd.OutOrStdout(), root)
			}
			if err := graph.Dump(cmd.OutOrStdout(), root); err != nil {
				return err
			}
			if conflicts {
				printConflicts(cmd, root)
			}
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&conflicts, "conflicts", false, "list versions omitted by nearest-wins selection")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as a JSON node/edge document")
	return cmd
}

// depsCommand creates the "deps" command.
func (c *CLI) depsCommand() *cobra.Command {
	var (
		opts      resolveOpts
		classpath bool
	)
	cmd := &cobra.Command{
		Use:   "deps coordinate",
		Short: "Resolve and download the dependency closure of an artifact",
		Example: `  mvnresolve deps org.apache.commons:commons-text:1.11.0
  mvnresolve deps com.example:app:1.0 --only compile,runtime --classpath`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(args[0])
			if err != nil {
				return err
			}
			eng, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			prog := newProgress(loggerFromContext(cmd.Context()))
			stop := startSpinner(cmd.Context(), cmd.ErrOrStderr(), "Resolving "+req.root.Coordinate.String())
			arts, err := eng.AllDependencies(cmd.Context(), req.root, req.managed, req.filter, req.extra...)
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if classpath {
				files := make([]string, len(arts))
				for i, a := range arts {
					files[i] = a.File
				}
				fmt.Fprintln(out, strings.Join(files, string(os.PathListSeparator)))
			} else {
				for _, a := range arts {
					printFile(out, a.Coordinate.String(), a.File)
				}
			}
			prog.done(fmt.Sprintf("Resolved %d artifacts", len(arts)))
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&classpath, "classpath", false, "print the files as a classpath")
	return cmd
}
