package command

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bookshelf/cmd/cli/command/client"
)

// reportPaths maps the CLI report names to the public chart URLs.
var reportPaths = map[string]string{
	"genres":        "/libros-por-genero/",
	"book-ratings":  "/promedio-puntuacion-libros/",
	"author-ratings": "/promedio-puntuacion-autores/",
	"nationalities": "/libros-por-nacionalidad/",
	"users":         "/libros-por-usuario/",
}

func reportNames() []string {
	names := make([]string, 0, len(reportPaths))
	for name := range reportPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var reportCmd = &cobra.Command{
	Use:       "report [name]",
	Short:     "Download a report chart as PNG",
	Long:      "Download a report chart. Available reports: " + strings.Join(reportNames(), ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: reportNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, ok := reportPaths[args[0]]
		if !ok {
			return fmt.Errorf("unknown report %q, choose one of: %s", args[0], strings.Join(reportNames(), ", "))
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = args[0] + ".png"
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		chart, err := client.NewHTTPClient(apiURL).Report(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to get report: %w", err)
		}
		if chart.PNG == nil {
			color.Yellow("%s", chart.Text)
			return nil
		}
		if err := os.WriteFile(out, chart.PNG, 0o644); err != nil {
			return err
		}
		success("Chart written to %s", out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("output", "o", "", "output file (default <name>.png)")
}
