package cmd

import (
	"context"
	"fmt"

	"sidebarkit/internal/layout"
)

// BootstrapCmd prints the layout variables a host applies before first paint
type BootstrapCmd struct {
	Format string `help:"Output format: css, script or json" enum:"css,script,json" default:"css"`
}

// Run executes the bootstrap command
func (b *BootstrapCmd) Run(cli *CLI) error {
	expanded, collapsed := cli.settings.GetWidths()
	widths := layout.Widths{Collapsed: collapsed, Expanded: expanded}
	key := cli.settings.GetStorageKey()

	switch b.Format {
	case "script":
		fmt.Fprintf(cli.out(), "<script>%s</script>\n", layout.Script(key, widths))
		return nil
	case "json":
		vars := layout.Vars(context.Background(), cli.Container.Storage, key, widths)
		out := make(map[string]string, len(vars))
		for _, v := range vars {
			out[v.Name] = v.Value
		}
		return printJSON(cli.out(), out)
	default:
		css := layout.CSS(layout.Vars(context.Background(), cli.Container.Storage, key, widths))
		if css != "" {
			fmt.Fprintln(cli.out(), css)
		}
		return nil
	}
}
