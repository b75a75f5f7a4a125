package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagOffset int
	flagTheme  string
	flagOutput string
	flagScale  float64
)

var rootCmd = &cobra.Command{
	Use:           "strukt",
	Short:         "Render Nassi-Shneiderman structuregrams for Go functions",
	Long:          "strukt draws a structuregram (Nassi-Shneiderman diagram) for a\nfunction in a Go source file: an interactive terminal viewer with\npan, zoom and in-place statement editing, plus PNG export.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var viewCmd = &cobra.Command{
	Use:   "view FILE [FUNC]",
	Short: "Open the interactive viewer",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runView,
}

var exportCmd = &cobra.Command{
	Use:   "export FILE [FUNC]",
	Short: "Render a structuregram to a PNG image",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExport,
}

var funcsCmd = &cobra.Command{
	Use:   "funcs FILE",
	Short: "List functions that can be rendered",
	Args:  cobra.ExactArgs(1),
	RunE:  runFuncs,
}

func init() {
	viewCmd.Flags().IntVar(&flagOffset, "offset", -1, "pick the function enclosing this byte offset")
	viewCmd.Flags().StringVar(&flagTheme, "theme", "", "light, dark or auto (overrides config)")
	exportCmd.Flags().IntVar(&flagOffset, "offset", -1, "pick the function enclosing this byte offset")
	exportCmd.Flags().StringVar(&flagTheme, "theme", "", "light, dark or auto (overrides config)")
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default FUNC.png)")
	exportCmd.Flags().Float64Var(&flagScale, "scale", 0, "raster scale factor (overrides config)")
	rootCmd.AddCommand(viewCmd, exportCmd, funcsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveFunc picks the function to render: an explicit name argument,
// the --offset cursor position, or the first function in the file.
func resolveFunc(provider *FileProvider, args []string) (string, error) {
	if len(args) > 1 {
		return args[1], nil
	}
	if flagOffset >= 0 {
		return provider.FuncAt(flagOffset)
	}
	return "", nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if flagTheme != "" {
		if _, err := ParseTheme(flagTheme); err != nil {
			return err
		}
		cfg.Theme = flagTheme
	}

	provider, err := OpenFile(args[0])
	if err != nil {
		return err
	}
	name, err := resolveFunc(provider, args)
	if err != nil {
		return err
	}

	m, err := newUIModel(provider, name, cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	theme, err := ParseTheme(cfg.Theme)
	if err != nil {
		return err
	}
	scale := cfg.ExportScale
	if flagScale > 0 {
		scale = flagScale
	}

	provider, err := OpenFile(args[0])
	if err != nil {
		return err
	}
	name, err := resolveFunc(provider, args)
	if err != nil {
		return err
	}
	fn, err := provider.Snapshot(name)
	if err != nil {
		return err
	}

	output := flagOutput
	if output == "" {
		output = cfg.ExportPath(fn.Name + ".png")
	}
	root := BuildFunc(fn)
	if err := ExportPNG(fn.Name, root, theme, scale, cfg.FontSize, output); err != nil {
		return err
	}
	fmt.Println("wrote", output)
	return nil
}

func runFuncs(cmd *cobra.Command, args []string) error {
	provider, err := OpenFile(args[0])
	if err != nil {
		return err
	}
	names := provider.Funcs()
	if len(names) == 0 {
		return fmt.Errorf("%s has no functions", args[0])
	}
	fmt.Println(strings.Join(names, "\n"))
	return nil
}
