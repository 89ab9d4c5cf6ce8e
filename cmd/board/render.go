package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Leganyst/production-board/internal/board"
	"github.com/Leganyst/production-board/internal/layout"
)

var (
	renderDate    string
	renderFormat  string
	renderWidth   float64
	renderColumns int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the board around a date",
	Long: `Renders the visible rows around --date (default: today's production day)
as SVG or as text for the terminal.

Example:
  board render --date 2025-01-06 --format svg > board.svg`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderDate, "date", "", "Cursor production day, YYYY-MM-DD")
	renderCmd.Flags().StringVar(&renderFormat, "format", "text", "Output format: svg or text")
	renderCmd.Flags().Float64Var(&renderWidth, "width", 0, "Container width in pixels (default from config)")
	renderCmd.Flags().IntVar(&renderColumns, "columns", 96, "Text width of one row")
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderFormat != "svg" && renderFormat != "text" {
		return fmt.Errorf("unknown format %q", renderFormat)
	}

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	cursor := layout.ProductionDayKey(time.Now().In(a.board.Board().Location()))
	if renderDate != "" {
		if cursor, err = layout.ParseDay(renderDate); err != nil {
			return err
		}
	}

	f, err := a.boardSvc.RenderDays(ctx, cursor, renderWidth)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if renderFormat == "svg" {
		return board.WriteSVG(out, f)
	}
	_, err = fmt.Fprintln(out, board.Text(f, renderColumns))
	return err
}
