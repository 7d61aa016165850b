package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Facets-cloud/nightly-prune/pkg/hosting"
	"github.com/Facets-cloud/nightly-prune/pkg/utils"
	"github.com/dustin/go-humanize"
	"github.com/yarlson/pin"
)

// reporter shows progress on a spinner when attached to a terminal and as
// plain lines otherwise, so CI logs keep every step.
type reporter struct {
	spin *pin.Pin
	out  io.Writer
}

func newReporter(ctx context.Context, out io.Writer, msg string) (*reporter, func()) {
	if f, ok := out.(*os.File); ok && utils.IsTerminal(f) {
		s := pin.New(msg,
			pin.WithSpinnerColor(pin.ColorCyan),
			pin.WithTextColor(pin.ColorYellow),
			pin.WithDoneSymbol('✔'),
			pin.WithDoneSymbolColor(pin.ColorGreen),
			pin.WithPrefix("pin"),
			pin.WithPrefixColor(pin.ColorMagenta),
			pin.WithSeparatorColor(pin.ColorGray),
		)
		cancel := s.Start(ctx)
		return &reporter{spin: s, out: out}, cancel
	}

	fmt.Fprintln(out, msg)
	return &reporter{out: out}, func() {}
}

func (r *reporter) UpdateMessage(msg string) {
	if r.spin != nil {
		r.spin.UpdateMessage(msg)
		return
	}
	fmt.Fprintln(r.out, msg)
}

func (r *reporter) Stop(msg string) {
	if r.spin != nil {
		r.spin.Stop(msg)
		return
	}
	fmt.Fprintln(r.out, msg)
}

func (r *reporter) Fail(msg string) {
	if r.spin != nil {
		r.spin.Fail(msg)
		return
	}
	fmt.Fprintln(r.out, msg)
}

// printAssets writes one row per asset, newest first, with the given action label.
func printAssets(w io.Writer, action string, assets []hosting.Asset) {
	if len(assets) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, a := range assets {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
			action,
			a.Name,
			humanize.IBytes(uint64(a.Size)),
			humanize.RelTime(a.CreatedAt, time.Now(), "ago", "from now"))
	}
	_ = tw.Flush()
}
