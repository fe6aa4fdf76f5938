// Command sellscan runs a batch of trading screenshots through the
// extraction pipeline and prints the resulting trades and aggregate stats.
// It is a harness around the engine, not part of the core surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/disintegration/imaging"

	"sellscan/config"
	"sellscan/logger"
	"sellscan/models"
	"sellscan/process"
	"sellscan/store"
)

func main() {
	cfgPath := flag.String("config", "", "path to yaml config (optional)")
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: sellscan [-config file] image.png [image2.png ...]")
		os.Exit(2)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	logger.SetLevel(cfg.App.LogLevel)

	var images []process.ImageInput
	for _, path := range flag.Args() {
		img, err := imaging.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
			os.Exit(1)
		}
		images = append(images, process.ImageInput{Ref: path, Image: img})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc := process.New(cfg, progressPrinter{})
	res, err := proc.Run(ctx, images)
	if err != nil {
		fmt.Fprintf(os.Stderr, "batch: %v\n", err)
		os.Exit(1)
	}

	st := store.New()
	for _, t := range res.Trades {
		if err := st.Add(t); err != nil {
			fmt.Fprintf(os.Stderr, "store: %v\n", err)
		}
	}

	printTrades(st.Trades())
	printStats(st.Stats())
	if len(res.Failed) > 0 {
		fmt.Printf("failed images: %v\n", res.Failed)
	}
}

type progressPrinter struct{}

func (progressPrinter) Progress(p process.Progress) {
	if p.Variant != "" {
		return
	}
	fmt.Fprintf(os.Stderr, "processed %d/%d (%d%%) %s\n", p.Current, p.Total, p.Percent, p.Image)
}

func (progressPrinter) AttemptDone(string, models.RecognitionAttempt) {}
func (progressPrinter) ImageDone(string, []models.Trade)              {}

func printTrades(trades []models.Trade) {
	if len(trades) == 0 {
		fmt.Println("no SELL trades found")
		return
	}
	fmt.Printf("%-12s %-12s %-10s %-12s %s\n", "PAIR", "TOTAL", "RESULT", "PROFIT", "REVIEW")
	for _, t := range trades {
		review := ""
		if t.NeedsCorrection {
			review = "yes"
		}
		fmt.Printf("%-12s %-12.4f %+-10.2f %+-12.4f %s\n", t.Pair, t.Total, t.Result, t.Profit, review)
	}
}

func printStats(s models.AggregateStats) {
	fmt.Printf("\ntrades=%d totalAmount=%.2f profit=%+.4f avgResult=%+.2f%%\n",
		s.TradeCount, s.TotalAmountSum, s.ProfitSum, s.AverageResult)
}
