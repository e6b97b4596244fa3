package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"llm-market-sim/internal/ledger"
	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/persist"
	"llm-market-sim/internal/session"
	"llm-market-sim/internal/trace"
	"llm-market-sim/internal/types"
)

// registrar is implemented by stores that can provision a new account.
type registrar interface {
	Register(ctx context.Context, account, password string, tier types.Tier) error
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	tierFlag := flag.String("tier", "elementary", "difficulty tier: elementary, middle or high")
	account := flag.String("account", "", "account name for persistence (optional)")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx := context.Background()
	defer func() { _ = trace.Shutdown(ctx) }()

	cfg := loadConfig(ctx, *configPath)
	gen := initializeGenerator(ctx, cfg)
	jr := initializeJournal(ctx, cfg)
	defer jr.Close()

	deps := session.Deps{Config: cfg, Generator: gen, Journal: jr}

	tier := types.Tier(*tierFlag)
	var blob []byte
	if *account != "" {
		st, auth := initializeStore(ctx, cfg)
		deps.Store = st
		deps.Account = *account

		creds, err := auth.Login(ctx, *account, *password)
		if errors.Is(err, persist.ErrBadCredentials) {
			// Unknown accounts are provisioned on first use. An existing
			// account with a wrong password fails the re-login below.
			if r, ok := auth.(registrar); ok {
				if rerr := r.Register(ctx, *account, *password, tier); rerr == nil {
					creds, err = auth.Login(ctx, *account, *password)
				}
			}
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "login failed:", err)
			os.Exit(1)
		}
		tier = creds.Tier
		blob = creds.Blob
	}

	s := session.New(deps)
	if len(blob) > 0 {
		if err := s.Load(blob); err != nil {
			logger.Warn(ctx, "Saved session unreadable, starting fresh", "error", err)
			blob = nil
		}
	}
	if len(blob) == 0 {
		if err := s.Initialize(ctx, tier); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Market simulation started. Day %d, tier %s. Type 'help' for commands.\n", s.Day(), s.Tier())
	repl(ctx, s)
}

func repl(ctx context.Context, s *session.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			printHelp()
		case "news":
			batch, err := s.GenerateDailyNews(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for i, article := range batch {
				fmt.Printf("\n[News %d]\n%s\n", i+1, article)
			}
		case "advance":
			if err := s.AdvanceDay(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("Day %d started. Prices moved and fresh news is in.\n", s.Day())
		case "buy", "sell":
			runTrade(ctx, s, fields)
		case "prices":
			printPrices(s)
		case "portfolio":
			printPortfolio(s)
		case "yesterday":
			printYesterday(s)
		case "glossary":
			for _, term := range s.Glossary() {
				fmt.Printf("%s: %s\n", term.Name, term.Definition)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command, try 'help'")
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  news                generate today's news
  advance             move to the next day (needs today's news)
  prices              list instruments with prices and daily change
  buy <name> <qty>    buy shares at the current price
  sell <name> <qty>   sell shares at the current price
  portfolio           show cash, holdings and profit
  yesterday           show yesterday's news with explanations
  glossary            show market terms for your tier
  quit                exit`)
}

func runTrade(ctx context.Context, s *session.Session, fields []string) {
	if len(fields) < 3 {
		fmt.Printf("usage: %s <instrument> <qty>\n", fields[0])
		return
	}
	qty, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
	if err != nil {
		fmt.Println("quantity must be a whole number")
		return
	}
	name := strings.Join(fields[1:len(fields)-1], " ")

	if fields[0] == "buy" {
		err = s.Buy(ctx, name, qty)
	} else {
		err = s.Sell(ctx, name, qty)
	}
	if err != nil {
		var funds *ledger.InsufficientFundsError
		if errors.As(err, &funds) {
			fmt.Printf("error: %v (you can afford up to %d)\n", err, funds.MaxAffordable)
			return
		}
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s %d x %s done.\n", strings.ToUpper(fields[0]), qty, name)
}

func printPrices(s *session.Session) {
	quotes, err := s.Prices()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, q := range quotes {
		fmt.Printf("%-28s %-14s %10d  %+6.2f%%\n", q.Name, q.Sector, q.Price, q.ChangePct)
	}
}

func printPortfolio(s *session.Session) {
	sum, err := s.PortfolioSummary()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("cash: %s  total: %s  profit: %s (%.2f%%)\n",
		sum.CashDisplay, sum.TotalValueDisplay, sum.ProfitLoss.StringFixed(0), sum.ProfitRate)
	for _, p := range sum.Positions {
		fmt.Printf("  %-28s qty %5d  avg %s  now %d  p/l %s (%.2f%%)\n",
			p.Name, p.Quantity, p.AvgCost.StringFixed(0), p.Price, p.ProfitLoss.StringFixed(0), p.ProfitRate)
	}
}

func printYesterday(s *session.Session) {
	items := s.PreviousNewsWithInterpretation()
	if len(items) == 0 {
		fmt.Println("no previous news yet, advance a day first")
		return
	}
	for _, item := range items {
		fmt.Printf("\n[News %d]\n%s\n", item.Index, item.Text)
		fmt.Printf("explanation: %s\n", item.Interpretation.Explanation)
		if len(item.Interpretation.Sectors) > 0 {
			fmt.Printf("related sectors: %s\n", strings.Join(item.Interpretation.Sectors, ", "))
		}
	}
}
