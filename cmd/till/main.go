package main

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/docopt/docopt-go"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"

	till "github.com/ujvaripeter/cash-register-cli"
)

func init() {
	if os.Getenv("DEBUG") == "1" {
		log.SetLevel(log.DebugLevel)
	}
	formatter := &logrus.TextFormatter{}
	formatter.TimestampFormat = "15:04:05.999999999"
	logrus.SetFormatter(formatter)
}

type Opts struct {
	Status bool
	Sale   bool
	Set    bool
	Coins  bool
	Undo   bool
	Load   bool
	Reset  bool
	Amount string `docopt:"<amount>"`
	Tender string `docopt:"<tender>"`
	Denom  string `docopt:"<denom>"`
	Count  string `docopt:"<count>"`
	Day    string `docopt:"<day>"`
}

var dayRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func main() {
	os.Exit(run())
}

func run() (rc int) {

	usage := `till - single-drawer cash register

Usage:
  till status
  till sale <amount> <tender>
  till set <denom> <count>
  till coins <amount>
  till undo [<day>]
  till load <day>
  till reset

Options:
  -h --help     Show this screen.
  --version     Show version.

The tender string combines notes and coin-pool money, e.g.
"2000x1, 1000x1" or "2000x1, coins:150". Days are YYYY-MM-DD.
Config is read from till.yaml (override with TILL_CONFIG).`

	parser := &docopt.Parser{OptionsFirst: false}
	o, _ := parser.ParseArgs(usage, os.Args[1:], "0.1")
	var opts Opts
	err := o.Bind(&opts)
	if err != nil {
		log.Error(err)
		return 22
	}
	log.Debug(opts)

	cfgPath := os.Getenv("TILL_CONFIG")
	if cfgPath == "" {
		cfgPath = "till.yaml"
	}
	cfg, err := till.LoadConfig(cfgPath)
	if err != nil {
		log.Error(err)
		return 1
	}
	denoms, err := cfg.DenomSet()
	if err != nil {
		log.Error(err)
		return 1
	}
	store := till.NewStore(cfg.DataDir, denoms)
	ledger := till.NewLedger(cfg.DataDir)

	// today's drawer, or a fresh one if the day has no snapshot yet
	drawer, err := store.Load(till.Today())
	if err != nil {
		log.Error(err)
		return 1
	}
	if drawer == nil {
		drawer = till.NewDrawer(denoms)
	}

	switch true {
	case opts.Status:
		printDrawer(drawer)
	case opts.Sale:
		return sale(drawer, ledger, store, denoms, opts.Amount, opts.Tender)
	case opts.Set:
		den, err1 := strconv.Atoi(opts.Denom)
		cnt, err2 := strconv.Atoi(opts.Count)
		if err1 != nil || err2 != nil {
			fmt.Fprintln(os.Stderr, "set needs integer <denom> <count>")
			return 2
		}
		if err := drawer.SetNoteCount(den, cnt); err != nil {
			log.Error(err)
			return 1
		}
		if err := store.Save(till.Today(), drawer); err != nil {
			log.Error(err)
			return 1
		}
		printDrawer(drawer)
	case opts.Coins:
		amount, err := strconv.Atoi(opts.Amount)
		if err != nil {
			fmt.Fprintln(os.Stderr, "coins needs an integer <amount>")
			return 2
		}
		if err := drawer.SetCoins(amount); err != nil {
			log.Error(err)
			return 1
		}
		if err := store.Save(till.Today(), drawer); err != nil {
			log.Error(err)
			return 1
		}
		printDrawer(drawer)
	case opts.Undo:
		return undo(drawer, ledger, store, opts.Day)
	case opts.Load:
		if !dayRe.MatchString(opts.Day) {
			fmt.Fprintln(os.Stderr, "load needs a YYYY-MM-DD day")
			return 2
		}
		loaded, err := store.Load(opts.Day)
		if err != nil {
			log.Error(err)
			return 1
		}
		if loaded == nil {
			fmt.Printf("no saved state for %s\n", opts.Day)
			return 1
		}
		printDrawer(loaded)
	case opts.Reset:
		drawer, err = store.Reset()
		if err != nil {
			log.Error(err)
			return 1
		}
		fmt.Println("drawer zeroed and saved for today")
		printDrawer(drawer)
	}
	return 0
}

func sale(drawer *till.Drawer, ledger *till.Ledger, store *till.Store, denoms *till.DenomSet, amountArg, tenderArg string) int {
	amount, err := strconv.Atoi(amountArg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sale needs an integer <amount>")
		return 2
	}

	reg := till.NewRegister(drawer, ledger, store)
	tx, err := reg.Begin(amount)
	if err != nil {
		log.Error(err)
		return 1
	}

	tender, err := till.ParseTender(tenderArg, denoms)
	if err != nil {
		// nothing reached the drawer; just close the transaction
		tx.Abort()
		log.Error(err)
		return 1
	}

	rec, err := tx.Resolve(tender)
	if err != nil {
		log.Error(err)
		return 1
	}

	fmt.Printf("due %d | tendered %d | change %d\n", rec.AmountDue, rec.Tendered.Total(), rec.Returned.Total())
	fmt.Printf("change breakdown: %s\n", rec.Returned)
	printDrawer(drawer)
	return 0
}

func undo(drawer *till.Drawer, ledger *till.Ledger, store *till.Store, day string) int {
	target := drawer
	saveDay := till.Today()
	if day != "" {
		if !dayRe.MatchString(day) {
			fmt.Fprintln(os.Stderr, "undo needs a YYYY-MM-DD day")
			return 2
		}
		loaded, err := store.Load(day)
		if err != nil {
			log.Error(err)
			return 1
		}
		if loaded == nil {
			fmt.Printf("no saved state for %s\n", day)
			return 1
		}
		target = loaded
		saveDay = day
	} else {
		day = till.Today()
	}

	rec, err := ledger.Undo(target, day)
	if err != nil {
		log.Error(err)
		return 1
	}
	if rec == nil {
		fmt.Println("nothing to undo")
		return 0
	}
	if err := store.Save(saveDay, target); err != nil {
		log.Error(err)
		return 1
	}
	fmt.Printf("undid transaction %s (due %d)\n", rec.ID, rec.AmountDue)
	printDrawer(target)
	return 0
}

func printDrawer(d *till.Drawer) {
	for _, den := range d.Denoms().Notes() {
		fmt.Printf("  %6d : %d\n", den, d.NoteCount(den))
	}
	fmt.Printf("  coins  : %d\n", d.Coins())
	fmt.Printf("  total  : %d\n", d.Total())
}
