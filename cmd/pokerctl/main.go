package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/vctt94/holdemtable/pkg/config"
	"github.com/vctt94/holdemtable/pkg/lobby"
	"github.com/vctt94/holdemtable/pkg/logging"
	"github.com/vctt94/holdemtable/pkg/poker"
	"github.com/vctt94/holdemtable/pkg/render"
	"github.com/vctt94/holdemtable/pkg/store"
	"github.com/vctt94/holdemtable/pkg/ui"
)

const watchInterval = time.Second

// Common flags
var (
	dataDir = flag.String("datadir", "", "Directory to load pokersrv.yaml from")
	dbPath  = flag.String("dbpath", "", "Path to the SQLite database file")
	debug   = flag.String("debug", "", "Debug level for logging")
	asJSON  = flag.Bool("json", false, "Print views as JSON instead of rendering them")
)

// usage writes the command list and the global flags to w.
func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [global flags] <command> [args]\n", os.Args[0])
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  create NAME                          Create a room; prints code and token")
	fmt.Fprintln(w, "  join CODE NAME                       Join a room; prints token and seat")
	fmt.Fprintln(w, "  start CODE TOKEN                     Deal the first hand (creator only)")
	fmt.Fprintln(w, "  act CODE TOKEN fold|check|call|raise N|allin")
	fmt.Fprintln(w, "  poll CODE TOKEN                      Apply timers and show the table")
	fmt.Fprintln(w, "  view CODE TOKEN                      Show the table as TOKEN sees it")
	fmt.Fprintln(w, "  watch CODE TOKEN                     Play interactively, refreshing every second")
	fmt.Fprintln(w, "  leave CODE TOKEN                     Leave a room")
	fmt.Fprintln(w, "  state CODE [--dump]                  Print the full stored room")
	fmt.Fprintln(w, "  tables                               List recent rooms (JSON)")
	fmt.Fprintln(w, "  sweep                                Apply timers to every playing room")
	fmt.Fprintln(w, "\nGlobal flags:")
	// Parse errors are silenced, so point the defaults at w while printing.
	out := flag.CommandLine.Output()
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
	flag.CommandLine.SetOutput(out)
}

func main() {
	flag.Usage = func() { usage(os.Stderr) }

	flag.CommandLine.SetOutput(io.Discard)
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	overrides := make(map[string]interface{})
	if *dbPath != "" {
		overrides["db.path"] = *dbPath
	}
	if *debug != "" {
		overrides["debuglevel"] = *debug
	}
	cfg, err := config.Load(*dataDir, overrides)
	if err != nil {
		fatalErr(err)
	}

	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		DebugLevel: cfg.DebugLevel,
		Console:    os.Stderr,
	})
	if err != nil {
		fatalErr(err)
	}
	if *debug == "" {
		// Keep stdout clean for scripting unless asked.
		_ = logBackend.SetLevel("warn")
	}
	poker.UseLogger(logBackend.Logger(logging.SubsystemPoker))
	store.UseLogger(logBackend.Logger(logging.SubsystemStore))
	lobby.UseLogger(logBackend.Logger(logging.SubsystemLobby))

	ctx := context.Background()
	db, err := openStore(ctx, cfg)
	if err != nil {
		fatalErr(err)
	}
	defer db.Close()

	svc := lobby.NewService(db, lobby.Config{
		Table: poker.TableConfig{
			SmallBlind: cfg.Table.SmallBlind,
			BigBlind:   cfg.Table.BigBlind,
		},
		StartingChips: cfg.Table.StartingChips,
		TurnTimeout:   cfg.Timing.TurnTimeout,
		AutoDealDelay: cfg.Timing.AutoDealDelay,
		ListWindow:    cfg.Timing.ListWindow,
		IdleExpiry:    cfg.Timing.IdleExpiry,
		MaxRetries:    3,
	})

	args := flag.Args()[1:]
	switch cmd := flag.Arg(0); cmd {
	case "create":
		err = handleCreate(ctx, svc, args)
	case "join":
		err = handleJoin(ctx, svc, args)
	case "start":
		err = handlePlayerCmd(ctx, args, "start", svc.StartGame)
	case "act":
		err = handleAct(ctx, svc, args)
	case "poll":
		err = handlePlayerCmd(ctx, args, "poll", svc.Poll)
	case "view":
		err = handlePlayerCmd(ctx, args, "view", svc.State)
	case "watch":
		err = handleWatch(ctx, svc, args)
	case "leave":
		err = handleLeave(ctx, svc, args)
	case "state":
		err = handleState(ctx, db, args)
	case "tables":
		err = handleTables(ctx, svc)
	case "sweep":
		var n int
		n, err = svc.Sweep(ctx)
		if err == nil {
			fmt.Printf("%d rooms advanced\n", n)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fatalErr(err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Database, error) {
	if cfg.DB.Driver == "redis" {
		return store.NewRedisDB(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return store.NewSQLiteDB(cfg.DB.Path)
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func fatalErr(err error) {
	fatal(err.Error())
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printView(view *lobby.RoomView) error {
	if *asJSON {
		return printJSON(view)
	}
	fmt.Printf("Room %s (version %d)\n", view.RoomCode, view.Version)
	fmt.Println(render.View(view.State, string(view.Status)))
	return nil
}

func handleCreate(ctx context.Context, svc *lobby.Service, args []string) error {
	if len(args) != 1 {
		return errors.New("create requires NAME")
	}
	res, err := svc.CreateRoom(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(res)
}

func handleJoin(ctx context.Context, svc *lobby.Service, args []string) error {
	if len(args) != 2 {
		return errors.New("join requires CODE NAME")
	}
	res, err := svc.JoinRoom(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return printJSON(res)
}

type playerFn func(ctx context.Context, code, token string) (*lobby.RoomView, error)

func handlePlayerCmd(ctx context.Context, args []string, name string, fn playerFn) error {
	if len(args) != 2 {
		return fmt.Errorf("%s requires CODE TOKEN", name)
	}
	view, err := fn(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return printView(view)
}

// parseAction turns command line words into an action.
func parseAction(words []string) (poker.Action, error) {
	if len(words) == 0 {
		return poker.Action{}, errors.New("missing action")
	}
	name := strings.ToLower(words[0])
	if name == "allin" {
		name = string(poker.ActionAllIn)
	}
	t, err := poker.ParseActionType(name)
	if err != nil {
		return poker.Action{}, err
	}
	a := poker.Action{Type: t}
	if t == poker.ActionRaise {
		if len(words) < 2 {
			return poker.Action{}, errors.New("raise requires an amount")
		}
		n, err := strconv.ParseInt(words[1], 10, 64)
		if err != nil || n <= 0 {
			return poker.Action{}, fmt.Errorf("invalid raise amount %q", words[1])
		}
		a.Amount = n
	}
	return a, nil
}

func handleAct(ctx context.Context, svc *lobby.Service, args []string) error {
	if len(args) < 3 {
		return errors.New("act requires CODE TOKEN ACTION [AMOUNT]")
	}
	a, err := parseAction(args[2:])
	if err != nil {
		return err
	}
	view, err := svc.Act(ctx, args[0], args[1], a)
	if err != nil {
		return err
	}
	return printView(view)
}

func handleWatch(ctx context.Context, svc *lobby.Service, args []string) error {
	if len(args) != 2 {
		return errors.New("watch requires CODE TOKEN")
	}
	return ui.Run(ctx, svc, strings.ToUpper(args[0]), args[1], watchInterval)
}

func handleLeave(ctx context.Context, svc *lobby.Service, args []string) error {
	if len(args) != 2 {
		return errors.New("leave requires CODE TOKEN")
	}
	if err := svc.Leave(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("left")
	return nil
}

func handleState(ctx context.Context, db store.Database, args []string) error {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dump := fs.Bool("dump", false, "Dump Go values instead of JSON")
	// Allow the flag after the code.
	var code string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		code, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	if code == "" && fs.NArg() > 0 {
		code = fs.Arg(0)
	}
	if code == "" {
		return errors.New("state requires CODE")
	}

	room, err := db.GetRoom(ctx, strings.ToUpper(code))
	if err != nil {
		return err
	}
	if *dump {
		spew.Dump(room)
		return nil
	}
	return printJSON(room)
}

func handleTables(ctx context.Context, svc *lobby.Service) error {
	tables, err := svc.ListRooms(ctx)
	if err != nil {
		return err
	}
	return printJSON(tables)
}
