// Command ledgerctl inspects and moves the points ledger between storage
// drivers.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/ports"
	"github.com/bountyboard/points-ledger/internal/core/service"
	"github.com/bountyboard/points-ledger/internal/infrastructure/config"
	"github.com/bountyboard/points-ledger/internal/infrastructure/db"
	"github.com/bountyboard/points-ledger/internal/infrastructure/db/file"
	"github.com/bountyboard/points-ledger/pkg/logger"
)

const usageText = `usage: ledgerctl <command> [flags]

commands:
  export         write the ledger as JSON
  import         replace the ledger with a JSON file
  migrate        copy the ledger from one driver to another
  top            print the leaderboard
  hash-password  print a bcrypt hash for OPERATOR_PASSWORD_HASH
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usageText)
		return errors.New("missing command")
	}
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, rest := args[0], args[1:]
	if cmd == "hash-password" {
		return hashPassword(rest, stdin, stdout)
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "ledgerctl", Output: os.Stderr})
	res := db.NewResources(cfg, log)
	defer res.Close(context.Background())

	switch cmd {
	case "export":
		return export(ctx, res, cfg, rest, stdout)
	case "import":
		return importLedger(ctx, res, cfg, rest, stdout)
	case "migrate":
		return migrate(ctx, res, rest, stdout, log)
	case "top":
		return top(ctx, res, cfg, rest, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usageText)
		return nil
	default:
		fmt.Fprint(stdout, usageText)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// loadConfig reads the service configuration without requiring a bot token.
func loadConfig(ctx context.Context) (*config.Config, error) {
	if os.Getenv("TELEGRAM_MODE") == "" {
		os.Setenv("TELEGRAM_MODE", config.ModeOff)
	}
	return config.Load(ctx)
}

func openStore(ctx context.Context, res *db.Resources, driver, path string) (ports.LedgerStore, error) {
	if driver == config.DriverFile && path != "" {
		return file.NewStore(path), nil
	}
	return res.OpenStore(ctx, driver)
}

func export(ctx context.Context, res *db.Resources, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	driver := fs.String("driver", cfg.Store.Driver, "store driver to read")
	out := fs.StringP("out", "o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := res.OpenStore(ctx, *driver)
	if err != nil {
		return err
	}
	l, err := store.Load(ctx)
	if err != nil {
		return err
	}
	data, err := domain.EncodeLedger(l)
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	}
	return file.NewStore(*out).Save(ctx, l)
}

func importLedger(ctx context.Context, res *db.Resources, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	driver := fs.String("driver", cfg.Store.Driver, "store driver to write")
	in := fs.StringP("in", "i", "", "ledger JSON file to import")
	force := fs.Bool("force", false, "overwrite a non-empty ledger")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("import: --in is required")
	}

	l, err := file.NewStore(*in).Load(ctx)
	if err != nil {
		return err
	}
	store, err := res.OpenStore(ctx, *driver)
	if err != nil {
		return err
	}
	return replace(ctx, store, l, *force, stdout)
}

func migrate(ctx context.Context, res *db.Resources, args []string, stdout io.Writer, log zerolog.Logger) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	from := fs.String("from", "", "source driver")
	to := fs.String("to", "", "destination driver")
	fromFile := fs.String("from-file", "", "source path when --from=file")
	toFile := fs.String("to-file", "", "destination path when --to=file")
	force := fs.Bool("force", false, "overwrite a non-empty destination")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == "" || *to == "" {
		return errors.New("migrate: --from and --to are required")
	}

	src, err := openStore(ctx, res, *from, *fromFile)
	if err != nil {
		return err
	}
	dst, err := openStore(ctx, res, *to, *toFile)
	if err != nil {
		return err
	}

	l, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if err := replace(ctx, dst, l, *force, stdout); err != nil {
		return err
	}
	log.Info().Str("from", *from).Str("to", *to).Int("profiles", len(l)).Msg("ledger migrated")
	return nil
}

func replace(ctx context.Context, store ports.LedgerStore, l domain.Ledger, force bool, stdout io.Writer) error {
	current, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if len(current) > 0 && !force {
		return fmt.Errorf("destination holds %d profiles; pass --force to overwrite", len(current))
	}
	if err := store.Save(ctx, l); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d profiles\n", len(l))
	return nil
}

func top(ctx context.Context, res *db.Resources, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("top", flag.ContinueOnError)
	limit := fs.IntP("limit", "n", cfg.Ledger.LeaderboardLimit, "number of entries")
	driver := fs.String("driver", cfg.Store.Driver, "store driver to read")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := res.OpenStore(ctx, *driver)
	if err != nil {
		return err
	}
	l, err := store.Load(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tID\tNAME\tPOINTS")
	for _, e := range service.Rank(l, *limit) {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", e.Rank, e.Identity, e.DisplayName, e.Balance)
	}
	return w.Flush()
}

func hashPassword(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("hash-password: read an empty password from stdin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(hash))
	return err
}
