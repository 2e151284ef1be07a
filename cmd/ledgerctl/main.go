// Command ledgerctl is the operator tool for the freight ledger.
//
//	ledgerctl token --user u-42 --role ACCOUNTING   mint a bearer token
//	ledgerctl audit                                 verify the ledger once
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/mmynk/freightledger/internal/auth"
	"github.com/mmynk/freightledger/internal/config"
	"github.com/mmynk/freightledger/internal/jobs"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage/backend"
	"github.com/mmynk/freightledger/pkg/logging"
)

// exitDiscrepancies is the exit status of an audit that found problems.
const exitDiscrepancies = 2

func main() {
	logging.Setup()
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	if len(args) == 0 {
		usage(out)
		return 1
	}

	var err error
	code := 0
	switch args[0] {
	case "token":
		err = tokenCmd(args[1:], out)
	case "audit":
		code, err = auditCmd(args[1:], out)
	case "help", "-h", "--help":
		usage(out)
		return 0
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		slog.Error("ledgerctl failed", "command", args[0], "error", err)
		return 1
	}
	return code
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "usage: ledgerctl <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")
	fmt.Fprintln(out, "  token   mint a bearer token for a user and role")
	fmt.Fprintln(out, "  audit   verify the fund chain and settlement totals once")
}

func newFlagSet(name string) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to the YAML config file (default $LEDGER_CONFIG)")
	return fs, configPath
}

func tokenCmd(args []string, out io.Writer) error {
	fs, configPath := newFlagSet("token")
	userID := fs.StringP("user", "u", "", "user id to put in the token (required)")
	role := fs.StringP("role", "r", string(models.RoleAccounting), "role: ADMIN, CEO, ACCOUNTING, DISPATCHER or CARRIER")
	ttl := fs.Duration("ttl", 0, "token lifetime (default auth.token_ttl)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := parseRole(*role)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, lifetime).Generate(*userID, r)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

func parseRole(s string) (models.Role, error) {
	r := models.Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case models.RoleAdmin, models.RoleCEO, models.RoleAccounting, models.RoleDispatcher, models.RoleCarrier:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func auditCmd(args []string, out io.Writer) (int, error) {
	fs, configPath := newFlagSet("audit")
	timeout := fs.Duration("timeout", 10*time.Minute, "give up after this long")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return 0, err
	}
	store, err := backend.Open(cfg.Database)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := jobs.NewLedgerAuditor(store, slog.Default(), nil).Run(ctx)
	if err != nil {
		return 0, err
	}

	fmt.Fprintf(out, "fund transactions: %d\n", report.FundTransactions)
	fmt.Fprintf(out, "settlements:       %d\n", report.Settlements)
	fmt.Fprintf(out, "fund balance:      %s\n", report.Balance.StringFixed(2))
	if report.Clean() {
		fmt.Fprintln(out, "no discrepancies")
		return 0, nil
	}
	for _, d := range report.Discrepancies {
		fmt.Fprintln(out, d.String())
	}
	return exitDiscrepancies, nil
}
