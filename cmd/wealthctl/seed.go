package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"wealth/internal/identity"
	"wealth/internal/revalidate"
	"wealth/internal/serialize"
	"wealth/internal/services"
)

type seedCmd struct {
	user    string
	account string
	days    int
	seed    int64
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "fill an account with random demo transactions" }
func (*seedCmd) Usage() string {
	return `wealthctl seed -user <id> -account <id> [-days <n>] [-seed <n>]

  Replaces the account's transactions with random income and expenses over
  the past N days and sets the account balance to their net total.
`
}

func (s *seedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.user, "user", "", "Internal id of the account owner.")
	f.StringVar(&s.account, "account", "", "Id of the account to seed.")
	f.IntVar(&s.days, "days", services.DefaultSeedDays, "Number of days of history to generate.")
	f.Int64Var(&s.seed, "seed", 0, "Random seed. Zero picks one from the clock.")
}

func (s *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if s.user == "" || s.account == "" {
		fmt.Fprint(os.Stderr, s.Usage())
		return subcommands.ExitUsageError
	}

	_, manager, err := openDatabase()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer manager.Close()

	db := manager.DB()
	txService := services.NewTransactionService(db, identity.NewResolver(db), revalidate.Nop{}, serialize.New(serialize.PolicyDefined))
	result, err := txService.SeedTransactions(ctx, services.SeedInput{
		UserID:    s.user,
		AccountID: s.account,
		Days:      s.days,
		Seed:      s.seed,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	services.NewAuditService(db).Log(ctx, s.user, services.AuditSeedTransactions, "account", s.account, "", map[string]any{
		"created": result.Created,
		"balance": result.Balance.StringFixed(2),
	})

	fmt.Printf("Created %d transactions, balance %s\n", result.Created, formatBalance(result.Balance, result.Currency))
	return subcommands.ExitSuccess
}

// formatBalance renders an amount in its currency's conventional format,
// falling back to the plain decimal for codes go-money does not know.
func formatBalance(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
