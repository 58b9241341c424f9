package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wealth/internal/database"
	apperrors "wealth/internal/errors"
	"wealth/internal/identity"
	"wealth/internal/logger"
	"wealth/internal/models"
	"wealth/internal/revalidate"
	"wealth/internal/serialize"
)

const (
	opListTransactions = "Failed to get dashboard data"
	opSeedTransactions = "Failed to seed transactions"
)

// DefaultSeedDays is how far back seeded transactions reach.
const DefaultSeedDays = 90

type seedCategory struct {
	name     string
	min, max int64 // whole currency units
}

var seedCategories = map[models.TransactionType][]seedCategory{
	models.TransactionTypeIncome: {
		{"salary", 5000, 8000},
		{"freelance", 1000, 3000},
		{"investments", 500, 2000},
		{"other-income", 100, 1000},
	},
	models.TransactionTypeExpense: {
		{"housing", 1000, 2000},
		{"transportation", 100, 500},
		{"groceries", 200, 600},
		{"utilities", 100, 300},
		{"entertainment", 50, 200},
		{"food", 50, 150},
		{"shopping", 100, 500},
		{"healthcare", 100, 1000},
		{"education", 200, 1000},
		{"travel", 500, 2000},
	},
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	db          *gorm.DB
	owners      OwnerResolver
	invalidator revalidate.Invalidator
	serializer  serialize.Serializer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, owners OwnerResolver, invalidator revalidate.Invalidator, serializer serialize.Serializer) TransactionServicer {
	if invalidator == nil {
		invalidator = revalidate.Nop{}
	}
	return &transactionService{
		db:          db,
		owners:      owners,
		invalidator: invalidator,
		serializer:  serializer,
	}
}

// ListRecentTransactions returns every transaction owned by the caller,
// most recent date first.
func (s *transactionService) ListRecentTransactions(ctx context.Context, ident *identity.Identity) ([]serialize.Transaction, error) {
	owner, err := s.owners.Lookup(ctx, ident)
	if err != nil {
		return nil, apperrors.WithOperation(opListTransactions, err)
	}

	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", owner.ID).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		logger.FromContext(ctx).Errorw("list transactions failed", "user_id", owner.ID, "error", err.Error())
		return nil, apperrors.WithOperation(opListTransactions, err)
	}

	return s.serializer.Transactions(transactions), nil
}

// SeedTransactions replaces the account's transactions with randomly
// generated income and expenses, one to three per day over the last in.Days
// days, and sets the account balance to their net total.
func (s *transactionService) SeedTransactions(ctx context.Context, in SeedInput) (*SeedResult, error) {
	if in.UserID == "" || in.AccountID == "" {
		return nil, apperrors.WithOperation(opSeedTransactions,
			apperrors.WithMessage(apperrors.ErrInvalidInput, "user and account are required"))
	}
	days := in.Days
	if days <= 0 {
		days = DefaultSeedDays
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	seed := in.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	result := &SeedResult{}
	err := database.Transact(ctx, s.db, func(tx *gorm.DB) error {
		var account models.Account
		if err := database.ForUpdate(tx).
			Where("id = ? AND user_id = ?", in.AccountID, in.UserID).
			First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrAccountNotFound
			}
			return err
		}

		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}

		batch := generateTransactions(rng, in.UserID, in.AccountID, days, now)
		total := decimal.Zero
		for _, t := range batch {
			if t.Type == models.TransactionTypeIncome {
				total = total.Add(t.Amount)
			} else {
				total = total.Sub(t.Amount)
			}
		}

		if err := tx.CreateInBatches(batch, 100).Error; err != nil {
			return err
		}
		if err := tx.Model(&account).Update("balance", total).Error; err != nil {
			return err
		}

		result.Created = len(batch)
		result.Balance = total
		result.Currency = account.Currency
		return nil
	})
	if err != nil {
		return nil, apperrors.WithOperation(opSeedTransactions, err)
	}

	s.invalidator.Revalidate(revalidate.DashboardPath)
	logger.FromContext(ctx).Infow("seeded transactions",
		"account_id", in.AccountID,
		"count", result.Created,
		"balance", result.Balance.StringFixed(2),
	)
	return result, nil
}

func generateTransactions(rng *rand.Rand, userID, accountID string, days int, now time.Time) []models.Transaction {
	var out []models.Transaction
	for i := days; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		for n := rng.Intn(3) + 1; n > 0; n-- {
			txType := models.TransactionTypeExpense
			if rng.Float64() < 0.4 {
				txType = models.TransactionTypeIncome
			}
			cats := seedCategories[txType]
			cat := cats[rng.Intn(len(cats))]
			cents := cat.min*100 + rng.Int63n((cat.max-cat.min)*100+1)

			out = append(out, models.Transaction{
				UserID:      userID,
				AccountID:   accountID,
				Type:        txType,
				Amount:      decimal.New(cents, -models.MoneyScale),
				Description: describeSeed(txType, cat.name),
				Date:        date,
				Category:    cat.name,
				Status:      models.TransactionStatusCompleted,
			})
		}
	}
	return out
}

func describeSeed(t models.TransactionType, category string) string {
	if t == models.TransactionTypeIncome {
		return "Received " + category
	}
	return "Paid for " + category
}
