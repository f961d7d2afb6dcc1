package accounting

import (
	"fmt"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount converts a journal line into the signed delta it applies to an account
// balance. This is the single place the debit/credit convention lives:
//
//	DEBIT to ASSET/EXPENSE            -> Positive (+)
//	CREDIT to ASSET/EXPENSE           -> Negative (-)
//	DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
//	CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.Valid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	delta := line.Debit.Sub(line.Credit)
	if accountType.NormalSide() == domain.CreditSide {
		delta = delta.Neg()
	}
	return delta, nil
}

// ValidateLines performs the structural checks on a candidate entry's lines:
// at least two lines, exactly one non-zero side per line, no negative amounts,
// and total debits equal to total credits at the given currency precision.
func ValidateLines(lines []domain.JournalLine, precision int32) error {
	if len(lines) < 2 {
		return fmt.Errorf("entry must have at least two lines")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line %d has a negative amount", i+1)
		}
		hasDebit := line.Debit.IsPositive()
		hasCredit := line.Credit.IsPositive()
		if hasDebit == hasCredit {
			return fmt.Errorf("line %d must have exactly one of debit or credit set", i+1)
		}
		if !line.Debit.Equal(line.Debit.Round(precision)) || !line.Credit.Equal(line.Credit.Round(precision)) {
			return fmt.Errorf("line %d has more decimal places than the currency allows", i+1)
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if !debits.Round(precision).Equal(credits.Round(precision)) {
		return fmt.Errorf("entry does not balance: debits sum is %s and credits sum is %s",
			debits.String(), credits.String())
	}
	return nil
}

// EntryAmount computes the economic value of a balanced entry: the sum of its debit side.
func EntryAmount(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}

// BalanceChanges folds an entry's lines into net signed balance deltas per account.
func BalanceChanges(lines []domain.JournalLine, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		accountType, ok := accountTypes[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not found for account ID %s", line.AccountID)
		}
		delta, err := SignedAmount(line, accountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}
