package bookkeeping

import (
	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/domain/asset"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// slot names the role an entry plays inside its linking record. The apply
// step returns the inserted entry ids keyed by slot so each composer can
// assemble its link without re-deriving which entry went where.
type slot string

const (
	slotAsset         slot = "asset"
	slotCapital       slot = "capital"
	slotIncome        slot = "income"
	slotSourceAsset   slot = "source_asset"
	slotSourceCapital slot = "source_capital"
	slotTargetAsset   slot = "target_asset"
	slotTargetCapital slot = "target_capital"
	slotBaseAsset     slot = "base_asset"
	slotBaseIncome    slot = "base_income"
	slotQuoteAsset    slot = "quote_asset"
	slotQuoteIncome   slot = "quote_income"
	slotFeeAsset      slot = "fee_asset"
	slotFeeIncome     slot = "fee_income"
)

// planLine is one entry to be booked: a signed amount in the ledger of
// (account, asset, kind), filling one slot of the linking record.
type planLine struct {
	slot      slot
	accountID uuid.UUID
	asset     *asset.Asset
	kind      ledger.Type
	amount    decimal.Decimal
}

// entryPlan is the balanced set of entries one economic event produces.
// Plans are built by pure functions so the sign conventions of the four
// transaction kinds can be tested without a database.
type entryPlan []planLine

// total sums the plan's signed amounts. Asset/liability entries added to
// capital/income entries must cancel exactly; apply refuses any plan where
// they do not.
func (p entryPlan) total() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range p {
		sum = sum.Add(line.amount)
	}
	return sum
}

// validate checks every line against its asset's precision and the plan
// against the zero-sum invariant.
func (p entryPlan) validate() error {
	for _, line := range p {
		if err := line.asset.ValidateAmount(line.amount); err != nil {
			return err
		}
	}
	if !p.total().IsZero() {
		return ErrUnbalancedPlan{Total: p.total()}
	}
	return nil
}

// planCapital lays out a capital contribution or drawing: the asset entry
// carries the movement, the capital entry mirrors it, and an optional fee
// moves value from the asset ledger to the income ledger.
func planCapital(accountID uuid.UUID, a *asset.Asset, amount, fee decimal.Decimal, drawing bool) entryPlan {
	signed := amount
	if drawing {
		signed = amount.Neg()
	}
	plan := entryPlan{
		{slot: slotAsset, accountID: accountID, asset: a, kind: ledger.TypeAsset, amount: signed},
		{slot: slotCapital, accountID: accountID, asset: a, kind: ledger.TypeCapital, amount: signed.Neg()},
	}
	if fee.IsPositive() {
		plan = append(plan, feeLines(accountID, a, fee)...)
	}
	return plan
}

// planIncome lays out an income receipt or expense. The caller passes
// expenses already negated; the income entry mirrors the asset entry.
func planIncome(accountID uuid.UUID, a *asset.Asset, amount decimal.Decimal) entryPlan {
	return entryPlan{
		{slot: slotAsset, accountID: accountID, asset: a, kind: ledger.TypeAsset, amount: amount},
		{slot: slotIncome, accountID: accountID, asset: a, kind: ledger.TypeIncome, amount: amount.Neg()},
	}
}

// planTransfer lays out an inter-account transfer. With a fee-inclusive fee
// the target receives amount − fee; otherwise the target receives the full
// amount and the fee is an extra deduction on the source. Fee entries are
// always booked against the source account.
func planTransfer(sourceID, targetID uuid.UUID, a *asset.Asset, amount, fee decimal.Decimal, feeInclusive bool) entryPlan {
	net := amount
	if feeInclusive && fee.IsPositive() {
		net = amount.Sub(fee)
	}
	plan := entryPlan{
		{slot: slotSourceAsset, accountID: sourceID, asset: a, kind: ledger.TypeAsset, amount: amount.Neg()},
		{slot: slotSourceCapital, accountID: sourceID, asset: a, kind: ledger.TypeCapital, amount: amount},
		{slot: slotTargetAsset, accountID: targetID, asset: a, kind: ledger.TypeAsset, amount: net},
		{slot: slotTargetCapital, accountID: targetID, asset: a, kind: ledger.TypeCapital, amount: net.Neg()},
	}
	if fee.IsPositive() {
		plan = append(plan, feeLines(sourceID, a, fee)...)
	}
	return plan
}

// planTrade lays out a buy or sell of baseAsset priced in quoteAsset inside
// one account. The realization legs mirror each asset movement into its
// income ledger; all four signs flip together between buy and sell. An
// optional fee is booked in feeAsset, which must be the base or the quote.
func planTrade(accountID uuid.UUID, baseAsset, quoteAsset *asset.Asset, baseAmount, quoteAmount decimal.Decimal, buy bool, feeAsset *asset.Asset, fee decimal.Decimal) entryPlan {
	base, quote := baseAmount, quoteAmount.Neg()
	if !buy {
		base, quote = baseAmount.Neg(), quoteAmount
	}
	plan := entryPlan{
		{slot: slotBaseAsset, accountID: accountID, asset: baseAsset, kind: ledger.TypeAsset, amount: base},
		{slot: slotBaseIncome, accountID: accountID, asset: baseAsset, kind: ledger.TypeIncome, amount: base.Neg()},
		{slot: slotQuoteAsset, accountID: accountID, asset: quoteAsset, kind: ledger.TypeAsset, amount: quote},
		{slot: slotQuoteIncome, accountID: accountID, asset: quoteAsset, kind: ledger.TypeIncome, amount: quote.Neg()},
	}
	if fee.IsPositive() && feeAsset != nil {
		plan = append(plan, feeLines(accountID, feeAsset, fee)...)
	}
	return plan
}

// feeLines is the shared fee pattern: the asset ledger gives up the fee and
// the income ledger receives it.
func feeLines(accountID uuid.UUID, a *asset.Asset, fee decimal.Decimal) entryPlan {
	return entryPlan{
		{slot: slotFeeAsset, accountID: accountID, asset: a, kind: ledger.TypeAsset, amount: fee.Neg()},
		{slot: slotFeeIncome, accountID: accountID, asset: a, kind: ledger.TypeIncome, amount: fee},
	}
}
