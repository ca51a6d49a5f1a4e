package payout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jekabolt/privshop-seller/internal/entity"
)

func (w *Worker) worker(ctx context.Context) {
	ticker := time.NewTicker(w.c.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.requestPayouts(ctx, w.now()); err != nil {
				slog.Default().ErrorContext(ctx, "can't request payouts",
					slog.String("err", err.Error()),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) requestPayouts(ctx context.Context, now time.Time) error {
	profiles, err := w.store.Profiles().GetProfilesDueForPayout(ctx, now)
	if err != nil {
		return fmt.Errorf("can't get profiles due for payout: %w", err)
	}

	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := w.payoutFor(ctx, &p, now)
		if err != nil {
			slog.Default().ErrorContext(ctx, "can't compute payout",
				slog.String("err", err.Error()),
				slog.String("seller", p.Id),
			)
			continue
		}

		if req.Total.IsPositive() {
			if err := w.publisher.PublishPayout(ctx, req); err != nil {
				slog.Default().ErrorContext(ctx, "can't publish payout",
					slog.String("err", err.Error()),
					slog.String("seller", p.Id),
				)
				continue
			}
		}

		if err := w.store.Profiles().MarkWithdrawal(ctx, p.Id, now); err != nil {
			slog.Default().ErrorContext(ctx, "can't mark withdrawal",
				slog.String("err", err.Error()),
				slog.String("seller", p.Id),
			)
			continue
		}
		slog.Default().InfoContext(ctx, "payout period closed",
			slog.String("seller", p.Id),
			slog.String("total", req.Total.String()),
		)
	}

	return nil
}

// payoutFor sums the seller's sales and referral commissions since the last withdrawal.
func (w *Worker) payoutFor(ctx context.Context, p *entity.Profile, now time.Time) (*entity.PayoutRequested, error) {
	method := entity.WithdrawalMethod(p.WithdrawalMethod.String)
	var destination string
	switch method {
	case entity.WithdrawalMethodBTC:
		destination = p.BtcWallet.String
	case entity.WithdrawalMethodBank:
		destination = p.Iban.String
	default:
		return nil, fmt.Errorf("unknown withdrawal method %q", p.WithdrawalMethod.String)
	}
	if destination == "" {
		return nil, fmt.Errorf("no %s destination configured", method)
	}

	var (
		since       time.Time
		periodStart *time.Time
	)
	if p.LastWithdrawalDate.Valid {
		since = p.LastWithdrawalDate.Time
		periodStart = &since
	}

	// periods are (since, now] so a row stamped after now waits for the next tick
	sales, err := w.store.Sales().SumSalesAmount(ctx, entity.SalesFilter{Owner: p.Id, Since: since, Until: now})
	if err != nil {
		return nil, fmt.Errorf("can't sum sales: %w", err)
	}

	referrals, err := w.store.Referrals().ReferralEarningsBetween(ctx, p.Id, since, now)
	if err != nil {
		return nil, fmt.Errorf("can't sum referral earnings: %w", err)
	}

	return &entity.PayoutRequested{
		SellerId:       p.Id,
		Method:         method,
		Destination:    destination,
		PeriodStart:    periodStart,
		PeriodEnd:      now,
		SalesAmount:    sales,
		ReferralAmount: referrals,
		Total:          sales.Add(referrals),
	}, nil
}
