// Package billing syncs user subscription state with the payment
// provider. The provider is reached only through the payments.Gateway
// boundary; the users table is the local source of truth between
// fetches.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/vitalsync/vitalsync/internal/domain/identity"
	"github.com/vitalsync/vitalsync/internal/platform/payments"
)

var (
	ErrMissingEmail         = errors.New("missing email")
	ErrAlreadySubscribed    = errors.New("user already has an active subscription")
	ErrNoActiveSubscription = errors.New("No active subscription found")
	ErrUserNotFound         = errors.New("user not found")
)

type Service struct {
	users   identity.UserRepository
	gateway payments.Gateway
	priceID string
	logger  zerolog.Logger
}

// NewService wires the billing flows. gateway may be nil when billing
// is disabled; handlers check Enabled before calling in.
func NewService(users identity.UserRepository, gateway payments.Gateway, priceID string, logger zerolog.Logger) *Service {
	return &Service{
		users:   users,
		gateway: gateway,
		priceID: priceID,
		logger:  logger.With().Str("component", "billing").Logger(),
	}
}

// Enabled reports whether a payment gateway is configured.
func (s *Service) Enabled() bool { return s.gateway != nil }

func (s *Service) user(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// SubscriptionIntent is returned from CreateSubscription; the client
// secret completes the payment on the client side.
type SubscriptionIntent struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret"`
	Status         string `json:"status"`
}

// CreateSubscription creates the provider customer on first use, opens
// an incomplete subscription for the configured price, and stores both
// provider ids on the user row.
func (s *Service) CreateSubscription(ctx context.Context, userID uuid.UUID) (*SubscriptionIntent, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Email == "" {
		return nil, ErrMissingEmail
	}
	if u.HasActiveSubscription() {
		return nil, ErrAlreadySubscribed
	}

	if u.StripeCustomerID == nil || *u.StripeCustomerID == "" {
		customerID, err := s.gateway.CreateCustomer(ctx, u.Email, u.DisplayName)
		if err != nil {
			return nil, err
		}
		u.StripeCustomerID = &customerID
	}

	sub, err := s.gateway.CreateSubscription(ctx, *u.StripeCustomerID, s.priceID)
	if err != nil {
		return nil, err
	}

	u.StripeSubscriptionID = &sub.ID
	s.applyRemote(u, sub)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", u.ID.String()).
		Str("subscription_id", sub.ID).
		Msg("subscription created")

	return &SubscriptionIntent{
		SubscriptionID: sub.ID,
		ClientSecret:   sub.ClientSecret,
		Status:         sub.Status,
	}, nil
}

// CancelSubscription cancels the remote subscription and marks the
// local copy canceled.
func (s *Service) CancelSubscription(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.StripeSubscriptionID == nil || *u.StripeSubscriptionID == "" {
		return nil, ErrNoActiveSubscription
	}

	if _, err := s.gateway.CancelSubscription(ctx, *u.StripeSubscriptionID); err != nil {
		return nil, err
	}

	u.SubscriptionStatus = identity.SubCanceled
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", u.ID.String()).Msg("subscription canceled")
	return u, nil
}

// SubscriptionStatus is the local view of the user's subscription.
type SubscriptionStatus struct {
	Status string     `json:"status"`
	Active bool       `json:"active"`
	EndsAt *time.Time `json:"endsAt,omitempty"`
}

// Status refreshes the local copy from the provider when a remote id
// exists, then reports the (possibly stale) local state. Provider
// failures are logged and swallowed so the endpoint stays readable
// while the provider is down.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*SubscriptionStatus, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.StripeSubscriptionID != nil && *u.StripeSubscriptionID != "" {
		sub, err := s.gateway.GetSubscription(ctx, *u.StripeSubscriptionID)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("user_id", u.ID.String()).
				Msg("subscription refresh failed, serving local status")
		} else {
			s.applyRemote(u, sub)
			if err := s.users.Update(ctx, u); err != nil {
				return nil, err
			}
		}
	}

	return &SubscriptionStatus{
		Status: u.SubscriptionStatus,
		Active: u.HasActiveSubscription(),
		EndsAt: u.SubscriptionEndsAt,
	}, nil
}

// applyRemote overwrites the local subscription fields with the
// provider's view. Last fetch wins.
func (s *Service) applyRemote(u *identity.User, sub *payments.Subscription) {
	u.SubscriptionStatus = normalizeStatus(sub.Status)
	if !sub.CurrentPeriodEnd.IsZero() {
		end := sub.CurrentPeriodEnd
		u.SubscriptionEndsAt = &end
	}
}

func normalizeStatus(remote string) string {
	switch remote {
	case "active":
		return identity.SubActive
	case "trialing":
		return identity.SubTrialing
	case "past_due", "unpaid":
		return identity.SubPastDue
	case "canceled":
		return identity.SubCanceled
	}
	return identity.SubInactive
}
