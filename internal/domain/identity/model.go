package identity

import (
	"time"

	"github.com/google/uuid"
)

// Subscription status values mirrored from the billing provider.
const (
	SubInactive = "inactive"
	SubActive   = "active"
	SubPastDue  = "past_due"
	SubCanceled = "canceled"
	SubTrialing = "trialing"
)

// User maps to the users table. Users are never hard-deleted; subscription
// fields are mutated only by billing-status sync.
type User struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	Username             string     `db:"username" json:"username"`
	Email                string     `db:"email" json:"email"`
	PasswordHash         string     `db:"password_hash" json:"-"`
	DisplayName          string     `db:"display_name" json:"display_name"`
	SubscriptionStatus   string     `db:"subscription_status" json:"subscription_status"`
	SubscriptionEndsAt   *time.Time `db:"subscription_ends_at" json:"subscription_ends_at,omitempty"`
	StripeCustomerID     *string    `db:"stripe_customer_id" json:"-"`
	StripeSubscriptionID *string    `db:"stripe_subscription_id" json:"-"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// HasActiveSubscription reports whether the user currently has paid access:
// status active or trialing, and the period end (if set) has not passed.
func (u *User) HasActiveSubscription() bool {
	if u.SubscriptionStatus != SubActive && u.SubscriptionStatus != SubTrialing {
		return false
	}
	if u.SubscriptionEndsAt != nil && u.SubscriptionEndsAt.Before(time.Now()) {
		return false
	}
	return true
}
