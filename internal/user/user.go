package user

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

type User struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Credits        int        `db:"credits" json:"credits"`
	LastDailyBonus *time.Time `db:"last_daily_bonus" json:"lastDailyBonus,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}
