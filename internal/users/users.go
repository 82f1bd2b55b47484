package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidPhone = errors.New("invalid phone number")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ChatID    int64     `json:"chat_id" db:"chat_id"`
	Phone     string    `json:"phone_number" db:"phone"`
	FullName  string    `json:"full_name,omitempty" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Repository interface {
	UpsertUser(ctx context.Context, u *User) error
	UserByChatID(ctx context.Context, chatID int64) (*User, error)
	UserByPhone(ctx context.Context, phone string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// Registry registers users and decides who is an admin. Admins are listed
// in the configuration by Telegram chat id or by phone number.
type Registry struct {
	repo        Repository
	logger      *zap.Logger
	adminIDs    map[int64]bool
	adminPhones map[string]bool
	now         func() time.Time
}

func NewRegistry(repo Repository, adminIDs []int64, adminPhones []string, logger *zap.Logger) *Registry {
	r := &Registry{
		repo:        repo,
		logger:      logger,
		adminIDs:    make(map[int64]bool, len(adminIDs)),
		adminPhones: make(map[string]bool, len(adminPhones)),
		now:         time.Now,
	}
	for _, id := range adminIDs {
		r.adminIDs[id] = true
	}
	for _, p := range adminPhones {
		if normalized, err := NormalizePhone(p); err == nil {
			r.adminPhones[normalized] = true
		} else {
			logger.Warn("Ignoring malformed admin phone", zap.String("phone", p))
		}
	}
	return r
}

// Register stores the user behind chatID with the given contact, creating
// it on first contact. The role is recomputed on every registration.
func (r *Registry) Register(ctx context.Context, chatID int64, phone, fullName string) (*User, error) {
	const operation = "users.Registry.Register"

	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	u := &User{
		ChatID:    chatID,
		Phone:     normalized,
		FullName:  strings.TrimSpace(fullName),
		Role:      r.roleFor(chatID, normalized),
		CreatedAt: r.now(),
	}
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	r.logger.Info("User registered",
		zap.Int64("chat_id", chatID),
		zap.String("phone", normalized),
		zap.String("role", string(u.Role)))
	return u, nil
}

func (r *Registry) roleFor(chatID int64, phone string) Role {
	if r.adminIDs[chatID] || r.adminPhones[phone] {
		return RoleAdmin
	}
	return RoleCustomer
}

// IsAdmin reports whether chatID belongs to an admin, either configured
// directly or registered with an admin phone.
func (r *Registry) IsAdmin(ctx context.Context, chatID int64) bool {
	if r.adminIDs[chatID] {
		return true
	}
	u, err := r.repo.UserByChatID(ctx, chatID)
	if err != nil {
		return false
	}
	return r.adminPhones[u.Phone]
}

// AdminChatIDs returns the configured admin chat ids.
func (r *Registry) AdminChatIDs() []int64 {
	ids := make([]int64, 0, len(r.adminIDs))
	for id := range r.adminIDs {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) ByChatID(ctx context.Context, chatID int64) (*User, error) {
	const operation = "users.Registry.ByChatID"

	u, err := r.repo.UserByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return u, nil
}

func (r *Registry) ByPhone(ctx context.Context, phone string) (*User, error) {
	const operation = "users.Registry.ByPhone"

	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	u, err := r.repo.UserByPhone(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return u, nil
}

func (r *Registry) List(ctx context.Context) ([]User, error) {
	const operation = "users.Registry.List"

	list, err := r.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return list, nil
}

// NormalizePhone converts an Iranian mobile number to the 11-digit local
// form 09XXXXXXXXX. Persian and Arabic-Indic digits are accepted.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			continue
		}
		switch {
		case r >= '۰' && r <= '۹':
			r = '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			r = '0' + (r - '٠')
		case r > '9':
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
		}
		b.WriteRune(r)
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "0098") && len(digits) == 14:
		digits = "0" + digits[4:]
	case strings.HasPrefix(digits, "98") && len(digits) == 12:
		digits = "0" + digits[2:]
	case strings.HasPrefix(digits, "9") && len(digits) == 10:
		digits = "0" + digits
	}

	if len(digits) != 11 || !strings.HasPrefix(digits, "09") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return digits, nil
}

// FormatPhone renders 09121234567 as 0912 123 4567.
func FormatPhone(phone string) string {
	if len(phone) != 11 {
		return phone
	}
	return fmt.Sprintf("%s %s %s", phone[:4], phone[4:7], phone[7:])
}
