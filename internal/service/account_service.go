// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"mapayl/internal/domain"
	"mapayl/internal/metrics"
	"mapayl/internal/repository"
	"mapayl/internal/util"
	"mapayl/pkg/db"
)

const (
	kindUser      = "user"
	kindSuperuser = "superuser"
)

// Page sizes served by ListUsers.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageBounds clamps a requested page to what ListUsers serves. A limit
// outside 1..MaxPageSize falls back to DefaultPageSize or MaxPageSize.
func PageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// PasswordHasher hashes and verifies account passwords.
// *crypto.PasswordHasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
	Unusable() (string, error)
}

// AccountService defines the interface for account provisioning and profile maintenance.
type AccountService interface {
	CreateUser(ctx context.Context, email, password string, opts ...CreateOption) (*domain.User, error)
	CreateSuperuser(ctx context.Context, email, password string, opts ...CreateOption) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch) (*domain.User, error)
	SetKYCStatus(ctx context.Context, id uuid.UUID, status domain.KYCStatus) (*domain.User, error)
	MarkKYCSubmitted(ctx context.Context, id uuid.UUID) (*domain.User, error)
	CompleteOnboarding(ctx context.Context, id uuid.UUID) (*domain.User, error)
	CheckPassword(ctx context.Context, email, password string) (*domain.User, error)
}

// accountService implements the AccountService interface.
type accountService struct {
	dbBeginner db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor repository.DBExecutor // For single statements outside a transaction
	userRepo   repository.UserRepository
	hasher     PasswordHasher
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	logger     *zap.Logger
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *zap.Logger,
) AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &accountService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		hasher:     hasher,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		logger:     logger,
	}
}

// CreateUser creates and saves a regular user. is_staff and is_superuser
// default to false unless supplied through options.
func (s *accountService) CreateUser(ctx context.Context, email, password string, opts ...CreateOption) (*domain.User, error) {
	p := newCreateParams(opts)
	setDefault(&p.isStaff, false)
	setDefault(&p.isSuperuser, false)
	return s.createUser(ctx, kindUser, email, password, p)
}

// CreateSuperuser creates and saves a user with is_staff and is_superuser set.
// Explicitly passing either flag as false is rejected.
func (s *accountService) CreateSuperuser(ctx context.Context, email, password string, opts ...CreateOption) (*domain.User, error) {
	p := newCreateParams(opts)
	setDefault(&p.isStaff, true)
	setDefault(&p.isSuperuser, true)

	if !*p.isStaff {
		s.recordFailure(kindSuperuser, "invalid_flags")
		return nil, util.ErrSuperuserNotStaff
	}
	if !*p.isSuperuser {
		s.recordFailure(kindSuperuser, "invalid_flags")
		return nil, util.ErrSuperuserNotSuperuser
	}

	return s.createUser(ctx, kindSuperuser, email, password, p)
}

// createUser is the single path through which every account is created.
func (s *accountService) createUser(ctx context.Context, kind, email, password string, p *createParams) (*domain.User, error) {
	if email == "" {
		s.recordFailure(kind, "missing_email")
		return nil, util.ErrEmailRequired
	}

	user := domain.NewUser(NormalizeEmail(email))
	if p.profile != nil {
		if p.profile.KYCStatus != "" && !p.profile.KYCStatus.Valid() {
			s.recordFailure(kind, "invalid_input")
			return nil, util.ErrInvalidKYCStatus
		}
		user.Profile = *p.profile
		user.Profile.ApplyDefaults(user.DateJoined)
	}
	user.IsStaff = *p.isStaff
	user.IsSuperuser = *p.isSuperuser
	if p.isActive != nil {
		user.IsActive = *p.isActive
	}

	if err := s.setPassword(user, password); err != nil {
		s.recordFailure(kind, "password")
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		if util.IsError(err, util.ErrDuplicateEntry) {
			s.recordFailure(kind, "duplicate")
		} else {
			s.recordFailure(kind, "storage")
		}
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	metrics.UsersCreated.WithLabelValues(kind).Inc()
	s.logger.Info("Account created",
		zap.String("user_id", user.ID.String()),
		zap.String("kind", kind),
	)
	return user, nil
}

// setPassword stores a one-way hash of password, or an unusable marker when it is empty.
func (s *accountService) setPassword(user *domain.User, password string) error {
	var (
		hash string
		err  error
	)
	if password == "" {
		hash, err = s.hasher.Unusable()
	} else {
		hash, err = s.hasher.Hash(password)
	}
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}

func (s *accountService) recordFailure(kind, reason string) {
	metrics.UserCreateFailures.WithLabelValues(kind, reason).Inc()
}

// GetUser retrieves a user by ID.
func (s *accountService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email; the email is normalized first.
func (s *accountService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, util.ErrEmailRequired
	}
	user, err := s.userRepo.GetUserByEmail(ctx, s.dbExecutor, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// ListUsers returns a page of users and the total number of users.
// limit and offset are clamped with PageBounds.
func (s *accountService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	limit, offset = PageBounds(limit, offset)

	users, total, err := s.userRepo.ListUsers(ctx, s.dbExecutor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// UpdateProfile applies a partial profile update.
func (s *accountService) UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch) (*domain.User, error) {
	return s.mutate(ctx, "update profile", id, func(user *domain.User, _ time.Time) error {
		if err := patch.Apply(&user.Profile); err != nil {
			return fmt.Errorf("%w: %w", util.ErrInvalidInput, err)
		}
		return nil
	})
}

// SetKYCStatus records a new KYC status. The first transition to verified
// also marks KYC as complete and stamps the completion date.
func (s *accountService) SetKYCStatus(ctx context.Context, id uuid.UUID, status domain.KYCStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, util.ErrInvalidKYCStatus
	}

	user, err := s.mutate(ctx, "set kyc status", id, func(user *domain.User, now time.Time) error {
		user.KYCStatus = status
		if status == domain.KYCStatusVerified && !user.KYCComplete {
			user.KYCComplete = true
			user.KYCCompleteDate = null.TimeFrom(now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.KYCStatusChanges.WithLabelValues(string(status)).Inc()
	s.logger.Info("KYC status updated",
		zap.String("user_id", id.String()),
		zap.String("kyc_status", string(status)),
	)
	return user, nil
}

// MarkKYCSubmitted records that the user has handed in KYC material.
func (s *accountService) MarkKYCSubmitted(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.mutate(ctx, "mark kyc submitted", id, func(user *domain.User, _ time.Time) error {
		user.KYCSubmitted = true
		return nil
	})
}

// CompleteOnboarding marks the onboarding flow as finished. The completion
// date is kept from the first call.
func (s *accountService) CompleteOnboarding(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.mutate(ctx, "complete onboarding", id, func(user *domain.User, now time.Time) error {
		if !user.OnBoardingComplete {
			user.OnBoardingComplete = true
			user.OnBoardingCompleteDate = null.TimeFrom(now)
		}
		return nil
	})
}

// CheckPassword returns the active user owning email if password matches.
func (s *accountService) CheckPassword(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) || errors.Is(err, util.ErrEmailRequired) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !s.hasher.Check(password, user.PasswordHash) {
		return nil, util.ErrInvalidCredentials
	}
	return user, nil
}

// mutate loads the user with a row lock, applies fn and writes it back in one transaction.
func (s *accountService) mutate(ctx context.Context, op string, id uuid.UUID, fn func(user *domain.User, now time.Time) error) (*domain.User, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, txExecutor, id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: failed to get user %s: %w", op, id, err)
	}

	now := time.Now().UTC()
	if err := fn(user, now); err != nil {
		return nil, err
	}
	user.UpdatedAt = now

	if err := s.userRepo.UpdateUser(ctx, txExecutor, user); err != nil {
		return nil, fmt.Errorf("%s: failed to update user %s: %w", op, id, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return user, nil
}
