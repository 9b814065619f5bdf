package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pennyflow/pennyflow-backend/internal/domain"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo    domain.UserRepository
	accountRepo domain.AccountRepository
	walletRepo  domain.WalletRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, accountRepo domain.AccountRepository, walletRepo domain.WalletRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		walletRepo:  walletRepo,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	Account   *domain.Account
	IsNewUser bool
}

// AuthenticateUser handles the authentication flow after the Auth0 callback.
// Creates the user, their account and a zero-balance wallet on first login.
func (s *AuthService) AuthenticateUser(auth0ID, email string, name *string) (*AuthResult, error) {
	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to look up user")
			return nil, err
		}
		user, err = s.userRepo.Create(&domain.User{
			Auth0ID: auth0ID,
			Email:   email,
			Name:    name,
		})
		if err != nil {
			log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create user")
			return nil, err
		}
	}

	account, err := s.accountRepo.GetByUserID(user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to get account")
			return nil, err
		}
		account, err = s.accountRepo.Create(&domain.Account{
			UserID: user.ID,
			Name:   "Personal",
		})
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to create account")
			return nil, err
		}
		if _, err := s.walletRepo.GetOrCreate(account.ID); err != nil {
			log.Error().Err(err).Int32("account_id", account.ID).Msg("Failed to create wallet")
			return nil, err
		}
		log.Info().Str("user_id", user.ID.String()).Msg("Created new user with account and wallet")
		return &AuthResult{User: user, Account: account, IsNewUser: true}, nil
	}

	log.Info().Str("user_id", user.ID.String()).Msg("Existing user authenticated")
	return &AuthResult{User: user, Account: account, IsNewUser: false}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetAccountByAuth0ID retrieves a user's account by their Auth0 ID
func (s *AuthService) GetAccountByAuth0ID(auth0ID string) (*domain.Account, error) {
	return s.accountRepo.GetByAuth0ID(auth0ID)
}

// GetAccountByID retrieves an account by its ID
func (s *AuthService) GetAccountByID(id int32) (*domain.Account, error) {
	return s.accountRepo.GetByID(id)
}
