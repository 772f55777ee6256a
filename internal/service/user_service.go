package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"platefeed/internal/models"
	"platefeed/internal/repository"
	"platefeed/internal/validation"
)

// UserService handles account management and profile reads.
type UserService struct {
	userRepo repository.UserRepository
}

// SignupInput is the payload for registering an account.
type SignupInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginInput is the payload for authenticating.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserProfile is the public view of one user. Posts is the ordered sequence
// of the user's post ids, oldest first; clients fetch full posts by id.
type UserProfile struct {
	UserID            uint                               `json:"userId"`
	Username          string                             `json:"username"`
	HealthScore       float64                            `json:"healthScore"`
	ChallengeProgress [models.ChallengeCount + 1]float64 `json:"challengeProgress"`
	Posts             []uint                             `json:"posts"`
}

// UserSummary is the compact listing view of one user.
type UserSummary struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Signup registers a new account. A duplicate email is a validation failure,
// matching the API contract clients already depend on.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("Email, username, and password are required")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email and password. An unknown email is NotFound; a
// wrong password is Unauthorized.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("Account", 0)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Incorrect password")
	}
	return user, nil
}

// GetProfile returns the user's public profile with posts and aggregates.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*UserProfile, error) {
	if userID == 0 {
		return nil, models.NewValidationError("User ID is required")
	}

	user, err := s.userRepo.GetByIDWithPosts(ctx, userID)
	if err != nil {
		return nil, err
	}

	postIDs := make([]uint, 0, len(user.Posts))
	for _, p := range user.Posts {
		postIDs = append(postIDs, p.ID)
	}

	return &UserProfile{
		UserID:            user.ID,
		Username:          user.Username,
		HealthScore:       user.HealthScoreAvg,
		ChallengeProgress: user.ChallengeProgress(),
		Posts:             postIDs,
	}, nil
}

// ListUsers returns a compact listing of all users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]UserSummary, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, UserSummary{UserID: u.ID, Username: u.Username})
	}
	return summaries, nil
}
