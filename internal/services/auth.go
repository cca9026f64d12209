package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"learngate/internal/models"
)

type StudentStore interface {
	Create(ctx context.Context, s *models.Student) error
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	List(ctx context.Context) ([]*models.Student, error)
	Count(ctx context.Context) (int, error)
}

type AdminStore interface {
	Create(ctx context.Context, a *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Count(ctx context.Context) (int, error)
}

type AuthService struct {
	students StudentStore
	admins   AdminStore

	// First-run bootstrap credential. Usable only while no admin row
	// exists; after that every admin login goes through the stored hash.
	bootstrapEmail    string
	bootstrapPassword string
}

func NewAuthService(students StudentStore, admins AdminStore, bootstrapEmail, bootstrapPassword string) *AuthService {
	return &AuthService{
		students:          students,
		admins:            admins,
		bootstrapEmail:    bootstrapEmail,
		bootstrapPassword: bootstrapPassword,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (s *AuthService) RegisterStudent(ctx context.Context, form models.SignupForm) (*models.Student, error) {
	if form.Name == "" {
		return nil, &ValidationError{Message: "Name is required"}
	}
	if !emailRegex.MatchString(form.Email) {
		return nil, &ValidationError{Message: "Invalid email format"}
	}
	if err := validatePassword(form.Password); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if len(form.PIN) < 4 {
		return nil, &ValidationError{Message: "Security PIN must be at least 4 characters"}
	}

	// Fail fast on duplicates; the unique index still backstops the race.
	_, err := s.students.GetByEmail(ctx, form.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already exists"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(form.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}

	student := &models.Student{
		Name:         form.Name,
		Email:        form.Email,
		PasswordHash: string(passwordHash),
		PINHash:      string(pinHash),
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// LoginStudent deliberately returns the same message for an unknown email
// and a wrong password. Block status is checked before the password, so a
// blocked student learns they are blocked even with a stale password.
func (s *AuthService) LoginStudent(ctx context.Context, email, password string) (*models.Student, error) {
	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid credentials"}
		}
		return nil, err
	}

	if student.IsBlocked {
		return nil, &ForbiddenError{Message: "Your account is blocked"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid credentials"}
	}

	return student, nil
}

func (s *AuthService) GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Student not found"}
		}
		return nil, err
	}
	return student, nil
}

// FindStudentByEmail backs the forgot-password form.
func (s *AuthService) FindStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "No account found with that email"}
		}
		return nil, err
	}
	return student, nil
}

// ResetPassword replaces the stored password hash after the student proves
// their identity with the security PIN set at signup.
func (s *AuthService) ResetPassword(ctx context.Context, form models.ResetPasswordForm) error {
	student, err := s.FindStudentByEmail(ctx, form.Email)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PINHash), []byte(form.PIN)); err != nil {
		return &UnauthorizedError{Message: "Incorrect security PIN"}
	}

	if err := validatePassword(form.NewPassword); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.students.UpdatePassword(ctx, student.ID, string(hash))
}

// LoginAdmin authenticates against the admins table. While that table is
// empty, the configured bootstrap credential creates the first admin and
// logs it in; once any admin exists the bootstrap path is dead.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		if email == s.bootstrapEmail && password == s.bootstrapPassword {
			count, err := s.admins.Count(ctx)
			if err != nil {
				return nil, err
			}
			if count == 0 {
				return s.createBootstrapAdmin(ctx, email, password)
			}
		}

		return nil, &UnauthorizedError{Message: "Invalid Admin Credentials"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid credentials"}
	}

	return admin, nil
}

func (s *AuthService) createBootstrapAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	admin := &models.Admin{Email: email, PasswordHash: string(hash)}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AuthService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.students.List(ctx)
}

func (s *AuthService) StudentCount(ctx context.Context) (int, error) {
	return s.students.Count(ctx)
}

// ToggleBlocked flips a student's blocked flag. The gate re-reads the row on
// every request, so the flip takes effect on the student's next request.
func (s *AuthService) ToggleBlocked(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Student not found"}
		}
		return nil, err
	}

	if err := s.students.SetBlocked(ctx, student.ID, !student.IsBlocked); err != nil {
		return nil, err
	}

	student.IsBlocked = !student.IsBlocked
	return student, nil
}

func validatePassword(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("Password must be at least 8 characters")
	}
	hasNumber := false
	for _, ch := range pw {
		if unicode.IsDigit(ch) {
			hasNumber = true
			break
		}
	}
	if !hasNumber {
		return fmt.Errorf("Password must contain at least one number")
	}
	return nil
}
