package application

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
	"unicode"

	"cat_connect/domain"
	"cat_connect/errors"

	"github.com/cristalhq/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	store     domain.UserStore
	cache     domain.AuthCache
	mailer    domain.Mailer
	secretKey []byte
	tracer    trace.Tracer
	logger    *logrus.Logger
}

func NewAuthService(store domain.UserStore, cache domain.AuthCache, mailer domain.Mailer, secretKey []byte, tracer trace.Tracer, logger *logrus.Logger) *AuthService {
	return &AuthService{
		store:     store,
		cache:     cache,
		mailer:    mailer,
		secretKey: secretKey,
		tracer:    tracer,
		logger:    logger,
	}
}

type ValidationError struct {
	Message string `json:"message"`
}

func (v *ValidationError) Error() string {
	return v.Message
}

func VerifyPassword(s string) (valid bool) {
	hasUpperCase := false
	hasLowerCase := false
	hasDigit := false
	hasSpecial := false

	for _, c := range s {
		switch {
		case unicode.IsNumber(c):
			hasDigit = true
		case unicode.IsUpper(c):
			hasUpperCase = true
		case unicode.IsLower(c):
			hasLowerCase = true
		case unicode.Is(unicode.S, c) || unicode.IsPunct(c):
			hasSpecial = true
		}
	}

	valid = len(s) >= 11 && hasUpperCase && hasLowerCase && hasDigit && hasSpecial
	return
}

func (service *AuthService) Register(ctx context.Context, user *domain.User) (string, int, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	service.logger.Infoln("AuthService.Register : Register service reached")

	if err := user.ValidateUser(); err != nil {
		return "", http.StatusBadRequest, &ValidationError{Message: err.Error()}
	}

	if !VerifyPassword(user.Password) {
		return "", http.StatusBadRequest, &ValidationError{Message: "Invalid password format. It should be at least 11 characters, with at least one uppercase letter, one lowercase letter, one digit, and one special character"}
	}

	blacklisted, err := blackListChecking(user.Password)
	if err == nil && blacklisted {
		service.logger.Warnln("AuthService.Register : password is in blacklist")
		return "", http.StatusBadRequest, fmt.Errorf("Password is in black list, try with another one!")
	}

	existingUser, err := service.store.GetOneUser(ctx, user.Username)
	if err == nil && existingUser != nil {
		return "", http.StatusConflict, fmt.Errorf(errors.UsernameExist)
	}

	existingMail, err := service.store.GetByEmail(ctx, user.Email)
	if err == nil && existingMail != nil {
		return "", http.StatusNotAcceptable, fmt.Errorf(errors.EmailAlreadyExist)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", http.StatusInternalServerError, err
	}
	user.Password = string(hash)

	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	user.Verified = false
	user.CreatedAt = time.Now()

	saved, err := service.store.Register(ctx, user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", http.StatusInternalServerError, err
	}

	validationToken := uuid.New()

	err = service.cache.PostCacheData(ctx, saved.Username, validationToken.String())
	if err != nil {
		service.logger.Errorf("AuthService.Register : failed to post validation data to redis: %s", err)
		return "", http.StatusInternalServerError, err
	}

	body := fmt.Sprintf("Your validation token for your Cat Connect account is:\n%s", validationToken)
	err = service.mailer.Send(saved.Email, "Verify your Cat Connect account", body)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	return saved.Username, http.StatusOK, nil
}

func (service *AuthService) AccountConfirmation(ctx context.Context, validation *domain.RegisterValidation) error {
	ctx, span := service.tracer.Start(ctx, "AuthService.AccountConfirmation")
	defer span.End()

	token, err := service.cache.GetCachedValue(ctx, validation.UserToken)
	if err != nil {
		service.logger.Errorf("AuthService.AccountConfirmation : error fetching validation token from cache: %s", err)
		return fmt.Errorf(errors.ExpiredTokenError)
	}

	if validation.MailToken != token {
		return fmt.Errorf(errors.InvalidTokenError)
	}

	err = service.cache.DelCachedValue(ctx, validation.UserToken)
	if err != nil {
		service.logger.Errorf("AuthService.AccountConfirmation : error in deleting cached value: %s", err)
		return err
	}

	err = service.store.SetVerified(ctx, validation.UserToken)
	if err != nil {
		service.logger.Errorf("AuthService.AccountConfirmation : error in updating user after verify: %s", err)
		return err
	}

	return nil
}

func (service *AuthService) ResendVerificationToken(ctx context.Context, request *domain.ResendVerificationRequest) error {
	ctx, span := service.tracer.Start(ctx, "AuthService.ResendVerificationToken")
	defer span.End()

	if len(request.UserMail) == 0 {
		service.logger.Warnln(errors.InvalidResendMailError)
		return fmt.Errorf(errors.InvalidResendMailError)
	}

	tokenUUID, _ := uuid.NewUUID()

	err := service.cache.PostCacheData(ctx, request.UserToken, tokenUUID.String())
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your validation token for your Cat Connect account is:\n%s", tokenUUID)
	err = service.mailer.Send(request.UserMail, "Verify your Cat Connect account", body)
	if err != nil {
		return err
	}

	return nil
}

func (service *AuthService) SendRecoveryPasswordToken(ctx context.Context, email string) (string, int, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.SendRecoveryPasswordToken")
	defer span.End()

	user, err := service.store.GetByEmail(ctx, email)
	if err != nil || user == nil {
		span.SetStatus(codes.Error, "mail not found")
		return "", http.StatusNotFound, fmt.Errorf("mail does not exist")
	}

	recoverUUID, _ := uuid.NewUUID()

	body := fmt.Sprintf("Your recover password token is:\n%s", recoverUUID)
	err = service.mailer.Send(email, "Recover password on your Cat Connect account", body)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	err = service.cache.PostCacheData(ctx, user.ID.Hex(), recoverUUID.String())
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	return user.ID.Hex(), http.StatusOK, nil
}

func (service *AuthService) CheckRecoveryPasswordToken(ctx context.Context, request *domain.RegisterValidation) error {
	ctx, span := service.tracer.Start(ctx, "AuthService.CheckRecoveryPasswordToken")
	defer span.End()

	if len(request.UserToken) == 0 {
		return fmt.Errorf(errors.InvalidUserTokenError)
	}

	token, err := service.cache.GetCachedValue(ctx, request.UserToken)
	if err != nil {
		return fmt.Errorf(errors.InvalidTokenError)
	}

	if request.MailToken != token {
		return fmt.Errorf(errors.InvalidTokenError)
	}

	_ = service.cache.DelCachedValue(ctx, request.UserToken)
	return nil
}

func (service *AuthService) RecoverPassword(ctx context.Context, recoverPassword *domain.RecoverPasswordRequest) error {
	ctx, span := service.tracer.Start(ctx, "AuthService.RecoverPassword")
	defer span.End()

	if recoverPassword.NewPassword != recoverPassword.RepeatedNew {
		return fmt.Errorf(errors.NotMatchingPasswordsError)
	}

	if !VerifyPassword(recoverPassword.NewPassword) {
		return &ValidationError{Message: "Invalid password format. It should be at least 11 characters, with at least one uppercase letter, one lowercase letter, one digit, and one special character"}
	}

	primitiveID, err := primitive.ObjectIDFromHex(recoverPassword.UserID)
	if err != nil {
		service.logger.Errorf("AuthService.RecoverPassword : error converting user ID to ObjectID: %s", err)
		return err
	}

	user, err := service.store.Get(ctx, primitiveID)
	if err != nil || user == nil {
		return fmt.Errorf("User not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(recoverPassword.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return service.store.UpdatePassword(ctx, user.ID, string(hash))
}

func (service *AuthService) ChangePassword(ctx context.Context, password domain.PasswordChange, username string) (string, int, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.ChangePassword")
	defer span.End()

	user, err := service.store.GetOneUser(ctx, username)
	if err != nil || user == nil {
		return "GetUserErr", http.StatusNotFound, fmt.Errorf("User not found")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password.OldPassword))
	if err != nil {
		return "oldPassErr", http.StatusConflict, fmt.Errorf("Old password is incorrect")
	}

	if password.NewPassword == "" {
		return "Password cannot be empty", http.StatusBadRequest, fmt.Errorf("New password is empty")
	}
	if !VerifyPassword(password.NewPassword) {
		return "Invalid password format. It should be at least 11 characters, with at least one uppercase letter, one lowercase letter, one digit, and one special character", http.StatusBadRequest, fmt.Errorf("Invalid password format")
	}

	if password.NewPassword != password.NewPasswordConfirm {
		return "newPassErr", http.StatusNotAcceptable, fmt.Errorf("New password does not match confirmation")
	}

	newEncryptedPassword, err := bcrypt.GenerateFromPassword([]byte(password.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return "Error trying to hash password.", http.StatusInternalServerError, err
	}

	err = service.store.UpdatePassword(ctx, user.ID, string(newEncryptedPassword))
	if err != nil {
		return "baseErr", http.StatusInternalServerError, err
	}

	return "OK", http.StatusOK, nil
}

func (service *AuthService) Login(ctx context.Context, credentials *domain.Credentials) (string, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := service.store.GetOneUser(ctx, credentials.Username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", fmt.Errorf(errors.InvalidCredentials)
		}
		return "", fmt.Errorf("Error retrieving user: %v", err)
	}

	if user == nil {
		return "", fmt.Errorf(errors.InvalidCredentials)
	}

	if !user.Verified {
		verify := domain.ResendVerificationRequest{
			UserToken: user.Username,
			UserMail:  user.Email,
		}

		err = service.ResendVerificationToken(ctx, &verify)
		if err != nil {
			return "", err
		}

		return user.ID.Hex(), fmt.Errorf(errors.NotVerificatedUser)
	}

	passError := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password))
	if passError != nil {
		return "", fmt.Errorf(errors.InvalidCredentials)
	}

	tokenString, err := service.GenerateJWT(user)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (service *AuthService) GenerateJWT(user *domain.User) (string, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, service.secretKey)
	if err != nil {
		log.Println(err)
		return "", err
	}

	builder := jwt.NewBuilder(signer)

	claims := &domain.Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(time.Minute * 60),
	}

	token, err := builder.Build(claims)
	if err != nil {
		log.Println(err)
		return "", err
	}

	return token.String(), nil
}

func blackListChecking(password string) (bool, error) {

	file, err := os.Open("blacklist.txt")
	if err != nil {
		log.Printf("Error in checking blacklist: %s", err.Error())
		return false, err
	}
	defer file.Close()

	blacklist := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		blacklist[scanner.Text()] = true
	}
	return blacklist[password], nil
}
