package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/madhuracj/weblate/internal/mail"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/sirupsen/logrus"
)

// resetKeyMaxAge is how long a password reset link stays valid.
const resetKeyMaxAge = 3 * 24 * time.Hour

// NewAccountService creates a new AccountService.
func NewAccountService(store store.Store, mailer mail.Mailer, siteURL, adminMail string) *AccountService {
	return &AccountService{
		store:     store,
		mailer:    mailer,
		siteURL:   siteURL,
		adminMail: adminMail,
	}
}

// AccountService handles registration, login and profile management.
type AccountService struct {
	store     store.Store
	mailer    mail.Mailer
	siteURL   string
	adminMail string
}

// Register creates an inactive account and mails the activation link.
func (a AccountService) Register(ctx context.Context, username, email, fullName, password string) (*model.User, error) {
	if _, err := a.store.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrExists
	}

	user := &model.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		Role:          model.RoleUser,
		ActivationKey: uuid.New().String(),
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	err := a.mailer.Send(ctx, &mail.Message{
		To:      []string{user.Email},
		Subject: "Your registration on Weblate",
		Body: fmt.Sprintf(
			"Thank you for registering on Weblate.\n\n"+
				"To activate your account, open the following link:\n\n%s/accounts/activate/%s\n",
			a.siteURL, user.ActivationKey),
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("username", user.Username).Info("registered new user")

	return user, nil
}

// Activate turns an account active using its activation key.
func (a AccountService) Activate(ctx context.Context, key string) (*model.User, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	user, err := a.store.GetUserByActivationKey(ctx, key)
	if err != nil {
		return nil, wrapNotFound(err)
	}

	user.IsActive = true
	user.ActivationKey = ""
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies a username and password pair.
func (a AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := a.store.GetUserByUsername(ctx, username)
	if wrapNotFound(err) == ErrNotFound {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrBadCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// ChangePassword sets a new password after verifying the current one.
func (a AccountService) ChangePassword(ctx context.Context, user *model.User, current, replacement string) error {
	if !user.CheckPassword(current) {
		return ErrBadCredentials
	}
	if err := user.SetPassword(replacement); err != nil {
		return err
	}

	return a.store.UpdateUser(ctx, user)
}

// RequestReset generates a password reset key and mails the reset link.
func (a AccountService) RequestReset(ctx context.Context, email string) error {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return wrapNotFound(err)
	}

	now := time.Now()
	user.ResetKey = uuid.New().String()
	user.ResetSentAt = &now
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	return a.mailer.Send(ctx, &mail.Message{
		To:      []string{user.Email},
		Subject: "Password reset on Weblate",
		Body: fmt.Sprintf(
			"You have requested a password reset.\n\n"+
				"To choose a new password, open the following link:\n\n%s/accounts/password/reset/confirm/%s\n\n"+
				"If you did not request this, you can ignore this message.\n",
			a.siteURL, user.ResetKey),
	})
}

// ResetPassword sets a new password using a reset key from the mailed link.
func (a AccountService) ResetPassword(ctx context.Context, key, password string) error {
	if key == "" {
		return ErrNotFound
	}
	user, err := a.store.GetUserByResetKey(ctx, key)
	if err != nil {
		return wrapNotFound(err)
	}
	if user.ResetSentAt == nil || time.Since(*user.ResetSentAt) > resetKeyMaxAge {
		return ErrExpiredKey
	}

	if err := user.SetPassword(password); err != nil {
		return err
	}
	user.ResetKey = ""
	user.ResetSentAt = nil

	return a.store.UpdateUser(ctx, user)
}

// UpdateProfile stores the full name and the set of languages the user
// translates into.
func (a AccountService) UpdateProfile(ctx context.Context, user *model.User, fullName string, langCodes []string) error {
	user.FullName = fullName
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	languages := make([]*model.Language, 0, len(langCodes))
	for _, code := range langCodes {
		lang, err := a.store.GetLanguageByCode(ctx, code)
		if wrapNotFound(err) == ErrNotFound {
			continue
		}
		if err != nil {
			return err
		}
		languages = append(languages, lang)
	}

	return a.store.SetUserLanguages(ctx, user.ID, languages)
}

// Contact forwards a message from the contact form to the site admins.
func (a AccountService) Contact(ctx context.Context, name, email, subject, message string) error {
	return a.mailer.Send(ctx, &mail.Message{
		To:      []string{a.adminMail},
		Subject: subject,
		Body:    fmt.Sprintf("Message from %s <%s>:\n\n%s\n", name, email, message),
	})
}
