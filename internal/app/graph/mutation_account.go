package graph

import (
	"context"
	"errors"
	"strings"

	userstore "github.com/dalemusser/yelpcamp/internal/app/store/users"
	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/app/system/htmlsanitize"
	"github.com/dalemusser/yelpcamp/internal/app/system/inputval"
	"github.com/dalemusser/yelpcamp/internal/app/system/mailer"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgLoginFailed       = "Unable to login!"
	msgUsernameTaken     = "Please choose a different username!"
	msgEmailTaken        = "Please choose a different email!"
	msgRegistrationError = "Server error registering new user!"
)

// AuthPayloadResolver is a signed credential and the account it belongs to.
type AuthPayloadResolver struct {
	token     string
	expiresIn int32
	user      *UserResolver
}

func (p *AuthPayloadResolver) Token() string       { return p.token }
func (p *AuthPayloadResolver) ExpiresIn() int32    { return p.expiresIn }
func (p *AuthPayloadResolver) User() *UserResolver { return p.user }

func (r *Resolver) authPayload(u models.User) (*AuthPayloadResolver, error) {
	token, err := r.tokens.Generate(u.ID)
	if err != nil {
		return nil, r.internal("Error issuing credential!", err)
	}
	return &AuthPayloadResolver{
		token:     token,
		expiresIn: int32(r.tokens.TTL().Seconds()),
		user:      r.user(u),
	}, nil
}

type registerInput struct {
	Username         string
	Email            string
	Password         string
	Firstname        string
	Lastname         string
	IsAdmin          *bool
	IsPublisher      *bool
	IsRequestedAdmin *bool
}

type registerArgs struct {
	RegistrationData registerInput
}

// registration is the checked form of registerInput.
type registration struct {
	Username  string `validate:"required,max=50" label:"Username"`
	Email     string `validate:"required,mailbox" label:"Email"`
	Password  string `validate:"required" label:"Password"`
	FirstName string `validate:"required,max=100" label:"First name"`
	LastName  string `validate:"required,max=100" label:"Last name"`
}

func flag(name string, v *bool) (bool, error) {
	if v == nil {
		return false, nil
	}
	out, err := inputval.Field(name, *v, inputval.KindBoolean)
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

// Register creates an account and signs the caller in.
func (r *Resolver) Register(ctx context.Context, args registerArgs) (*AuthPayloadResolver, error) {
	in := args.RegistrationData

	var reg registration
	var err error
	for _, f := range []struct {
		name string
		val  string
		dst  *string
	}{
		{"username", in.Username, &reg.Username},
		{"email", in.Email, &reg.Email},
		{"password", in.Password, &reg.Password},
		{"firstName", in.Firstname, &reg.FirstName},
		{"lastName", in.Lastname, &reg.LastName},
	} {
		if *f.dst, err = inputval.String(f.name, f.val); err != nil {
			return nil, err
		}
	}
	reg.FirstName = htmlsanitize.StripTags(reg.FirstName)
	reg.LastName = htmlsanitize.StripTags(reg.LastName)
	if res := inputval.Validate(reg); res.HasErrors() {
		return nil, apperr.Validation(res.First())
	}

	isAdmin, err := flag("isAdmin", in.IsAdmin)
	if err != nil {
		return nil, err
	}
	isPublisher, err := flag("isPublisher", in.IsPublisher)
	if err != nil {
		return nil, err
	}
	isRequestedAdmin, err := flag("isRequestedAdmin", in.IsRequestedAdmin)
	if err != nil {
		return nil, err
	}

	taken, err := r.users.UsernameExists(ctx, reg.Username)
	if err != nil {
		return nil, r.internal(msgRegistrationError, err)
	}
	if taken {
		return nil, apperr.Conflict(msgUsernameTaken)
	}
	taken, err = r.users.EmailExists(ctx, reg.Email)
	if err != nil {
		return nil, r.internal(msgRegistrationError, err)
	}
	if taken {
		return nil, apperr.Conflict(msgEmailTaken)
	}

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return nil, apperr.Validation("Password must be 8 characters or longer!")
	}
	if err != nil {
		return nil, r.internal(msgRegistrationError, err)
	}

	u, err := r.users.Create(ctx, models.User{
		Username:         reg.Username,
		Email:            reg.Email,
		Password:         hash,
		FirstName:        reg.FirstName,
		LastName:         reg.LastName,
		Avatar:           r.defaultAvatar,
		IsAdmin:          isAdmin,
		IsPublisher:      isPublisher,
		IsRequestedAdmin: isRequestedAdmin,
		EnableNotificationEmails: models.EmailPrefs{
			System: true,
		},
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateUsername):
		return nil, apperr.Conflict(msgUsernameTaken)
	case errors.Is(err, userstore.ErrDuplicateEmail):
		return nil, apperr.Conflict(msgEmailTaken)
	case err != nil:
		return nil, r.internal(msgRegistrationError, err)
	}

	r.audit.Registered(ctx, u.ID, u.Username)
	r.mail.Dispatch(mailer.ProcessNewUser, mailer.BuildWelcomeEmail(u.Email, mailer.WelcomeData{
		ClientURL: r.clientURL,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}))

	return r.authPayload(u)
}

type loginInput struct {
	Username *string
	Email    *string
	Password string
}

type loginArgs struct {
	Credentials loginInput
}

// Login exchanges a username or email and password for a credential.
// Every failure looks the same to the caller.
func (r *Resolver) Login(ctx context.Context, args loginArgs) (*AuthPayloadResolver, error) {
	in := args.Credentials

	var via, loginID string
	if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
		via, loginID = "username", strings.TrimSpace(*in.Username)
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		via, loginID = "email", strings.TrimSpace(*in.Email)
	}
	if loginID == "" || in.Password == "" {
		r.audit.LoginFailedMissingInput(ctx)
		return nil, apperr.Authentication(msgLoginFailed)
	}

	var u *models.User
	var err error
	if via == "email" {
		u, err = r.users.GetByEmail(ctx, loginID)
	} else {
		u, err = r.users.GetByUsername(ctx, loginID)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.audit.LoginFailedUserNotFound(ctx, loginID)
		return nil, apperr.Authentication(msgLoginFailed)
	}
	if err != nil {
		r.log.Error("login lookup failed", zap.String("via", via), zap.Error(err))
		return nil, apperr.Authentication(msgLoginFailed)
	}

	if !auth.MatchPassword(in.Password, u.Password) {
		r.audit.LoginFailedWrongPassword(ctx, u.ID, loginID)
		return nil, apperr.Authentication(msgLoginFailed)
	}

	r.audit.LoginSuccess(ctx, u.ID, via, loginID)
	return r.authPayload(*u)
}
