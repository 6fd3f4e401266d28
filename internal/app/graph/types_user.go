package graph

import (
	"context"
	"time"

	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	graphql "github.com/graph-gophers/graphql-go"
)

// maskedPassword is what the password field always resolves to.
const maskedPassword = "👻 ACCESS DENIED"

// isoTime renders t the way clients parse timestamps: UTC with
// millisecond precision.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// UserResolver serves the User type. It also wraps author and follower
// snapshots, in which case only the snapshot fields are populated.
type UserResolver struct {
	r *Resolver
	u models.User
}

func (r *Resolver) user(u models.User) *UserResolver {
	return &UserResolver{r: r, u: u}
}

func (r *Resolver) userList(us []models.User) []*UserResolver {
	out := make([]*UserResolver, 0, len(us))
	for _, u := range us {
		out = append(out, r.user(u))
	}
	return out
}

// author wraps an embedded author snapshot as a User.
func (r *Resolver) author(a models.AuthorRef) *UserResolver {
	return r.user(models.User{ID: a.ID, Username: a.Username, Avatar: a.Avatar})
}

func (u *UserResolver) ID() graphql.ID            { return graphql.ID(u.u.ID.Hex()) }
func (u *UserResolver) Username() string          { return u.u.Username }
func (u *UserResolver) Email() string             { return u.u.Email }
func (u *UserResolver) Password() string          { return maskedPassword }
func (u *UserResolver) FirstName() string         { return u.u.FirstName }
func (u *UserResolver) LastName() string          { return u.u.LastName }
func (u *UserResolver) Avatar() string            { return u.u.Avatar }
func (u *UserResolver) IsAdmin() *bool            { return &u.u.IsAdmin }
func (u *UserResolver) HideStatsDashboard() *bool { return &u.u.HideStatsDashboard }
func (u *UserResolver) CreatedAt() string         { return isoTime(u.u.CreatedAt) }
func (u *UserResolver) UpdatedAt() string         { return isoTime(u.u.UpdatedAt) }

func (u *UserResolver) EnableNotifications() *NotificationPrefsResolver {
	return &NotificationPrefsResolver{p: u.u.EnableNotifications}
}

func (u *UserResolver) EnableNotificationEmails() *EmailPrefsResolver {
	return &EmailPrefsResolver{p: u.u.EnableNotificationEmails}
}

// Followers loads the users following u.
func (u *UserResolver) Followers(ctx context.Context) ([]*UserResolver, error) {
	if len(u.u.Followers) == 0 {
		return []*UserResolver{}, nil
	}
	us, err := u.r.users.ByIDs(ctx, u.u.Followers)
	if err != nil {
		return nil, u.r.internal("Error fetching followers!", err)
	}
	return u.r.userList(us), nil
}

// Notifications loads u's notifications, newest first. Ids that no longer
// resolve are skipped.
func (u *UserResolver) Notifications(ctx context.Context) ([]*NotificationResolver, error) {
	if len(u.u.Notifications) == 0 {
		return []*NotificationResolver{}, nil
	}
	ns, err := u.r.notifications.ByIDs(ctx, u.u.Notifications)
	if err != nil {
		return nil, u.r.internal("Error fetching notifications!", err)
	}
	return u.r.notificationList(ns), nil
}

// ResetPasswordToken is only visible to the account owner.
func (u *UserResolver) ResetPasswordToken(ctx context.Context) *string {
	if !u.isCaller(ctx) {
		return nil
	}
	return u.u.ResetPasswordToken
}

func (u *UserResolver) ResetPasswordExpires(ctx context.Context) *string {
	if !u.isCaller(ctx) || u.u.ResetPasswordExpires == nil {
		return nil
	}
	s := isoTime(*u.u.ResetPasswordExpires)
	return &s
}

func (u *UserResolver) isCaller(ctx context.Context) bool {
	uid, err := auth.UserID(ctx, false)
	return err == nil && uid != nil && *uid == u.u.ID
}

type NotificationPrefsResolver struct {
	p models.NotificationPrefs
}

func (p *NotificationPrefsResolver) NewCampground() bool  { return p.p.NewCampground }
func (p *NotificationPrefsResolver) NewComment() bool     { return p.p.NewComment }
func (p *NotificationPrefsResolver) NewFollower() bool    { return p.p.NewFollower }
func (p *NotificationPrefsResolver) NewCommentLike() bool { return p.p.NewCommentLike }

type EmailPrefsResolver struct {
	p models.EmailPrefs
}

func (p *EmailPrefsResolver) NewCampground() bool { return p.p.NewCampground }
func (p *EmailPrefsResolver) NewComment() bool    { return p.p.NewComment }
func (p *EmailPrefsResolver) NewFollower() bool   { return p.p.NewFollower }
func (p *EmailPrefsResolver) System() bool        { return p.p.System }

// AllUsersDisplayListResolver is a user row with activity totals.
type AllUsersDisplayListResolver struct {
	r *Resolver
	u models.User
}

func (a *AllUsersDisplayListResolver) ID() graphql.ID    { return graphql.ID(a.u.ID.Hex()) }
func (a *AllUsersDisplayListResolver) Username() string  { return a.u.Username }
func (a *AllUsersDisplayListResolver) FirstName() string { return a.u.FirstName }
func (a *AllUsersDisplayListResolver) LastName() string  { return a.u.LastName }
func (a *AllUsersDisplayListResolver) Avatar() string    { return a.u.Avatar }
func (a *AllUsersDisplayListResolver) CreatedAt() string { return isoTime(a.u.CreatedAt) }

func (a *AllUsersDisplayListResolver) TotalCampgrounds(ctx context.Context) (int32, error) {
	n, err := a.r.campgrounds.CountByAuthor(ctx, a.u.ID)
	if err != nil {
		return 0, a.r.internal("Error counting campgrounds!", err)
	}
	return int32(n), nil
}

func (a *AllUsersDisplayListResolver) TotalComments(ctx context.Context) (int32, error) {
	n, err := a.r.comments.CountByAuthor(ctx, a.u.ID)
	if err != nil {
		return 0, a.r.internal("Error counting comments!", err)
	}
	return int32(n), nil
}

func (a *AllUsersDisplayListResolver) TotalRatings(ctx context.Context) (int32, error) {
	n, err := a.r.ratings.CountByAuthor(ctx, a.u.ID)
	if err != nil {
		return 0, a.r.internal("Error counting ratings!", err)
	}
	return int32(n), nil
}
