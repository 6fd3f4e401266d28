package mailer

import (
	"bytes"
	"html/template"
	texttemplate "text/template"
)

// SiteName is the display name used in subjects and signatures.
const SiteName = "Angular-YelpCamp"

// WelcomeData fills the registration email.
type WelcomeData struct {
	ClientURL string
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// NewFollowerData fills the new-follower email.
type NewFollowerData struct {
	ClientURL        string
	RecipientName    string
	FollowerID       string
	FollowerUsername string
	FollowerAvatar   string
}

// ResetRequestData fills the password-reset link email.
type ResetRequestData struct {
	ClientURL string
	Token     string
}

// ResetConfirmationData fills the password-changed email.
type ResetConfirmationData struct {
	Username string
	Email    string
}

var (
	welcomeHTML     = template.Must(template.New("welcome").Parse(welcomeHTMLTemplate))
	newFollowerHTML = template.Must(template.New("follower").Parse(newFollowerHTMLTemplate))
	resetRequestTxt = texttemplate.Must(texttemplate.New("reset").Parse(resetRequestTextTemplate))
	resetConfirmTxt = texttemplate.Must(texttemplate.New("confirm").Parse(resetConfirmTextTemplate))
)

func render(exec func(*bytes.Buffer) error) string {
	var buf bytes.Buffer
	if err := exec(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// BuildWelcomeEmail renders the registration greeting sent to to.
func BuildWelcomeEmail(to string, data WelcomeData) Email {
	return Email{
		To:       to,
		Subject:  "Welcome to " + SiteName + "!",
		HTMLBody: render(func(b *bytes.Buffer) error { return welcomeHTML.Execute(b, data) }),
	}
}

// BuildNewFollowerEmail renders the notice that someone followed the recipient.
func BuildNewFollowerEmail(to string, data NewFollowerData) Email {
	return Email{
		To:       to,
		Subject:  SiteName + ": You have a new follower!",
		HTMLBody: render(func(b *bytes.Buffer) error { return newFollowerHTML.Execute(b, data) }),
	}
}

// BuildResetRequestEmail renders the plain-text reset link email.
func BuildResetRequestEmail(to string, data ResetRequestData) Email {
	return Email{
		To:       to,
		Subject:  SiteName + ": Password Reset",
		TextBody: render(func(b *bytes.Buffer) error { return resetRequestTxt.Execute(b, data) }),
	}
}

// BuildResetConfirmationEmail renders the plain-text password-changed notice.
func BuildResetConfirmationEmail(to string, data ResetConfirmationData) Email {
	return Email{
		To:       to,
		Subject:  SiteName + ": Your password has been changed",
		TextBody: render(func(b *bytes.Buffer) error { return resetConfirmTxt.Execute(b, data) }),
	}
}

const welcomeHTMLTemplate = `<div style="width: 60%; margin: 50px auto;">
  <h2>Greetings, {{.FirstName}}!</h2>
  <h3>We are glad you chose to be a part of our
    <a href="{{.ClientURL}}" target="_blank">Angular-YelpCamp community.</a>
  </h3>
  <p>Feel free to explore fellow member campgrounds, post your own camps or let
    the members know what you think about their camps!</p>
  <hr />
  <p>For your records, your registration details are:</p>
  <ul>
    <li>@username: {{.Username}}</li>
    <li>E-mail: {{.Email}}</li>
    <li>First Name: {{.FirstName}}</li>
    <li>Last Name: {{.LastName}}</li>
  </ul>
  <h4>To manage your information, <a href="{{.ClientURL}}/user/current" target="_blank">click here</a></h4>
  <hr />
  <h3>Warm welcome, and happy camping!!</h3>
  <h4>Best Regards,</h4>
  <h3>The Angular-YelpCamp Team</h3>
</div>
`

const newFollowerHTMLTemplate = `<div style="width: 60%; margin: 50px auto;">
  <h2>Hey, {{.RecipientName}}!</h2>
  <h2>You have a new follower -</h2>
  <hr />
  <div>
    <span style="display: flex; justify-content: flex-start;">
      <img style="width: 100px; height: 100px; object-fit: cover; overflow: hidden; border-radius: 50%;"
        src="{{.FollowerAvatar}}" alt="{{.FollowerUsername}}" />
      &nbsp;&nbsp;
      <h2>{{.FollowerUsername}}</h2>
    </span>
  </div>
  <hr />
  <h4>To see complete user profile, <a href="{{.ClientURL}}/user/other/{{.FollowerID}}" target="_blank">click here</a></h4>
  <h4>To see all notifications, <a href="{{.ClientURL}}/user/notifications" target="_blank">click here</a></h4>
  <h4>To manage notifications, <a href="{{.ClientURL}}/user/current" target="_blank">click here</a></h4>
  <h4>Happy camping, and keep posting!</h4>
  <h4>Best Regards,</h4>
  <h3>The Angular-YelpCamp Team</h3>
</div>
`

const resetRequestTextTemplate = `You are receiving this because you (or someone else) have requested the reset of the Angular-YelpCamp password.

Please click on the following link, or paste this into your browser to complete the process:
{{.ClientURL}}/auth/reset/{{.Token}}

If you did not request this, please ignore this email and your Angular-YelpCamp password will remain unchanged.

The Angular-YelpCamp Team
`

const resetConfirmTextTemplate = `Hello {{.Username}},

This is a confirmation that the password for your account {{.Email}} has just changed.

In case you have not requested this change, please contact Angular-YelpCamp support immediately.

The Angular-YelpCamp Team
`
