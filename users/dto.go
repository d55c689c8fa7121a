package users

import "github.com/user/taskmaster-go/auth"

// ProfileData is the data payload of GET /profile.
type ProfileData struct {
	User *auth.User `json:"user"`
}
