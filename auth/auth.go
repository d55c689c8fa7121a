// Package auth handles user registration, login and logout, and the bearer
// tokens that authenticate every other request.
//
// A token is an HS256 JWT whose jti names a row in the token store. A
// request is authenticated only when the signature checks out, the token
// has not expired, and its row still exists; logout deletes the row.
package auth

// Messages returned to clients.
const (
	MsgUnauthenticated    = "Unauthenticated."
	MsgInvalidCredentials = "Invalid credentials"
	MsgRegistered         = "User registered successfully"
	MsgLoggedIn           = "Login successful"
	MsgLoggedOut          = "Successfully logged out"
	MsgTooManyRequests    = "Too many attempts. Please try again later."

	msgEmailTaken = "The email has already been taken."
)

// TokenType is reported next to every issued token.
const TokenType = "Bearer"
