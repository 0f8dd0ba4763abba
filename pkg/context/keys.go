package context

const (
	// TokenNameKey is the context key for the token name supplied by the caller
	TokenNameKey = "tokenName"
	// UsernameCountKey is the context key for the number of usernames in the check request
	UsernameCountKey = "usernameCount"
)
