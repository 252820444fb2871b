package common

// AuthorizationHeader carries the access token, either raw or as "Bearer <token>".
const AuthorizationHeader = "Authorization"

// BearerPrefix is the optional scheme prefix accepted in AuthorizationHeader.
const BearerPrefix = "Bearer "
