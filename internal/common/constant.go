package common

// AuthorizationHeaderName carries the bearer token on token-gated requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the scheme prefix expected in the Authorization header.
const BearerScheme = "Bearer"
