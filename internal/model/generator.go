package model

import "time"

// GenerateRequest describes a batch of passwords.
// A nil SpecialChars selects the configured default alphabet; a pointer to
// an empty string is an explicit (and invalid) empty alphabet.
type GenerateRequest struct {
	Length       int     `json:"length"`
	Count        int     `json:"count"`
	SpecialChars *string `json:"special_chars"`
	Hash         bool    `json:"hash"`
}

// GeneratedPassword is a single generated password and, when requested,
// its Argon2id PHC hash.
type GeneratedPassword struct {
	Password string `json:"password"`
	Hash     string `json:"hash,omitempty"`
}

// GenerateResponse is the result of a batch, in request order.
type GenerateResponse struct {
	Passwords []GeneratedPassword `json:"passwords"`
	Length    int                 `json:"length"`
	Count     int                 `json:"count"`
	Elapsed   time.Duration       `json:"elapsed_ns"`
}
