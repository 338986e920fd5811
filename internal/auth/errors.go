// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials means the email, password or TOTP code did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTOTPRequired means the password matched but the account needs a
	// TOTP code. It matches ErrInvalidCredentials.
	ErrTOTPRequired = fmt.Errorf("%w: totp code required", ErrInvalidCredentials)
	// ErrUnauthenticated means no usable token was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrTokenExpired means the token was well-formed but past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrAccountInactive means the account exists but has been disabled.
	ErrAccountInactive = errors.New("account inactive")
	// ErrForbidden means the identity lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCode means a TOTP code failed verification during enrollment.
	ErrInvalidCode = errors.New("invalid totp code")
	// ErrEmailTaken means another admin already uses the email.
	ErrEmailTaken = errors.New("email already in use")
)
