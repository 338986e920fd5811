// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// TOTPIssuer is the issuer name shown in authenticator apps.
const TOTPIssuer = "BioCMS"

// TOTPSetup is returned when an admin starts 2FA enrollment.
type TOTPSetup struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qr_code"` // base64-encoded PNG
}

// ValidateCode checks a 6-digit TOTP code against secret at time t,
// allowing one period of clock skew.
func ValidateCode(code, secret string, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, t, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// SetupTOTP generates and stores a new secret for the admin. 2FA is not
// active until EnableTOTP confirms a code from it.
func (s *Service) SetupTOTP(ctx context.Context, id *Identity) (*TOTPSetup, error) {
	admin, err := s.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin.TOTPEnabled {
		if err := s.admins.ResetTOTP(ctx, admin.ID); err != nil {
			return nil, err
		}
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: admin.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}
	if err := s.admins.SetTOTPSecret(ctx, admin.ID, key.Secret()); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode totp qr code: %w", err)
	}
	return &TOTPSetup{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// EnableTOTP turns on 2FA once the admin proves their authenticator
// produces valid codes for the stored secret.
func (s *Service) EnableTOTP(ctx context.Context, id *Identity, code string) error {
	admin, err := s.Me(ctx, id)
	if err != nil {
		return err
	}
	if admin.TOTPSecret == nil {
		return ErrInvalidCode
	}
	if !ValidateCode(code, *admin.TOTPSecret, s.now()) {
		return ErrInvalidCode
	}
	if err := s.admins.EnableTOTP(ctx, admin.ID); err != nil {
		return err
	}
	slog.Info("2fa enabled", "admin_id", admin.ID)
	return nil
}
